package cflr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddEdge(t *testing.T) {
	g := NewGraph()

	assert.False(t, g.HasEdge(0, 1, Copy))
	assert.True(t, g.AddEdge(0, 1, Copy))
	assert.True(t, g.HasEdge(0, 1, Copy))
	assert.Equal(t, 1, g.NumEdges())

	// Set semantics: re-inserting is a no-op.
	assert.False(t, g.AddEdge(0, 1, Copy))
	assert.Equal(t, 1, g.NumEdges())

	// Same endpoints under a different label is a distinct edge, as is the
	// reversed direction.
	assert.True(t, g.AddEdge(0, 1, Store))
	assert.True(t, g.AddEdge(1, 0, Copy))
	assert.Equal(t, 3, g.NumEdges())

	// Self-loops are legal.
	assert.True(t, g.AddEdge(2, 2, Load))
	assert.True(t, g.HasEdge(2, 2, Load))
}

func TestDualIndexes(t *testing.T) {
	g := NewGraph()
	g.AddEdge(0, 1, Copy)
	g.AddEdge(0, 2, Copy)
	g.AddEdge(3, 1, Store)

	succs := g.Successors(0)
	assert.ElementsMatch(t, []Node{1, 2}, succs[Copy])
	assert.Empty(t, succs[Store])

	preds := g.Predecessors(1)
	assert.ElementsMatch(t, []Node{0}, preds[Copy])
	assert.ElementsMatch(t, []Node{3}, preds[Store])

	// Every edge is visible from both ends.
	g.ForEachEdge(func(e Edge) {
		_, fwd := g.succ[e.Src][e.Label][e.Dst]
		_, rev := g.pred[e.Dst][e.Label][e.Src]
		assert.True(t, fwd)
		assert.True(t, rev)
	})
}

func TestForEachEdge(t *testing.T) {
	g := NewGraph()
	g.AddEdge(0, 1, Copy)
	g.AddEdge(1, 0, CopyBar)
	g.AddEdge(0, 0, Load)

	seen := map[Edge]struct{}{}
	g.ForEachEdge(func(e Edge) {
		_, dup := seen[e]
		require.False(t, dup, "edge %v enumerated twice", e)
		seen[e] = struct{}{}
	})

	assert.Len(t, seen, g.NumEdges())
}

func TestTerminalConstructors(t *testing.T) {
	g := NewGraph()

	g.AddAddressOf(0, 1)
	assert.True(t, g.HasEdge(0, 1, AddrBar))
	assert.True(t, g.HasEdge(1, 0, Addr))

	g.AddCopy(2, 3)
	assert.True(t, g.HasEdge(2, 3, Copy))
	assert.True(t, g.HasEdge(3, 2, CopyBar))

	g.AddStore(4, 5)
	assert.True(t, g.HasEdge(4, 5, Store))
	assert.False(t, g.HasEdge(5, 4, Store))

	g.AddLoad(5, 6)
	assert.True(t, g.HasEdge(5, 6, Load))
	assert.Equal(t, 6, g.NumEdges())
}

func TestLabelInverse(t *testing.T) {
	for l := Addr; l < numLabels; l++ {
		inv, ok := l.Inverse()
		if !ok {
			continue
		}
		back, ok := inv.Inverse()
		require.True(t, ok)
		assert.Equal(t, l, back, "Inverse should be an involution")
	}

	for _, l := range []EdgeLabel{Store, Load, PV, VP} {
		_, ok := l.Inverse()
		assert.False(t, ok, "%v has no inverse", l)
	}
}
