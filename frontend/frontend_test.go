package frontend_test

import (
	"go/token"
	"testing"

	"github.com/andsve/cflr"
	"github.com/andsve/cflr/frontend"
	"github.com/andsve/cflr/pkgutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/ssa"
)

// analyze builds SSA for the given source, constructs the graph, and solves.
func analyze(t *testing.T, source string) (cflr.Result, *frontend.Index, *ssa.Package) {
	t.Helper()

	pkgs, err := pkgutil.LoadPackagesFromSource(source)
	require.NoError(t, err)

	prog, spkgs := pkgutil.BuildSSA(pkgs)
	require.NotEmpty(t, spkgs)

	graph, index := frontend.Build(prog)
	solver := cflr.NewSolver(graph)
	solver.Solve()
	return solver.Result(), index, spkgs[0]
}

// instructions collects the allocations and pointer loads of fn in
// instruction order.
func instructions(fn *ssa.Function) (allocs []*ssa.Alloc, loads []*ssa.UnOp) {
	for _, block := range fn.Blocks {
		for _, insn := range block.Instrs {
			switch v := insn.(type) {
			case *ssa.Alloc:
				allocs = append(allocs, v)
			case *ssa.UnOp:
				if v.Op == token.MUL {
					loads = append(loads, v)
				}
			}
		}
	}
	return
}

func TestBuild(t *testing.T) {
	t.Run("LoadStoreFlow", func(t *testing.T) {
		res, index, pkg := analyze(t, `
			package main

			func ubool() bool

			func main() {
				x := new(*int)
				*x = new(int)
				if ubool() {
					*x = new(int)
				}
				y := *x
				println(y)
			}`)

		allocs, loads := instructions(pkg.Func("main"))
		require.Len(t, allocs, 3)
		require.Len(t, loads, 1)

		y, ok := index.ValueNode(loads[0])
		require.True(t, ok)

		cell, ok := index.ObjectNode(allocs[0])
		require.True(t, ok)
		first, ok := index.ObjectNode(allocs[1])
		require.True(t, ok)
		second, ok := index.ObjectNode(allocs[2])
		require.True(t, ok)

		// y may hold either int allocation stored through x, but never the
		// cell x itself points at.
		pts := res.PointsToSet(y)
		assert.Contains(t, pts, first)
		assert.Contains(t, pts, second)
		assert.NotContains(t, pts, cell)
	})

	t.Run("DistinctAllocs", func(t *testing.T) {
		res, index, pkg := analyze(t, `
			package main

			func ubool() bool

			func main() {
				x := new(*int)
				y := new(*int)
				z := *x
				if ubool() {
					z = *y
				}
				println(z)
			}`)

		allocs, _ := instructions(pkg.Func("main"))
		require.Len(t, allocs, 2)

		xn, ok := index.ValueNode(allocs[0])
		require.True(t, ok)
		yn, ok := index.ValueNode(allocs[1])
		require.True(t, ok)

		xSet, ySet := res.PointsToSet(xn), res.PointsToSet(yn)
		assert.Len(t, xSet, 1, "x should point to a single allocation site")
		assert.Len(t, ySet, 1, "y should point to a single allocation site")
		assert.NotEqual(t, xSet, ySet, "x and y must not alias")
	})

	t.Run("GlobalCell", func(t *testing.T) {
		res, index, pkg := analyze(t, `
			package main

			var g *int

			func main() {
				g = new(int)
				println(*g)
			}`)

		allocs, loads := instructions(pkg.Func("main"))
		require.Len(t, allocs, 1)
		require.Len(t, loads, 1)

		obj, ok := index.ObjectNode(allocs[0])
		require.True(t, ok)
		deref, ok := index.ValueNode(loads[0])
		require.True(t, ok)

		assert.True(t, res.PointsTo(deref, obj),
			"a load through the global should observe the stored allocation")
	})

	t.Run("StaticCall", func(t *testing.T) {
		res, index, pkg := analyze(t, `
			package main

			func id(p *int) *int { return p }

			func main() {
				a := new(int)
				b := id(a)
				println(b)
			}`)

		allocs, _ := instructions(pkg.Func("main"))
		require.Len(t, allocs, 1)

		obj, ok := index.ObjectNode(allocs[0])
		require.True(t, ok)

		// The parameter and the call result both see the argument's object.
		param, ok := index.ValueNode(pkg.Func("id").Params[0])
		require.True(t, ok)
		assert.True(t, res.PointsTo(param, obj))

		call := callResult(t, pkg.Func("main"))
		callNode, ok := index.ValueNode(call)
		require.True(t, ok)
		assert.True(t, res.PointsTo(callNode, obj))
	})
}

func callResult(t *testing.T, fn *ssa.Function) *ssa.Call {
	t.Helper()
	for _, block := range fn.Blocks {
		for _, insn := range block.Instrs {
			if call, ok := insn.(*ssa.Call); ok {
				if call.Common().StaticCallee() != nil {
					return call
				}
			}
		}
	}
	t.Fatal("no static call found")
	return nil
}
