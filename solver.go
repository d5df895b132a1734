package cflr

import (
	"github.com/andsve/cflr/internal/queue"
	log "github.com/sirupsen/logrus"
)

// Solver computes the least edge set that contains the initial graph and is
// closed under the grammar in grammar.go, maintaining the PT/PTBar and
// Copy/CopyBar symmetry as it goes. The graph grows monotonically over a
// finite edge universe, so the drain loop terminates.
type Solver struct {
	graph *Graph
	work  queue.Queue[Edge]

	derived  int
	peakWork int
}

// NewSolver prepares a solver for the given graph. The graph should be fully
// populated with terminal edges before Solve is called; the solver mutates
// it in place.
func NewSolver(g *Graph) *Solver {
	return &Solver{graph: g}
}

// Solve runs the worklist algorithm to quiescence. Worklist order does not
// affect the final edge set, only memory residency. Solve is idempotent: a
// second call on a saturated graph derives nothing.
func (s *Solver) Solve() {
	seeded := 0
	s.graph.ForEachEdge(func(e Edge) {
		s.work.Push(e)
		seeded++
	})
	log.Debugf("solver: seeded worklist with %d edges", seeded)

	for !s.work.Empty() {
		if n := s.work.Len(); n > s.peakWork {
			s.peakWork = n
		}

		e := s.work.Pop()

		if e.Label == unarySource {
			s.insert(e.Src, e.Dst, unaryResult)
		}

		// The popped edge as left operand: match its label against the
		// forward adjacency of its destination.
		if succs := s.graph.succ[e.Dst]; succs != nil {
			for _, p := range productionsByLeft[e.Label] {
				for w := range succs[p.right] {
					s.insert(e.Src, w, p.out)
				}
			}
		}

		// The popped edge as right operand: match against the reverse
		// adjacency of its source.
		if preds := s.graph.pred[e.Src]; preds != nil {
			for _, p := range productionsByRight[e.Label] {
				for w := range preds[p.left] {
					s.insert(w, e.Dst, p.out)
				}
			}
		}
	}

	log.Debugf("solver: saturated at %d edges (%d derived, worklist peak %d)",
		s.graph.NumEdges(), s.derived, s.peakWork)
}

// insert adds (u, v, l), enqueues it when new, and mirrors the edge for the
// two relations whose symmetry the solver owns. Relying on set semantics
// here is what terminates self-feeding productions such as CopyBar·PT → PT.
func (s *Solver) insert(u, v Node, l EdgeLabel) {
	if !s.graph.AddEdge(u, v, l) {
		return
	}
	s.work.Push(Edge{Src: u, Dst: v, Label: l})
	s.derived++

	switch l {
	case PT:
		s.insert(v, u, PTBar)
	case Copy:
		s.insert(v, u, CopyBar)
	}
}

// Result returns the read-only view over the saturated graph. Call after
// Solve.
func (s *Solver) Result() Result {
	return Result{graph: s.graph}
}
