package cflr

import (
	"sort"

	"github.com/andsve/cflr/internal/maps"
)

// Result is a read-only projection of the points-to relation over a
// saturated graph. It must not be used while a Solve is in progress.
type Result struct {
	graph *Graph
}

// PointsTo reports whether pointer p may reference object o.
func (r Result) PointsTo(p, o Node) bool {
	return r.graph.HasEdge(p, o, PT)
}

// PointsToSet returns the objects p may reference, sorted ascending.
func (r Result) PointsToSet(p Node) []Node {
	set := r.graph.succ[p][PT]
	objs := make([]Node, 0, len(set))
	for o := range set {
		objs = append(objs, o)
	}
	sort.Slice(objs, func(i, j int) bool { return objs[i] < objs[j] })
	return objs
}

// ForEachPointsTo enumerates every (pointer, object) pair exactly once, in
// ascending (pointer, object) order.
func (r Result) ForEachPointsTo(f func(p, o Node)) {
	pointers := maps.Keys(r.graph.succ)
	sort.Slice(pointers, func(i, j int) bool { return pointers[i] < pointers[j] })

	for _, p := range pointers {
		for _, o := range r.PointsToSet(p) {
			f(p, o)
		}
	}
}
