// Package cflr computes a whole-program points-to relation by saturating a
// labeled pointer-assignment graph under a fixed context-free grammar over
// edge labels (context-free-language reachability).
package cflr

// Node identifies a vertex of the pointer-assignment graph. Nodes denote
// either address-taken memory objects or value locations; the solver treats
// them as opaque identities. Frontends are expected to number nodes densely
// starting from 0.
type Node uint32

// Edge is a labeled directed edge.
type Edge struct {
	Src, Dst Node
	Label    EdgeLabel
}

type nodeset map[Node]struct{}

// Graph is a labeled directed multigraph with set semantics: a given
// (src, dst, label) triple is stored at most once. Both a forward index
// (keyed by source, then label) and a reverse index (keyed by destination,
// then label) are maintained so that binary productions can match either
// operand of a popped edge without scanning.
type Graph struct {
	succ map[Node]map[EdgeLabel]nodeset
	pred map[Node]map[EdgeLabel]nodeset
	size int
}

func NewGraph() *Graph {
	return &Graph{
		succ: make(map[Node]map[EdgeLabel]nodeset),
		pred: make(map[Node]map[EdgeLabel]nodeset),
	}
}

// HasEdge reports whether the edge (u, v, l) is present.
func (g *Graph) HasEdge(u, v Node, l EdgeLabel) bool {
	_, ok := g.succ[u][l][v]
	return ok
}

// AddEdge inserts (u, v, l) and reports whether the edge was absent before.
// Both adjacency indices are updated together.
func (g *Graph) AddEdge(u, v Node, l EdgeLabel) bool {
	if g.HasEdge(u, v, l) {
		return false
	}
	insert(g.succ, u, l, v)
	insert(g.pred, v, l, u)
	g.size++
	return true
}

func insert(index map[Node]map[EdgeLabel]nodeset, key Node, l EdgeLabel, val Node) {
	byLabel := index[key]
	if byLabel == nil {
		byLabel = make(map[EdgeLabel]nodeset)
		index[key] = byLabel
	}
	set := byLabel[l]
	if set == nil {
		set = make(nodeset)
		byLabel[l] = set
	}
	set[val] = struct{}{}
}

// Successors returns the forward adjacency of u as a fresh label → node
// slice mapping. The solver uses the internal index directly; this accessor
// is for consumers and tests.
func (g *Graph) Successors(u Node) map[EdgeLabel][]Node {
	return adjacency(g.succ[u])
}

// Predecessors returns the reverse adjacency of v, in the same form as
// Successors.
func (g *Graph) Predecessors(v Node) map[EdgeLabel][]Node {
	return adjacency(g.pred[v])
}

func adjacency(byLabel map[EdgeLabel]nodeset) map[EdgeLabel][]Node {
	res := make(map[EdgeLabel][]Node, len(byLabel))
	for l, set := range byLabel {
		nodes := make([]Node, 0, len(set))
		for n := range set {
			nodes = append(nodes, n)
		}
		res[l] = nodes
	}
	return res
}

// ForEachEdge calls f once per edge. The order is unspecified.
func (g *Graph) ForEachEdge(f func(Edge)) {
	for u, byLabel := range g.succ {
		for l, set := range byLabel {
			for v := range set {
				f(Edge{Src: u, Dst: v, Label: l})
			}
		}
	}
}

// NumEdges returns the number of distinct labeled edges.
func (g *Graph) NumEdges() int { return g.size }

// The terminal-edge constructors below encode the frontend contract. They
// synthesize the inverse edges the grammar relies on (AddrBar for rule
// seeding, CopyBar for copy propagation), so a frontend cannot under-derive
// by emitting a one-sided relation.

// AddAddressOf records p = &o: AddrBar p → o and Addr o → p.
func (g *Graph) AddAddressOf(p, o Node) {
	g.AddEdge(p, o, AddrBar)
	g.AddEdge(o, p, Addr)
}

// AddCopy records dst = src: Copy src → dst and CopyBar dst → src.
func (g *Graph) AddCopy(src, dst Node) {
	g.AddEdge(src, dst, Copy)
	g.AddEdge(dst, src, CopyBar)
}

// AddStore records *ptr = val as Store val → ptr.
func (g *Graph) AddStore(val, ptr Node) {
	g.AddEdge(val, ptr, Store)
}

// AddLoad records dst = *ptr as Load ptr → dst.
func (g *Graph) AddLoad(ptr, dst Node) {
	g.AddEdge(ptr, dst, Load)
}
