// Package frontend builds the initial pointer-assignment graph of a Go
// program from its SSA form.
//
// The translation is flow-, context- and field-insensitive: every SSA value
// becomes one graph node, every allocation site one object node, and struct
// or array projections collapse onto the node of their base value. Only the
// terminal labels are emitted here; the derived relations come from solving.
package frontend

import (
	"go/token"

	"github.com/andsve/cflr"
	"github.com/andsve/cflr/internal/slices"
	log "github.com/sirupsen/logrus"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

// Index maps graph nodes back to the SSA values they were allocated for, so
// that results can be rendered with program names.
type Index struct {
	values  map[ssa.Value]cflr.Node
	objects map[ssa.Value]cflr.Node
	names   []string
}

func newIndex() *Index {
	return &Index{
		values:  make(map[ssa.Value]cflr.Node),
		objects: make(map[ssa.Value]cflr.Node),
	}
}

func (ix *Index) fresh(name string) cflr.Node {
	n := cflr.Node(len(ix.names))
	ix.names = append(ix.names, name)
	return n
}

// NameOf returns a printable name for n.
func (ix *Index) NameOf(n cflr.Node) string {
	if int(n) < len(ix.names) {
		return ix.names[n]
	}
	return "<unknown node>"
}

// ValueNode returns the node allocated for the SSA value v, if any.
func (ix *Index) ValueNode(v ssa.Value) (cflr.Node, bool) {
	n, ok := ix.values[v]
	return n, ok
}

// ObjectNode returns the object node allocated for the allocation site v,
// if any.
func (ix *Index) ObjectNode(v ssa.Value) (cflr.Node, bool) {
	n, ok := ix.objects[v]
	return n, ok
}

// NumNodes returns the number of nodes handed out so far.
func (ix *Index) NumNodes() int { return len(ix.names) }

// Builder numbers SSA values densely and emits terminal edges into a graph.
type Builder struct {
	graph *cflr.Graph
	index *Index
}

// Build constructs the pointer-assignment graph over every function of prog.
func Build(prog *ssa.Program) (*cflr.Graph, *Index) {
	b := &Builder{graph: cflr.NewGraph(), index: newIndex()}

	nfuncs := 0
	for fn := range ssautil.AllFunctions(prog) {
		b.addFunction(fn)
		nfuncs++
	}

	log.Debugf("frontend: %d nodes, %d terminal edges from %d functions",
		b.index.NumNodes(), b.graph.NumEdges(), nfuncs)

	return b.graph, b.index
}

func (b *Builder) addFunction(fn *ssa.Function) {
	for _, block := range fn.Blocks {
		for _, insn := range block.Instrs {
			b.addInstruction(insn)
		}
	}
}

func (b *Builder) addInstruction(insn ssa.Instruction) {
	switch t := insn.(type) {
	case *ssa.Alloc:
		b.graph.AddAddressOf(b.valueNode(t), b.objectNode(t))

	case *ssa.MakeChan:
		b.graph.AddAddressOf(b.valueNode(t), b.objectNode(t))

	case *ssa.MakeMap:
		b.graph.AddAddressOf(b.valueNode(t), b.objectNode(t))

	case *ssa.MakeSlice:
		b.graph.AddAddressOf(b.valueNode(t), b.objectNode(t))

	case *ssa.MakeClosure:
		b.graph.AddAddressOf(b.valueNode(t), b.objectNode(t))
		fn := t.Fn.(*ssa.Function)
		for i, bound := range t.Bindings {
			b.copy(bound, fn.FreeVars[i])
		}

	case *ssa.MakeInterface:
		b.copy(t.X, t)

	case *ssa.Phi:
		for _, e := range t.Edges {
			b.copy(e, t)
		}

	case *ssa.ChangeType:
		b.copy(t.X, t)
	case *ssa.ChangeInterface:
		b.copy(t.X, t)
	case *ssa.Convert:
		b.copy(t.X, t)
	case *ssa.Slice:
		b.copy(t.X, t)
	case *ssa.SliceToArrayPointer:
		b.copy(t.X, t)
	case *ssa.TypeAssert:
		b.copy(t.X, t)

	// Projections collapse onto the base value.
	case *ssa.FieldAddr:
		b.copy(t.X, t)
	case *ssa.IndexAddr:
		b.copy(t.X, t)
	case *ssa.Field:
		b.copy(t.X, t)
	case *ssa.Index:
		b.copy(t.X, t)
	case *ssa.Lookup:
		b.copy(t.X, t)
	case *ssa.Extract:
		b.copy(t.Tuple, t)
	case *ssa.Range:
		b.copy(t.X, t)
	case *ssa.Next:
		b.copy(t.Iter, t)

	case *ssa.UnOp:
		switch t.Op {
		case token.MUL:
			b.graph.AddLoad(b.valueNode(t.X), b.valueNode(t))
		case token.ARROW:
			// A receive is a load through the channel cell.
			b.graph.AddLoad(b.valueNode(t.X), b.valueNode(t))
		}

	case *ssa.Store:
		b.graph.AddStore(b.valueNode(t.Val), b.valueNode(t.Addr))

	case *ssa.Send:
		// A send is a store through the channel cell.
		b.graph.AddStore(b.valueNode(t.X), b.valueNode(t.Chan))

	case *ssa.MapUpdate:
		b.graph.AddStore(b.valueNode(t.Value), b.valueNode(t.Map))

	case ssa.CallInstruction:
		b.addCall(t)
	}
}

// addCall wires arguments to parameters and returned values to the call
// register for statically resolved calls. Dynamically dispatched calls are
// not resolved; their targets contribute no edges.
func (b *Builder) addCall(call ssa.CallInstruction) {
	common := call.Common()
	if common.IsInvoke() {
		return
	}

	if builtin, ok := common.Value.(*ssa.Builtin); ok {
		if builtin.Name() == "append" {
			if res := call.Value(); res != nil {
				for _, arg := range common.Args {
					b.copy(arg, res)
				}
			}
		}
		return
	}

	callee := common.StaticCallee()
	if callee == nil || len(callee.Blocks) == 0 {
		return
	}

	args := slices.Map(common.Args, b.valueNode)
	for i, param := range callee.Params {
		if i < len(args) {
			b.graph.AddCopy(args[i], b.valueNode(param))
		}
	}

	res := call.Value()
	if res == nil {
		return
	}
	for _, block := range callee.Blocks {
		if ret, ok := block.Instrs[len(block.Instrs)-1].(*ssa.Return); ok {
			// Multi-value returns collapse onto the call register; Extract
			// copies fan the tuple back out at the call site.
			for _, r := range ret.Results {
				b.copy(r, res)
			}
		}
	}
}

func (b *Builder) copy(src, dst ssa.Value) {
	b.graph.AddCopy(b.valueNode(src), b.valueNode(dst))
}

func (b *Builder) valueNode(v ssa.Value) cflr.Node {
	if n, ok := b.index.values[v]; ok {
		return n
	}
	n := b.index.fresh(describe(v))
	b.index.values[v] = n

	// A global denotes the address of its storage cell.
	if g, ok := v.(*ssa.Global); ok {
		o := b.index.fresh("object:" + describe(g))
		b.index.objects[g] = o
		b.graph.AddAddressOf(n, o)
	}

	return n
}

func (b *Builder) objectNode(site ssa.Value) cflr.Node {
	if n, ok := b.index.objects[site]; ok {
		return n
	}
	n := b.index.fresh("object:" + describe(site))
	b.index.objects[site] = n
	return n
}

func describe(v ssa.Value) string {
	if fn := v.Parent(); fn != nil {
		return fn.String() + "." + v.Name()
	}
	return v.String()
}
