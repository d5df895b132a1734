package cflr

// EdgeLabel classifies the edges of a pointer-assignment graph.
//
// Terminal labels (Addr, AddrBar, Copy, CopyBar, Store, Load) are emitted by
// a frontend when the graph is built from a program's IR. Derived labels
// (PT, PTBar, PV, VP) are produced only by grammar productions during
// solving. The bar labels are the endpoint-reversed twins of their base
// labels; they are stored as ordinary edges with their own adjacency entries
// so that reversed traversal is plain forward traversal under a different
// label.
type EdgeLabel uint8

const (
	// Addr connects an address-taken object to the register that holds its
	// address: o → p for p = &o.
	Addr EdgeLabel = iota
	// AddrBar is the inverse of Addr: p → o for p = &o.
	AddrBar
	// Copy records value flow q → p for p = q.
	Copy
	// CopyBar is the inverse of Copy.
	CopyBar
	// Store records q → p for *p = q.
	Store
	// Load records p → r for r = *p.
	Load
	// PT is the derived points-to relation: p → o when p may hold the
	// address of o.
	PT
	// PTBar is the inverse of PT.
	PTBar
	// PV is a derived intermediate: u → v when the value u has been stored
	// into the object v.
	PV
	// VP is a derived intermediate: u → v when the object u has been loaded
	// into the value v.
	VP

	numLabels
)

var labelNames = [numLabels]string{
	Addr:    "Addr",
	AddrBar: "AddrBar",
	Copy:    "Copy",
	CopyBar: "CopyBar",
	Store:   "Store",
	Load:    "Load",
	PT:      "PT",
	PTBar:   "PTBar",
	PV:      "PV",
	VP:      "VP",
}

func (l EdgeLabel) String() string {
	if int(l) < len(labelNames) {
		return labelNames[l]
	}
	return "EdgeLabel(?)"
}

// Inverse returns the bar twin of l and whether one exists. Store, Load, PV
// and VP have no inverse.
func (l EdgeLabel) Inverse() (EdgeLabel, bool) {
	switch l {
	case Addr:
		return AddrBar, true
	case AddrBar:
		return Addr, true
	case Copy:
		return CopyBar, true
	case CopyBar:
		return Copy, true
	case PT:
		return PTBar, true
	case PTBar:
		return PT, true
	default:
		return l, false
	}
}

// Terminal reports whether l may appear in a frontend-built initial graph.
func (l EdgeLabel) Terminal() bool {
	switch l {
	case Addr, AddrBar, Copy, CopyBar, Store, Load:
		return true
	default:
		return false
	}
}
