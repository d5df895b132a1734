package cflr

// The solver saturates the graph under a fixed context-free grammar over
// edge labels, read left to right as concatenation of labels along a path:
//
//	AddrBar           → PT
//	CopyBar · PT      → PT
//	Store   · PT      → PV
//	PTBar   · Load    → VP
//	PV      · VP      → Copy
//
// AddrBar edges seed PT. CopyBar·PT propagates points-to backwards across
// copies. The last three productions close stores and loads through
// pointed-to objects: a value stored into an object (PV) and loaded back out
// of it (VP) composes to a Copy, which feeds the second production again.

type production struct {
	left, right EdgeLabel
	out         EdgeLabel
}

var binaryProductions = [...]production{
	{CopyBar, PT, PT},
	{Store, PT, PV},
	{PTBar, Load, VP},
	{PV, VP, Copy},
}

// The single unary production, AddrBar → PT.
const (
	unarySource = AddrBar
	unaryResult = PT
)

// Productions indexed by operand so that a popped edge finds its candidate
// rules without scanning the production list.
var (
	productionsByLeft  [numLabels][]production
	productionsByRight [numLabels][]production
)

func init() {
	for _, p := range binaryProductions {
		productionsByLeft[p.left] = append(productionsByLeft[p.left], p)
		productionsByRight[p.right] = append(productionsByRight[p.right], p)
	}
}
