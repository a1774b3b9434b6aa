package encode

import (
	"github.com/chazu/clc/diag"
	"github.com/chazu/clc/ir"
	"github.com/chazu/clc/types"
)

// CheckBigMapPlacement enforces §9's resolved open question: the only
// place a literal (necessarily empty) bigmap constant may appear is a
// CreateContract's InitStorage expression. Everywhere else, a bigmap value
// can only come from `storage` itself (or a component reached from it) —
// there is no other way to get one, since a bigmap can't be serialized
// into an operation or a transaction parameter. A bigmap constant found
// outside InitStorage is a semantic error at the encode stage rather than
// something the typechecker itself rejects, since typechecking alone
// can't distinguish "the expression that happens to be the storage
// initializer" from any other well-typed bigmap-producing expression.
func CheckBigMapPlacement(c *ir.Contract) *diag.Bag {
	bag := diag.New()
	for _, g := range c.Globals {
		walkForBigMapLiterals(g.Value, bag)
	}
	for _, e := range c.Entries {
		walkForBigMapLiterals(e.Body, bag)
	}
	return bag
}

func walkForBigMapLiterals(t *ir.Term, bag *diag.Bag) {
	if t == nil {
		return
	}
	if cn, ok := t.Desc.(ir.ConstNode); ok && cn.Value != nil && cn.Value.Kind == types.CBigMap {
		bag.Errorf(diag.Semantic, t.Loc, "a bigmap literal may only appear as a create_contract's initial storage")
	}
	if cc, ok := t.Desc.(ir.CreateContract); ok {
		// InitStorage is exempt; walk everything else about this node.
		walkForBigMapLiterals(cc.Body, bag)
		walkForBigMapLiterals(cc.Delegate, bag)
		walkForBigMapLiterals(cc.Amount, bag)
		return
	}
	for _, child := range ir.Children(t) {
		walkForBigMapLiterals(child, bag)
	}
}
