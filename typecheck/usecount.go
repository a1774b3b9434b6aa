package typecheck

import "github.com/chazu/clc/ir"

// countUses fills in Let.UseCount and Let.Pure across a whole contract
// (§4.1, consumed by simplify's one-use inlining). Names are assumed
// unique within one contract — the surface language does not permit
// shadowing a bound name, so counting Var occurrences by name without
// tracking scope boundaries is exact, not an approximation.
func countUses(c *ir.Contract) {
	for _, g := range c.Globals {
		annotateLet(g.Value)
	}
	for _, e := range c.Entries {
		annotateLet(e.Body)
	}
}

// annotateLet walks t, and for every Let node counts how many Var nodes
// inside its Body reference Let.Name, storing the result on the Let node
// itself.
func annotateLet(t *ir.Term) {
	if t == nil {
		return
	}
	if let, ok := t.Desc.(ir.Let); ok {
		t.UseCount = countVar(let.Body, let.Name)
		t.Pure = isPure(let.Rhs)
	}
	for _, child := range ir.Children(t) {
		annotateLet(child)
	}
}

func countVar(t *ir.Term, name string) int {
	if t == nil {
		return 0
	}
	n := 0
	if v, ok := t.Desc.(ir.Var); ok && v.Name == name {
		n++
	}
	for _, child := range ir.Children(t) {
		n += countVar(child, name)
	}
	return n
}

// isPure reports whether evaluating t can be dropped or duplicated freely:
// no transfer effect and no origination (§4.3's precondition for inlining
// a one-use binding without changing an entry's operation list).
func isPure(t *ir.Term) bool {
	if t == nil {
		return true
	}
	if t.Transfer {
		return false
	}
	switch t.Desc.(type) {
	case ir.CreateContract, ir.TransferNode, ir.Failwith:
		return false
	}
	return true
}
