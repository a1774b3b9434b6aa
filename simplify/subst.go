package simplify

import "github.com/chazu/clc/ir"

// substitute replaces every Var{name} in t with replacement. Because the
// surface language forbids shadowing (typecheck/usecount.go relies on the
// same fact), this never needs to rename a bound occurrence to avoid
// capture: no nested binder can reuse `name` for something else.
func substitute(t *ir.Term, name string, replacement *ir.Term) *ir.Term {
	return transform(t, func(x *ir.Term) *ir.Term {
		if v, ok := x.Desc.(ir.Var); ok && v.Name == name {
			return replacement
		}
		return x
	})
}
