// Package encode implements §4.2: record/variant binarization support
// (index-based Project/SetField are already binarized by codegen; this
// package's job is the two rewrites that must happen before code
// generation ever sees the tree), lambda lifting via closure conversion,
// the Y-combinator-equivalent encoding of recursive lambdas, and
// entry-point dispatch synthesis that turns N declared entries into the
// single (parameter, storage) -> (operations, storage) program M actually
// runs (§3, §5.1).
package encode

import "github.com/chazu/clc/ir"

// freeVars returns the sorted, de-duplicated set of names t references
// that are not in bound. Sorted so the resulting closure's capture layout
// is deterministic across runs and doesn't leak Go map iteration order
// into codegen's env slot assignment (§4.4's determinism requirement).
func freeVars(t *ir.Term, bound map[string]bool) []string {
	seen := map[string]bool{}
	var walk func(t *ir.Term, bound map[string]bool)
	walk = func(t *ir.Term, bound map[string]bool) {
		if t == nil {
			return
		}
		switch d := t.Desc.(type) {
		case ir.Var:
			if !bound[d.Name] {
				seen[d.Name] = true
			}
			return
		case ir.Let:
			walk(d.Rhs, bound)
			inner := extend(bound, d.Name)
			walk(d.Body, inner)
			return
		case ir.Lambda:
			walk(d.Body, extend(bound, d.Param))
			return
		case ir.MatchOption:
			walk(d.Scrutinee, bound)
			walk(d.NoneCase, bound)
			walk(d.SomeCase, extend(bound, d.SomeVar))
			return
		case ir.MatchNat:
			walk(d.Scrutinee, bound)
			walk(d.PlusCase, extend(bound, d.PlusVar))
			walk(d.MinusCase, extend(bound, d.MinusVar))
			return
		case ir.MatchList:
			walk(d.Scrutinee, bound)
			walk(d.NilCase, bound)
			walk(d.ConsCase, extend(extend(bound, d.HeadVar), d.TailVar))
			return
		case ir.MatchVariant:
			walk(d.Scrutinee, bound)
			for _, cs := range d.Cases {
				if cs.Wildcard {
					walk(cs.Body, bound)
				} else {
					walk(cs.Body, extend(bound, cs.Var))
				}
			}
			return
		case ir.Loop:
			walk(d.Init, bound)
			walk(d.Body, extend(bound, d.AccVar))
			return
		case ir.LoopLeft:
			walk(d.Init, bound)
			walk(d.Body, extend(bound, d.AccVar))
			return
		case ir.Fold:
			walk(d.Coll, bound)
			walk(d.Init, bound)
			walk(d.Body, extend(extend(bound, d.AccVar), d.ElemVar))
			return
		case ir.MapNode:
			walk(d.Coll, bound)
			walk(d.Body, extend(bound, d.ElemVar))
			return
		case ir.MapFold:
			walk(d.Coll, bound)
			walk(d.Init, bound)
			walk(d.Body, extend(extend(bound, d.AccVar), d.ElemVar))
			return
		case ir.CreateContract:
			walk(d.Body, extend(extend(bound, d.ParamName), d.StorageName))
			walk(d.Delegate, bound)
			walk(d.Amount, bound)
			walk(d.InitStorage, bound)
			return
		}
		for _, child := range ir.Children(t) {
			walk(child, bound)
		}
	}
	walk(t, bound)

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sortStrings(out)
	return out
}

func extend(bound map[string]bool, name string) map[string]bool {
	out := make(map[string]bool, len(bound)+1)
	for k := range bound {
		out[k] = true
	}
	out[name] = true
	return out
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
