package ir

// RenameVar returns t with every Var{from} replaced by Var{to}, preserving
// physical identity of any subtree that doesn't mention from. Binder
// fields (Let.Name, Lambda.Param, ...) are never touched: the surface
// language forbids two different bindings from sharing a name anywhere in
// one contract, so if from names an entry parameter or a synthesized
// dispatch variable, no binder in the tree can legitimately carry that
// same string for an unrelated purpose.
func RenameVar(t *Term, from, to string) *Term {
	if t == nil {
		return nil
	}
	children := Children(t)
	var rebuilt *Term
	if len(children) == 0 {
		rebuilt = t
	} else {
		newChildren := make([]*Term, len(children))
		changed := false
		for i, c := range children {
			newChildren[i] = RenameVar(c, from, to)
			if newChildren[i] != c {
				changed = true
			}
		}
		if changed {
			rebuilt = Rebuild(t, newChildren)
		} else {
			rebuilt = t
		}
	}
	if v, ok := rebuilt.Desc.(Var); ok && v.Name == from {
		cp := *rebuilt
		cp.Desc = Var{Name: to}
		return &cp
	}
	return rebuilt
}
