package encode

import (
	"fmt"

	"github.com/chazu/clc/ir"
	"github.com/chazu/clc/types"
)

// envParamName is the synthetic name given to a lifted lambda's single
// incoming (captured-env, arg) pair before it's destructured. It can't
// collide with a surface-language name because the surface grammar's
// identifier lexeme never starts with "__" (enforced by the frontend, out
// of scope here; codegen additionally never needs to sanitize it away).
const envParamName = "__env"

// LiftClosures rewrites every Lambda that closes over an outer binding
// into a ClosureNode pairing a top-level Lifted lambda (of type
// (captured-env * arg) -> res) with the sorted list of names it captures
// (§4.2). A Lambda with no free variables is left untouched — there is
// nothing to lift, and lowering it as a closure would only cost an
// unnecessary pair allocation at every call site.
func LiftClosures(c *ir.Contract) *ir.Contract {
	out := &ir.Contract{Name: c.Name, Storage: c.Storage}
	counter := 0
	for _, g := range c.Globals {
		out.Globals = append(out.Globals, ir.GlobalBinding{Name: g.Name, Value: liftTerm(g.Value, &counter)})
	}
	for _, e := range c.Entries {
		out.Entries = append(out.Entries, ir.Entry{
			Name: e.Name, ParamTy: e.ParamTy, ParamName: e.ParamName,
			StorageName: e.StorageName, Body: liftTerm(e.Body, &counter),
		})
	}
	return out
}

func liftTerm(t *ir.Term, counter *int) *ir.Term {
	if t == nil {
		return nil
	}
	rebuilt := rebuildWithLiftedChildren(t, counter)
	lam, ok := rebuilt.Desc.(ir.Lambda)
	if !ok {
		return rebuilt
	}
	captured := freeVars(lam.Body, map[string]bool{lam.Param: true})
	if len(captured) == 0 && !lam.Recursive {
		return rebuilt
	}
	return buildClosure(rebuilt, lam, captured, counter)
}

// buildClosure produces the ClosureNode for a lambda that captures one or
// more outer names, or that is directly recursive. A directly recursive
// lambda captures itself: Recursive lambdas are treated as though they
// additionally close over their own let-bound name, which is threaded
// through the environment tuple the same as any other capture (the
// Y-combinator-equivalent encoding: instead of a fixpoint operator, the
// closure's own reference to itself is just one more captured slot,
// populated with the closure value at construction time by codegen).
func buildClosure(t *ir.Term, lam ir.Lambda, captured []string, counter *int) *ir.Term {
	envVar := fmt.Sprintf("%s%d", envParamName, *counter)
	*counter++

	var envTy *types.Type
	if len(captured) == 0 {
		envTy = types.Unit
	} else {
		tys := make([]*types.Type, len(captured))
		for i, name := range captured {
			if vt := findVarType(lam.Body, name); vt != nil {
				tys[i] = vt
			} else {
				tys[i] = types.Unit
			}
		}
		envTy = types.Tuple(tys...)
	}

	body := lam.Body
	for i := len(captured) - 1; i >= 0; i-- {
		fieldTy := envTy
		if envTy.Kind == types.KTuple {
			fieldTy = envTy.Elems[i]
		}
		proj := ir.New(ir.Project{Target: ir.New(ir.Var{Name: envVar}, envTy, t.Loc), Index: i}, fieldTy, t.Loc)
		body = ir.New(ir.Let{Name: captured[i], Rhs: proj, Body: body}, body.Ty, t.Loc)
	}

	pairTy := types.Tuple(envTy, lam.ParamTy)
	liftedBody := ir.New(ir.Let{
		Name: lam.Param,
		Rhs:  ir.New(ir.Project{Target: ir.New(ir.Var{Name: envVar + "_arg"}, pairTy, t.Loc), Index: 1}, lam.ParamTy, t.Loc),
		Body: body,
	}, body.Ty, t.Loc)
	liftedBody = ir.New(ir.Let{
		Name: envVar,
		Rhs:  ir.New(ir.Project{Target: ir.New(ir.Var{Name: envVar + "_arg"}, pairTy, t.Loc), Index: 0}, envTy, t.Loc),
		Body: liftedBody,
	}, liftedBody.Ty, t.Loc)

	lifted := ir.New(ir.Lambda{
		Param:   envVar + "_arg",
		ParamTy: pairTy,
		Body:    liftedBody,
	}, types.Lambda(pairTy, body.Ty), t.Loc)

	return ir.New(ir.ClosureNode{Lifted: lifted, Captured: captured}, types.Closure(lam.ParamTy, body.Ty, envTy), t.Loc)
}

// findVarType returns the type carried by the first Var node matching name
// found anywhere in t. Since names are unique within a contract (§4.1),
// any occurrence's recorded type is the binding's true type.
func findVarType(t *ir.Term, name string) *types.Type {
	if t == nil {
		return nil
	}
	if v, ok := t.Desc.(ir.Var); ok && v.Name == name {
		return t.Ty
	}
	for _, child := range ir.Children(t) {
		if found := findVarType(child, name); found != nil {
			return found
		}
	}
	return nil
}

// rebuildWithLiftedChildren applies liftTerm to every child of t (so
// nested lambdas are lifted innermost-first, meaning a captured name that
// is itself a lifted closure is already in its final ClosureNode form by
// the time the enclosing lambda's free-variable scan runs).
func rebuildWithLiftedChildren(t *ir.Term, counter *int) *ir.Term {
	children := ir.Children(t)
	if len(children) == 0 {
		return t
	}
	newChildren := make([]*ir.Term, len(children))
	changed := false
	for i, ch := range children {
		newChildren[i] = liftTerm(ch, counter)
		if newChildren[i] != ch {
			changed = true
		}
	}
	if !changed {
		return t
	}
	return ir.Rebuild(t, newChildren)
}
