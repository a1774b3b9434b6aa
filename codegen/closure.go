package codegen

import (
	"github.com/chazu/clc/instr"
	"github.com/chazu/clc/ir"
	"github.com/chazu/clc/types"
)

// compileClosure lowers a ClosureNode onto LAMBDA + APPLY: push the lifted
// combinator as a value, build its captured-environment tuple on top, then
// APPLY partially binds the environment into the lambda, producing exactly
// the arg->res closure value the surrounding term expects. This is a
// direct use of APPLY's real Michelson meaning (bake one argument into an
// (a*b)->c lambda, yielding a b->c one) rather than a simulated calling
// convention.
func (g *gen) compileClosure(t *ir.Term, c ir.ClosureNode, fr frame) instr.Seq {
	lam, ok := c.Lifted.Desc.(ir.Lambda)
	if !ok {
		return instr.Seq{instr.Failwith{}}
	}
	liftedBody := g.compile(lam.Body, frame{lam.Param})
	code := instr.Seq{instr.Lambda{Arg: lam.ParamTy, Res: lam.Body.Ty, Body: liftedBody}}

	envFrame := fr.push("$lambda")
	code = append(code, g.buildEnvTuple(c.Captured, envFrame)...)
	return append(code, instr.ApplyOp{})
}

// buildEnvTuple duplicates each captured variable, in order, then folds
// them into one tuple value the way compilePairLike does — a captured list
// of zero names becomes Unit (the degenerate "no environment" case a
// closure with no free variables never reaches, since LiftClosures leaves
// such a lambda alone, but CreateContract-nested closures over an empty
// capture set are still possible).
func (g *gen) buildEnvTuple(captured []string, fr frame) instr.Seq {
	if len(captured) == 0 {
		return instr.Seq{instr.Push{Ty: types.Unit, Val: types.Unit_()}}
	}
	// Pushed in reverse so captured[0] ends up on top, matching
	// compilePairLike's convention that element 0 is what GetN{0} recovers.
	code := instr.Seq{}
	cur := fr
	for i := len(captured) - 1; i >= 0; i-- {
		idx, ok := cur.depthOf(captured[i])
		if !ok {
			code = append(code, instr.Push{Ty: types.Unit, Val: types.Unit_()})
		} else {
			code = append(code, instr.Dup{N: idx})
		}
		cur = cur.push("$cap")
	}
	switch len(captured) {
	case 1:
		return code
	case 2:
		return append(code, instr.Pair{})
	default:
		return append(code, instr.PairN{N: len(captured)})
	}
}
