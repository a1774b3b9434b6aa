package interp

import (
	"github.com/chazu/clc/instr"
	"github.com/chazu/clc/ir"
	"github.com/chazu/clc/loc"
	"github.com/chazu/clc/types"
)

// stepLambda decompiles LAMBDA on its own terms: a closed function value
// with a synthesized parameter name, its body reconstructed against a
// fresh single-cell stack. It makes no attempt to recognize the
// LAMBDA+APPLY encoding compileClosure uses for a lifted closure — that
// idiom's captured-environment tuple shape depends on LiftClosures'
// internal naming and isn't reliably recoverable from M alone, so a
// closure survives decompilation as an equivalent plain lambda over its
// already-partially-applied argument tuple rather than as a ClosureNode.
func (in *Interp) stepLambda(l instr.Lambda, st Stack, k func(Stack) *ir.Term) *ir.Term {
	span := loc.Span{}
	param := in.fresh("p")
	paramCell := Cell{Term: ir.New(ir.Var{Name: param}, l.Arg, span), Ty: l.Arg}
	bodySt := Stack{paramCell}
	body := in.step(l.Body, bodySt, bodySt, in.finish)
	ty := types.Lambda(l.Arg, l.Res)
	term := ir.New(ir.Lambda{Param: param, ParamTy: l.Arg, Body: body}, ty, span)
	return k(append(Stack{{Term: term, Ty: ty}}, st...))
}

// stepExec inverts the exec primitive's own compileApply case. Despite the
// special-cased ordering compileApply builds it with (fn compiled first,
// arg on top), the resulting stack layout is st[0]=arg=Args[0],
// st[1]=fn=Args[1] — the same top-first convention every other primitive's
// pushArgsTopFirst produces, so no special stack handling is needed here.
func (in *Interp) stepExec(st Stack, k func(Stack) *ir.Term) *ir.Term {
	return in.binaryApply("exec", st, k)
}

// stepApplyOp handles a bare APPLY not already consumed as part of a
// LAMBDA+APPLY closure idiom (which stepLambda declines to reconstruct).
// Michelson's APPLY takes the captured value on top and the lambda beneath
// it; without a recognized surface primitive for partial application, the
// result is left untyped as a documented best-effort placeholder.
func (in *Interp) stepApplyOp(st Stack, k func(Stack) *ir.Term) *ir.Term {
	span := loc.Span{}
	if !in.need(st, 2, span) {
		return k(st)
	}
	env := st[0].Term
	lambda := st[1].Term
	outer := st[2:]
	term := ir.New(ir.Apply{Prim: "apply_", Args: []*ir.Term{lambda, env}}, nil, span)
	return k(append(Stack{{Term: term, Ty: nil}}, outer...))
}
