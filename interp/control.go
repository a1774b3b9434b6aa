package interp

import (
	"fmt"

	"github.com/chazu/clc/instr"
	"github.com/chazu/clc/ir"
	"github.com/chazu/clc/loc"
	"github.com/chazu/clc/types"
)

func (in *Interp) stepIf(it instr.If, st Stack, k func(Stack) *ir.Term) *ir.Term {
	span := loc.Span{}
	if !in.need(st, 1, span) {
		return k(st)
	}
	cond := st[0].Term
	outer := st[1:]
	thenTerm := in.step(it.Then, outer, outer, in.finish)
	elseTerm := in.step(it.Else, outer, outer, in.finish)
	joined := ir.New(ir.If{Cond: cond, Then: thenTerm, Else: elseTerm}, thenTerm.Ty, span)
	return k(append(Stack{{Term: joined, Ty: joined.Ty}}, outer...))
}

func (in *Interp) stepIfNone(it instr.IfNone, st Stack, k func(Stack) *ir.Term) *ir.Term {
	span := loc.Span{}
	if !in.need(st, 1, span) {
		return k(st)
	}
	scrutinee := st[0].Term
	optTy := st[0].Ty
	outer := st[1:]

	noneTerm := in.step(it.NoneBranch, outer, outer, in.finish)

	someVar := in.fresh("v")
	var payloadTy *types.Type
	if optTy != nil && optTy.Kind == types.KOption {
		payloadTy = optTy.Elem
	}
	someCell := Cell{Term: ir.New(ir.Var{Name: someVar}, payloadTy, span), Ty: payloadTy}
	someSt := append(Stack{someCell}, outer...)
	someTerm := in.step(it.SomeBranch, someSt, someSt, in.finish)

	joined := ir.New(ir.MatchOption{
		Scrutinee: scrutinee, NoneCase: noneTerm, SomeVar: someVar, SomeCase: someTerm,
	}, noneTerm.Ty, span)
	return k(append(Stack{{Term: joined, Ty: joined.Ty}}, outer...))
}

func (in *Interp) stepIfCons(it instr.IfCons, st Stack, k func(Stack) *ir.Term) *ir.Term {
	span := loc.Span{}
	if !in.need(st, 1, span) {
		return k(st)
	}
	scrutinee := st[0].Term
	listTy := st[0].Ty
	outer := st[1:]

	nilTerm := in.step(it.NilBranch, outer, outer, in.finish)

	headVar, tailVar := in.fresh("hd"), in.fresh("tl")
	var elemTy *types.Type
	if listTy != nil && listTy.Kind == types.KList {
		elemTy = listTy.Elem
	}
	// IF_CONS pushes head on top of tail — compileMatchList's consFrame
	// pushes TailVar then HeadVar so head ends up on top.
	consSt := Stack{
		{Term: ir.New(ir.Var{Name: headVar}, elemTy, span), Ty: elemTy},
		{Term: ir.New(ir.Var{Name: tailVar}, listTy, span), Ty: listTy},
	}
	consSt = append(consSt, outer...)
	consTerm := in.step(it.ConsBranch, consSt, consSt, in.finish)

	joined := ir.New(ir.MatchList{
		Scrutinee: scrutinee, NilCase: nilTerm, HeadVar: headVar, TailVar: tailVar, ConsCase: consTerm,
	}, nilTerm.Ty, span)
	return k(append(Stack{{Term: joined, Ty: joined.Ty}}, outer...))
}

// stepIfLeft always reconstructs a MatchVariant (§4.4: match%nat lowers to
// a plain If, not IfLeft, so any IfLeft this compiler emits came from a
// variant match — never a raw anonymous `or`). The scrutinee's own Or type
// gives the arm count and per-arm payload types directly by walking its
// nesting; env's registered variants are searched only to recover the
// surface constructor names, falling back to synthesized ones (and
// registering them) for an Or shape no declared variant matches, so a
// foreign M program can still decompile to something well-formed.
func (in *Interp) stepIfLeft(il instr.IfLeft, st Stack, k func(Stack) *ir.Term) *ir.Term {
	span := loc.Span{}
	if !in.need(st, 1, span) {
		return k(st)
	}
	scrutinee := st[0].Term
	ty := st[0].Ty
	outer := st[1:]

	leaves := decomposeOrChain(ty)
	if len(leaves) < 2 {
		in.unstructured(span, "IF_LEFT over a scrutinee whose tracked type is not an `or`")
		leaves = []*types.Type{ty, ty}
	}

	variantName, ctorNames := in.resolveVariantNames(ty, leaves)

	cases := make([]ir.MatchCase, 0, len(leaves))
	cur := il
	for i := 0; i < len(leaves)-1; i++ {
		payloadTy := leaves[i]
		v := in.fresh(ctorNames[i])
		armSt := append(Stack{{Term: ir.New(ir.Var{Name: v}, payloadTy, span), Ty: payloadTy}}, outer...)
		body := in.step(cur.LeftBranch, armSt, armSt, in.finish)
		cases = append(cases, ir.MatchCase{Ctor: ctorNames[i], Var: v, Body: body})

		if i == len(leaves)-2 {
			lastTy := leaves[i+1]
			lv := in.fresh(ctorNames[i+1])
			lastSt := append(Stack{{Term: ir.New(ir.Var{Name: lv}, lastTy, span), Ty: lastTy}}, outer...)
			lastBody := in.step(cur.RightBranch, lastSt, lastSt, in.finish)
			cases = append(cases, ir.MatchCase{Ctor: ctorNames[i+1], Var: lv, Body: lastBody})
			break
		}

		if len(cur.RightBranch) != 1 {
			in.unstructured(span, "IF_LEFT chain's right branch is not a single nested IF_LEFT")
			break
		}
		nested, ok := cur.RightBranch[0].(instr.IfLeft)
		if !ok {
			in.unstructured(span, "IF_LEFT chain ended before its scrutinee type's arm count was exhausted")
			break
		}
		cur = nested
	}

	resultTy := cases[0].Body.Ty
	joined := ir.New(ir.MatchVariant{Scrutinee: scrutinee, Variant: variantName, Cases: cases}, resultTy, span)
	return k(append(Stack{{Term: joined, Ty: resultTy}}, outer...))
}

// resolveVariantNames finds a registered variant matching ty's Or shape
// and returns its name and constructor names in arm order; failing that,
// it synthesizes and registers a fresh variant so later lookups (e.g. a
// second IfLeft over the same type) stay consistent within this run.
func (in *Interp) resolveVariantNames(ty *types.Type, leaves []*types.Type) (string, []string) {
	name, ctors, ok := matchVariantType(in.Env.VariantNames(), in.Env.VariantCtors, ty)
	if ok {
		names := make([]string, len(ctors))
		for i, c := range ctors {
			names[i] = c.Name
		}
		return name, names
	}

	name = in.fresh("Variant")
	names := make([]string, len(leaves))
	ctors = make([]types.Ctor, len(leaves))
	for i, t := range leaves {
		names[i] = fmt.Sprintf("Case%d", i)
		ctors[i] = types.Ctor{Name: names[i], Type: t}
	}
	in.Env.RegisterVariant(name, ctors)
	return name, names
}
