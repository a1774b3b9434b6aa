package interp

import (
	"github.com/chazu/clc/instr"
	"github.com/chazu/clc/ir"
	"github.com/chazu/clc/loc"
	"github.com/chazu/clc/types"
)

// reconstructLoop inverts compileLoop's do-while lowering (codegen's
// loops.go). By the time the interpreter reaches the LOOP instruction, the
// inlined first run of the body has already been folded into st[0]
// (continue) and st[1] (the accumulator after one real iteration) — the
// value the accumulator held *before* that run, which ir.Loop.Init needs,
// no longer exists as a distinct cell. It is recovered by re-walking the
// same prefix a second time, which is safe because step is a pure
// function of its arguments: initEnd marks where that prefix ends (it is
// exactly len(body) instructions before the LOOP opcode, guaranteed by
// construction since the inlined copy and the LOOP.Body field are
// identical).
func (in *Interp) reconstructLoop(seq instr.Seq, blockStart Stack, initEnd int, body instr.Seq, after int, st Stack, k func(Stack) *ir.Term) *ir.Term {
	span := loc.Span{}
	if !in.need(st, 2, span) {
		return k(st)
	}
	accTy := st[1].Ty
	outer := st[2:]

	initTerm := in.step(seq[:initEnd], blockStart, blockStart, in.finish)

	bodySeq := body
	if n := len(bodySeq); n > 0 {
		if _, ok := bodySeq[n-1].(instr.Unpair); ok {
			bodySeq = bodySeq[:n-1]
		}
	}
	freshAcc := in.fresh("acc")
	accCell := Cell{Term: ir.New(ir.Var{Name: freshAcc}, accTy, span), Ty: accTy}
	bodySt := append(Stack{accCell}, outer...)
	bodyTerm := in.step(bodySeq, bodySt, bodySt, in.finish)

	loopTerm := ir.New(ir.Loop{AccVar: freshAcc, Init: initTerm, Body: bodyTerm}, accTy, span)
	newSt := append(Stack{{Term: loopTerm, Ty: accTy}}, outer...)
	return in.at(seq, blockStart, after, newSt, k)
}

// reconstructLoopLeft inverts compileLoopLeft. Unlike LOOP, LOOP_LEFT has
// no inlined first run — LeftOf's own operand already *is* Init, sitting
// intact on the stack — so no re-walk is needed.
func (in *Interp) reconstructLoopLeft(seq instr.Seq, blockStart Stack, i int, lo instr.LeftOf, ll instr.LoopLeft, st Stack, k func(Stack) *ir.Term) *ir.Term {
	span := loc.Span{}
	if !in.need(st, 1, span) {
		return k(st)
	}
	initTerm := st[0].Term
	accTy := st[0].Ty
	outer := st[1:]

	freshAcc := in.fresh("acc")
	accCell := Cell{Term: ir.New(ir.Var{Name: freshAcc}, accTy, span), Ty: accTy}
	bodySt := append(Stack{accCell}, outer...)
	bodyTerm := in.step(ll.Body, bodySt, bodySt, in.finish)

	resultTy := lo.Ty
	loopTerm := ir.New(ir.LoopLeft{AccVar: freshAcc, Init: initTerm, Body: bodyTerm}, resultTy, span)
	newSt := append(Stack{{Term: loopTerm, Ty: resultTy}}, outer...)
	return in.at(seq, blockStart, i+2, newSt, k)
}

type iterKind int

const (
	iterUnknown iterKind = iota
	iterFold
	iterMapFold
)

// classifyIterBody tells Fold and MapFold apart purely from the trailing
// shape of an ITER body, since M's ITER carries no marker of which IR
// construct produced it (compileFold and compileMapFold in codegen's
// loops.go are the only two producers). Fold's cleanup strips exactly the
// stale element and accumulator (Dip{1,{Drop{2}}}); MapFold's strips the
// stale element and accumulator too but underneath a freshly consed
// builder cell, so its protecting Dip covers 2 slots instead of 1.
func classifyIterBody(body instr.Seq) (iterKind, bool) {
	if len(body) == 0 {
		return iterUnknown, false
	}
	dip, ok := body[len(body)-1].(instr.Dip)
	if !ok || len(dip.Body) != 1 {
		return iterUnknown, false
	}
	drop, ok := dip.Body[0].(instr.Drop)
	if !ok || drop.N != 2 {
		return iterUnknown, false
	}
	switch dip.N {
	case 1:
		return iterFold, true
	case 2:
		if len(body) < 5 {
			return iterUnknown, false
		}
		tail := body[len(body)-5:]
		if _, ok := tail[0].(instr.Unpair); !ok {
			return iterUnknown, false
		}
		if _, ok := tail[1].(instr.Dig); !ok {
			return iterUnknown, false
		}
		if _, ok := tail[2].(instr.Dig); !ok {
			return iterUnknown, false
		}
		if _, ok := tail[3].(instr.Cons); !ok {
			return iterUnknown, false
		}
		return iterMapFold, true
	default:
		return iterUnknown, false
	}
}

func foldKindOf(collTy *types.Type) ir.FoldKind {
	switch collTy.Kind {
	case types.KSet:
		return ir.FoldSet
	case types.KMap, types.KBigMap:
		return ir.FoldMap
	default:
		return ir.FoldList
	}
}

// elementTypeOf is what ITER pushes per element: the collection's element
// type directly for a list or set, or a (key, value) pair for a map —
// M's ITER over a map always yields the entry as a tuple.
func elementTypeOf(collTy *types.Type) *types.Type {
	switch collTy.Kind {
	case types.KList, types.KSet:
		return collTy.Elem
	case types.KMap, types.KBigMap:
		return types.Tuple(collTy.Key, collTy.Value)
	default:
		return types.Unit
	}
}

// reconstructFold inverts compileFold: before ITER, the stack holds
// [coll, acc, ...outer] (Coll compiled on top of the already-fully-
// computed Init, with no inlined-body wrinkle to work around).
func (in *Interp) reconstructFold(seq instr.Seq, blockStart Stack, i int, it instr.Iter, st Stack, k func(Stack) *ir.Term) *ir.Term {
	span := loc.Span{}
	if !in.need(st, 2, span) {
		next := func(st2 Stack) *ir.Term { return in.at(seq, blockStart, i+1, st2, k) }
		return in.stepOne(it, st, next)
	}
	collTerm, collTy := st[0].Term, st[0].Ty
	initTerm, accTy := st[1].Term, st[1].Ty
	outer := st[2:]

	kind := foldKindOf(collTy)
	elemTy := elementTypeOf(collTy)
	freshAcc, freshElem := in.fresh("acc"), in.fresh("elem")

	bodySeq := it.Body[:len(it.Body)-1] // drop the Dip{1,{Drop{2}}} cleanup
	iterSt := Stack{
		{Term: ir.New(ir.Var{Name: freshElem}, elemTy, span), Ty: elemTy},
		{Term: ir.New(ir.Var{Name: freshAcc}, accTy, span), Ty: accTy},
	}
	iterSt = append(iterSt, outer...)
	bodyTerm := in.step(bodySeq, iterSt, iterSt, in.finish)

	foldTerm := ir.New(ir.Fold{
		Kind: kind, Coll: collTerm, AccVar: freshAcc, ElemVar: freshElem,
		Init: initTerm, Body: bodyTerm,
	}, accTy, span)
	newSt := append(Stack{{Term: foldTerm, Ty: accTy}}, outer...)
	return in.at(seq, blockStart, i+1, newSt, k)
}

// reconstructMapFold inverts compileMapFold, consuming both the ITER and
// the PAIR that codegen always appends right after it (the two components
// the ITER leaves as separate cells — the built list and the final
// accumulator — get folded into one tuple cell there, and no generic
// Pair/tuple recovery should see that PAIR at all; it belongs entirely to
// this construct). The intermediate "$builder" list is a lowering
// artifact with no surface-level name, so it never becomes an ir.Term of
// its own — the body's own result cell is what MapFold.Body means.
func (in *Interp) reconstructMapFold(seq instr.Seq, blockStart Stack, i int, it instr.Iter, st Stack, k func(Stack) *ir.Term) *ir.Term {
	span := loc.Span{}
	if !in.need(st, 3, span) {
		next := func(st2 Stack) *ir.Term { return in.at(seq, blockStart, i+1, st2, k) }
		return in.stepOne(it, st, next)
	}
	collTerm, collTy := st[0].Term, st[0].Ty
	builderTy := st[1].Ty
	initTerm, accTy := st[2].Term, st[2].Ty
	outer := st[3:]

	kind := foldKindOf(collTy)
	elemTy := elementTypeOf(collTy)
	freshAcc, freshElem, freshBuilder := in.fresh("acc"), in.fresh("elem"), in.fresh("builder")

	bodySeq := it.Body[:len(it.Body)-5] // drop Unpair,Dig,Dig,Cons,Dip{2,{Drop{2}}}
	iterSt := Stack{
		{Term: ir.New(ir.Var{Name: freshElem}, elemTy, span), Ty: elemTy},
		{Term: ir.New(ir.Var{Name: freshBuilder}, builderTy, span), Ty: builderTy},
		{Term: ir.New(ir.Var{Name: freshAcc}, accTy, span), Ty: accTy},
	}
	iterSt = append(iterSt, outer...)
	bodyTerm := in.step(bodySeq, iterSt, iterSt, in.finish) // yields (newElem, newAcc)

	newElemTy := elemTy
	if bodyTerm.Ty != nil && bodyTerm.Ty.Kind == types.KTuple && len(bodyTerm.Ty.Elems) == 2 {
		newElemTy = bodyTerm.Ty.Elems[0]
	}
	// The lowering always rebuilds its result as a plain list of the
	// transformed elements, regardless of what kind of collection was
	// iterated (codegen/loops.go's compileMapFold: Cons only knows lists).
	resultTy := types.Tuple(types.List(newElemTy), accTy)

	mapFoldTerm := ir.New(ir.MapFold{
		Kind: kind, Coll: collTerm, AccVar: freshAcc, ElemVar: freshElem,
		Init: initTerm, Body: bodyTerm,
	}, resultTy, span)
	newSt := append(Stack{{Term: mapFoldTerm, Ty: resultTy}}, outer...)
	return in.at(seq, blockStart, i+2, newSt, k) // +2 skips ITER and the trailing PAIR
}

// reconstructMap inverts compileMap: before MAP, the stack holds
// [coll, ...outer].
func (in *Interp) reconstructMap(st Stack, mp instr.MapOp, k func(Stack) *ir.Term) *ir.Term {
	span := loc.Span{}
	if !in.need(st, 1, span) {
		return k(st)
	}
	collTerm, collTy := st[0].Term, st[0].Ty
	outer := st[1:]
	kind := foldKindOf(collTy)
	elemTy := elementTypeOf(collTy)
	freshElem := in.fresh("elem")

	bodySeq := mp.Body
	if n := len(bodySeq); n > 0 {
		if d, ok := bodySeq[n-1].(instr.Dip); ok && d.N == 1 {
			bodySeq = bodySeq[:n-1]
		}
	}
	elemCell := Cell{Term: ir.New(ir.Var{Name: freshElem}, elemTy, span), Ty: elemTy}
	bodySt := append(Stack{elemCell}, outer...)
	bodyTerm := in.step(bodySeq, bodySt, bodySt, in.finish)

	var resultTy *types.Type
	switch kind {
	case ir.FoldSet:
		resultTy = types.Set(bodyTerm.Ty)
	case ir.FoldMap:
		resultTy = types.Map(collTy.Key, bodyTerm.Ty)
	default:
		resultTy = types.List(bodyTerm.Ty)
	}

	mapTerm := ir.New(ir.MapNode{Kind: kind, Coll: collTerm, ElemVar: freshElem, Body: bodyTerm}, resultTy, span)
	newSt := append(Stack{{Term: mapTerm, Ty: resultTy}}, outer...)
	return k(newSt)
}
