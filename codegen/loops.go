package codegen

import (
	"github.com/chazu/clc/instr"
	"github.com/chazu/clc/ir"
	"github.com/chazu/clc/types"
)

// compileLoop lowers Loop to M's LOOP, which always tests a bool already
// on the stack before running its body. Since the IR gives an initial
// accumulator rather than an initial bool, the body runs once
// unconditionally to produce that first (continue, acc) pair — Loop is
// therefore a do-while, not a while, under this lowering. There is no
// LOOP primitive that tests before a first run without already having a
// bool to test, so an upfront body evaluation is the only faithful way to
// get the first continue decision at all.
func (g *gen) compileLoop(l ir.Loop, fr frame) instr.Seq {
	code := g.compile(l.Init, fr)
	f1 := fr.push(l.AccVar)
	// compile leaves the old AccVar sitting beneath the freshly computed
	// (continue, acc') pair; LOOP's body must consume the old acc entirely,
	// so it gets stripped before Unpair splits the pair into [bool, acc'].
	bodyCode := g.compile(l.Body, f1)
	bodyCode = append(bodyCode, instr.Dip{N: 1, Body: instr.Seq{instr.Drop{}}})
	bodyCode = append(bodyCode, instr.Unpair{})

	code = append(code, bodyCode...)
	code = append(code, instr.Loop{Body: bodyCode})
	return code
}

// compileLoopLeft lowers LoopLeft directly onto M's LOOP_LEFT, which is a
// true while-loop: the initial accumulator is injected as Left(acc) once,
// and LOOP_LEFT itself decides whether to run the body at all. This is the
// concrete choice between the open question's "acc=Some" and "acc=None"
// framings: neither — the accumulator rides in the or's Left arm, which
// LOOP_LEFT already unwraps for the body and re-wraps for the next test,
// so no extra option layer is needed at all.
func (g *gen) compileLoopLeft(l ir.LoopLeft, fr frame) instr.Seq {
	code := g.compile(l.Init, fr)
	rightTy := resultOrType(l.Body)
	code = append(code, instr.LeftOf{Ty: rightTy})
	bodyFrame := fr.push(l.AccVar)
	// LOOP_LEFT's body must consume the unwrapped acc entirely, leaving
	// just the or(acc',result) value it computes — the stale AccVar
	// compile leaves underneath has to be stripped first.
	bodyCode := g.compile(l.Body, bodyFrame)
	bodyCode = append(bodyCode, instr.Dip{N: 1, Body: instr.Seq{instr.Drop{}}})
	return append(code, instr.LoopLeft{Body: bodyCode})
}

func resultOrType(body *ir.Term) *types.Type {
	return body.Ty.OrRight()
}

// compileFold lowers Fold onto ITER: the accumulator sits beneath the
// collection on the stack so ITER's per-element body can read and replace
// it in place, which is exactly how Michelson's own ITER threads state
// through a fold (no dedicated FOLD primitive exists, because ITER's body
// already has the whole remaining stack available to it).
func (g *gen) compileFold(f ir.Fold, fr frame) instr.Seq {
	code := g.compile(f.Init, fr)
	f1 := fr.push(f.AccVar)
	code = append(code, g.compile(f.Coll, f1)...)

	iterFrame := f1.push(f.ElemVar)
	bodyCode := g.compile(f.Body, iterFrame)
	bodyCode = append(bodyCode, instr.Dip{N: 1, Body: instr.Seq{instr.Drop{N: 2}}})

	return append(code, instr.Iter{Body: bodyCode})
}

// compileMap lowers MapNode onto M's MAP, which transforms each element in
// place and reassembles the collection — the one primitive in this set
// that doesn't need the accumulator-beneath-collection trick, since it
// carries no accumulator at all.
func (g *gen) compileMap(m ir.MapNode, fr frame) instr.Seq {
	code := g.compile(m.Coll, fr)
	bodyFrame := fr.push(m.ElemVar)
	bodyCode := g.compile(m.Body, bodyFrame)
	bodyCode = append(bodyCode, instr.Dip{N: 1, Body: instr.Seq{instr.Drop{}}})
	return append(code, instr.MapOp{Body: bodyCode})
}

// compileMapFold lowers MapFold onto the same ITER-with-threaded-state
// technique as Fold, but threading two values beneath the collection: the
// fold accumulator and a list being built up by CONS-ing each transformed
// element on. The built list comes out in reverse traversal order, which
// this lowering accepts rather than paying for a second pass to reverse it
// — decompile doesn't need to recover traversal order, only the set of
// pairs a finished map_fold produced.
func (g *gen) compileMapFold(m ir.MapFold, fr frame) instr.Seq {
	code := g.compile(m.Init, fr)
	f1 := fr.push(m.AccVar)

	code = append(code, instr.NilOf{Ty: mapFoldElemTy(m)})
	const builderName = "$builder"
	f2 := f1.push(builderName)

	code = append(code, g.compile(m.Coll, f2)...)

	iterFrame := f2.push(m.ElemVar)
	bodyCode := g.compile(m.Body, iterFrame) // pushes (newElem, newAcc)
	bodyCode = append(bodyCode, instr.Unpair{})
	// stack is now [newElem, newAcc, elem, builder, acc, ...]
	afterUnpair := iterFrame.push("$newAcc").push("$newElem")

	depth, shuffled, _ := afterUnpair.digTo(builderName)
	bodyCode = append(bodyCode, instr.Dig{N: depth}) // -> [builder, newElem, newAcc, elem, acc, ...]

	depth2, _, _ := shuffled.digTo("$newElem")
	bodyCode = append(bodyCode, instr.Dig{N: depth2}) // -> [newElem, builder, newAcc, elem, acc, ...]

	bodyCode = append(bodyCode, instr.Cons{})
	// stack: [newBuilder, newAcc, elem, acc, ...] -> protect top 2, drop 2
	bodyCode = append(bodyCode, instr.Dip{N: 2, Body: instr.Seq{instr.Drop{N: 2}}})

	code = append(code, instr.Iter{Body: bodyCode})
	// final stack: [builder, acc, ...fr]; pair them into the (coll, acc) result.
	return append(code, instr.Pair{})
}

func mapFoldElemTy(m ir.MapFold) *types.Type {
	if m.Body.Ty != nil && m.Body.Ty.Kind == types.KTuple && len(m.Body.Ty.Elems) == 2 {
		return m.Body.Ty.Elems[0]
	}
	return types.Unit
}
