package finalize

import "github.com/chazu/clc/instr"

// peephole descends into every nested block first, then rewrites the
// resulting flat sequence to a fixpoint using the windowed rules below.
// Descending first means a rule can fire inside a Dip or If body exactly
// the same way it fires at the top level, without a second dedicated
// tree-walk.
func peephole(seq instr.Seq) instr.Seq {
	out := make(instr.Seq, len(seq))
	for i, ins := range seq {
		out[i] = descend(ins)
	}
	for {
		next, changed := rewriteOnce(out)
		if !changed {
			return next
		}
		out = next
	}
}

// descend rewrites the nested Seq operands of a single instruction,
// leaving instructions with no Seq operand untouched.
func descend(ins instr.Instr) instr.Instr {
	switch n := ins.(type) {
	case instr.If:
		return instr.If{Then: peephole(n.Then), Else: peephole(n.Else)}
	case instr.IfNone:
		return instr.IfNone{NoneBranch: peephole(n.NoneBranch), SomeBranch: peephole(n.SomeBranch)}
	case instr.IfLeft:
		return instr.IfLeft{LeftBranch: peephole(n.LeftBranch), RightBranch: peephole(n.RightBranch)}
	case instr.IfCons:
		return instr.IfCons{ConsBranch: peephole(n.ConsBranch), NilBranch: peephole(n.NilBranch)}
	case instr.Loop:
		return instr.Loop{Body: peephole(n.Body)}
	case instr.LoopLeft:
		return instr.LoopLeft{Body: peephole(n.Body)}
	case instr.Dip:
		return instr.Dip{N: n.N, Body: peephole(n.Body)}
	case instr.Iter:
		return instr.Iter{Body: peephole(n.Body)}
	case instr.MapOp:
		return instr.MapOp{Body: peephole(n.Body)}
	case instr.Lambda:
		return instr.Lambda{Arg: n.Arg, Res: n.Res, Body: peephole(n.Body)}
	case instr.CreateContractOp:
		return instr.CreateContractOp{StorageTy: n.StorageTy, ParamTy: n.ParamTy, Body: peephole(n.Body)}
	case instr.Rename:
		return instr.Rename{Annotation: n.Annotation, Inner: descend(n.Inner)}
	default:
		return ins
	}
}

// rewriteOnce applies every windowed rule left-to-right, non-overlapping,
// and reports whether anything changed. Rules never look past the pair of
// adjacent instructions they match, matching the "windowed instruction
// subsequences" scope the corpus's own straight-line scanning passes use.
func rewriteOnce(seq instr.Seq) (instr.Seq, bool) {
	out := make(instr.Seq, 0, len(seq))
	changed := false
	for i := 0; i < len(seq); i++ {
		if i+1 < len(seq) {
			if dropsAPureLiteral(seq[i], seq[i+1]) {
				changed = true
				i++
				continue
			}
			if isDupThenDiscardCopy(seq[i], seq[i+1]) {
				changed = true
				i++
				continue
			}
			if merged, ok := mergeAdjacentDip(seq[i], seq[i+1]); ok {
				out = append(out, merged)
				changed = true
				i++
				continue
			}
		}
		out = append(out, seq[i])
	}
	return out, changed
}

// dropsAPureLiteral matches PUSH; DROP — a literal computed and immediately
// discarded has no observable effect, since PUSH can never fail or enqueue
// an operation.
func dropsAPureLiteral(a, b instr.Instr) bool {
	if _, ok := a.(instr.Push); !ok {
		return false
	}
	d, ok := b.(instr.Drop)
	return ok && d.N <= 1
}

// isDupThenDiscardCopy matches DUP 0; DIP(1, DROP 1): duplicate the top
// value, then protect the copy and drop what's now underneath it — the
// original. Net effect is identical to doing nothing, and this exact shape
// is what codegen's own Let lowering produces for `let x = e in x`.
func isDupThenDiscardCopy(a, b instr.Instr) bool {
	dup, ok := a.(instr.Dup)
	if !ok || dup.N != 0 {
		return false
	}
	dip, ok := b.(instr.Dip)
	if !ok || dip.N != 1 || len(dip.Body) != 1 {
		return false
	}
	drop, ok := dip.Body[0].(instr.Drop)
	return ok && drop.N <= 1
}

// mergeAdjacentDip folds two consecutive DIPs of the same protected depth
// into one: since neither body can reach into the protected region, running
// them back to back under one DIP is behaviorally identical to running each
// under its own.
func mergeAdjacentDip(a, b instr.Instr) (instr.Instr, bool) {
	d1, ok := a.(instr.Dip)
	if !ok {
		return nil, false
	}
	d2, ok := b.(instr.Dip)
	if !ok || d1.N != d2.N {
		return nil, false
	}
	body := make(instr.Seq, 0, len(d1.Body)+len(d2.Body))
	body = append(body, d1.Body...)
	body = append(body, d2.Body...)
	return instr.Dip{N: d1.N, Body: body}, true
}
