package finalize

import "github.com/chazu/clc/instr"

// truncateFails descends into every nested block, then truncates seq at
// its first instruction whose recursive tail position is known to fail —
// FAILWITH poisons M's stack type, so anything the verifier would see
// after it is not just dead but unwellformed.
func truncateFails(seq instr.Seq) instr.Seq {
	out := make(instr.Seq, 0, len(seq))
	for _, ins := range seq {
		rewritten := descendFails(ins)
		out = append(out, rewritten)
		if endFails(rewritten) {
			return out
		}
	}
	return out
}

// descendFails truncates the nested Seq operands of a single instruction,
// mirroring descend's shape in peephole.go but for the fail relation
// instead of windowed rewrites.
func descendFails(ins instr.Instr) instr.Instr {
	switch n := ins.(type) {
	case instr.If:
		return instr.If{Then: truncateFails(n.Then), Else: truncateFails(n.Else)}
	case instr.IfNone:
		return instr.IfNone{NoneBranch: truncateFails(n.NoneBranch), SomeBranch: truncateFails(n.SomeBranch)}
	case instr.IfLeft:
		return instr.IfLeft{LeftBranch: truncateFails(n.LeftBranch), RightBranch: truncateFails(n.RightBranch)}
	case instr.IfCons:
		return instr.IfCons{ConsBranch: truncateFails(n.ConsBranch), NilBranch: truncateFails(n.NilBranch)}
	case instr.Loop:
		return instr.Loop{Body: truncateFails(n.Body)}
	case instr.LoopLeft:
		return instr.LoopLeft{Body: truncateFails(n.Body)}
	case instr.Dip:
		return instr.Dip{N: n.N, Body: truncateFails(n.Body)}
	case instr.Iter:
		return instr.Iter{Body: truncateFails(n.Body)}
	case instr.MapOp:
		return instr.MapOp{Body: truncateFails(n.Body)}
	case instr.Lambda:
		return instr.Lambda{Arg: n.Arg, Res: n.Res, Body: truncateFails(n.Body)}
	case instr.CreateContractOp:
		return instr.CreateContractOp{StorageTy: n.StorageTy, ParamTy: n.ParamTy, Body: truncateFails(n.Body)}
	case instr.Rename:
		return instr.Rename{Annotation: n.Annotation, Inner: descendFails(n.Inner)}
	default:
		return ins
	}
}

// endFails is the end_fails relation: FAILWITH itself; a SEQ (represented
// here by its already-truncated last element, since a SEQ that fails is
// exactly one whose last surviving instruction fails) whose last element
// fails; an IF/IF_NONE/IF_LEFT/IF_CONS both of whose arms fail; a DIP whose
// body fails. LOOP, LOOP_LEFT, ITER, and MAP are excluded on purpose: a
// loop that fails on some iteration may still exit normally on another, so
// looking inside one can't license truncating what follows it.
func endFails(ins instr.Instr) bool {
	switch n := ins.(type) {
	case instr.Failwith:
		return true
	case instr.If:
		return seqEndFails(n.Then) && seqEndFails(n.Else)
	case instr.IfNone:
		return seqEndFails(n.NoneBranch) && seqEndFails(n.SomeBranch)
	case instr.IfLeft:
		return seqEndFails(n.LeftBranch) && seqEndFails(n.RightBranch)
	case instr.IfCons:
		return seqEndFails(n.ConsBranch) && seqEndFails(n.NilBranch)
	case instr.Dip:
		return seqEndFails(n.Body)
	case instr.Rename:
		return endFails(n.Inner)
	default:
		return false
	}
}

func seqEndFails(seq instr.Seq) bool {
	if len(seq) == 0 {
		return false
	}
	return endFails(seq[len(seq)-1])
}
