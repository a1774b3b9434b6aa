package interp

import (
	"github.com/chazu/clc/instr"
	"github.com/chazu/clc/ir"
	"github.com/chazu/clc/loc"
	"github.com/chazu/clc/types"
	"github.com/chazu/clc/typecheck"
)

// stepOne dispatches a single, already-disambiguated instruction. Every
// multi-instruction idiom (LOOP, LOOP_LEFT, the ITER shapes) is peeled off
// before reaching here by at(), so this switch only ever sees instructions
// whose stack effect is local and unambiguous.
func (in *Interp) stepOne(ins instr.Instr, st Stack, k func(Stack) *ir.Term) *ir.Term {
	span := loc.Span{}
	switch v := ins.(type) {

	// --- control flow already reconstructed elsewhere ---
	case instr.If:
		return in.stepIf(v, st, k)
	case instr.IfNone:
		return in.stepIfNone(v, st, k)
	case instr.IfCons:
		return in.stepIfCons(v, st, k)
	case instr.IfLeft:
		return in.stepIfLeft(v, st, k)
	case instr.MapOp:
		return in.reconstructMap(st, v, k)

	// --- stack manipulation ---
	case instr.Drop:
		return in.stepDrop(v, st, k)
	case instr.Dup:
		return in.stepDup(v, st, k)
	case instr.Swap:
		return in.stepSwap(st, k)
	case instr.Dig:
		return in.stepDig(v, st, k)
	case instr.Dug:
		return in.stepDug(v, st, k)
	case instr.Dip:
		return in.stepDip(v, st, k)

	// --- constants and pairing ---
	case instr.Push:
		return in.stepPush(v, st, k)
	case instr.Pair:
		return in.stepPair(st, k)
	case instr.PairN:
		return in.stepPairN(v, st, k)
	case instr.Unpair:
		return in.stepUnpair(st, k)
	case instr.GetN:
		return in.stepGetN(v, st, k)
	case instr.UpdateN:
		return in.stepUpdateN(v, st, k)

	// --- lambdas and application ---
	case instr.Lambda:
		return in.stepLambda(v, st, k)
	case instr.Exec:
		return in.stepExec(st, k)
	case instr.ApplyOp:
		return in.stepApplyOp(st, k)

	// --- blockchain primitives ---
	case instr.TransferTokens:
		return in.stepTransferTokens(st, k)
	case instr.CreateContractOp:
		return in.stepCreateContract(v, st, k)
	case instr.ContractOpt:
		return in.stepContractAt(v, st, k)
	case instr.UnpackOf:
		return in.stepUnpack(v, st, k)
	case instr.Failwith:
		return in.stepFailwith(st, k)
	case instr.PackOp:
		return in.unaryApply("pack", st, k)
	case instr.SetDelegate:
		return in.unaryApply("set_delegate", st, k)
	case instr.ImplicitAccount:
		return in.unaryApply("implicit_account", st, k)
	case instr.AddressOf:
		return in.unaryApply("address_of", st, k)
	case instr.Self:
		return in.nullaryApply("self", st, k)
	case instr.Sender:
		return in.nullaryApply("sender", st, k)
	case instr.Source:
		return in.nullaryApply("source", st, k)
	case instr.Amount:
		return in.nullaryApply("amount", st, k)
	case instr.Balance:
		return in.nullaryApply("balance", st, k)
	case instr.Now:
		return in.nullaryApply("now", st, k)
	case instr.Level:
		return in.nullaryApply("level", st, k)
	case instr.ChainID:
		return in.nullaryApply("chain_id", st, k)

	// --- arithmetic, logic, comparison, hashing, collections: all route
	// through the shared primitive table so result types stay in lockstep
	// with the typechecker's own derivation. ---
	case instr.Add:
		return in.binaryApply("add", st, k)
	case instr.Sub:
		return in.binaryApply("sub", st, k)
	case instr.Mul:
		return in.binaryApply("mul", st, k)
	case instr.EDiv:
		return in.binaryApply("div", st, k)
	case instr.Neg:
		return in.unaryApply("neg", st, k)
	case instr.Abs:
		return in.unaryApply("abs", st, k)
	case instr.IsNat:
		return in.unaryApply("isnat", st, k)
	case instr.IntOf:
		return in.unaryApply("int_of", st, k)
	case instr.Not:
		return in.unaryApply("not", st, k)
	case instr.And:
		return in.binaryApply("and", st, k)
	case instr.Or:
		return in.binaryApply("or", st, k)
	case instr.Xor:
		return in.binaryApply("xor", st, k)
	case instr.Compare:
		return in.binaryApply("compare", st, k)
	case instr.Eq:
		return in.binaryApply("eq", st, k)
	case instr.Neq:
		return in.binaryApply("neq", st, k)
	case instr.Lt:
		return in.binaryApply("lt", st, k)
	case instr.Le:
		return in.binaryApply("le", st, k)
	case instr.Gt:
		return in.binaryApply("gt", st, k)
	case instr.Ge:
		return in.binaryApply("ge", st, k)
	case instr.Concat:
		return in.binaryApply("concat", st, k)
	case instr.SizeOf:
		return in.unaryApply("size", st, k)
	case instr.Mem:
		return in.binaryApply("mem", st, k)
	case instr.Get:
		return in.binaryApply("get", st, k)
	case instr.Update:
		return in.ternaryApply("update", st, k)
	case instr.Sha256:
		return in.unaryApply("sha256", st, k)
	case instr.Sha512:
		return in.unaryApply("sha512", st, k)
	case instr.Sha3:
		return in.unaryApply("sha3", st, k)
	case instr.Keccak:
		return in.unaryApply("keccak", st, k)
	case instr.Blake2b:
		return in.unaryApply("blake2b", st, k)
	case instr.HashKey:
		return in.unaryApply("hash_key", st, k)
	case instr.CheckSignature:
		return in.ternaryApply("check_signature", st, k)

	// --- construction ops. This compiler's own codegen never emits any of
	// these directly (every literal, including Some/None/Left/Right/empty
	// collections, folds to a single Push carrying a types.Const), but a
	// foreign M program is free to use them, so a plain best-effort
	// reconstruction is still worth having. ---
	case instr.Some:
		return in.wrapOption(true, st, k)
	case instr.NoneOf:
		return in.constTop(types.Option(v.Ty), types.None_(), st, k)
	case instr.NilOf:
		return in.constTop(types.List(v.Ty), &types.Const{Kind: types.CList}, st, k)
	case instr.EmptySetOf:
		return in.constTop(types.Set(v.Ty), &types.Const{Kind: types.CSet}, st, k)
	case instr.EmptyMapOf:
		return in.constTop(types.Map(v.K, v.V), &types.Const{Kind: types.CMap}, st, k)
	case instr.EmptyBigMapOf:
		return in.constTop(types.BigMap(v.K, v.V), types.EmptyBigMap(v.K, v.V), st, k)
	case instr.LeftOf:
		return in.unaryApply("left_", st, k) // bare LEFT outside a LOOP_LEFT idiom; see loops.go for the idiomatic case
	case instr.RightOf:
		return in.unaryApply("right_", st, k)
	case instr.Cons:
		return in.binaryApply("cons", st, k)

	// --- debug annotation ---
	case instr.Rename:
		return in.stepRename(v, st, k)

	default:
		in.unstructured(span, "unrecognized M instruction in decompiler input")
		return k(st)
	}
}

// binaryApply, unaryApply, ternaryApply, and nullaryApply build an
// ir.Apply for a primitive whose stack contract already matches
// pushArgsTopFirst's convention (st[0]=Args[0], st[1]=Args[1], ...) and
// derive its result type from the same signature table codegen's
// typechecker phase uses, so a decompiled Apply always retypechecks the
// same way the original surface call did.
func (in *Interp) nullaryApply(prim string, st Stack, k func(Stack) *ir.Term) *ir.Term {
	span := loc.Span{}
	ty, _ := typecheck.PrimResultType(prim, nil)
	term := ir.New(ir.Apply{Prim: prim}, ty, span)
	return k(append(Stack{{Term: term, Ty: ty}}, st...))
}

func (in *Interp) unaryApply(prim string, st Stack, k func(Stack) *ir.Term) *ir.Term {
	return in.nAryApply(prim, 1, st, k)
}

func (in *Interp) binaryApply(prim string, st Stack, k func(Stack) *ir.Term) *ir.Term {
	return in.nAryApply(prim, 2, st, k)
}

func (in *Interp) ternaryApply(prim string, st Stack, k func(Stack) *ir.Term) *ir.Term {
	return in.nAryApply(prim, 3, st, k)
}

func (in *Interp) nAryApply(prim string, n int, st Stack, k func(Stack) *ir.Term) *ir.Term {
	span := loc.Span{}
	if !in.need(st, n, span) {
		return k(st)
	}
	args := make([]*ir.Term, n)
	argTys := make([]*types.Type, n)
	for i := 0; i < n; i++ {
		args[i], argTys[i] = st[i].Term, st[i].Ty
	}
	outer := st[n:]
	ty, _ := typecheck.PrimResultType(prim, argTys)
	term := ir.New(ir.Apply{Prim: prim, Args: args}, ty, span)
	return k(append(Stack{{Term: term, Ty: ty}}, outer...))
}

// stepFailwith covers the one non-Apply unary op: FAILWITH's IR shape is
// its own dedicated Term variant rather than an Apply, and it never
// returns to its caller, so it carries no meaningful result type.
func (in *Interp) stepFailwith(st Stack, k func(Stack) *ir.Term) *ir.Term {
	span := loc.Span{}
	if !in.need(st, 1, span) {
		return k(st)
	}
	arg := st[0].Term
	outer := st[1:]
	term := ir.New(ir.Failwith{Arg: arg}, nil, span)
	return k(append(Stack{{Term: term, Ty: nil}}, outer...))
}

func (in *Interp) wrapOption(_ bool, st Stack, k func(Stack) *ir.Term) *ir.Term {
	return in.unaryApply("some_", st, k)
}

func (in *Interp) constTop(ty *types.Type, val *types.Const, st Stack, k func(Stack) *ir.Term) *ir.Term {
	term := ir.New(ir.ConstNode{Value: val}, ty, loc.Span{})
	return k(append(Stack{{Term: term, Ty: ty}}, st...))
}

func (in *Interp) stepTransferTokens(st Stack, k func(Stack) *ir.Term) *ir.Term {
	span := loc.Span{}
	if !in.need(st, 3, span) {
		return k(st)
	}
	arg, amount, contract := st[0].Term, st[1].Term, st[2].Term
	outer := st[3:]
	term := ir.New(ir.TransferNode{Contract: contract, Amount: amount, Arg: arg}, types.Operation, span)
	return k(append(Stack{{Term: term, Ty: types.Operation}}, outer...))
}

func (in *Interp) stepContractAt(c instr.ContractOpt, st Stack, k func(Stack) *ir.Term) *ir.Term {
	span := loc.Span{}
	if !in.need(st, 1, span) {
		return k(st)
	}
	addr := st[0].Term
	outer := st[1:]
	resultTy := types.Option(types.Contract(c.Of))
	term := ir.New(ir.ContractAt{Addr: addr, Of: c.Of}, resultTy, span)
	return k(append(Stack{{Term: term, Ty: resultTy}}, outer...))
}

func (in *Interp) stepUnpack(u instr.UnpackOf, st Stack, k func(Stack) *ir.Term) *ir.Term {
	span := loc.Span{}
	if !in.need(st, 1, span) {
		return k(st)
	}
	bytes := st[0].Term
	outer := st[1:]
	resultTy := types.Option(u.Of)
	term := ir.New(ir.Unpack{Bytes: bytes, Of: u.Of}, resultTy, span)
	return k(append(Stack{{Term: term, Ty: resultTy}}, outer...))
}

// stepRename recovers a debug name for the value the annotation is
// attached to; conflicting nested reuses of the same annotation name are
// reported and, on retry, this step is skipped entirely because the
// driver reruns with IgnoreAnnotations set (§7.5).
func (in *Interp) stepRename(r instr.Rename, st Stack, k func(Stack) *ir.Term) *ir.Term {
	inner := func(st2 Stack) *ir.Term {
		if in.IgnoreAnnotations || len(st2) == 0 {
			return k(st2)
		}
		if prev, ok := in.bound[r.Annotation]; ok && prev != st2[0].Term {
			in.annotationConflict(loc.Span{}, r.Annotation)
			return k(st2)
		}
		in.bound[r.Annotation] = st2[0].Term
		return in.nameTop(st2, r.Annotation, k)
	}
	return in.stepOne(r.Inner, st, inner)
}
