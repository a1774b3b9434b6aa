package interp

import (
	"github.com/chazu/clc/instr"
	"github.com/chazu/clc/ir"
	"github.com/chazu/clc/loc"
	"github.com/chazu/clc/types"
)

// peekCreateContractPair reports whether a CREATE_CONTRACT at seq[i] is
// immediately followed by the PAIR codegen always appends to combine its
// two raw pushes (operation, address) into the single tuple value one
// ir.CreateContract term represents.
func peekCreateContractPair(seq instr.Seq, i int) bool {
	if i+1 >= len(seq) {
		return false
	}
	_, ok := seq[i+1].(instr.Pair)
	return ok
}

func (in *Interp) reconstructCreateContract(seq instr.Seq, blockStart Stack, i int, cc instr.CreateContractOp, st Stack, k func(Stack) *ir.Term) *ir.Term {
	term, outer, ok := in.buildCreateContract(cc, st)
	if !ok {
		return k(st)
	}
	newSt := append(Stack{{Term: term, Ty: term.Ty}}, outer...)
	return in.at(seq, blockStart, i+2, newSt, k)
}

func (in *Interp) stepCreateContract(cc instr.CreateContractOp, st Stack, k func(Stack) *ir.Term) *ir.Term {
	term, outer, ok := in.buildCreateContract(cc, st)
	if !ok {
		return k(st)
	}
	return k(append(Stack{{Term: term, Ty: term.Ty}}, outer...))
}

// buildCreateContract inverts compileCreateContract: the nested script's
// two formal parameters (param, storage) are never named at the M level
// (frame{ParamName,StorageName} exists only for codegen's own depth
// bookkeeping), so a fresh pair of names is synthesized here and used to
// decompile the body directly, the same way reconstructLoop invents a
// fresh accumulator name for LOOP's body.
func (in *Interp) buildCreateContract(cc instr.CreateContractOp, st Stack) (*ir.Term, Stack, bool) {
	span := loc.Span{}
	if !in.need(st, 3, span) {
		return nil, st, false
	}
	initStorage := st[0].Term
	amount := st[1].Term
	delegate := st[2].Term
	outer := st[3:]

	scriptSeq := cc.Body
	if len(scriptSeq) > 0 {
		if _, ok := scriptSeq[0].(instr.Unpair); ok {
			scriptSeq = scriptSeq[1:]
		}
	}
	paramName := in.fresh("param")
	storageName := in.fresh("storage")
	scriptSt := Stack{
		{Term: ir.New(ir.Var{Name: paramName}, cc.ParamTy, span), Ty: cc.ParamTy},
		{Term: ir.New(ir.Var{Name: storageName}, cc.StorageTy, span), Ty: cc.StorageTy},
	}
	bodyTerm := in.step(scriptSeq, scriptSt, scriptSt, in.finish)

	resultTy := types.Tuple(types.Operation, types.Address)
	term := ir.New(ir.CreateContract{
		StorageTy: cc.StorageTy, ParamTy: cc.ParamTy,
		ParamName: paramName, StorageName: storageName,
		Body:        bodyTerm,
		Delegate:    delegate,
		Amount:      amount,
		InitStorage: initStorage,
	}, resultTy, span)
	return term, outer, true
}
