package codegen

import (
	"github.com/chazu/clc/instr"
	"github.com/chazu/clc/ir"
)

// compileCreateContract lowers CreateContract onto CREATE_CONTRACT: the
// nested script starts from a completely fresh frame containing only its
// own parameter and storage, since M's own CREATE_CONTRACT forbids a
// nested script from reading anything off the originating contract's
// stack — only Delegate/Amount/InitStorage, evaluated in the outer scope,
// cross that boundary, and they do so as ordinary values rather than as
// captured stack slots. CREATE_CONTRACT itself pushes two independent
// values (operation, address); they're paired immediately after so
// CreateContract keeps this package's one-term-one-value discipline.
func (g *gen) compileCreateContract(cc ir.CreateContract, fr frame) instr.Seq {
	code := g.compile(cc.Delegate, fr)
	f1 := fr.push("$delegate")
	code = append(code, g.compile(cc.Amount, f1)...)
	f2 := f1.push("$amount")
	code = append(code, g.compile(cc.InitStorage, f2)...)

	scriptFrame := frame{cc.ParamName, cc.StorageName}
	scriptBody := instr.Seq{instr.Unpair{}}
	scriptBody = append(scriptBody, g.compile(cc.Body, scriptFrame)...)

	code = append(code, instr.CreateContractOp{StorageTy: cc.StorageTy, ParamTy: cc.ParamTy, Body: scriptBody})
	return append(code, instr.Pair{})
}
