package codegen

import (
	"github.com/chazu/clc/diag"
	"github.com/chazu/clc/instr"
	"github.com/chazu/clc/ir"
)

// simpleOp is the M instruction a primitive with no special stack-order
// requirements lowers to directly.
var simpleOp = map[string]instr.Instr{
	"neg": instr.Neg{}, "abs": instr.Abs{}, "isnat": instr.IsNat{},
	"int_of": instr.IntOf{}, "not": instr.Not{}, "size": instr.SizeOf{},
	"add": instr.Add{}, "mul": instr.Mul{},
	"and": instr.And{}, "or": instr.Or{}, "xor": instr.Xor{},
	"compare": instr.Compare{}, "eq": instr.Eq{}, "neq": instr.Neq{},
	"concat": instr.Concat{}, "mem": instr.Mem{}, "get": instr.Get{},
	"sha256": instr.Sha256{}, "sha512": instr.Sha512{}, "sha3": instr.Sha3{},
	"keccak": instr.Keccak{}, "blake2b": instr.Blake2b{}, "hash_key": instr.HashKey{},
	"check_signature": instr.CheckSignature{}, "address_of": instr.AddressOf{},
	"implicit_account": instr.ImplicitAccount{}, "update": instr.Update{},
}

// orderSensitive holds the instructions whose two operands are order-sensitive
// in the surface primitive (args[0] is the left operand, e.g. `sub a b`
// means a-b) and so must be pushed in reverse so args[0] lands on top,
// matching every binary instruction's "top is the left operand" contract.
var orderSensitive = map[string]instr.Instr{
	"sub": instr.Sub{}, "div": instr.EDiv{}, "mod": instr.EDiv{},
	"lt": instr.Lt{}, "le": instr.Le{}, "gt": instr.Gt{}, "ge": instr.Ge{},
}

var nullaryOp = map[string]instr.Instr{
	"self": instr.Self{}, "sender": instr.Sender{}, "source": instr.Source{},
	"amount": instr.Amount{}, "balance": instr.Balance{}, "now": instr.Now{},
	"level": instr.Level{}, "chain_id": instr.ChainID{},
}

func (g *gen) compileApply(t *ir.Term, a ir.Apply, fr frame) instr.Seq {
	if op, ok := nullaryOp[a.Prim]; ok {
		return instr.Seq{op}
	}
	if a.Prim == "pair" {
		return g.compilePairLike(a.Args, fr)
	}
	if a.Prim == "exec" {
		// Args are (arg, fn); EXEC wants arg on top with the lambda beneath.
		code := g.compile(a.Args[1], fr)
		code = append(code, g.compile(a.Args[0], fr.push("$fn"))...)
		return append(code, instr.Exec{})
	}
	if op, ok := simpleOp[a.Prim]; ok {
		return append(g.pushArgsTopFirst(a.Args, fr), op)
	}
	if op, ok := orderSensitive[a.Prim]; ok {
		return append(g.pushArgsTopFirst(a.Args, fr), op)
	}
	g.bag.Errorf(diag.Internal, t.Loc, "codegen: unhandled primitive %q", a.Prim)
	return instr.Seq{}
}

// pushArgsTopFirst compiles args in reverse so args[0] ends up on top of
// stack, matching every binary/n-ary M instruction's convention that the
// top operand is the first written in surface syntax.
func (g *gen) pushArgsTopFirst(args []*ir.Term, fr frame) instr.Seq {
	code := instr.Seq{}
	cur := fr
	for i := len(args) - 1; i >= 0; i-- {
		code = append(code, g.compile(args[i], cur)...)
		cur = cur.push("$arg")
	}
	return code
}
