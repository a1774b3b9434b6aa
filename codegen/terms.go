package codegen

import (
	"github.com/chazu/clc/diag"
	"github.com/chazu/clc/instr"
	"github.com/chazu/clc/ir"
	"github.com/chazu/clc/types"
)

// compile lowers t under fr, returning code that leaves exactly one new
// value — t's — on top of whatever fr already describes.
func (g *gen) compile(t *ir.Term, fr frame) instr.Seq {
	switch d := t.Desc.(type) {
	case ir.Var:
		idx, ok := fr.depthOf(d.Name)
		if !ok {
			g.bag.Errorf(diag.Internal, t.Loc, "codegen: unbound name %q reached code generation", d.Name)
			return instr.Seq{instr.Push{Ty: t.Ty, Val: zeroConst(t.Ty)}}
		}
		return instr.Seq{instr.Dup{N: idx}}

	case ir.ConstNode:
		return instr.Seq{instr.Push{Ty: t.Ty, Val: d.Value}}

	case ir.Let:
		code := g.compile(d.Rhs, fr)
		code = append(code, g.compile(d.Body, fr.push(d.Name))...)
		return append(code, instr.Dip{N: 1, Body: instr.Seq{instr.Drop{}}})

	case ir.Seq:
		code := g.compile(d.First, fr)
		code = append(code, instr.Drop{})
		return append(code, g.compile(d.Second, fr)...)

	case ir.If:
		code := g.compile(d.Cond, fr)
		return append(code, instr.If{Then: g.compile(d.Then, fr), Else: g.compile(d.Else, fr)})

	case ir.Lambda:
		// The encoder lifts every capturing (or recursive) lambda into a
		// ClosureNode before codegen runs; a bare Lambda reaching here is
		// closed, so it compiles against a fresh, isolated frame.
		body := g.compile(d.Body, frame{d.Param})
		return instr.Seq{instr.Lambda{Arg: d.ParamTy, Res: d.Body.Ty, Body: body}}

	case ir.ClosureNode:
		return g.compileClosure(t, d, fr)

	case ir.Apply:
		return g.compileApply(t, d, fr)

	case ir.MatchOption:
		return g.compileMatchOption(d, fr)

	case ir.MatchNat:
		return g.compileMatchNat(d, fr)

	case ir.MatchList:
		return g.compileMatchList(d, fr)

	case ir.MatchVariant:
		return g.compileMatchVariant(d, fr)

	case ir.Loop:
		return g.compileLoop(d, fr)

	case ir.LoopLeft:
		return g.compileLoopLeft(d, fr)

	case ir.Fold:
		return g.compileFold(d, fr)

	case ir.MapNode:
		return g.compileMap(d, fr)

	case ir.MapFold:
		return g.compileMapFold(d, fr)

	case ir.RecordConstruct:
		return g.compilePairLike(d.Fields, fr)

	case ir.Project:
		code := g.compile(d.Target, fr)
		return append(code, instr.GetN{Index: d.Index})

	case ir.SetField:
		code := g.compile(d.Target, fr)
		code = append(code, g.compile(d.Value, fr.push("$target"))...)
		return append(code, instr.UpdateN{Index: d.Index})

	case ir.TransferNode:
		code := g.compile(d.Contract, fr)
		f1 := fr.push("$contract")
		code = append(code, g.compile(d.Amount, f1)...)
		f2 := f1.push("$amount")
		code = append(code, g.compile(d.Arg, f2)...)
		return append(code, instr.TransferTokens{})

	case ir.Failwith:
		return append(g.compile(d.Arg, fr), instr.Failwith{})

	case ir.CreateContract:
		return g.compileCreateContract(d, fr)

	case ir.ContractAt:
		return append(g.compile(d.Addr, fr), instr.ContractOpt{Of: d.Of})

	case ir.Unpack:
		return append(g.compile(d.Bytes, fr), instr.UnpackOf{Of: d.Of})

	default:
		g.bag.Errorf(diag.Internal, t.Loc, "codegen: unhandled IR node %T", d)
		return instr.Seq{}
	}
}

// compilePairLike pushes each term of elems in reverse declaration order,
// so elems[0] ends up on top (the same convention Project/GetN's index-0 assumes),
// then folds them into one tuple with Pair (arity 2) or PairN (wider).
func (g *gen) compilePairLike(elems []*ir.Term, fr frame) instr.Seq {
	code := instr.Seq{}
	cur := fr
	for i := len(elems) - 1; i >= 0; i-- {
		code = append(code, g.compile(elems[i], cur)...)
		cur = cur.push("$elem")
	}
	switch len(elems) {
	case 0:
		return instr.Seq{instr.Push{Ty: types.Unit, Val: types.Unit_()}}
	case 1:
		return code
	case 2:
		return append(code, instr.Pair{})
	default:
		return append(code, instr.PairN{N: len(elems)})
	}
}

func zeroConst(t *types.Type) *types.Const {
	if t == nil {
		return types.Unit_()
	}
	switch t.Kind {
	case types.KBool:
		return types.Bool_(false)
	case types.KInt, types.KNat:
		return types.Int_(0)
	case types.KString:
		return types.String_("")
	case types.KBytes:
		return types.Bytes_(nil)
	default:
		return types.Unit_()
	}
}
