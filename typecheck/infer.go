package typecheck

import (
	"fmt"

	"github.com/chazu/clc/diag"
	"github.com/chazu/clc/env"
	"github.com/chazu/clc/ir"
	"github.com/chazu/clc/loc"
	"github.com/chazu/clc/surfaceast"
	"github.com/chazu/clc/types"
)

// checker carries the mutable state threaded through one program's
// inference pass: the environment, the diagnostic bag, and the forbidden-
// effect chain used to report a transfer reached from a pure context
// (§7's Forbidden kind, §10.11).
type checker struct {
	env   *env.Env
	bag   *diag.Bag
	chain []diag.Frame
}

// infer computes a term's type from the bottom up. Used whenever the
// surrounding context provides no expected type (let-bindings, entry
// bodies, apply arguments whose primitive is itself polymorphic).
func (c *checker) infer(n *surfaceast.Node) *ir.Term {
	span := surfaceast.ToLoc(n.Loc)
	switch n.Kind {
	case surfaceast.KVar:
		t, ok := c.env.Lookup(n.Name)
		if !ok {
			c.bag.Errorf(diag.Semantic, span, "unbound name %q", n.Name)
			return ir.New(ir.Var{Name: n.Name}, types.Unit, span)
		}
		return ir.New(ir.Var{Name: n.Name}, t, span)

	case surfaceast.KConst:
		v, t, err := c.constant(n.Const)
		if err != nil {
			c.bag.Errorf(diag.Semantic, span, "%v", err)
			return ir.New(ir.ConstNode{Value: types.Unit_()}, types.Unit, span)
		}
		return ir.New(ir.ConstNode{Value: v}, t, span)

	case surfaceast.KLet:
		rhs := c.infer(n.A)
		c.env.Push()
		c.env.Bind(n.Name, rhs.Ty)
		body := c.infer(n.B)
		c.env.Pop()
		term := ir.New(ir.Let{Name: n.Name, Rhs: rhs, Body: body}, body.Ty, span)
		term.Transfer = rhs.Transfer || body.Transfer
		return term

	case surfaceast.KSeq:
		first := c.infer(n.A)
		second := c.infer(n.B)
		term := ir.New(ir.Seq{First: first, Second: second}, second.Ty, span)
		term.Transfer = first.Transfer || second.Transfer
		return term

	case surfaceast.KIf:
		cond := c.check(n.A, types.Bool)
		then := c.infer(n.B)
		els := c.check(n.C, then.Ty)
		term := ir.New(ir.If{Cond: cond, Then: then, Else: els}, then.Ty, span)
		term.Transfer = cond.Transfer || then.Transfer || els.Transfer
		return term

	case surfaceast.KLambda:
		paramTy, err := resolveType(n.Type, c.env)
		if err != nil {
			c.bag.Errorf(diag.Semantic, span, "%v", err)
			paramTy = types.Unit
		}
		c.env.Push()
		c.env.Bind(n.Name, paramTy)
		c.pushForbidden(span, "lambda body")
		body := c.infer(n.A)
		c.popForbidden()
		c.env.Pop()
		lamTy := types.Lambda(paramTy, body.Ty)
		return ir.New(ir.Lambda{Param: n.Name, ParamTy: paramTy, Body: body, Recursive: n.Recursive}, lamTy, span)

	case surfaceast.KApply:
		return c.inferApply(n, span)

	case surfaceast.KTuple:
		elems := make([]*ir.Term, len(n.Args))
		tys := make([]*types.Type, len(n.Args))
		transfer := false
		for i, a := range n.Args {
			elems[i] = c.infer(a)
			tys[i] = elems[i].Ty
			transfer = transfer || elems[i].Transfer
		}
		term := ir.New(ir.Apply{Prim: "pair", Args: elems}, types.Tuple(tys...), span)
		term.Transfer = transfer
		return term

	case surfaceast.KSome:
		inner := c.infer(n.A)
		term := ir.New(ir.Apply{Prim: "some", Args: []*ir.Term{inner}}, types.Option(inner.Ty), span)
		term.Transfer = inner.Transfer
		return term

	case surfaceast.KNone:
		t, err := resolveType(n.Type, c.env)
		if err != nil {
			c.bag.Errorf(diag.Semantic, span, "%v", err)
			t = types.Unit
		}
		return ir.New(ir.Apply{Prim: "none", Args: nil}, types.Option(t), span)

	case surfaceast.KLeft, surfaceast.KRight:
		inner := c.infer(n.A)
		otherTy, err := resolveType(n.Type, c.env)
		if err != nil {
			c.bag.Errorf(diag.Semantic, span, "%v", err)
			otherTy = types.Unit
		}
		var orTy *types.Type
		if n.Kind == surfaceast.KLeft {
			orTy = types.Or(inner.Ty, otherTy)
			term := ir.New(ir.Apply{Prim: "left", Args: []*ir.Term{inner}}, orTy, span)
			term.Transfer = inner.Transfer
			return term
		}
		orTy = types.Or(otherTy, inner.Ty)
		term := ir.New(ir.Apply{Prim: "right", Args: []*ir.Term{inner}}, orTy, span)
		term.Transfer = inner.Transfer
		return term

	case surfaceast.KMatchOption:
		scrut := c.infer(n.A)
		if scrut.Ty.Kind != types.KOption {
			c.bag.Errorf(diag.Semantic, span, "match_option scrutinee is not an option")
		}
		var elemTy *types.Type = types.Unit
		if scrut.Ty.Kind == types.KOption {
			elemTy = scrut.Ty.Elem
		}
		noneCase := c.infer(n.B)
		c.env.Push()
		c.env.Bind(n.Name, elemTy)
		someCase := c.check(n.C, noneCase.Ty)
		c.env.Pop()
		term := ir.New(ir.MatchOption{Scrutinee: scrut, NoneCase: noneCase, SomeVar: n.Name, SomeCase: someCase}, noneCase.Ty, span)
		term.Transfer = scrut.Transfer || noneCase.Transfer || someCase.Transfer
		return term

	case surfaceast.KMatchNat:
		scrut := c.check(n.A, types.Int)
		c.env.Push()
		c.env.Bind(n.Name, types.Nat)
		plusCase := c.infer(n.B)
		c.env.Pop()
		c.env.Push()
		c.env.Bind(n.Name2, types.Nat)
		minusCase := c.check(n.C, plusCase.Ty)
		c.env.Pop()
		term := ir.New(ir.MatchNat{Scrutinee: scrut, PlusVar: n.Name, PlusCase: plusCase, MinusVar: n.Name2, MinusCase: minusCase}, plusCase.Ty, span)
		term.Transfer = scrut.Transfer || plusCase.Transfer || minusCase.Transfer
		return term

	case surfaceast.KMatchList:
		scrut := c.infer(n.A)
		if scrut.Ty.Kind != types.KList {
			c.bag.Errorf(diag.Semantic, span, "match_list scrutinee is not a list")
		}
		elemTy := types.Unit
		if scrut.Ty.Kind == types.KList {
			elemTy = scrut.Ty.Elem
		}
		nilCase := c.infer(n.B)
		c.env.Push()
		c.env.Bind(n.Name, elemTy)
		c.env.Bind(n.Name2, scrut.Ty)
		consCase := c.check(n.C, nilCase.Ty)
		c.env.Pop()
		term := ir.New(ir.MatchList{Scrutinee: scrut, NilCase: nilCase, HeadVar: n.Name, TailVar: n.Name2, ConsCase: consCase}, nilCase.Ty, span)
		term.Transfer = scrut.Transfer || nilCase.Transfer || consCase.Transfer
		return term

	case surfaceast.KMatchVariant:
		return c.inferMatchVariant(n, span)

	case surfaceast.KLoop:
		init := c.infer(n.A)
		c.env.Push()
		c.env.Bind(n.Name, init.Ty)
		body := c.check(n.B, types.Tuple(types.Bool, init.Ty))
		c.env.Pop()
		term := ir.New(ir.Loop{AccVar: n.Name, Init: init, Body: body}, init.Ty, span)
		term.Transfer = init.Transfer || body.Transfer
		return term

	case surfaceast.KLoopLeft:
		init := c.infer(n.A)
		c.env.Push()
		c.env.Bind(n.Name, init.Ty)
		body := c.infer(n.B)
		c.env.Pop()
		if body.Ty.Kind != types.KOr {
			c.bag.Errorf(diag.Semantic, span, "loop_left body must produce an `or`")
		}
		resTy := init.Ty
		if body.Ty.Kind == types.KOr {
			resTy = body.Ty.OrRight() // Right carries the exit value (§9 open question: acc mirrored on both arms)
		}
		term := ir.New(ir.LoopLeft{AccVar: n.Name, Init: init, Body: body}, resTy, span)
		term.Transfer = init.Transfer || body.Transfer
		return term

	case surfaceast.KFold, surfaceast.KMap, surfaceast.KMapFold:
		return c.inferFoldLike(n, span)

	case surfaceast.KRecordConstruct:
		return c.inferRecord(n, span)

	case surfaceast.KProject:
		target := c.infer(n.A)
		idx := c.env.FieldIndex(n.Name, n.Name2)
		if idx < 0 {
			c.bag.Errorf(diag.Semantic, span, "record %q has no field %q", n.Name, n.Name2)
			return ir.New(ir.Project{Target: target, Index: 0, Record: n.Name, Field: n.Name2}, types.Unit, span)
		}
		fieldTy := c.env.FieldType(n.Name, n.Name2)
		term := ir.New(ir.Project{Target: target, Index: idx, Record: n.Name, Field: n.Name2}, fieldTy, span)
		term.Transfer = target.Transfer
		return term

	case surfaceast.KSetField:
		target := c.infer(n.A)
		idx := c.env.FieldIndex(n.Name, n.Name2)
		fieldTy := c.env.FieldType(n.Name, n.Name2)
		if idx < 0 {
			c.bag.Errorf(diag.Semantic, span, "record %q has no field %q", n.Name, n.Name2)
			fieldTy = types.Unit
		}
		value := c.check(n.B, fieldTy)
		term := ir.New(ir.SetField{Target: target, Index: idx, Record: n.Name, Field: n.Name2, Value: value}, target.Ty, span)
		term.Transfer = target.Transfer || value.Transfer
		return term

	case surfaceast.KTransfer:
		contract := c.infer(n.A)
		amount := c.check(n.B, types.Tez)
		var argTy *types.Type = types.Unit
		if contract.Ty.Kind == types.KContract {
			argTy = contract.Ty.Elem
		} else {
			c.bag.Errorf(diag.Semantic, span, "transfer target is not a contract handle")
		}
		arg := c.check(n.C, argTy)
		c.forbidIfInside(span, "transfer")
		term := ir.New(ir.TransferNode{Contract: contract, Amount: amount, Arg: arg}, types.Operation, span)
		term.Transfer = true
		return term

	case surfaceast.KFailwith:
		arg := c.infer(n.A)
		term := ir.New(ir.Failwith{Arg: arg}, types.Unit, span) // bottom type, unified structurally as Unit (§4.4)
		term.Transfer = arg.Transfer
		return term

	case surfaceast.KCreateContract:
		return c.inferCreateContract(n, span)

	case surfaceast.KContractAt:
		addr := c.check(n.A, types.Address)
		of, err := resolveType(n.Type, c.env)
		if err != nil {
			c.bag.Errorf(diag.Semantic, span, "%v", err)
			of = types.Unit
		}
		term := ir.New(ir.ContractAt{Addr: addr, Of: of}, types.Option(types.Contract(of)), span)
		term.Transfer = addr.Transfer
		return term

	case surfaceast.KUnpack:
		bs := c.check(n.A, types.Bytes)
		of, err := resolveType(n.Type, c.env)
		if err != nil {
			c.bag.Errorf(diag.Semantic, span, "%v", err)
			of = types.Unit
		}
		term := ir.New(ir.Unpack{Bytes: bs, Of: of}, types.Option(of), span)
		term.Transfer = bs.Transfer
		return term

	default:
		c.bag.Add(diag.Diagnostic{Kind: diag.Internal, Severity: diag.SevError, Message: fmt.Sprintf("unhandled surface node kind %q", n.Kind), Loc: span})
		return ir.New(ir.ConstNode{Value: types.Unit_()}, types.Unit, span)
	}
}

// check verifies n against an expected type, falling back to infer-then-
// compare for forms with no dedicated checking rule (§4.1's bidirectional
// discipline: check pushes types inward for none, for tuples component by
// component, and for empty list literals; everything else synthesizes and
// compares).
func (c *checker) check(n *surfaceast.Node, expected *types.Type) *ir.Term {
	if n == nil {
		panic("typecheck: check called with nil node")
	}
	switch n.Kind {
	case surfaceast.KNone:
		if expected.Kind != types.KOption {
			c.bag.Errorf(diag.Semantic, surfaceast.ToLoc(n.Loc), "expected %s, got none", expected)
			return ir.New(ir.Apply{Prim: "none"}, expected, surfaceast.ToLoc(n.Loc))
		}
		return ir.New(ir.Apply{Prim: "none"}, expected, surfaceast.ToLoc(n.Loc))
	case surfaceast.KTuple:
		if expected.Kind == types.KTuple && len(expected.Elems) == len(n.Args) {
			elems := make([]*ir.Term, len(n.Args))
			term := ir.New(ir.Apply{Prim: "pair", Args: elems}, expected, surfaceast.ToLoc(n.Loc))
			for i, a := range n.Args {
				elems[i] = c.check(a, expected.Elems[i])
				term.Transfer = term.Transfer || elems[i].Transfer
			}
			return term
		}
	case surfaceast.KConst:
		if n.Const != nil && n.Const.Kind == "list" && len(n.Const.Elems) == 0 && expected.Kind == types.KList {
			return ir.New(ir.ConstNode{Value: &types.Const{Kind: types.CList}}, expected, surfaceast.ToLoc(n.Loc))
		}
	}
	term := c.infer(n)
	if !types.Equal(term.Ty, expected) {
		c.bag.Errorf(diag.Semantic, term.Loc, "expected type %s, got %s", expected, term.Ty)
	}
	return term
}

func (c *checker) pushForbidden(span loc.Span, desc string) {
	c.chain = append(c.chain, diag.Frame{Loc: span, Desc: desc})
}

func (c *checker) popForbidden() {
	c.chain = c.chain[:len(c.chain)-1]
}

// forbidIfInside records a Forbidden diagnostic when a transfer is reached
// from inside a context §4.5 disallows transfers in (currently: lambda
// bodies passed to fold/map, which must be pure so code generation can
// treat them as ordinary functional folds rather than sequenced effects).
func (c *checker) forbidIfInside(span loc.Span, what string) {
	if len(c.chain) == 0 {
		return
	}
	frames := make([]diag.Frame, len(c.chain))
	copy(frames, c.chain)
	c.bag.Add(diag.Diagnostic{
		Kind:     diag.Forbidden,
		Severity: diag.SevError,
		Message:  fmt.Sprintf("%s is not allowed inside a pure context", what),
		Loc:      span,
		Chain:    frames,
	})
}
