package simplify

import (
	"testing"

	"github.com/chazu/clc/ir"
	"github.com/chazu/clc/loc"
	"github.com/chazu/clc/types"
)

func varT(name string, ty *types.Type) *ir.Term { return ir.New(ir.Var{Name: name}, ty, loc.Span{}) }

func TestInlinesOneUsePureBinding(t *testing.T) {
	rhs := ir.New(ir.Apply{Prim: "add", Args: []*ir.Term{
		varT("x", types.Int), varT("y", types.Int),
	}}, types.Int, loc.Span{})
	body := varT("z", types.Int)
	let := ir.New(ir.Let{Name: "z", Rhs: rhs, Body: body}, types.Int, loc.Span{})

	out := Term(let)
	if _, ok := out.Desc.(ir.Let); ok {
		t.Fatalf("expected the let to be inlined away, got %#v", out.Desc)
	}
	app, ok := out.Desc.(ir.Apply)
	if !ok || app.Prim != "add" {
		t.Fatalf("expected the inlined add expression, got %#v", out.Desc)
	}
}

func TestKeepsMultiUseBinding(t *testing.T) {
	rhs := varT("x", types.Int)
	body := ir.New(ir.Apply{Prim: "add", Args: []*ir.Term{
		varT("z", types.Int), varT("z", types.Int),
	}}, types.Int, loc.Span{})
	let := ir.New(ir.Let{Name: "z", Rhs: rhs, Body: body}, types.Int, loc.Span{})

	out := Term(let)
	if _, ok := out.Desc.(ir.Let); !ok {
		t.Fatalf("expected the two-use let to survive, got %#v", out.Desc)
	}
}

func TestDropsUnusedPureBinding(t *testing.T) {
	rhs := varT("x", types.Int)
	body := varT("w", types.Int)
	let := ir.New(ir.Let{Name: "unused", Rhs: rhs, Body: body}, types.Int, loc.Span{})

	out := Term(let)
	if v, ok := out.Desc.(ir.Var); !ok || v.Name != "w" {
		t.Fatalf("expected the dead binding dropped down to the body, got %#v", out.Desc)
	}
}

func TestKeepsUnusedTransferBinding(t *testing.T) {
	transfer := ir.New(ir.TransferNode{
		Contract: varT("c", types.Contract(types.Unit)),
		Amount:   varT("a", types.Tez),
		Arg:      ir.New(ir.ConstNode{Value: types.Unit_()}, types.Unit, loc.Span{}),
	}, types.Operation, loc.Span{})
	transfer.Transfer = true
	body := varT("w", types.Int)
	let := ir.New(ir.Let{Name: "op", Rhs: transfer, Body: body}, types.Int, loc.Span{})

	out := Term(let)
	if _, ok := out.Desc.(ir.Let); !ok {
		t.Fatalf("an unused but effectful binding must not be dropped, got %#v", out.Desc)
	}
}
