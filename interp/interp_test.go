package interp

import (
	"testing"

	"github.com/chazu/clc/env"
	"github.com/chazu/clc/instr"
	"github.com/chazu/clc/ir"
	"github.com/chazu/clc/loc"
	"github.com/chazu/clc/types"
)

func cell(name string, ty *types.Type) Cell {
	return Cell{Term: ir.New(ir.Var{Name: name}, ty, loc.Span{}), Ty: ty}
}

func TestArithmeticReconstructsApplyChain(t *testing.T) {
	// PUSH 1; ADD  over an incoming [x] stack: x + 1
	seq := instr.Seq{
		instr.Push{Ty: types.Int, Val: types.Int_(1)},
		instr.Add{},
	}
	in := New(env.New(), false)
	st := Stack{cell("x", types.Int)}
	term := in.Run(seq, st)

	if in.Bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", in.Bag.Format("test"))
	}
	app, ok := term.Desc.(ir.Apply)
	if !ok || app.Prim != "add" {
		t.Fatalf("expected an add Apply, got %#v", term.Desc)
	}
	if len(app.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(app.Args))
	}
	// PUSH landed on top of x, and pushArgsTopFirst's convention makes the
	// top of stack args[0] — so the pushed constant is args[0], x is args[1].
	if _, ok := app.Args[0].Desc.(ir.ConstNode); !ok {
		t.Errorf("expected args[0] to be the pushed constant, got %#v", app.Args[0].Desc)
	}
	if v, ok := app.Args[1].Desc.(ir.Var); !ok || v.Name != "x" {
		t.Errorf("expected args[1] to be x, got %#v", app.Args[1].Desc)
	}
	if !types.Equal(term.Ty, types.Int) {
		t.Errorf("expected result type int, got %s", term.Ty)
	}
}

func TestDupMaterializesLetBeforeDuplicating(t *testing.T) {
	// ADD (fold two synthetic terms into one), then DUP 0, then ADD again:
	// dup must bind the sum to a name rather than duplicating the tree.
	seq := instr.Seq{
		instr.Add{},
		instr.Dup{N: 0},
		instr.Add{},
	}
	in := New(env.New(), false)
	st := Stack{cell("a", types.Int), cell("b", types.Int)}
	term := in.Run(seq, st)

	if in.Bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", in.Bag.Format("test"))
	}
	let, ok := term.Desc.(ir.Let)
	if !ok {
		t.Fatalf("expected a Let wrapping the duplicated sum, got %#v", term.Desc)
	}
	if _, ok := let.Rhs.Desc.(ir.Apply); !ok {
		t.Errorf("expected the let's Rhs to be the add Apply, got %#v", let.Rhs.Desc)
	}
	outer, ok := let.Body.Desc.(ir.Apply)
	if !ok || outer.Prim != "add" {
		t.Fatalf("expected the let's body to be another add, got %#v", let.Body.Desc)
	}
	for _, a := range outer.Args {
		if v, ok := a.Desc.(ir.Var); !ok || v.Name != let.Name {
			t.Errorf("expected both operands to reference %s, got %#v", let.Name, a.Desc)
		}
	}
}

func TestIfNoneReconstructsMatchOption(t *testing.T) {
	seq := instr.Seq{
		instr.IfNone{
			NoneBranch: instr.Seq{instr.Push{Ty: types.Int, Val: types.Int_(0)}},
			SomeBranch: instr.Seq{}, // top of stack (the unwrapped payload) is already the result
		},
	}
	in := New(env.New(), false)
	st := Stack{cell("opt", types.Option(types.Int))}
	term := in.Run(seq, st)

	if in.Bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", in.Bag.Format("test"))
	}
	m, ok := term.Desc.(ir.MatchOption)
	if !ok {
		t.Fatalf("expected a MatchOption, got %#v", term.Desc)
	}
	if v, ok := m.Scrutinee.Desc.(ir.Var); !ok || v.Name != "opt" {
		t.Errorf("expected scrutinee to be opt, got %#v", m.Scrutinee.Desc)
	}
	if v, ok := m.SomeCase.Desc.(ir.Var); !ok || v.Name != m.SomeVar {
		t.Errorf("expected some-case to reference %s, got %#v", m.SomeVar, m.SomeCase.Desc)
	}
}

func TestIfLeftReconstructsMatchVariantWithRegisteredNames(t *testing.T) {
	e := env.New()
	e.RegisterVariant("Action", []types.Ctor{
		{Name: "Deposit", Type: types.Int},
		{Name: "Withdraw", Type: types.Int},
	})
	seq := instr.Seq{
		instr.IfLeft{
			LeftBranch:  instr.Seq{},
			RightBranch: instr.Seq{instr.Neg{}},
		},
	}
	variantTy := types.Or(types.Int, types.Int)
	in := New(e, false)
	st := Stack{cell("act", variantTy)}
	term := in.Run(seq, st)

	if in.Bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", in.Bag.Format("test"))
	}
	m, ok := term.Desc.(ir.MatchVariant)
	if !ok {
		t.Fatalf("expected a MatchVariant, got %#v", term.Desc)
	}
	if m.Variant != "Action" {
		t.Errorf("expected variant Action, got %s", m.Variant)
	}
	if len(m.Cases) != 2 || m.Cases[0].Ctor != "Deposit" || m.Cases[1].Ctor != "Withdraw" {
		t.Fatalf("expected [Deposit, Withdraw] in order, got %#v", m.Cases)
	}
}

func TestFoldReconstructsListFold(t *testing.T) {
	// ITER { ADD; DIP { DROP 2 } } — compileFold's own stack shape right
	// before ITER is [coll, acc, ...outer], coll on top.
	iterBody := instr.Seq{
		instr.Add{},
		instr.Dip{N: 1, Body: instr.Seq{instr.Drop{N: 2}}},
	}
	seq := instr.Seq{instr.Iter{Body: iterBody}}
	in := New(env.New(), false)
	st := Stack{cell("xs", types.List(types.Int)), cell("acc0", types.Int)}
	term := in.Run(seq, st)

	if in.Bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", in.Bag.Format("test"))
	}
	fold, ok := term.Desc.(ir.Fold)
	if !ok {
		t.Fatalf("expected a Fold, got %#v", term.Desc)
	}
	if fold.Kind != ir.FoldList {
		t.Errorf("expected FoldList, got %v", fold.Kind)
	}
	if v, ok := fold.Coll.Desc.(ir.Var); !ok || v.Name != "xs" {
		t.Errorf("expected coll to be xs, got %#v", fold.Coll.Desc)
	}
	body, ok := fold.Body.Desc.(ir.Apply)
	if !ok || body.Prim != "add" {
		t.Fatalf("expected fold body to be an add Apply, got %#v", fold.Body.Desc)
	}
}

func TestUnboundStackPositionReportsDiagnostic(t *testing.T) {
	seq := instr.Seq{instr.Add{}}
	in := New(env.New(), false)
	in.Run(seq, Stack{cell("x", types.Int)}) // ADD needs 2 cells, only 1 present

	if !in.Bag.HasErrors() {
		t.Fatal("expected an UnboundStackPosition diagnostic")
	}
}

func TestIfLeftOverNonOrTypeReportsUnstructuredProgram(t *testing.T) {
	seq := instr.Seq{
		instr.IfLeft{LeftBranch: instr.Seq{}, RightBranch: instr.Seq{}},
	}
	in := New(env.New(), false)
	in.Run(seq, Stack{cell("x", types.Int)})

	if !in.Bag.HasErrors() {
		t.Fatal("expected an UnstructuredProgram diagnostic for a non-or scrutinee")
	}
}
