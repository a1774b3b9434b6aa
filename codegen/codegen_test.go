package codegen

import (
	"testing"

	"github.com/chazu/clc/diag"
	"github.com/chazu/clc/env"
	"github.com/chazu/clc/instr"
	"github.com/chazu/clc/ir"
	"github.com/chazu/clc/loc"
	"github.com/chazu/clc/types"
)

func term(d ir.Desc, ty *types.Type) *ir.Term {
	return ir.New(d, ty, loc.Span{})
}

func TestCompileVarEmitsDupAtDepth(t *testing.T) {
	fr := frame{"x", "y", "z"}
	g := &gen{}
	code := g.compile(term(ir.Var{Name: "y"}, types.Int), fr)
	if len(code) != 1 {
		t.Fatalf("expected one instruction, got %d", len(code))
	}
	dup, ok := code[0].(instr.Dup)
	if !ok || dup.N != 1 {
		t.Errorf("expected Dup{N:1}, got %#v", code[0])
	}
}

func TestCompileLetDropsTheBinding(t *testing.T) {
	g := &gen{}
	rhs := term(ir.ConstNode{Value: types.Int_(1)}, types.Int)
	body := term(ir.Var{Name: "n"}, types.Int)
	let := ir.Let{Name: "n", Rhs: rhs, Body: body}
	code := g.compile(term(let, types.Int), frame{})

	last, ok := code[len(code)-1].(instr.Dip)
	if !ok || last.N != 1 {
		t.Fatalf("expected trailing Dip{N:1}, got %#v", code[len(code)-1])
	}
	if len(last.Body) != 1 {
		t.Fatalf("expected the Dip body to drop exactly the one binding")
	}
	if _, ok := last.Body[0].(instr.Drop); !ok {
		t.Errorf("expected a Drop inside the cleanup Dip, got %#v", last.Body[0])
	}
}

func TestCompileIfNoneStripsSomeVar(t *testing.T) {
	g := &gen{}
	m := ir.MatchOption{
		Scrutinee: term(ir.Var{Name: "opt"}, types.Option(types.Int)),
		NoneCase:  term(ir.ConstNode{Value: types.Int_(0)}, types.Int),
		SomeVar:   "v",
		SomeCase:  term(ir.Var{Name: "v"}, types.Int),
	}
	code := g.compile(term(m, types.Int), frame{"opt"})

	var ifNone instr.IfNone
	found := false
	for _, ins := range code {
		if n, ok := ins.(instr.IfNone); ok {
			ifNone = n
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an IfNone in %#v", code)
	}
	last := ifNone.SomeBranch[len(ifNone.SomeBranch)-1]
	dip, ok := last.(instr.Dip)
	if !ok || dip.N != 1 {
		t.Fatalf("expected SomeBranch to end with a Dip cleanup, got %#v", last)
	}
}

func TestCompileLoopStripsStaleAccumulator(t *testing.T) {
	g := &gen{}
	l := ir.Loop{
		AccVar: "acc",
		Init:   term(ir.ConstNode{Value: types.Int_(0)}, types.Int),
		Body: term(ir.ConstNode{Value: types.Tuple_(types.Bool_(false), types.Int_(0))},
			types.Tuple(types.Bool, types.Int)),
	}
	code := g.compileLoop(l, frame{})

	// The priming run (everything before the trailing Loop) must strip the
	// old accumulator before unpairing into (bool, acc').
	loopIdx := -1
	for i, ins := range code {
		if _, ok := ins.(instr.Loop); ok {
			loopIdx = i
		}
	}
	if loopIdx == -1 {
		t.Fatalf("expected a Loop instruction in %#v", code)
	}
	primed := code[:loopIdx]
	sawCleanup := false
	for i, ins := range primed {
		if dip, ok := ins.(instr.Dip); ok && dip.N == 1 {
			if _, isUnpair := primed[i+1].(instr.Unpair); isUnpair {
				sawCleanup = true
			}
		}
	}
	if !sawCleanup {
		t.Errorf("expected a Dip cleanup immediately before Unpair in %#v", primed)
	}

	loopBody := code[loopIdx].(instr.Loop).Body
	if _, ok := loopBody[len(loopBody)-1].(instr.Unpair); !ok {
		t.Errorf("loop body should end with Unpair once the stale acc is stripped")
	}
}

func TestCompileLoopLeftInjectsLeftOfInit(t *testing.T) {
	g := &gen{}
	ll := ir.LoopLeft{
		AccVar: "acc",
		Init:   term(ir.ConstNode{Value: types.Int_(0)}, types.Int),
		Body: term(ir.ConstNode{Value: types.Left_("", types.Int_(0))},
			types.Or(types.Int, types.Int)),
	}
	code := g.compileLoopLeft(ll, frame{})

	sawLeftOf := false
	for _, ins := range code {
		if _, ok := ins.(instr.LeftOf); ok {
			sawLeftOf = true
		}
	}
	if !sawLeftOf {
		t.Errorf("expected LeftOf to inject the initial accumulator, got %#v", code)
	}

	var ll2 instr.LoopLeft
	for _, ins := range code {
		if n, ok := ins.(instr.LoopLeft); ok {
			ll2 = n
		}
	}
	if len(ll2.Body) == 0 {
		t.Fatalf("expected LoopLeft to carry a body")
	}
	last := ll2.Body[len(ll2.Body)-1]
	if _, ok := last.(instr.Dip); !ok {
		t.Errorf("expected LoopLeft body to end with a Dip cleanup for the stale acc, got %#v", last)
	}
}

func TestCompilePairLikeElemZeroEndsOnTop(t *testing.T) {
	g := &gen{}
	fields := []*ir.Term{
		term(ir.ConstNode{Value: types.Int_(1)}, types.Int),
		term(ir.ConstNode{Value: types.Int_(2)}, types.Int),
	}
	code := g.compilePairLike(fields, frame{})
	if len(code) != 3 {
		t.Fatalf("expected push, push, pair; got %#v", code)
	}
	if _, ok := code[2].(instr.Pair); !ok {
		t.Errorf("expected trailing Pair, got %#v", code[2])
	}
	push0, ok := code[0].(instr.Push)
	if !ok || push0.Val.Int != 2 {
		t.Errorf("expected elems[1] pushed first (deepest), got %#v", code[0])
	}
}

func TestCompilePairLikeWiderThanTwoUsesPairN(t *testing.T) {
	g := &gen{}
	fields := []*ir.Term{
		term(ir.ConstNode{Value: types.Int_(1)}, types.Int),
		term(ir.ConstNode{Value: types.Int_(2)}, types.Int),
		term(ir.ConstNode{Value: types.Int_(3)}, types.Int),
	}
	code := g.compilePairLike(fields, frame{})
	last := code[len(code)-1]
	pn, ok := last.(instr.PairN)
	if !ok || pn.N != 3 {
		t.Errorf("expected PairN{N:3}, got %#v", last)
	}
}

func TestCompileApplyExecOrdersArgBeneathNothingAboveFn(t *testing.T) {
	g := &gen{bag: diag.New()}
	apply := ir.Apply{
		Prim: "exec",
		Args: []*ir.Term{
			term(ir.ConstNode{Value: types.Int_(1)}, types.Int), // arg
			term(ir.ConstNode{Value: types.Int_(2)}, types.Int), // fn placeholder
		},
	}
	t2 := term(apply, types.Int)
	code := g.compileApply(t2, apply, frame{})
	if _, ok := code[len(code)-1].(instr.Exec); !ok {
		t.Fatalf("expected trailing Exec, got %#v", code[len(code)-1])
	}
	if p, ok := code[0].(instr.Push); !ok || p.Val.Int != 2 {
		t.Fatalf("expected the fn pushed first (beneath the arg), got %#v", code[0])
	}
	if p, ok := code[1].(instr.Push); !ok || p.Val.Int != 1 {
		t.Fatalf("expected the arg pushed last (on top), got %#v", code[1])
	}
}

func TestCompileContractSingleEntryStripsBindings(t *testing.T) {
	e := env.New()
	body := term(ir.Var{Name: "p"}, types.Int)
	c := &ir.Contract{
		Name:    "test",
		Storage: types.Int,
		Entries: []ir.Entry{
			{Name: "main", ParamTy: types.Int, ParamName: "p", StorageName: "s", Body: body},
		},
	}
	code, bag := Compile(c, e)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag)
	}
	if _, ok := code[0].(instr.Unpair); !ok {
		t.Fatalf("expected leading Unpair, got %#v", code[0])
	}
	last := code[len(code)-1]
	dip, ok := last.(instr.Dip)
	if !ok || dip.N != 1 {
		t.Fatalf("expected trailing Dip{N:1} cleanup, got %#v", last)
	}
	drop, ok := dip.Body[0].(instr.Drop)
	if !ok || drop.N != 2 {
		t.Errorf("expected final cleanup to drop param+storage (2), got %#v", dip.Body[0])
	}
}

func TestCompileContractRejectsMultipleEntries(t *testing.T) {
	e := env.New()
	body := term(ir.ConstNode{Value: types.Unit_()}, types.Unit)
	c := &ir.Contract{
		Entries: []ir.Entry{
			{Name: "a", ParamTy: types.Unit, ParamName: "p", StorageName: "s", Body: body},
			{Name: "b", ParamTy: types.Unit, ParamName: "p", StorageName: "s", Body: body},
		},
	}
	_, bag := Compile(c, e)
	if !bag.HasErrors() {
		t.Errorf("expected an error for a multi-entry contract reaching codegen")
	}
}
