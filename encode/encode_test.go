package encode

import (
	"testing"

	"github.com/chazu/clc/env"
	"github.com/chazu/clc/ir"
	"github.com/chazu/clc/loc"
	"github.com/chazu/clc/types"
)

func opsAndStorage(storageVal *ir.Term) *ir.Term {
	nilOps := ir.New(ir.ConstNode{Value: &types.Const{Kind: types.CList}}, types.List(types.Operation), loc.Span{})
	return ir.New(ir.Apply{Prim: "pair", Args: []*ir.Term{nilOps, storageVal}},
		types.Tuple(types.List(types.Operation), storageVal.Ty), loc.Span{})
}

func TestSynthesizeDispatchSingleEntryRenames(t *testing.T) {
	body := opsAndStorage(ir.New(ir.Var{Name: "s"}, types.Int, loc.Span{}))
	c := &ir.Contract{
		Name: "one", Storage: types.Int,
		Entries: []ir.Entry{{Name: "bump", ParamTy: types.Int, ParamName: "p", StorageName: "s", Body: body}},
	}
	out := SynthesizeDispatch(c, env.New())
	if len(out.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(out.Entries))
	}
	if out.Entries[0].ParamName != dispatchParamName || out.Entries[0].StorageName != dispatchStorageName {
		t.Errorf("expected normalized dispatch names, got %+v", out.Entries[0])
	}
}

func TestSynthesizeDispatchMultiEntryBuildsVariant(t *testing.T) {
	e := env.New()
	bumpBody := opsAndStorage(ir.New(ir.Var{Name: "s1"}, types.Int, loc.Span{}))
	resetBody := opsAndStorage(ir.New(ir.ConstNode{Value: types.Int_(0)}, types.Int, loc.Span{}))
	c := &ir.Contract{
		Name: "counter", Storage: types.Int,
		Entries: []ir.Entry{
			{Name: "bump", ParamTy: types.Int, ParamName: "p1", StorageName: "s1", Body: bumpBody},
			{Name: "reset", ParamTy: types.Unit, ParamName: "p2", StorageName: "s2", Body: resetBody},
		},
	}
	out := SynthesizeDispatch(c, e)
	if len(out.Entries) != 1 || out.Entries[0].Name != "main" {
		t.Fatalf("expected a single merged 'main' entry, got %+v", out.Entries)
	}
	mv, ok := out.Entries[0].Body.Desc.(ir.MatchVariant)
	if !ok {
		t.Fatalf("expected MatchVariant body, got %T", out.Entries[0].Body.Desc)
	}
	if len(mv.Cases) != 2 {
		t.Fatalf("expected 2 dispatch cases, got %d", len(mv.Cases))
	}
	if ctors, ok := e.VariantCtors("counter$entry"); !ok || len(ctors) != 2 {
		t.Fatalf("expected the dispatch variant registered with 2 constructors, got %v ok=%v", ctors, ok)
	}
}

func TestLiftClosuresLeavesClosedLambdaAlone(t *testing.T) {
	lam := ir.New(ir.Lambda{Param: "x", ParamTy: types.Int, Body: ir.New(ir.Var{Name: "x"}, types.Int, loc.Span{})},
		types.Lambda(types.Int, types.Int), loc.Span{})
	c := &ir.Contract{Name: "id", Storage: types.Unit, Globals: []ir.GlobalBinding{{Name: "identity", Value: lam}}}
	out := LiftClosures(c)
	if _, ok := out.Globals[0].Value.Desc.(ir.Lambda); !ok {
		t.Errorf("a lambda with no free variables should not be wrapped in a closure")
	}
}

func TestLiftClosuresWrapsCapturingLambda(t *testing.T) {
	outerVar := ir.New(ir.Var{Name: "k"}, types.Int, loc.Span{})
	lamBody := ir.New(ir.Apply{Prim: "add", Args: []*ir.Term{
		ir.New(ir.Var{Name: "x"}, types.Int, loc.Span{}), outerVar,
	}}, types.Int, loc.Span{})
	lam := ir.New(ir.Lambda{Param: "x", ParamTy: types.Int, Body: lamBody}, types.Lambda(types.Int, types.Int), loc.Span{})
	c := &ir.Contract{Name: "addk", Storage: types.Unit, Globals: []ir.GlobalBinding{{Name: "adder", Value: lam}}}
	out := LiftClosures(c)
	closure, ok := out.Globals[0].Value.Desc.(ir.ClosureNode)
	if !ok {
		t.Fatalf("expected a ClosureNode, got %T", out.Globals[0].Value.Desc)
	}
	if len(closure.Captured) != 1 || closure.Captured[0] != "k" {
		t.Errorf("expected capture list [k], got %v", closure.Captured)
	}
}
