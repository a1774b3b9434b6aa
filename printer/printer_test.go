package printer

import (
	"strings"
	"testing"

	"github.com/chazu/clc/ir"
	"github.com/chazu/clc/loc"
	"github.com/chazu/clc/types"
)

func v(name string, ty *types.Type) *ir.Term {
	return ir.New(ir.Var{Name: name}, ty, loc.Span{})
}

func TestUntypeDropsTypeAnnotations(t *testing.T) {
	sum := ir.New(ir.Apply{Prim: "add", Args: []*ir.Term{
		ir.New(ir.ConstNode{Value: types.Int_(1)}, types.Int, loc.Span{}),
		v("x", types.Int),
	}}, types.Int, loc.Span{})
	c := &ir.Contract{
		Name:    "counter",
		Storage: types.Int,
		Entries: []ir.Entry{{
			Name: "main", ParamTy: types.Int, ParamName: "x", StorageName: "storage", Body: sum,
		}},
	}
	p := Untype(c)
	if p.ContractName != "counter" {
		t.Fatalf("expected contract name to survive untyping, got %q", p.ContractName)
	}
	if len(p.Entries) != 1 || p.Entries[0].Body.Kind != "apply" {
		t.Fatalf("expected a single apply-bodied entry, got %#v", p.Entries)
	}
	if p.Entries[0].Body.Prim != "add" {
		t.Errorf("expected the primitive name to survive, got %q", p.Entries[0].Body.Prim)
	}
}

func TestPrintContractProducesBalancedParens(t *testing.T) {
	body := ir.New(ir.Let{
		Name: "sum",
		Rhs:  v("x", types.Int),
		Body: v("sum", types.Int),
	}, types.Int, loc.Span{})
	c := &ir.Contract{
		Name:    "id",
		Storage: types.Int,
		Entries: []ir.Entry{{Name: "main", ParamTy: types.Int, ParamName: "x", StorageName: "storage", Body: body}},
	}
	out := PrintContract(c)
	if !strings.Contains(out, "(contract id") {
		t.Fatalf("expected a contract header, got: %s", out)
	}
	if strings.Count(out, "(") != strings.Count(out, ")") {
		t.Fatalf("expected balanced parens, got: %s", out)
	}
}

func TestPrintMatchVariantRendersCases(t *testing.T) {
	scrut := v("act", types.Or(types.Int, types.Int))
	m := ir.New(ir.MatchVariant{
		Scrutinee: scrut,
		Variant:   "Action",
		Cases: []ir.MatchCase{
			{Ctor: "Deposit", Var: "d", Body: v("d", types.Int)},
			{Ctor: "Withdraw", Var: "w", Body: v("w", types.Int)},
		},
	}, types.Int, loc.Span{})
	c := &ir.Contract{
		Name:    "wallet",
		Storage: types.Int,
		Entries: []ir.Entry{{Name: "main", ParamTy: types.Or(types.Int, types.Int), ParamName: "act", StorageName: "storage", Body: m}},
	}
	out := PrintContract(c)
	if !strings.Contains(out, "match_variant Action") {
		t.Errorf("expected the variant name in the rendered match, got: %s", out)
	}
	if !strings.Contains(out, "case Deposit d") || !strings.Contains(out, "case Withdraw w") {
		t.Errorf("expected both cases rendered by constructor name, got: %s", out)
	}
}
