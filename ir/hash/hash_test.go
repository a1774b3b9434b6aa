package hash_test

import (
	"testing"

	"github.com/chazu/clc/ir"
	hashpkg "github.com/chazu/clc/ir/hash"
	"github.com/chazu/clc/loc"
	"github.com/chazu/clc/types"
)

func letContract(boundName, paramName string) *ir.Contract {
	body := ir.New(ir.Let{
		Name: boundName,
		Rhs:  ir.New(ir.Var{Name: paramName}, types.Int, loc.Span{}),
		Body: ir.New(ir.Var{Name: boundName}, types.Int, loc.Span{}),
	}, types.Int, loc.Span{})
	return &ir.Contract{
		Name:    "c",
		Storage: types.Int,
		Entries: []ir.Entry{{
			Name: "main", ParamTy: types.Int, ParamName: paramName, StorageName: "storage", Body: body,
		}},
	}
}

func constContract(n int64) *ir.Contract {
	body := ir.New(ir.ConstNode{Value: types.Int_(n)}, types.Int, loc.Span{})
	return &ir.Contract{
		Name:    "c",
		Storage: types.Int,
		Entries: []ir.Entry{{
			Name: "main", ParamTy: types.Int, ParamName: "x", StorageName: "storage", Body: body,
		}},
	}
}

func TestContractHashIgnoresBoundNames(t *testing.T) {
	a := hashpkg.Contract(letContract("sum", "x"))
	b := hashpkg.Contract(letContract("total", "y"))
	if a != b {
		t.Fatalf("expected alpha-equivalent contracts to hash identically, got %s vs %s", a, b)
	}
}

func TestContractHashDiffersOnLiteral(t *testing.T) {
	a := hashpkg.Contract(constContract(1))
	b := hashpkg.Contract(constContract(2))
	if a == b {
		t.Fatalf("expected distinct literals to hash differently, both got %s", a)
	}
}

func TestContractHashIsDeterministic(t *testing.T) {
	c := letContract("sum", "x")
	a := hashpkg.Contract(c)
	b := hashpkg.Contract(c)
	if a != b {
		t.Fatalf("expected hashing the same contract twice to agree, got %s vs %s", a, b)
	}
}

func TestContractHashDistinguishesShape(t *testing.T) {
	a := hashpkg.Contract(letContract("sum", "x"))
	b := hashpkg.Contract(constContract(1))
	if a == b {
		t.Fatalf("expected structurally different contracts not to collide")
	}
}
