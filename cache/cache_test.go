package cache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/chazu/clc/instr"
	"github.com/chazu/clc/ir"
	"github.com/chazu/clc/loc"
	"github.com/chazu/clc/mtext"
	"github.com/chazu/clc/types"
)

func addOneContract() *ir.Contract {
	body := ir.New(ir.Apply{Prim: "add", Args: []*ir.Term{
		ir.New(ir.ConstNode{Value: types.Int_(1)}, types.Int, loc.Span{}),
		ir.New(ir.Var{Name: "x"}, types.Int, loc.Span{}),
	}}, types.Int, loc.Span{})
	return &ir.Contract{
		Name:    "counter",
		Storage: types.Int,
		Entries: []ir.Entry{{
			Name: "main", ParamTy: types.Int, ParamName: "x", StorageName: "storage", Body: body,
		}},
	}
}

func addOneProgram() *mtext.Program {
	return &mtext.Program{
		Parameter: types.Int,
		Storage:   types.Int,
		Code: instr.Seq{
			instr.Unpair{},
			instr.Push{Ty: types.Int, Val: types.Int_(1)},
			instr.Add{},
			instr.Pair{},
		},
	}
}

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache.sqlite"))
	if err != nil {
		t.Fatalf("unexpected error opening cache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestLookupMissesOnEmptyCache(t *testing.T) {
	c := openTestCache(t)
	_, ok, err := c.Lookup(context.Background(), addOneContract())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected a miss on an empty cache")
	}
}

func TestStoreThenLookupRoundTrips(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()
	contract := addOneContract()
	program := addOneProgram()
	if err := c.Store(ctx, contract, program); err != nil {
		t.Fatalf("unexpected error storing: %v", err)
	}
	got, ok, err := c.Lookup(ctx, contract)
	if err != nil {
		t.Fatalf("unexpected error looking up: %v", err)
	}
	if !ok {
		t.Fatal("expected a hit after storing")
	}
	if len(got.Code) != len(program.Code) {
		t.Fatalf("expected %d instructions back, got %d", len(program.Code), len(got.Code))
	}
}

func TestStoreOverwritesPriorEntryForSameKey(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()
	contract := addOneContract()
	if err := c.Store(ctx, contract, addOneProgram()); err != nil {
		t.Fatalf("unexpected error on first store: %v", err)
	}
	replacement := addOneProgram()
	replacement.Code = append(replacement.Code, instr.Drop{N: 0})
	if err := c.Store(ctx, contract, replacement); err != nil {
		t.Fatalf("unexpected error on second store: %v", err)
	}
	got, ok, err := c.Lookup(ctx, contract)
	if err != nil {
		t.Fatalf("unexpected error looking up: %v", err)
	}
	if !ok {
		t.Fatal("expected a hit")
	}
	if len(got.Code) != len(replacement.Code) {
		t.Fatalf("expected the overwritten entry, got %d instructions", len(got.Code))
	}
}

func TestDifferentContractsGetDifferentKeys(t *testing.T) {
	a := addOneContract()
	b := addOneContract()
	b.Entries[0].Body = ir.New(ir.ConstNode{Value: types.Int_(2)}, types.Int, loc.Span{})
	if KeyOf(a) == KeyOf(b) {
		t.Fatal("expected structurally different contracts to get different cache keys")
	}
}
