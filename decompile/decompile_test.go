package decompile

import (
	"testing"

	"github.com/chazu/clc/env"
	"github.com/chazu/clc/instr"
	"github.com/chazu/clc/ir"
	"github.com/chazu/clc/mtext"
	"github.com/chazu/clc/types"
)

// A minimal script opening the way codegen.Compile's output always does:
// UNPAIR, then a body that adds 1 to the parameter and pairs the sum with
// storage, consuming both directly rather than duplicating them (the
// duplicate-and-drop shape a real compiled binding reference produces is
// exercised separately by the interp package's own tests).
func addOneScript() instr.Seq {
	return instr.Seq{
		instr.Unpair{},
		instr.Push{Ty: types.Int, Val: types.Int_(1)},
		instr.Add{},
		instr.Pair{},
	}
}

func TestDecompileReconstructsSingleEntryContract(t *testing.T) {
	prog := &mtext.Program{
		Parameter: types.Int,
		Storage:   types.Int,
		Code:      addOneScript(),
	}
	c, bag := Decompile(prog, env.New())
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", bag.Format("test"))
	}
	if len(c.Entries) != 1 {
		t.Fatalf("expected a single entry, got %d", len(c.Entries))
	}
	if len(c.Globals) != 0 {
		t.Fatalf("expected no recovered globals, got %d", len(c.Globals))
	}
	entry := c.Entries[0]
	pair, ok := entry.Body.Desc.(ir.Apply)
	if !ok || pair.Prim != "pair" {
		t.Fatalf("expected the result to be a pair application, got %#v", entry.Body.Desc)
	}
	if len(pair.Args) != 2 {
		t.Fatalf("expected 2 pair elements, got %d", len(pair.Args))
	}
	sum, ok := pair.Args[0].Desc.(ir.Apply)
	if !ok || sum.Prim != "add" {
		t.Fatalf("expected the first pair element to be the add, got %#v", pair.Args[0].Desc)
	}
	if v, ok := pair.Args[1].Desc.(ir.Var); !ok || v.Name != entry.StorageName {
		t.Errorf("expected the second pair element to reference storage, got %#v", pair.Args[1].Desc)
	}
}

func TestDecompileRetriesOnAnnotationConflict(t *testing.T) {
	// The same annotation @x reused for two different values (param, then
	// storage) is a genuine conflict on the first pass; the retry with
	// IgnoreAnnotations set must still produce a clean contract.
	seq := instr.Seq{
		instr.Unpair{},
		instr.Rename{Annotation: "x", Inner: instr.Dup{N: 0}},
		instr.Drop{N: 0},
		instr.Swap{},
		instr.Rename{Annotation: "x", Inner: instr.Dup{N: 0}},
		instr.Drop{N: 0},
		instr.Swap{},
		instr.Pair{},
	}
	prog := &mtext.Program{Parameter: types.Int, Storage: types.Int, Code: seq}
	c, bag := Decompile(prog, env.New())
	if bag.HasErrors() {
		t.Fatalf("expected the retry to clear the annotation conflict, got: %s", bag.Format("test"))
	}
	if len(c.Entries) != 1 {
		t.Fatalf("expected a single entry, got %d", len(c.Entries))
	}
}
