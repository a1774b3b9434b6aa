package instr

import (
	"testing"

	"github.com/chazu/clc/types"
)

// TestSeqIsAFlatInstructionList exercises the basic shape every codegen
// caller relies on: a Seq is just a slice, and nested control constructs
// hold their branches as further Seqs rather than jump offsets.
func TestSeqIsAFlatInstructionList(t *testing.T) {
	body := Seq{
		Dup{N: 0},
		Push{Ty: types.Nat, Val: types.Int_(1)},
		Compare{},
		If{
			Then: Seq{Push{Ty: types.Bool, Val: types.Bool_(true)}},
			Else: Seq{Push{Ty: types.Bool, Val: types.Bool_(false)}},
		},
	}
	if len(body) != 4 {
		t.Fatalf("expected 4 top-level instructions, got %d", len(body))
	}
	ifInstr, ok := body[3].(If)
	if !ok {
		t.Fatalf("expected the fourth instruction to be an If, got %T", body[3])
	}
	if len(ifInstr.Then) != 1 || len(ifInstr.Else) != 1 {
		t.Errorf("expected both If branches to carry exactly one instruction")
	}
}

// TestRenameWrapsWithoutChangingStackShape verifies a Rename is transparent
// to whatever reads the wrapped instruction back out.
func TestRenameWrapsWithoutChangingStackShape(t *testing.T) {
	wrapped := Rename{Annotation: "%balance", Inner: Dup{N: 2}}
	inner, ok := wrapped.Inner.(Dup)
	if !ok || inner.N != 2 {
		t.Errorf("expected Rename to carry its wrapped instruction unchanged, got %+v", wrapped.Inner)
	}
}

// TestLambdaBodyIsASeqNotAJumpTarget documents the departure from the
// teacher's own flat/offset-addressed bytecode: a Lambda's body is a
// self-contained Seq value, not an index into a shared instruction array.
func TestLambdaBodyIsASeqNotAJumpTarget(t *testing.T) {
	lam := Lambda{Arg: types.Int, Res: types.Int, Body: Seq{Dup{N: 0}, Add{}}}
	if len(lam.Body) != 2 {
		t.Fatalf("expected a 2-instruction lambda body, got %d", len(lam.Body))
	}
}
