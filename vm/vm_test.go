package vm

import (
	"testing"

	"github.com/chazu/clc/instr"
	"github.com/chazu/clc/types"
)

func TestRunAddsParamToStorage(t *testing.T) {
	seq := instr.Seq{instr.Unpair{}, instr.Add{}}
	m := New()
	st := m.Run(seq, types.Int_(3), types.Int_(4))
	if m.Bag.HasErrors() {
		t.Fatalf("unexpected errors: %s", m.Bag.Format("test.tz"))
	}
	if len(st) != 1 || st[0].Int != 7 {
		t.Fatalf("expected [7], got %v", st)
	}
}

func TestRunFailwithRecordsInternalDiagnostic(t *testing.T) {
	seq := instr.Seq{instr.Unpair{}, instr.Drop{N: 1}, instr.Failwith{}}
	m := New()
	st := m.Run(seq, types.String_("boom"), types.Int_(0))
	if !m.Bag.HasErrors() {
		t.Fatal("expected FAILWITH to record an error")
	}
	if st != nil {
		t.Fatal("expected no resulting stack on failure")
	}
}

func TestRunIfBranchesOnBool(t *testing.T) {
	seq := instr.Seq{
		instr.Unpair{},
		instr.Drop{N: 1},
		instr.If{
			Then: instr.Seq{instr.Push{Ty: types.Int, Val: types.Int_(1)}},
			Else: instr.Seq{instr.Push{Ty: types.Int, Val: types.Int_(0)}},
		},
	}
	m := New()
	st := m.Run(seq, types.Int_(99), types.Bool_(true))
	if m.Bag.HasErrors() {
		t.Fatalf("unexpected errors: %s", m.Bag.Format("test.tz"))
	}
	if len(st) != 1 || st[0].Int != 1 {
		t.Fatalf("expected [1], got %v", st)
	}
}

func TestRunLoopCountsDown(t *testing.T) {
	// storage starts at 3; loop while >0, decrementing until it hits 0.
	guard := instr.Seq{
		instr.Dup{N: 0},
		instr.Push{Ty: types.Int, Val: types.Int_(0)},
		instr.Swap{},
		instr.Compare{},
		instr.Gt{},
	}
	seq := instr.Seq{instr.Unpair{}, instr.Drop{N: 1}}
	seq = append(seq, guard...)
	seq = append(seq, instr.Loop{Body: append(instr.Seq{
		instr.Push{Ty: types.Int, Val: types.Int_(1)},
		instr.Swap{},
		instr.Sub{},
	}, guard...)})
	m := New()
	st := m.Run(seq, types.Unit_(), types.Int_(3))
	if m.Bag.HasErrors() {
		t.Fatalf("unexpected errors: %s", m.Bag.Format("test.tz"))
	}
	if len(st) != 1 || st[0].Int != 0 {
		t.Fatalf("expected [0], got %v", st)
	}
}
