package finalize

import (
	"testing"

	"github.com/chazu/clc/instr"
	"github.com/chazu/clc/types"
)

func TestDropsAPureLiteralCollapsesPushDrop(t *testing.T) {
	seq := instr.Seq{
		instr.Push{Ty: types.Int, Val: types.Int_(1)},
		instr.Drop{},
		instr.Push{Ty: types.Int, Val: types.Int_(2)},
	}
	out := peephole(seq)
	if len(out) != 1 {
		t.Fatalf("expected the pure push+drop to vanish, got %#v", out)
	}
	if p, ok := out[0].(instr.Push); !ok || p.Val.Int != 2 {
		t.Errorf("expected the surviving instruction to be Push{2}, got %#v", out[0])
	}
}

func TestDupThenDiscardCopyCollapsesToNoop(t *testing.T) {
	// codegen's own `let x = e in x` lowering: rhs; Dup{0}; Dip(1,Drop(1))
	seq := instr.Seq{
		instr.Push{Ty: types.Int, Val: types.Int_(7)},
		instr.Dup{N: 0},
		instr.Dip{N: 1, Body: instr.Seq{instr.Drop{N: 1}}},
	}
	out := peephole(seq)
	if len(out) != 1 {
		t.Fatalf("expected Dup;Dip(Drop) to collapse, got %#v", out)
	}
	if _, ok := out[0].(instr.Push); !ok {
		t.Errorf("expected only the Push to survive, got %#v", out[0])
	}
}

func TestDupThenDiscardCopyRequiresDepthZero(t *testing.T) {
	seq := instr.Seq{
		instr.Dup{N: 2},
		instr.Dip{N: 1, Body: instr.Seq{instr.Drop{N: 1}}},
	}
	out := peephole(seq)
	if len(out) != 2 {
		t.Errorf("Dup at nonzero depth must not collapse, got %#v", out)
	}
}

func TestMergeAdjacentDipOfSameDepth(t *testing.T) {
	seq := instr.Seq{
		instr.Dip{N: 2, Body: instr.Seq{instr.Add{}}},
		instr.Dip{N: 2, Body: instr.Seq{instr.Neg{}}},
	}
	out := peephole(seq)
	if len(out) != 1 {
		t.Fatalf("expected the two Dips to merge, got %#v", out)
	}
	dip, ok := out[0].(instr.Dip)
	if !ok || dip.N != 2 || len(dip.Body) != 2 {
		t.Errorf("expected one Dip{N:2} with a 2-instruction body, got %#v", out[0])
	}
}

func TestMergeAdjacentDipRequiresMatchingDepth(t *testing.T) {
	seq := instr.Seq{
		instr.Dip{N: 1, Body: instr.Seq{instr.Add{}}},
		instr.Dip{N: 2, Body: instr.Seq{instr.Neg{}}},
	}
	out := peephole(seq)
	if len(out) != 2 {
		t.Errorf("Dips at different depths must not merge, got %#v", out)
	}
}

func TestPeepholeDescendsIntoIfBranches(t *testing.T) {
	seq := instr.Seq{
		instr.If{
			Then: instr.Seq{instr.Push{Ty: types.Int, Val: types.Int_(1)}, instr.Drop{}},
			Else: instr.Seq{instr.Add{}},
		},
	}
	out := peephole(seq)
	iff := out[0].(instr.If)
	if len(iff.Then) != 0 {
		t.Errorf("expected the Then branch's push+drop to collapse, got %#v", iff.Then)
	}
}

func TestTruncateFailsCutsAfterFailwith(t *testing.T) {
	seq := instr.Seq{
		instr.Push{Ty: types.Int, Val: types.Int_(1)},
		instr.Failwith{},
		instr.Add{},
		instr.Drop{},
	}
	out := truncateFails(seq)
	if len(out) != 2 {
		t.Fatalf("expected truncation right after Failwith, got %#v", out)
	}
	if _, ok := out[1].(instr.Failwith); !ok {
		t.Errorf("expected the last surviving instruction to be Failwith, got %#v", out[1])
	}
}

func TestTruncateFailsRequiresBothIfArmsToFail(t *testing.T) {
	seq := instr.Seq{
		instr.If{
			Then: instr.Seq{instr.Failwith{}},
			Else: instr.Seq{instr.Add{}}, // doesn't fail
		},
		instr.Drop{}, // must survive: the Else arm can still reach here
	}
	out := truncateFails(seq)
	if len(out) != 2 {
		t.Fatalf("expected the trailing Drop to survive since Else doesn't fail, got %#v", out)
	}
}

func TestTruncateFailsCutsAfterIfWhereBothArmsFail(t *testing.T) {
	seq := instr.Seq{
		instr.If{
			Then: instr.Seq{instr.Failwith{}},
			Else: instr.Seq{instr.Failwith{}},
		},
		instr.Drop{}, // unreachable: every path through the If fails
	}
	out := truncateFails(seq)
	if len(out) != 1 {
		t.Fatalf("expected the unreachable Drop to be truncated, got %#v", out)
	}
}

func TestTruncateFailsDoesNotPropagateThroughLoop(t *testing.T) {
	seq := instr.Seq{
		instr.Loop{Body: instr.Seq{instr.Failwith{}}},
		instr.Drop{}, // reachable: LOOP can also exit normally on a false test
	}
	out := truncateFails(seq)
	if len(out) != 2 {
		t.Errorf("a failing loop body must not truncate code after the loop, got %#v", out)
	}
}

func TestTruncateFailsPropagatesThroughDip(t *testing.T) {
	seq := instr.Seq{
		instr.Dip{N: 1, Body: instr.Seq{instr.Failwith{}}},
		instr.Drop{},
	}
	out := truncateFails(seq)
	if len(out) != 1 {
		t.Errorf("a Dip whose body fails should truncate what follows it, got %#v", out)
	}
}

func TestRunOrdersPeepholeBeforeTruncate(t *testing.T) {
	// Two same-depth Dips merge first; the merged body then ends in
	// Failwith, which should truncate the trailing Drop.
	seq := instr.Seq{
		instr.Dip{N: 1, Body: instr.Seq{instr.Add{}}},
		instr.Dip{N: 1, Body: instr.Seq{instr.Failwith{}}},
		instr.Drop{},
	}
	out := Run(seq)
	if len(out) != 1 {
		t.Fatalf("expected the merge to expose a tail Failwith and truncate the Drop, got %#v", out)
	}
	dip, ok := out[0].(instr.Dip)
	if !ok || len(dip.Body) != 2 {
		t.Fatalf("expected one merged Dip, got %#v", out[0])
	}
}
