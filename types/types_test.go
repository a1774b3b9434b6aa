package types

import "testing"

func TestEqualGround(t *testing.T) {
	if !Equal(Int, Int) {
		t.Errorf("Int should equal itself")
	}
	if Equal(Int, Nat) {
		t.Errorf("Int and Nat are distinct integer sub-kinds")
	}
}

func TestEqualComposite(t *testing.T) {
	a := Map(String, Int)
	b := Map(String, Int)
	c := Map(String, Nat)
	if !Equal(a, b) {
		t.Errorf("structurally identical maps should be equal")
	}
	if Equal(a, c) {
		t.Errorf("maps with different value types should not be equal")
	}
}

func TestEqualNamedByNameOnly(t *testing.T) {
	a := Record("point")
	b := Record("point")
	c := Record("other")
	if !Equal(a, b) {
		t.Errorf("records with the same registered name should be equal")
	}
	if Equal(a, c) {
		t.Errorf("records with different names should not be equal")
	}
}

func TestTupleDegeneratesToElement(t *testing.T) {
	single := Tuple(Int)
	if single != Int {
		t.Errorf("a 1-element tuple should degenerate to its element")
	}
}

func TestIsInteger(t *testing.T) {
	if !Int.IsInteger() || !Nat.IsInteger() {
		t.Errorf("int and nat must both report IsInteger")
	}
	if String.IsInteger() {
		t.Errorf("string must not report IsInteger")
	}
}

func TestBigMapOnlyAsFirstStorageComponentIsAnEnvInvariant(t *testing.T) {
	// The type algebra itself places no restriction on where a bigmap type
	// may appear (see types.go); the restriction is enforced by the
	// typechecker over a whole storage declaration, tested in the
	// typecheck package.
	bm := BigMap(Int, String)
	if bm.Kind != KBigMap {
		t.Errorf("expected KBigMap")
	}
}
