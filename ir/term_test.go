package ir

import (
	"testing"

	"github.com/chazu/clc/loc"
	"github.com/chazu/clc/types"
)

func TestWithNameReusesNodeWhenUnchanged(t *testing.T) {
	v := New(Var{Name: "x"}, types.Int, loc.Span{})
	v = v.WithName("x_dup")
	same := v.WithName("x_dup")
	if same != v {
		t.Errorf("WithName should return the same pointer when the name is unchanged")
	}
}

func TestWithNameAllocatesWhenChanged(t *testing.T) {
	v := New(Var{Name: "x"}, types.Int, loc.Span{})
	renamed := v.WithName("y")
	if renamed == v {
		t.Errorf("WithName should allocate a new node when the name changes")
	}
	if v.Name != "" {
		t.Errorf("original node must not be mutated")
	}
}

func TestContractEntryShape(t *testing.T) {
	body := New(ConstNode{Value: types.Unit_()}, types.Unit, loc.Span{})
	c := &Contract{
		Name:    "test",
		Storage: types.Int,
		Entries: []Entry{
			{Name: "main", ParamTy: types.Int, ParamName: "p", StorageName: "s", Body: body},
		},
	}
	if len(c.Entries) != 1 || c.Entries[0].Body != body {
		t.Errorf("entry body should be preserved")
	}
}
