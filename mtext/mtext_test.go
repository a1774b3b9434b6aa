package mtext

import (
	"testing"

	"github.com/chazu/clc/instr"
	"github.com/chazu/clc/types"
)

func TestTypeTextRoundTripsCompoundTypes(t *testing.T) {
	ty := types.Tuple(types.Int, types.Option(types.String), types.Map(types.Nat, types.Bytes))
	back, err := ParseType(TypeText(ty))
	if err != nil {
		t.Fatalf("ParseType: %v", err)
	}
	if !types.Equal(ty, back) {
		t.Errorf("round trip mismatch: %s vs %s", TypeText(ty), TypeText(back))
	}
}

func TestTypeTextNamedRecordRoundTrips(t *testing.T) {
	ty := types.Record("Account")
	back, err := ParseType(TypeText(ty))
	if err != nil {
		t.Fatalf("ParseType: %v", err)
	}
	if back.Kind != types.KRecord || back.Name != "Account" {
		t.Errorf("expected record Account, got %#v", back)
	}
}

func TestConstTextRoundTripsRecordAndVariant(t *testing.T) {
	c := types.Left_("Deposit", &types.Const{
		Kind: types.CRecord,
		Fields: []types.RecordField{
			{Name: "amount", Value: types.Int_(42)},
			{Name: "memo", Value: types.String_("hi")},
		},
	})
	back, err := ParseConst(ConstText(c))
	if err != nil {
		t.Fatalf("ParseConst: %v", err)
	}
	if back.Kind != types.CLeft || back.Field != "Deposit" {
		t.Fatalf("expected a labeled Left, got %#v", back)
	}
	if back.Inner.Kind != types.CRecord || len(back.Inner.Fields) != 2 {
		t.Fatalf("expected a two-field record payload, got %#v", back.Inner)
	}
	if back.Inner.Fields[0].Name != "amount" || back.Inner.Fields[0].Value.Int != 42 {
		t.Errorf("field 0 mismatch: %#v", back.Inner.Fields[0])
	}
}

func TestConstTextRoundTripsEmptyBigMap(t *testing.T) {
	c := types.EmptyBigMap(types.Address, types.Int)
	back, err := ParseConst(ConstText(c))
	if err != nil {
		t.Fatalf("ParseConst: %v", err)
	}
	if back.Kind != types.CBigMap {
		t.Errorf("expected CBigMap, got %#v", back)
	}
}

func sampleProgram() *Program {
	body := instr.Seq{
		instr.Dup{N: 0},
		instr.Push{Ty: types.Int, Val: types.Int_(1)},
		instr.Add{},
		instr.IfLeft{
			LeftBranch:  instr.Seq{instr.Drop{N: 1}, instr.Push{Ty: types.String, Val: types.String_("left")}},
			RightBranch: instr.Seq{instr.Rename{Annotation: "%loser", Inner: instr.Failwith{}}},
		},
		instr.Dip{N: 1, Body: instr.Seq{instr.Drop{N: 1}}},
	}
	return &Program{
		Parameter: types.Or(types.Unit, types.Int),
		Storage:   types.Tuple(types.Int, types.String),
		Code:      body,
	}
}

func TestProgramTextRoundTrips(t *testing.T) {
	p := sampleProgram()
	text := EncodeText(p)
	back, err := DecodeText(text)
	if err != nil {
		t.Fatalf("DecodeText: %v\n%s", err, text)
	}
	if !types.Equal(p.Parameter, back.Parameter) {
		t.Errorf("parameter mismatch: %s vs %s", TypeText(p.Parameter), TypeText(back.Parameter))
	}
	if !types.Equal(p.Storage, back.Storage) {
		t.Errorf("storage mismatch: %s vs %s", TypeText(p.Storage), TypeText(back.Storage))
	}
	if InstrSeqText(back.Code) != InstrSeqText(p.Code) {
		t.Errorf("code mismatch:\n  want %s\n  got  %s", InstrSeqText(p.Code), InstrSeqText(back.Code))
	}
}

func TestProgramTextRejectsMissingStanza(t *testing.T) {
	_, err := DecodeText("parameter unit;\nstorage unit;\n")
	if err == nil {
		t.Fatal("expected an error for a missing code stanza")
	}
}

func TestProgramJSONRoundTrips(t *testing.T) {
	p := sampleProgram()
	data, err := EncodeJSON(p)
	if err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	back, err := DecodeJSON(data)
	if err != nil {
		t.Fatalf("DecodeJSON: %v\n%s", err, data)
	}
	if !types.Equal(p.Parameter, back.Parameter) {
		t.Errorf("parameter mismatch after JSON round trip")
	}
	if !types.Equal(p.Storage, back.Storage) {
		t.Errorf("storage mismatch after JSON round trip")
	}
	if InstrSeqText(back.Code) != InstrSeqText(p.Code) {
		t.Errorf("code mismatch after JSON round trip:\n  want %s\n  got  %s",
			InstrSeqText(p.Code), InstrSeqText(back.Code))
	}
}

func TestInstrJSONPreservesRenameAnnotation(t *testing.T) {
	seq := instr.Seq{instr.Rename{Annotation: "%dst", Inner: instr.Dup{N: 2}}}
	node := instrSeqJSON(seq)
	back, err := instrSeqFromJSON(node)
	if err != nil {
		t.Fatalf("instrSeqFromJSON: %v", err)
	}
	ren, ok := back[0].(instr.Rename)
	if !ok {
		t.Fatalf("expected a Rename, got %#v", back[0])
	}
	if ren.Annotation != "%dst" {
		t.Errorf("expected annotation %%dst, got %q", ren.Annotation)
	}
	if dup, ok := ren.Inner.(instr.Dup); !ok || dup.N != 2 {
		t.Errorf("expected Dup{N:2} wrapped inside, got %#v", ren.Inner)
	}
}
