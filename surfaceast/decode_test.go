package surfaceast

import "testing"

const validProgram = `{
  "contract_name": "counter",
  "storage_type": {"kind": "int"},
  "entries": [
    {
      "name": "bump",
      "param_type": {"kind": "int"},
      "param_name": "delta",
      "storage_name": "s",
      "body": {
        "kind": "tuple",
        "args": [
          {"kind": "const", "value": {"kind": "list", "elems": []}},
          {"kind": "apply", "prim": "add", "args": [
            {"kind": "var", "name": "delta"},
            {"kind": "var", "name": "s"}
          ]}
        ]
      }
    }
  ]
}`

func TestDecodeValidProgram(t *testing.T) {
	p, d := Decode([]byte(validProgram))
	if d != nil {
		t.Fatalf("unexpected diagnostic: %v", d)
	}
	if p.ContractName != "counter" {
		t.Errorf("contract_name = %q, want counter", p.ContractName)
	}
	if len(p.Entries) != 1 || p.Entries[0].Name != "bump" {
		t.Errorf("entries not decoded as expected: %+v", p.Entries)
	}
	if p.Entries[0].Body.Kind != KTuple {
		t.Errorf("body.kind = %q, want tuple", p.Entries[0].Body.Kind)
	}
}

func TestDecodeRejectsUnknownKind(t *testing.T) {
	bad := `{
	  "contract_name": "bad",
	  "storage_type": {"kind": "int"},
	  "entries": [
	    {"name": "e", "param_type": {"kind": "int"}, "param_name": "p",
	     "storage_name": "s", "body": {"kind": "not_a_real_kind"}}
	  ]
	}`
	_, d := Decode([]byte(bad))
	if d == nil {
		t.Fatal("expected a diagnostic for an unknown node kind")
	}
	if d.Kind.String() != "syntactic" {
		t.Errorf("kind = %v, want syntactic", d.Kind)
	}
}

func TestDecodeRejectsMissingRequiredField(t *testing.T) {
	bad := `{"contract_name": "bad", "entries": []}` // missing storage_type
	_, d := Decode([]byte(bad))
	if d == nil {
		t.Fatal("expected a diagnostic for a missing required field")
	}
}

func TestDecodeRejectsInvalidJSON(t *testing.T) {
	_, d := Decode([]byte(`{not json`))
	if d == nil {
		t.Fatal("expected a diagnostic for invalid json")
	}
}
