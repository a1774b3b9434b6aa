package typecheck

import (
	"testing"

	"github.com/chazu/clc/ir"
	"github.com/chazu/clc/surfaceast"
	"github.com/chazu/clc/types"
)

const counterProgram = `{
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

func TestCheckCounterContract(t *testing.T) {
	prog, d := surfaceast.Decode([]byte(counterProgram))
	if d != nil {
		t.Fatalf("decode failed: %v", d)
	}
	c, _, bag := Check(prog)
	if bag.HasErrors() {
		t.Fatalf("unexpected type errors: %s", bag.Format("counter.l"))
	}
	if len(c.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(c.Entries))
	}
	entry := c.Entries[0]
	if entry.Body.Ty.Kind != types.KTuple {
		t.Errorf("entry body should type as a tuple")
	}
	if _, ok := entry.Body.Desc.(ir.Apply); !ok {
		t.Errorf("expected top-level pair construction, got %T", entry.Body.Desc)
	}
}

const badProgram = `{
  "contract_name": "bad",
  "storage_type": {"kind": "int"},
  "entries": [
    {
      "name": "bump",
      "param_type": {"kind": "int"},
      "param_name": "delta",
      "storage_name": "s",
      "body": {"kind": "var", "name": "does_not_exist"}
    }
  ]
}`

func TestCheckReportsUnboundName(t *testing.T) {
	prog, d := surfaceast.Decode([]byte(badProgram))
	if d != nil {
		t.Fatalf("decode failed: %v", d)
	}
	_, _, bag := Check(prog)
	if !bag.HasErrors() {
		t.Fatal("expected a type error for the unbound name")
	}
}

const recordProgram = `{
  "contract_name": "recordy",
  "storage_type": {"kind": "record", "name": "state"},
  "type_decls": [
    {"kind": "record", "name": "state", "fields": [
      {"name": "count", "type": {"kind": "int"}}
    ]}
  ],
  "entries": [
    {
      "name": "reset",
      "param_type": {"kind": "unit"},
      "param_name": "p",
      "storage_name": "s",
      "body": {
        "kind": "tuple",
        "args": [
          {"kind": "const", "value": {"kind": "list", "elems": []}},
          {"kind": "record", "name": "state", "fields": [
            {"name": "count", "value": {"kind": "const", "value": {"kind": "int", "int": 0}}}
          ]}
        ]
      }
    }
  ]
}`

func TestCheckRecordConstruct(t *testing.T) {
	prog, d := surfaceast.Decode([]byte(recordProgram))
	if d != nil {
		t.Fatalf("decode failed: %v", d)
	}
	_, _, bag := Check(prog)
	if bag.HasErrors() {
		t.Fatalf("unexpected type errors: %s", bag.Format("recordy.l"))
	}
}
