package main

import (
	"strings"
	"testing"

	"github.com/chazu/clc/codegen"
	"github.com/chazu/clc/decompile"
	"github.com/chazu/clc/encode"
	"github.com/chazu/clc/env"
	"github.com/chazu/clc/finalize"
	"github.com/chazu/clc/instr"
	"github.com/chazu/clc/mtext"
	"github.com/chazu/clc/printer"
	"github.com/chazu/clc/simplify"
	"github.com/chazu/clc/surfaceast"
	"github.com/chazu/clc/typecheck"
	"github.com/chazu/clc/types"
)

// Acceptance scenarios: end-to-end checks over the whole pipeline, one
// per concrete scenario carried forward from the distilled spec's §8.

func TestScenarioAddParamToStorageEmitsExpectedShape(t *testing.T) {
	const src = `{
	  "contract_name": "adder",
	  "storage_type": {"kind": "int"},
	  "entries": [
	    {
	      "name": "main",
	      "param_type": {"kind": "int"},
	      "param_name": "p",
	      "storage_name": "s",
	      "body": {
	        "kind": "tuple",
	        "args": [
	          {"kind": "const", "value": {"kind": "list", "elems": []}},
	          {"kind": "apply", "prim": "add", "args": [
	            {"kind": "var", "name": "p"},
	            {"kind": "var", "name": "s"}
	          ]}
	        ]
	      }
	    }
	  ]
	}`

	prog, derr := surfaceast.Decode([]byte(src))
	if derr != nil {
		t.Fatalf("decode: %v", derr)
	}
	c, e, bag := typecheck.Check(prog)
	if bag.HasErrors() {
		t.Fatalf("typecheck: %s", bag.Format("adder"))
	}
	encoded, ebag := encode.Run(c, e)
	if ebag.HasErrors() {
		t.Fatalf("encode: %s", ebag.Format("adder"))
	}
	simplified := simplify.Contract(encoded)
	code, cbag := codegen.Compile(simplified, e)
	if cbag.HasErrors() {
		t.Fatalf("codegen: %s", cbag.Format("adder"))
	}
	code = finalize.Run(code)

	text := mtext.EncodeText(&mtext.Program{Parameter: types.Int, Storage: types.Int, Code: code})
	for _, want := range []string{"UNPAIR", "ADD", "NIL operation", "PAIR"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected emitted code to contain %q, got:\n%s", want, text)
		}
	}
	if strings.Index(text, "UNPAIR") > strings.Index(text, "ADD") {
		t.Errorf("expected UNPAIR before ADD, got:\n%s", text)
	}
}

func TestScenarioFailwithTruncatesTail(t *testing.T) {
	const src = `{
	  "contract_name": "aborts",
	  "storage_type": {"kind": "int"},
	  "entries": [
	    {
	      "name": "main",
	      "param_type": {"kind": "string"},
	      "param_name": "p",
	      "storage_name": "s",
	      "body": {
	        "kind": "seq",
	        "a": {"kind": "failwith", "a": {"kind": "var", "name": "p"}},
	        "b": {"kind": "tuple", "args": [
	          {"kind": "const", "value": {"kind": "list", "elems": []}},
	          {"kind": "var", "name": "s"}
	        ]}
	      }
	    }
	  ]
	}`

	prog, derr := surfaceast.Decode([]byte(src))
	if derr != nil {
		t.Fatalf("decode: %v", derr)
	}
	c, e, bag := typecheck.Check(prog)
	if bag.HasErrors() {
		t.Fatalf("typecheck: %s", bag.Format("aborts"))
	}
	encoded, ebag := encode.Run(c, e)
	if ebag.HasErrors() {
		t.Fatalf("encode: %s", ebag.Format("aborts"))
	}
	simplified := simplify.Contract(encoded)
	code, cbag := codegen.Compile(simplified, e)
	if cbag.HasErrors() {
		t.Fatalf("codegen: %s", cbag.Format("aborts"))
	}
	code = finalize.Run(code)

	text := mtext.EncodeText(&mtext.Program{Parameter: types.String, Storage: types.Int, Code: code})
	if n := strings.Count(text, "FAILWITH"); n != 1 {
		t.Fatalf("expected exactly one FAILWITH, found %d in:\n%s", n, text)
	}
	codeStart := strings.Index(text, "code ")
	block := text[codeStart:]
	closeIdx := strings.LastIndex(block, "}")
	beforeClose := strings.TrimSpace(block[:closeIdx])
	if !strings.HasSuffix(beforeClose, "FAILWITH") {
		t.Errorf("expected FAILWITH to be the last instruction in the block, got:\n%s", block)
	}
}

func TestScenarioMatchListWithSizeCompilesCleanly(t *testing.T) {
	const src = `{
	  "contract_name": "summer",
	  "storage_type": {"kind": "int"},
	  "entries": [
	    {
	      "name": "main",
	      "param_type": {"kind": "list", "elem": {"kind": "int"}},
	      "param_name": "l",
	      "storage_name": "s",
	      "body": {
	        "kind": "tuple",
	        "args": [
	          {"kind": "const", "value": {"kind": "list", "elems": []}},
	          {
	            "kind": "match_list",
	            "a": {"kind": "var", "name": "l"},
	            "b": {"kind": "const", "value": {"kind": "int", "int": 0}},
	            "name": "x",
	            "name2": "xs",
	            "c": {"kind": "apply", "prim": "add", "args": [
	              {"kind": "var", "name": "x"},
	              {"kind": "apply", "prim": "int_of", "args": [
	                {"kind": "apply", "prim": "size", "args": [{"kind": "var", "name": "xs"}]}
	              ]}
	            ]}
	          }
	        ]
	      }
	    }
	  ]
	}`

	prog, derr := surfaceast.Decode([]byte(src))
	if derr != nil {
		t.Fatalf("decode: %v", derr)
	}
	c, e, bag := typecheck.Check(prog)
	if bag.HasErrors() {
		t.Fatalf("typecheck: %s", bag.Format("summer"))
	}
	encoded, ebag := encode.Run(c, e)
	if ebag.HasErrors() {
		t.Fatalf("encode: %s", ebag.Format("summer"))
	}
	simplified := simplify.Contract(encoded)
	code, cbag := codegen.Compile(simplified, e)
	if cbag.HasErrors() {
		t.Fatalf("codegen: %s", cbag.Format("summer"))
	}
	code = finalize.Run(code)

	paramTy := types.List(types.Int)
	if _, err := mtext.DecodeText(mtext.EncodeText(&mtext.Program{Parameter: paramTy, Storage: types.Int, Code: code})); err != nil {
		t.Fatalf("emitted code did not round-trip through the M codec: %v", err)
	}
}

// TestScenarioIdentityContractRoundTripsByteIdentical exercises the
// simplest possible entry body, ([]:operation list, s) untouched, on
// string storage: compiling it, decompiling the result, and recompiling
// that decompiled program must reproduce the exact same M text the first
// compile produced, byte for byte, after peephole/tail-fail finalize.
func TestScenarioIdentityContractRoundTripsByteIdentical(t *testing.T) {
	const src = `{
	  "contract_name": "identity",
	  "storage_type": {"kind": "string"},
	  "entries": [
	    {
	      "name": "main",
	      "param_type": {"kind": "unit"},
	      "param_name": "p",
	      "storage_name": "s",
	      "body": {
	        "kind": "tuple",
	        "args": [
	          {"kind": "const", "value": {"kind": "list", "elems": []}},
	          {"kind": "var", "name": "s"}
	        ]
	      }
	    }
	  ]
	}`

	compileOnce := func(prog *surfaceast.Program) string {
		c, e, bag := typecheck.Check(prog)
		if bag.HasErrors() {
			t.Fatalf("typecheck: %s", bag.Format("identity"))
		}
		encoded, ebag := encode.Run(c, e)
		if ebag.HasErrors() {
			t.Fatalf("encode: %s", ebag.Format("identity"))
		}
		simplified := simplify.Contract(encoded)
		code, cbag := codegen.Compile(simplified, e)
		if cbag.HasErrors() {
			t.Fatalf("codegen: %s", cbag.Format("identity"))
		}
		code = finalize.Run(code)
		return mtext.EncodeText(&mtext.Program{Parameter: types.Unit, Storage: types.String, Code: code})
	}

	prog, derr := surfaceast.Decode([]byte(src))
	if derr != nil {
		t.Fatalf("decode: %v", derr)
	}
	firstText := compileOnce(prog)

	firstProg, err := mtext.DecodeText(firstText)
	if err != nil {
		t.Fatalf("decoding first compile's own output: %v", err)
	}
	dc, dbag := decompile.Decompile(firstProg, env.New())
	if dbag.HasErrors() {
		t.Fatalf("decompile: %s", dbag.Format("identity"))
	}
	secondText := compileOnce(printer.Untype(dc))

	if firstText != secondText {
		t.Errorf("compile -> decompile -> compile is not byte-identical:\nfirst:\n%s\nsecond:\n%s", firstText, secondText)
	}
}

// TestScenarioDecompileRecompileFixedSample stands in for the distilled
// spec's fixed on-disk sample: a small hand-built script exercising
// UNPAIR/ADD/NIL/PAIR, decompiled back to L and recompiled, checked
// against the same round-trip property the original file would have
// been checked against.
func TestScenarioDecompileRecompileFixedSample(t *testing.T) {
	fixed := instr.Seq{
		instr.Unpair{},
		instr.Add{},
		instr.NilOf{Ty: types.Operation},
		instr.Pair{},
	}
	prog := &mtext.Program{Parameter: types.Int, Storage: types.Int, Code: fixed}

	dc, dbag := decompile.Decompile(prog, env.New())
	if dbag.HasErrors() {
		t.Fatalf("decompile: %s", dbag.Format("fixed"))
	}

	surface := printer.Untype(dc)
	rc, re, rbag := typecheck.Check(surface)
	if rbag.HasErrors() {
		t.Fatalf("recovered program failed to typecheck: %s", rbag.Format("fixed"))
	}

	encoded, ebag := encode.Run(rc, re)
	if ebag.HasErrors() {
		t.Fatalf("encode: %s", ebag.Format("fixed"))
	}
	simplified := simplify.Contract(encoded)
	code, cbag := codegen.Compile(simplified, re)
	if cbag.HasErrors() {
		t.Fatalf("codegen: %s", cbag.Format("fixed"))
	}
	code = finalize.Run(code)

	if _, err := mtext.DecodeText(mtext.EncodeText(&mtext.Program{Parameter: types.Int, Storage: types.Int, Code: code})); err != nil {
		t.Fatalf("recompiled fixed sample did not pass the M codec: %v", err)
	}
}
