package lspserver

import (
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/chazu/clc/loc"
)

func mustSpan(startLine, startCol, endLine, endCol int) loc.Span {
	return loc.Span{
		Start: loc.Pos{Line: startLine, Column: startCol},
		End:   loc.Pos{Line: endLine, Column: endCol},
	}
}

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
        "loc": {"line": 1, "column": 1},
        "args": [
          {"kind": "const", "value": {"kind": "list", "elems": []}},
          {"kind": "apply", "prim": "add", "loc": {"line": 2, "column": 3}, "args": [
            {"kind": "var", "name": "delta", "loc": {"line": 2, "column": 7}},
            {"kind": "var", "name": "s", "loc": {"line": 2, "column": 14}}
          ]}
        ]
      }
    }
  ]
}`

const unboundNameProgram = `{
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

func TestCheckDocumentCleanProgramHasNoDiagnostics(t *testing.T) {
	diagnostics, contract := checkDocument(counterProgram)
	if len(diagnostics) != 0 {
		t.Fatalf("expected no diagnostics for a well-typed document, got %v", diagnostics)
	}
	if contract == nil {
		t.Fatal("expected the typed contract back on a clean compile")
	}
}

func TestCheckDocumentReportsTypeError(t *testing.T) {
	diagnostics, contract := checkDocument(unboundNameProgram)
	if len(diagnostics) == 0 {
		t.Fatal("expected a diagnostic for the unbound name")
	}
	if contract != nil {
		t.Fatal("expected no cached contract when the compile fails")
	}
}

func TestCheckDocumentReportsMalformedJSON(t *testing.T) {
	diagnostics, contract := checkDocument("not json at all")
	if len(diagnostics) != 1 {
		t.Fatalf("expected exactly one diagnostic for malformed input, got %d", len(diagnostics))
	}
	if contract != nil {
		t.Fatal("expected no cached contract for malformed input")
	}
}

func TestHoverReturnsNilForUnknownDocument(t *testing.T) {
	s := New()
	hover, err := s.textDocumentHover(nil, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///nope.l"},
			Position:     protocol.Position{Line: 0, Character: 0},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hover != nil {
		t.Fatal("expected no hover result for a document that was never opened")
	}
}

func TestHoverReturnsTypeAfterSuccessfulCheck(t *testing.T) {
	s := New()
	uri := "file:///counter.l"
	_, contract := checkDocument(counterProgram)
	if contract == nil {
		t.Fatal("fixture setup: expected the counter program to typecheck")
	}
	s.mu.Lock()
	s.last[uri] = contract
	s.mu.Unlock()

	entry := contract.Entries[0]
	line := entry.Body.Loc.Start.Line
	col := entry.Body.Loc.Start.Column

	hover, err := s.textDocumentHover(nil, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentUri(uri)},
			Position:     protocol.Position{Line: uint32(line - 1), Character: uint32(col - 1)},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hover == nil {
		t.Fatal("expected a hover result over the entry body")
	}
}

func TestSpanToRangeConvertsToZeroBased(t *testing.T) {
	span := mustSpan(3, 5, 3, 9)
	r := spanToRange(span)
	if r.Start.Line != 2 || r.Start.Character != 4 {
		t.Errorf("expected 0-based start (2,4), got (%d,%d)", r.Start.Line, r.Start.Character)
	}
}
