package surfaceast

import (
	"encoding/json"
	"fmt"

	"github.com/chazu/clc/diag"
	"github.com/chazu/clc/loc"
)

// Decode validates data against the schema and, if it passes, unmarshals it
// into a Program. Schema failures and JSON syntax errors alike come back as
// a Syntactic diagnostic (§7.1): from the compiler core's point of view a
// frontend that produced ill-shaped JSON is indistinguishable from one that
// produced ill-formed source text.
func Decode(data []byte) (*Program, *diag.Diagnostic) {
	if err := ValidateJSON(data); err != nil {
		d := diag.Diagnostic{
			Kind:     diag.Syntactic,
			Severity: diag.SevError,
			Message:  err.Error(),
			Loc:      loc.Span{},
		}
		return nil, &d
	}

	var p Program
	if err := json.Unmarshal(data, &p); err != nil {
		d := diag.Diagnostic{
			Kind:     diag.Syntactic,
			Severity: diag.SevError,
			Message:  fmt.Sprintf("surfaceast: %v", err),
			Loc:      loc.Span{},
		}
		return nil, &d
	}
	return &p, nil
}

// ToLoc converts the JSON wire position into loc.Span (start == end; the
// frontend does not currently send end positions).
func ToLoc(p Pos) loc.Span {
	pos := loc.Pos{Line: p.Line, Column: p.Column}
	return loc.Span{Start: pos, End: pos}
}
