// Package diag implements the uniform error/diagnostic taxonomy from §7:
// every diagnostic carries a kind, a message, a primary location, and an
// optional secondary "expected here" location, and no pass ever discards
// one. The collector style (accumulate, then format once for display) is
// grounded on the teacher's SemanticAnalyzer.errorAt/warnAt pattern,
// generalized with a located Kind instead of bare strings.
package diag

import (
	"fmt"
	"strings"

	"github.com/chazu/clc/loc"
)

// Kind is one of §7's six error categories.
type Kind int

const (
	Syntactic Kind = iota
	Semantic
	Internal
	Forbidden
	Decompile
	External
)

var kindNames = [...]string{"syntactic", "semantic", "internal", "forbidden", "decompile", "external"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Severity distinguishes hard errors from advisory warnings; both kinds
// are collected in the same Bag.
type Severity int

const (
	SevError Severity = iota
	SevWarning
)

// Frame is one entry of a ForbiddenEffect call chain (§10.11): the nested
// lambda/fold/map/guard context between the entry point and the offending
// transfer, innermost last.
type Frame struct {
	Loc  loc.Span
	Desc string
}

// Diagnostic is one located error or warning.
type Diagnostic struct {
	Kind         Kind
	Severity     Severity
	Message      string
	Loc          loc.Span
	SecondaryLoc *loc.Span // "expected here", when applicable
	Chain        []Frame   // ForbiddenEffect call chain, innermost last; nil otherwise
}

func (d Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s at %s", d.Kind, d.Message, d.Loc)
	if d.SecondaryLoc != nil {
		fmt.Fprintf(&b, " (expected here: %s)", *d.SecondaryLoc)
	}
	for _, f := range d.Chain {
		fmt.Fprintf(&b, "\n  in %s at %s", f.Desc, f.Loc)
	}
	return b.String()
}

// Bag accumulates diagnostics across a pipeline run. It never drops one;
// every pass that detects a problem appends to the same Bag instead of
// returning early with only the first error (§7's propagation policy).
type Bag struct {
	items []Diagnostic
}

// New returns an empty Bag.
func New() *Bag { return &Bag{} }

// Add appends a diagnostic.
func (b *Bag) Add(d Diagnostic) { b.items = append(b.items, d) }

// Errorf is a convenience for the common case: a located error with a
// formatted message.
func (b *Bag) Errorf(kind Kind, span loc.Span, format string, args ...any) {
	b.Add(Diagnostic{Kind: kind, Severity: SevError, Message: fmt.Sprintf(format, args...), Loc: span})
}

// Warnf records an advisory warning.
func (b *Bag) Warnf(kind Kind, span loc.Span, format string, args ...any) {
	b.Add(Diagnostic{Kind: kind, Severity: SevWarning, Message: fmt.Sprintf(format, args...), Loc: span})
}

// All returns every accumulated diagnostic, in the order recorded.
func (b *Bag) All() []Diagnostic { return b.items }

// HasErrors reports whether any accumulated diagnostic is SevError.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity == SevError {
			return true
		}
	}
	return false
}

// Count returns the number of accumulated diagnostics.
func (b *Bag) Count() int { return len(b.items) }

// Merge appends every diagnostic from other into b, preserving order.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
}

// Format renders every diagnostic in the uniform
// "<kind>: <message> at <file>:<line>:<col>" form §7 mandates, one per
// line, prefixed with its severity ("error" or "warning"); file fills the
// <file> slot.
func (b *Bag) Format(file string) string {
	var out strings.Builder
	for _, d := range b.items {
		prefix := "error"
		if d.Severity == SevWarning {
			prefix = "warning"
		}
		fmt.Fprintf(&out, "%s: %s: %s at %s:%s\n", prefix, d.Kind, d.Message, file, d.Loc)
		if d.SecondaryLoc != nil {
			fmt.Fprintf(&out, "  expected here: %s:%s\n", file, *d.SecondaryLoc)
		}
		for _, f := range d.Chain {
			fmt.Fprintf(&out, "  in %s at %s:%s\n", f.Desc, file, f.Loc)
		}
	}
	return out.String()
}
