// Package loc defines the source-location value shared by every stage of
// the pipeline, from the untyped AST boundary through to emitted M
// instructions. It is grounded on the Position/Span pair the corpus uses
// throughout its own AST and bytecode packages.
package loc

import "fmt"

// Pos is a single point in a source file.
type Pos struct {
	Line   int // 1-based
	Column int // 1-based
}

// Zero reports whether p carries no real location (e.g. a node synthesized
// by the encoder that has no single point of origin in the source).
func (p Pos) Zero() bool { return p.Line == 0 && p.Column == 0 }

func (p Pos) String() string {
	if p.Zero() {
		return "-:-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is a half-open range [Start, End) in a source file.
type Span struct {
	Start Pos
	End   Pos
}

// At builds a zero-width span at p, used for synthesized nodes that want
// to keep pointing at "roughly here" without a distinct end column.
func At(p Pos) Span { return Span{Start: p, End: p} }

func (s Span) String() string { return s.Start.String() }
