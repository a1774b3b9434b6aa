package codegen

import (
	"github.com/chazu/clc/instr"
	"github.com/chazu/clc/ir"
	"github.com/chazu/clc/types"
)

var zeroInt = types.Int_(0)

func (g *gen) compileMatchOption(m ir.MatchOption, fr frame) instr.Seq {
	code := g.compile(m.Scrutinee, fr)
	someBranch := g.compile(m.SomeCase, fr.push(m.SomeVar))
	someBranch = append(someBranch, instr.Dip{N: 1, Body: instr.Seq{instr.Drop{}}})
	return append(code, instr.IfNone{
		NoneBranch: g.compile(m.NoneCase, fr),
		SomeBranch: someBranch,
	})
}

func (g *gen) compileMatchList(m ir.MatchList, fr frame) instr.Seq {
	code := g.compile(m.Scrutinee, fr)
	consFrame := fr.push(m.TailVar).push(m.HeadVar) // head ends up on top, matching IF_CONS
	consBranch := g.compile(m.ConsCase, consFrame)
	consBranch = append(consBranch, instr.Dip{N: 1, Body: instr.Seq{instr.Drop{N: 2}}})
	return append(code, instr.IfCons{
		ConsBranch: consBranch,
		NilBranch:  g.compile(m.NilCase, fr),
	})
}

// compileMatchNat lowers match%nat over an int scrutinee without a
// dedicated M primitive: it computes `n >= 0`, and on the negative branch
// recomputes the absolute value from a duplicated copy of n rather than
// mutating n in place, since every branch must leave the stack no more
// disturbed than the frame it was handed (§4.4's plus/minus arm split).
func (g *gen) compileMatchNat(m ir.MatchNat, fr frame) instr.Seq {
	code := g.compile(m.Scrutinee, fr) // push n
	f1 := fr.push("$n")
	nIdx, _ := f1.depthOf("$n")

	// n >= 0: push 0, dup n on top of it (depth shifts by one for the push).
	code = append(code, pushZero())
	code = append(code, instr.Dup{N: nIdx + 1})
	code = append(code, instr.Ge{})

	plusFrame := f1 // n unchanged, this *is* PlusVar
	plusBody := g.renameTop(plusFrame, m.PlusVar)
	plusCode := g.compile(m.PlusCase, plusBody)
	plusCode = append(plusCode, instr.Dip{N: 1, Body: instr.Seq{instr.Drop{}}})

	// minus branch: dup n, ABS it, giving [absN, n, ...]; compile MinusCase
	// against that, then strip both n and absN's now-consumed original.
	minusFrame := f1.push(m.MinusVar)
	minusCode := instr.Seq{instr.Dup{N: 0}, instr.Abs{}}
	minusCode = append(minusCode, g.compile(m.MinusCase, minusFrame)...)
	minusCode = append(minusCode, instr.Dip{N: 1, Body: instr.Seq{instr.Drop{N: 2}}})

	return append(code, instr.If{Then: plusCode, Else: minusCode})
}

// renameTop is a bookkeeping no-op: the value at depth 0 already is the
// named binding, this just gives it the surface-declared name for lookups
// inside the branch body.
func (g *gen) renameTop(fr frame, name string) frame {
	if len(fr) == 0 {
		return frame{name}
	}
	out := make(frame, len(fr))
	copy(out, fr)
	out[0] = name
	return out
}

func pushZero() instr.Instr {
	return instr.Push{Ty: types.Int, Val: zeroInt}
}

func (g *gen) compileMatchVariant(m ir.MatchVariant, fr frame) instr.Seq {
	code := g.compile(m.Scrutinee, fr)
	return append(code, g.compileVariantCases(m.Cases, fr)...)
}

// compileVariantCases builds the right-nested IF_LEFT chain a variant's
// binary-or encoding requires: every case but the last peels one Left off
// the union; the last case receives whatever the final Right unwraps to
// directly, since a Cases-length-1 union collapses to its own payload.
func (g *gen) compileVariantCases(cases []ir.MatchCase, fr frame) instr.Seq {
	head := cases[0]
	name := head.Var
	if head.Wildcard {
		name = "$_"
	}
	headBody := g.compile(head.Body, fr.push(name))
	headBody = append(headBody, instr.Dip{N: 1, Body: instr.Seq{instr.Drop{}}})
	if len(cases) == 1 {
		return headBody
	}
	return instr.Seq{instr.IfLeft{
		LeftBranch:  headBody,
		RightBranch: g.compileVariantCases(cases[1:], fr),
	}}
}
