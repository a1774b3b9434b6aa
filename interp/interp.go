// Package interp implements §4.7's symbolic interpreter: it executes an
// instr.Seq not on a concrete machine but on a stack of typed IR fragments,
// reconstructing the expression tree a stack-machine program was compiled
// from. Every straight-line instruction folds its operands into a larger
// ir.Term the way an expression compiler's inverse naturally would.
//
// Control-flow instructions exploit the same invariant codegen's compile()
// leans on in the forward direction: every construct leaves the stack in
// exactly the shape it found it, plus one new value of a fixed type, no
// matter which branch ran. So each arm of an If/IfNone/IfCons/IfLeft is
// decompiled independently down to its own single result term, the two
// results are wrapped in one conditional ir.Term, and the walk continues
// past the fork exactly once with that term as the new top of stack — no
// duplication of what follows, and no separate join/merge step needed.
package interp

import (
	"fmt"
	"reflect"

	"github.com/chazu/clc/diag"
	"github.com/chazu/clc/env"
	"github.com/chazu/clc/instr"
	"github.com/chazu/clc/ir"
	"github.com/chazu/clc/loc"
	"github.com/chazu/clc/types"
)

// Cell is one symbolic stack slot: the IR fragment currently sitting there
// and its type, tracked alongside it since M carries no per-instruction
// type annotations for the interpreter to recover types from otherwise.
type Cell struct {
	Term *ir.Term
	Ty   *types.Type
}

// Stack is a symbolic view of the machine stack, top first — the same
// depth-0-is-top convention codegen's frame uses, so the two packages read
// the same way side by side.
type Stack []Cell

// Interp carries per-run state: the record/variant registry to match
// reconstructed pairs and unions against, a diagnostics bag, a counter for
// synthesized let-binding names, and whether RENAME annotations are being
// honored this attempt (§5's "retry once with annotations ignored").
type Interp struct {
	Env               *env.Env
	Bag               *diag.Bag
	IgnoreAnnotations bool

	counter int
	bound   map[string]*ir.Term // name -> the term it was most recently bound to, for conflict detection
}

// New returns an Interp ready to run over env's record/variant registry.
func New(e *env.Env, ignoreAnnotations bool) *Interp {
	return &Interp{Env: e, Bag: diag.New(), IgnoreAnnotations: ignoreAnnotations, bound: map[string]*ir.Term{}}
}

func (in *Interp) fresh(prefix string) string {
	in.counter++
	return fmt.Sprintf("%s$%d", prefix, in.counter)
}

// Run interprets seq starting from st, producing the single ir.Term that
// computes st's final top-of-stack value (the entry body's result). It
// reports diag.Decompile diagnostics — UnstructuredProgram on an
// irreconcilable branch join, UnboundStackPosition on a stack underflow —
// through in.Bag rather than panicking, matching every other pass's
// propagation policy (§7).
func (in *Interp) Run(seq instr.Seq, st Stack) *ir.Term {
	return in.step(seq, st, st, in.finish)
}

func (in *Interp) finish(final Stack) *ir.Term {
	if len(final) == 0 {
		in.errorf(loc.Span{}, "decompile: program left an empty stack")
		return ir.New(ir.ConstNode{Value: types.Unit_()}, types.Unit, loc.Span{})
	}
	return final[0].Term
}

func (in *Interp) errorf(span loc.Span, format string, args ...any) {
	in.Bag.Errorf(diag.Decompile, span, format, args...)
}

// unstructured records an UnstructuredProgram failure: two branches of a
// fork rejoined with stack shapes that disagree.
func (in *Interp) unstructured(span loc.Span, why string) {
	in.errorf(span, "UnstructuredProgram: %s", why)
}

func (in *Interp) underflow(span loc.Span, need int, have int) {
	in.errorf(span, "UnboundStackPosition: instruction needs %d stack cell(s), only %d present", need, have)
}

// annotationConflict records the one error class the driver specifically
// recognizes to trigger its "retry ignoring annotations" recovery (§7.5).
func (in *Interp) annotationConflict(span loc.Span, name string) {
	in.errorf(span, "AnnotationConflict: annotation %q is already bound to a different value here", name)
}

// step is the CPS core: interpret seq against st one instruction at a
// time, then hand off to k for everything after it. k is invoked once per
// reachable path through seq, so a fork (If, IfNone, ...) calls it once per
// arm — the standard, simplify-later way to turn an imperative sequence
// into a nested expression tree without a separate SSA/CFG stage.
//
// blockStart is the stack as it stood at the top of this straight-line
// run (before instruction 0 of seq executed). It never changes as i
// advances; it exists solely so a Loop instruction, on reaching it, can
// re-walk its own prefix from scratch to recover the accumulator's value
// before the do-while lowering's first, inlined body execution overwrote
// it (see reconstructLoop).
func (in *Interp) step(seq instr.Seq, blockStart Stack, st Stack, k func(Stack) *ir.Term) *ir.Term {
	return in.at(seq, blockStart, 0, st, k)
}

// at interprets seq starting at index i. Most instructions dispatch
// through stepOne and advance by exactly one; a handful of multi-
// instruction idioms (LOOP's inlined-first-iteration shape, MAP_FOLD's
// trailing PAIR) are recognized here, across a lookahead window, and
// advance by more than one so stepOne never has to know it's looking at
// half of a larger pattern.
func (in *Interp) at(seq instr.Seq, blockStart Stack, i int, st Stack, k func(Stack) *ir.Term) *ir.Term {
	if i >= len(seq) {
		return k(st)
	}
	if lo, ok := seq[i].(instr.LeftOf); ok {
		if ll, ok2 := peekLoopLeft(seq, i); ok2 {
			return in.reconstructLoopLeft(seq, blockStart, i, lo, ll, st, k)
		}
	}
	if lp, ok := seq[i].(instr.Loop); ok {
		if initEnd := i - len(lp.Body); initEnd >= 0 && seqEqual(seq[initEnd:i], lp.Body) {
			return in.reconstructLoop(seq, blockStart, initEnd, lp.Body, i+1, st, k)
		}
	}
	if cc, ok := seq[i].(instr.CreateContractOp); ok && peekCreateContractPair(seq, i) {
		return in.reconstructCreateContract(seq, blockStart, i, cc, st, k)
	}
	if it, ok := seq[i].(instr.Iter); ok {
		if kind, ok2 := classifyIterBody(it.Body); ok2 && kind == iterMapFold && i+1 < len(seq) {
			if _, ok3 := seq[i+1].(instr.Pair); ok3 {
				return in.reconstructMapFold(seq, blockStart, i, it, st, k)
			}
		}
		if kind, ok2 := classifyIterBody(it.Body); ok2 && kind == iterFold {
			return in.reconstructFold(seq, blockStart, i, it, st, k)
		}
	}
	next := func(st2 Stack) *ir.Term { return in.at(seq, blockStart, i+1, st2, k) }
	return in.stepOne(seq[i], st, next)
}

func peekLoopLeft(seq instr.Seq, i int) (instr.LoopLeft, bool) {
	if i+1 >= len(seq) {
		return instr.LoopLeft{}, false
	}
	ll, ok := seq[i+1].(instr.LoopLeft)
	return ll, ok
}

// seqEqual compares two instruction sequences structurally. instr's node
// types are plain value structs (some holding nested Seq/Instr), so
// reflect.DeepEqual is the straightforward way to ask "is this the same
// instruction tree," the same way the finalizer's peephole rules compare
// instructions before merging them.
func seqEqual(a, b instr.Seq) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !reflect.DeepEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func (in *Interp) need(st Stack, n int, span loc.Span) bool {
	if len(st) < n {
		in.underflow(span, n, len(st))
		return false
	}
	return true
}

// bind materializes st[idx] into a fresh let-bound variable if it isn't
// one already, so a later Dup of the same slot references the name
// instead of duplicating a compound expression's tree (and, for anything
// with an observable effect, its side effect).
func (in *Interp) bind(st Stack, idx int, k func(Stack) *ir.Term) *ir.Term {
	cell := st[idx]
	if _, ok := cell.Term.Desc.(ir.Var); ok {
		return k(st)
	}
	name := in.fresh("v")
	newSt := append(Stack{}, st...)
	newSt[idx] = Cell{Term: ir.New(ir.Var{Name: name}, cell.Ty, cell.Term.Loc), Ty: cell.Ty}
	body := k(newSt)
	return ir.New(ir.Let{Name: name, Rhs: cell.Term, Body: body}, body.Ty, cell.Term.Loc)
}

// nameTop binds st[0] to exactly `name` (used to seed pattern variables
// from RENAME annotations, or with a fresh name otherwise), returning the
// new stack and the wrapper to apply around the continuation's result.
func (in *Interp) nameTop(st Stack, name string, k func(Stack) *ir.Term) *ir.Term {
	cell := st[0]
	newSt := append(Stack{}, st...)
	newSt[0] = Cell{Term: ir.New(ir.Var{Name: name}, cell.Ty, cell.Term.Loc), Ty: cell.Ty}
	body := k(newSt)
	return ir.New(ir.Let{Name: name, Rhs: cell.Term, Body: body}, body.Ty, cell.Term.Loc)
}
