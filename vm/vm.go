// Package vm implements a concrete evaluator over instr.Seq, for the
// CLI's `--run` command: given a compiled entry, a parameter constant,
// and a storage constant, it executes the sequence directly and returns
// the resulting stack rather than reconstructing symbolic IR the way
// interp does for decompilation. It is grounded on interp's own
// stepOne dispatch shape (interp/dispatch.go), generalized from a
// symbolic ir.Term stack to a concrete types.Const stack.
//
// This is a local test harness, not a chain node: instructions whose
// semantics depend on chain state the CLI has no access to offline
// (TRANSFER_TOKENS, SELF, SENDER, NOW, and the other environment
// primitives) fail with an internal error rather than being faked with
// made-up values, since a fabricated SENDER or timestamp would make
// --run's result meaningless without saying so.
package vm

import (
	"fmt"

	"github.com/chazu/clc/diag"
	"github.com/chazu/clc/instr"
	"github.com/chazu/clc/loc"
	"github.com/chazu/clc/types"
)

// Machine holds the diagnostics collected during one Run.
type Machine struct {
	Bag *diag.Bag
}

// New returns a Machine ready to Run.
func New() *Machine { return &Machine{Bag: diag.New()} }

// Run executes seq starting from a stack holding a single (param,
// storage) pair, the shape codegen.Compile's leading UNPAIR always
// expects on entry, and returns the final stack top-first. A nil return
// means Run hit an unsupported instruction or a runtime failure; the
// reason is in m.Bag.
func (m *Machine) Run(seq instr.Seq, param, storage *types.Const) []*types.Const {
	st := []*types.Const{types.Tuple_(param, storage)}
	return m.exec(seq, st)
}

func (m *Machine) fail(format string, args ...any) []*types.Const {
	m.Bag.Errorf(diag.Internal, loc.Span{}, format, args...)
	return nil
}

func (m *Machine) need(st []*types.Const, n int) bool {
	if len(st) < n {
		m.fail("stack underflow: need %d, have %d", n, len(st))
		return false
	}
	return true
}

func (m *Machine) exec(seq instr.Seq, st []*types.Const) []*types.Const {
	for _, ins := range seq {
		var ok bool
		st, ok = m.step(ins, st)
		if !ok {
			return nil
		}
		if m.Bag.HasErrors() {
			return nil
		}
	}
	return st
}

// step executes one instruction, returning the updated stack and whether
// execution can continue (false means a diagnostic was already recorded).
func (m *Machine) step(ins instr.Instr, st []*types.Const) ([]*types.Const, bool) {
	switch v := ins.(type) {
	case instr.Drop:
		n := v.N
		if n == 0 {
			n = 1
		}
		if !m.need(st, n) {
			return nil, false
		}
		return st[n:], true

	case instr.Dup:
		if !m.need(st, v.N+1) {
			return nil, false
		}
		return append([]*types.Const{st[v.N]}, st...), true

	case instr.Swap:
		if !m.need(st, 2) {
			return nil, false
		}
		st[0], st[1] = st[1], st[0]
		return st, true

	case instr.Dig:
		if !m.need(st, v.N+1) {
			return nil, false
		}
		x := st[v.N]
		rest := append(append([]*types.Const{}, st[:v.N]...), st[v.N+1:]...)
		return append([]*types.Const{x}, rest...), true

	case instr.Dug:
		if !m.need(st, v.N+1) {
			return nil, false
		}
		x := st[0]
		rest := st[1:]
		out := append([]*types.Const{}, rest[:v.N]...)
		out = append(out, x)
		out = append(out, rest[v.N:]...)
		return out, true

	case instr.Dip:
		if !m.need(st, v.N) {
			return nil, false
		}
		kept, below := st[:v.N], st[v.N:]
		below = m.exec(v.Body, below)
		if below == nil && m.Bag.HasErrors() {
			return nil, false
		}
		return append(append([]*types.Const{}, kept...), below...), true

	case instr.Push:
		return append([]*types.Const{v.Val}, st...), true

	case instr.Pair:
		if !m.need(st, 2) {
			return nil, false
		}
		return append([]*types.Const{types.Tuple_(st[0], st[1])}, st[2:]...), true

	case instr.PairN:
		if !m.need(st, v.N) {
			return nil, false
		}
		return append([]*types.Const{types.Tuple_(st[:v.N]...)}, st[v.N:]...), true

	case instr.Unpair:
		if !m.need(st, 1) || st[0].Kind != types.CTuple || len(st[0].Elems) != 2 {
			return m.fail("UNPAIR expects a pair on top of the stack"), false
		}
		pair := st[0]
		return append([]*types.Const{pair.Elems[0], pair.Elems[1]}, st[1:]...), true

	case instr.GetN:
		if !m.need(st, 1) || st[0].Kind != types.CTuple || v.Index >= len(st[0].Elems) {
			return m.fail("field index %d out of range", v.Index), false
		}
		return append([]*types.Const{st[0].Elems[v.Index]}, st[1:]...), true

	case instr.UpdateN:
		if !m.need(st, 2) || st[1].Kind != types.CTuple || v.Index >= len(st[1].Elems) {
			return m.fail("field index %d out of range", v.Index), false
		}
		newVal, tup := st[0], st[1]
		elems := append([]*types.Const{}, tup.Elems...)
		elems[v.Index] = newVal
		return append([]*types.Const{{Kind: types.CTuple, Elems: elems}}, st[2:]...), true

	case instr.NilOf:
		return append([]*types.Const{{Kind: types.CList}}, st...), true

	case instr.Cons:
		if !m.need(st, 2) || st[1].Kind != types.CList {
			return m.fail("CONS expects a list"), false
		}
		elems := append([]*types.Const{st[0]}, st[1].Elems...)
		return append([]*types.Const{{Kind: types.CList, Elems: elems}}, st[2:]...), true

	case instr.SizeOf:
		if !m.need(st, 1) {
			return nil, false
		}
		n := 0
		switch st[0].Kind {
		case types.CList, types.CSet:
			n = len(st[0].Elems)
		case types.CMap, types.CBigMap:
			n = len(st[0].Entries)
		case types.CString:
			n = len(st[0].Str)
		case types.CBytes:
			n = len(st[0].Bytes)
		default:
			return m.fail("SIZE not defined for this type"), false
		}
		return append([]*types.Const{types.Int_(int64(n))}, st[1:]...), true

	case instr.Some:
		if !m.need(st, 1) {
			return nil, false
		}
		return append([]*types.Const{types.Some_(st[0])}, st[1:]...), true

	case instr.NoneOf:
		return append([]*types.Const{types.None_()}, st...), true

	case instr.LeftOf:
		if !m.need(st, 1) {
			return nil, false
		}
		return append([]*types.Const{{Kind: types.CLeft, Inner: st[0]}}, st[1:]...), true

	case instr.RightOf:
		if !m.need(st, 1) {
			return nil, false
		}
		return append([]*types.Const{{Kind: types.CRight, Inner: st[0]}}, st[1:]...), true

	case instr.Add, instr.Sub, instr.Mul:
		return m.arith(v, st)

	case instr.Neg:
		if !m.need(st, 1) {
			return nil, false
		}
		return append([]*types.Const{types.Int_(-st[0].Int)}, st[1:]...), true

	case instr.Abs:
		if !m.need(st, 1) {
			return nil, false
		}
		n := st[0].Int
		if n < 0 {
			n = -n
		}
		return append([]*types.Const{types.Int_(n)}, st[1:]...), true

	case instr.Compare:
		if !m.need(st, 2) {
			return nil, false
		}
		return append([]*types.Const{types.Int_(int64(compareConst(st[0], st[1])))}, st[2:]...), true

	case instr.Eq, instr.Neq, instr.Lt, instr.Le, instr.Gt, instr.Ge:
		return m.compareOp(v, st)

	case instr.Not:
		if !m.need(st, 1) {
			return nil, false
		}
		if st[0].Kind == types.CBool {
			return append([]*types.Const{types.Bool_(!st[0].Bool)}, st[1:]...), true
		}
		return append([]*types.Const{types.Int_(^st[0].Int)}, st[1:]...), true

	case instr.And:
		if !m.need(st, 2) {
			return nil, false
		}
		return append([]*types.Const{types.Bool_(st[0].Bool && st[1].Bool)}, st[2:]...), true

	case instr.Or:
		if !m.need(st, 2) {
			return nil, false
		}
		return append([]*types.Const{types.Bool_(st[0].Bool || st[1].Bool)}, st[2:]...), true

	case instr.If:
		if !m.need(st, 1) || st[0].Kind != types.CBool {
			return m.fail("IF expects a bool on top"), false
		}
		branch := v.Else
		if st[0].Bool {
			branch = v.Then
		}
		out := m.exec(branch, st[1:])
		if out == nil && m.Bag.HasErrors() {
			return nil, false
		}
		return out, true

	case instr.IfNone:
		if !m.need(st, 1) {
			return nil, false
		}
		if st[0].Kind == types.CNone {
			out := m.exec(v.NoneBranch, st[1:])
			if out == nil && m.Bag.HasErrors() {
				return nil, false
			}
			return out, true
		}
		out := m.exec(v.SomeBranch, append([]*types.Const{st[0].Inner}, st[1:]...))
		if out == nil && m.Bag.HasErrors() {
			return nil, false
		}
		return out, true

	case instr.IfLeft:
		if !m.need(st, 1) {
			return nil, false
		}
		if st[0].Kind == types.CLeft {
			out := m.exec(v.LeftBranch, append([]*types.Const{st[0].Inner}, st[1:]...))
			if out == nil && m.Bag.HasErrors() {
				return nil, false
			}
			return out, true
		}
		out := m.exec(v.RightBranch, append([]*types.Const{st[0].Inner}, st[1:]...))
		if out == nil && m.Bag.HasErrors() {
			return nil, false
		}
		return out, true

	case instr.IfCons:
		if !m.need(st, 1) || st[0].Kind != types.CList {
			return m.fail("IF_CONS expects a list"), false
		}
		if len(st[0].Elems) == 0 {
			out := m.exec(v.NilBranch, st[1:])
			if out == nil && m.Bag.HasErrors() {
				return nil, false
			}
			return out, true
		}
		head, tail := st[0].Elems[0], &types.Const{Kind: types.CList, Elems: st[0].Elems[1:]}
		out := m.exec(v.ConsBranch, append([]*types.Const{head, tail}, st[1:]...))
		if out == nil && m.Bag.HasErrors() {
			return nil, false
		}
		return out, true

	case instr.Loop:
		for {
			if !m.need(st, 1) || st[0].Kind != types.CBool {
				return m.fail("LOOP expects a bool on top"), false
			}
			cont := st[0].Bool
			st = st[1:]
			if !cont {
				return st, true
			}
			st = m.exec(v.Body, st)
			if st == nil && m.Bag.HasErrors() {
				return nil, false
			}
		}

	case instr.LoopLeft:
		for {
			if !m.need(st, 1) {
				return nil, false
			}
			if st[0].Kind == types.CRight {
				return append([]*types.Const{st[0].Inner}, st[1:]...), true
			}
			st = m.exec(v.Body, append([]*types.Const{st[0].Inner}, st[1:]...))
			if st == nil && m.Bag.HasErrors() {
				return nil, false
			}
		}

	case instr.Failwith:
		if !m.need(st, 1) {
			return nil, false
		}
		return m.fail("FAILWITH: %s", st[0].String()), false

	case instr.Rename:
		return st, true

	default:
		return m.fail("unsupported in --run: %T", ins), false
	}
}

func (m *Machine) arith(ins instr.Instr, st []*types.Const) ([]*types.Const, bool) {
	if !m.need(st, 2) {
		return nil, false
	}
	a, b := st[0].Int, st[1].Int
	var r int64
	switch ins.(type) {
	case instr.Add:
		r = a + b
	case instr.Sub:
		r = a - b
	case instr.Mul:
		r = a * b
	}
	return append([]*types.Const{types.Int_(r)}, st[2:]...), true
}

func (m *Machine) compareOp(ins instr.Instr, st []*types.Const) ([]*types.Const, bool) {
	if !m.need(st, 1) {
		return nil, false
	}
	n := st[0].Int
	var b bool
	switch ins.(type) {
	case instr.Eq:
		b = n == 0
	case instr.Neq:
		b = n != 0
	case instr.Lt:
		b = n < 0
	case instr.Le:
		b = n <= 0
	case instr.Gt:
		b = n > 0
	case instr.Ge:
		b = n >= 0
	}
	return append([]*types.Const{types.Bool_(b)}, st[1:]...), true
}

// compareConst implements COMPARE's total order over ground constants:
// numeric and lexicographic comparison for the primitive kinds --run's
// supported instruction set can actually produce.
func compareConst(a, b *types.Const) int {
	switch a.Kind {
	case types.CInt:
		switch {
		case a.Int < b.Int:
			return -1
		case a.Int > b.Int:
			return 1
		default:
			return 0
		}
	case types.CBool:
		if a.Bool == b.Bool {
			return 0
		}
		if !a.Bool {
			return -1
		}
		return 1
	case types.CString:
		switch {
		case a.Str < b.Str:
			return -1
		case a.Str > b.Str:
			return 1
		default:
			return 0
		}
	default:
		sa, sb := fmt.Sprintf("%v", a), fmt.Sprintf("%v", b)
		switch {
		case sa < sb:
			return -1
		case sa > sb:
			return 1
		default:
			return 0
		}
	}
}
