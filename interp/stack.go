package interp

import (
	"github.com/chazu/clc/instr"
	"github.com/chazu/clc/ir"
	"github.com/chazu/clc/loc"
	"github.com/chazu/clc/types"
)

func (in *Interp) stepDrop(d instr.Drop, st Stack, k func(Stack) *ir.Term) *ir.Term {
	n := d.N
	if n == 0 {
		n = 1
	}
	if !in.need(st, n, loc.Span{}) {
		return k(st)
	}
	return k(st[n:])
}

func (in *Interp) stepDup(d instr.Dup, st Stack, k func(Stack) *ir.Term) *ir.Term {
	idx := d.N
	if !in.need(st, idx+1, loc.Span{}) {
		return k(st)
	}
	return in.bind(st, idx, func(bound Stack) *ir.Term {
		top := bound[idx]
		return k(append(Stack{top}, bound...))
	})
}

func (in *Interp) stepSwap(st Stack, k func(Stack) *ir.Term) *ir.Term {
	if !in.need(st, 2, loc.Span{}) {
		return k(st)
	}
	newSt := append(Stack{st[1], st[0]}, st[2:]...)
	return k(newSt)
}

func (in *Interp) stepDig(d instr.Dig, st Stack, k func(Stack) *ir.Term) *ir.Term {
	if !in.need(st, d.N+1, loc.Span{}) {
		return k(st)
	}
	item := st[d.N]
	rest := append(append(Stack{}, st[:d.N]...), st[d.N+1:]...)
	return k(append(Stack{item}, rest...))
}

func (in *Interp) stepDug(d instr.Dug, st Stack, k func(Stack) *ir.Term) *ir.Term {
	if !in.need(st, d.N+1, loc.Span{}) {
		return k(st)
	}
	top := st[0]
	newSt := append(append(Stack{}, st[1:d.N+1]...), top)
	newSt = append(newSt, st[d.N+1:]...)
	return k(newSt)
}

func (in *Interp) stepPush(p instr.Push, st Stack, k func(Stack) *ir.Term) *ir.Term {
	term := ir.New(ir.ConstNode{Value: p.Val}, p.Ty, loc.Span{})
	return k(append(Stack{{Term: term, Ty: p.Ty}}, st...))
}

// stepPair resolves Pair's ambiguity between an anonymous tuple (the
// "pair" primitive) and a two-field record construction by structural
// match against env's registry — the same test PairN uses for wider
// records (compilePairLike treats both identically, differing only in
// which M instruction folds them).
func (in *Interp) stepPair(st Stack, k func(Stack) *ir.Term) *ir.Term {
	return in.foldPairLike(st, 2, k)
}

func (in *Interp) stepPairN(p instr.PairN, st Stack, k func(Stack) *ir.Term) *ir.Term {
	return in.foldPairLike(st, p.N, k)
}

func (in *Interp) foldPairLike(st Stack, n int, k func(Stack) *ir.Term) *ir.Term {
	span := loc.Span{}
	if !in.need(st, n, span) {
		return k(st)
	}
	elems := make([]*ir.Term, n)
	tys := make([]*types.Type, n)
	for i := 0; i < n; i++ {
		elems[i], tys[i] = st[i].Term, st[i].Ty
	}
	outer := st[n:]

	if name, ok := matchRecordType(in.Env.RecordNames(), in.Env.RecordFields, tys); ok {
		recTy := types.Record(name)
		joined := ir.New(ir.RecordConstruct{Record: name, Fields: elems}, recTy, span)
		return k(append(Stack{{Term: joined, Ty: recTy}}, outer...))
	}

	// No dedicated N-ary anonymous-tuple constructor exists in the IR
	// (RecordConstruct is for named records only); "pair" is reused here
	// as a decompile-time placeholder for the same structural shape
	// compilePairLike produces for any N, not just two.
	tupleTy := types.Tuple(tys...)
	joined := ir.New(ir.Apply{Prim: "pair", Args: elems}, tupleTy, span)
	return k(append(Stack{{Term: joined, Ty: tupleTy}}, outer...))
}

// stepUnpair splits a two-element tuple back into its components. It only
// ever needs to handle the anonymous-tuple case: every producer of Unpair
// in this compiler (LOOP's do-while body, CREATE_CONTRACT's script entry)
// works over a plain (a * b) value, never a named record.
func (in *Interp) stepUnpair(st Stack, k func(Stack) *ir.Term) *ir.Term {
	span := loc.Span{}
	if !in.need(st, 1, span) {
		return k(st)
	}
	return in.bind(st, 0, func(bound Stack) *ir.Term {
		top := bound[0]
		var t0, t1 *types.Type
		if top.Ty != nil && top.Ty.Kind == types.KTuple && len(top.Ty.Elems) == 2 {
			t0, t1 = top.Ty.Elems[0], top.Ty.Elems[1]
		}
		proj0 := ir.New(ir.Project{Target: top.Term, Index: 0}, t0, span)
		proj1 := ir.New(ir.Project{Target: top.Term, Index: 1}, t1, span)
		newSt := append(Stack{{Term: proj0, Ty: t0}, {Term: proj1, Ty: t1}}, bound[1:]...)
		return k(newSt)
	})
}

// stepDip protects the top N cells, decompiles Body against the stack
// beneath them, and stitches the protected cells back on top of whatever
// Body leaves behind before resuming the outer continuation. This is the
// one instruction the CPS walk can't reduce to "one term in, one term
// out" — Body's own net stack effect (a plain Drop, in every use this
// compiler makes of Dip) has to be threaded through before the caller's
// k runs.
func (in *Interp) stepDip(d instr.Dip, st Stack, k func(Stack) *ir.Term) *ir.Term {
	span := loc.Span{}
	n := d.N
	if !in.need(st, n, span) {
		return k(st)
	}
	protected := append(Stack{}, st[:n]...)
	below := st[n:]
	return in.step(d.Body, below, below, func(belowResult Stack) *ir.Term {
		return k(append(protected, belowResult...))
	})
}

func (in *Interp) stepGetN(g instr.GetN, st Stack, k func(Stack) *ir.Term) *ir.Term {
	span := loc.Span{}
	if !in.need(st, 1, span) {
		return k(st)
	}
	target, targetTy := st[0].Term, st[0].Ty
	outer := st[1:]

	var proj *ir.Term
	var resultTy *types.Type
	if targetTy != nil && targetTy.Kind == types.KRecord {
		if fields, ok := in.Env.RecordFields(targetTy.Name); ok && g.Index < len(fields) {
			field := fields[g.Index]
			resultTy = field.Type
			proj = ir.New(ir.Project{Target: target, Index: g.Index, Record: targetTy.Name, Field: field.Name}, resultTy, span)
		}
	}
	if proj == nil {
		if targetTy != nil && targetTy.Kind == types.KTuple && g.Index < len(targetTy.Elems) {
			resultTy = targetTy.Elems[g.Index]
		}
		proj = ir.New(ir.Project{Target: target, Index: g.Index}, resultTy, span)
	}
	return k(append(Stack{{Term: proj, Ty: resultTy}}, outer...))
}

func (in *Interp) stepUpdateN(u instr.UpdateN, st Stack, k func(Stack) *ir.Term) *ir.Term {
	span := loc.Span{}
	if !in.need(st, 2, span) {
		return k(st)
	}
	value := st[0].Term
	target, targetTy := st[1].Term, st[1].Ty
	outer := st[2:]

	setField := ir.SetField{Target: target, Index: u.Index, Value: value}
	if targetTy != nil && targetTy.Kind == types.KRecord {
		if fields, ok := in.Env.RecordFields(targetTy.Name); ok && u.Index < len(fields) {
			setField.Record = targetTy.Name
			setField.Field = fields[u.Index].Name
		}
	}
	joined := ir.New(setField, targetTy, span)
	return k(append(Stack{{Term: joined, Ty: targetTy}}, outer...))
}
