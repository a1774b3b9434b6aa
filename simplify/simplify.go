// Package simplify implements §4.3: a semantics-preserving rewrite pass
// over the typed IR that inlines pure one-use let-bindings and then drops
// bindings whose value is now unused. It must be a no-op on the values a
// program produces — only on how many intermediate names exist to get
// there — which is why every rewrite here is gated on Term.Pure and
// Term.UseCount, filled in by typecheck's use-counting pass.
//
// Every rewrite function follows the tree's own physical-identity
// discipline (ir's doc comment): if none of a node's children change, the
// original pointer is returned, so a caller can compare `before == after`
// to know nothing happened.
package simplify

import "github.com/chazu/clc/ir"

// Contract simplifies every global binding and entry body of c, returning
// a new Contract value (Globals/Entries slices are rebuilt) that shares
// every unchanged subtree with c.
func Contract(c *ir.Contract) *ir.Contract {
	out := &ir.Contract{Name: c.Name, Storage: c.Storage}
	for _, g := range c.Globals {
		out.Globals = append(out.Globals, ir.GlobalBinding{Name: g.Name, Value: Term(g.Value)})
	}
	for _, e := range c.Entries {
		out.Entries = append(out.Entries, ir.Entry{
			Name: e.Name, ParamTy: e.ParamTy, ParamName: e.ParamName,
			StorageName: e.StorageName, Body: Term(e.Body),
		})
	}
	return out
}

// Term simplifies t to a fixed point: repeated inline-then-eliminate
// passes until neither changes anything. Each individual pass is linear in
// tree size; fixed-point iteration terminates because every successful
// inline strictly reduces the number of Let nodes.
func Term(t *ir.Term) *ir.Term {
	for {
		recomputeUseCounts(t)
		inlined := transform(t, inlineStep)
		recomputeUseCounts(inlined)
		pruned := transform(inlined, eliminateStep)
		if pruned == t {
			return pruned
		}
		t = pruned
	}
}

// recomputeUseCounts refreshes Let.UseCount/Pure in place. Inlining a
// binding's Rhs into its use site duplicates whatever names Rhs itself
// referenced, which can turn an outer Let's recorded UseCount stale — so
// each fixed-point iteration recounts before deciding what to inline or
// drop next.
func recomputeUseCounts(t *ir.Term) {
	if t == nil {
		return
	}
	if let, ok := t.Desc.(ir.Let); ok {
		t.UseCount = countRefs(let.Body, let.Name)
		t.Pure = isPureTerm(let.Rhs)
	}
	for _, child := range ir.Children(t) {
		recomputeUseCounts(child)
	}
}

func countRefs(t *ir.Term, name string) int {
	if t == nil {
		return 0
	}
	n := 0
	if v, ok := t.Desc.(ir.Var); ok && v.Name == name {
		n++
	}
	for _, child := range ir.Children(t) {
		n += countRefs(child, name)
	}
	return n
}

func isPureTerm(t *ir.Term) bool {
	if t == nil {
		return true
	}
	if t.Transfer {
		return false
	}
	switch t.Desc.(type) {
	case ir.CreateContract, ir.TransferNode, ir.Failwith:
		return false
	}
	return true
}

// inlineStep substitutes a pure, exactly-once-used let-binding's Rhs
// directly at its use site and drops the Let wrapper (§4.3's first half).
// A binding used zero times is left for eliminateStep; a binding used more
// than once, or an impure one (Transfer, CreateContract, Failwith), is
// never inlined regardless of use count.
func inlineStep(t *ir.Term) *ir.Term {
	let, ok := t.Desc.(ir.Let)
	if !ok || !t.Pure || t.UseCount != 1 {
		return t
	}
	return substitute(let.Body, let.Name, let.Rhs)
}

// eliminateStep drops a Let binding whose body no longer references its
// name and whose Rhs is pure (dropping an effectful, unused Rhs would
// change the program's operation list, which §4.3 forbids).
func eliminateStep(t *ir.Term) *ir.Term {
	let, ok := t.Desc.(ir.Let)
	if !ok {
		return t
	}
	if t.Pure && t.UseCount == 0 {
		return let.Body
	}
	return t
}

// transform applies f bottom-up: every child is transformed first
// (recursively), then f is applied to the node with its (possibly
// rebuilt) children. If nothing changes anywhere below t and f(t) == t,
// the original pointer is returned.
func transform(t *ir.Term, f func(*ir.Term) *ir.Term) *ir.Term {
	if t == nil {
		return nil
	}
	rebuilt := rebuildChildren(t, f)
	return f(rebuilt)
}

func transformAll(ts []*ir.Term, f func(*ir.Term) *ir.Term) ([]*ir.Term, bool) {
	changed := false
	out := make([]*ir.Term, len(ts))
	for i, x := range ts {
		out[i] = transform(x, f)
		if out[i] != x {
			changed = true
		}
	}
	if !changed {
		return ts, false
	}
	return out, true
}

// rebuildChildren returns t with every immediate child replaced by
// transform(child, f), reusing t's pointer if nothing changed.
func rebuildChildren(t *ir.Term, f func(*ir.Term) *ir.Term) *ir.Term {
	r := func(x *ir.Term) *ir.Term { return transform(x, f) }
	switch d := t.Desc.(type) {
	case ir.Var, ir.ConstNode:
		return t
	case ir.Let:
		rhs, body := r(d.Rhs), r(d.Body)
		if rhs == d.Rhs && body == d.Body {
			return t
		}
		return withDesc(t, ir.Let{Name: d.Name, Rhs: rhs, Body: body})
	case ir.Seq:
		first, second := r(d.First), r(d.Second)
		if first == d.First && second == d.Second {
			return t
		}
		return withDesc(t, ir.Seq{First: first, Second: second})
	case ir.If:
		cond, then, els := r(d.Cond), r(d.Then), r(d.Else)
		if cond == d.Cond && then == d.Then && els == d.Else {
			return t
		}
		return withDesc(t, ir.If{Cond: cond, Then: then, Else: els})
	case ir.Lambda:
		body := r(d.Body)
		if body == d.Body {
			return t
		}
		return withDesc(t, ir.Lambda{Param: d.Param, ParamTy: d.ParamTy, Body: body, Recursive: d.Recursive})
	case ir.ClosureNode:
		lifted := r(d.Lifted)
		if lifted == d.Lifted {
			return t
		}
		return withDesc(t, ir.ClosureNode{Lifted: lifted, Captured: d.Captured})
	case ir.Apply:
		args, changed := transformAll(d.Args, f)
		if !changed {
			return t
		}
		return withDesc(t, ir.Apply{Prim: d.Prim, Args: args})
	case ir.MatchOption:
		scrut, none, some := r(d.Scrutinee), r(d.NoneCase), r(d.SomeCase)
		if scrut == d.Scrutinee && none == d.NoneCase && some == d.SomeCase {
			return t
		}
		return withDesc(t, ir.MatchOption{Scrutinee: scrut, NoneCase: none, SomeVar: d.SomeVar, SomeCase: some})
	case ir.MatchNat:
		scrut, plus, minus := r(d.Scrutinee), r(d.PlusCase), r(d.MinusCase)
		if scrut == d.Scrutinee && plus == d.PlusCase && minus == d.MinusCase {
			return t
		}
		return withDesc(t, ir.MatchNat{Scrutinee: scrut, PlusVar: d.PlusVar, PlusCase: plus, MinusVar: d.MinusVar, MinusCase: minus})
	case ir.MatchList:
		scrut, nilc, cons := r(d.Scrutinee), r(d.NilCase), r(d.ConsCase)
		if scrut == d.Scrutinee && nilc == d.NilCase && cons == d.ConsCase {
			return t
		}
		return withDesc(t, ir.MatchList{Scrutinee: scrut, NilCase: nilc, HeadVar: d.HeadVar, TailVar: d.TailVar, ConsCase: cons})
	case ir.MatchVariant:
		scrut := r(d.Scrutinee)
		changed := scrut != d.Scrutinee
		cases := make([]ir.MatchCase, len(d.Cases))
		for i, cs := range d.Cases {
			body := r(cs.Body)
			if body != cs.Body {
				changed = true
			}
			cases[i] = ir.MatchCase{Ctor: cs.Ctor, Var: cs.Var, Wildcard: cs.Wildcard, Body: body}
		}
		if !changed {
			return t
		}
		return withDesc(t, ir.MatchVariant{Scrutinee: scrut, Variant: d.Variant, Cases: cases})
	case ir.Loop:
		init, body := r(d.Init), r(d.Body)
		if init == d.Init && body == d.Body {
			return t
		}
		return withDesc(t, ir.Loop{AccVar: d.AccVar, Init: init, Body: body})
	case ir.LoopLeft:
		init, body := r(d.Init), r(d.Body)
		if init == d.Init && body == d.Body {
			return t
		}
		return withDesc(t, ir.LoopLeft{AccVar: d.AccVar, Init: init, Body: body})
	case ir.Fold:
		coll, init, body := r(d.Coll), r(d.Init), r(d.Body)
		if coll == d.Coll && init == d.Init && body == d.Body {
			return t
		}
		return withDesc(t, ir.Fold{Kind: d.Kind, Coll: coll, AccVar: d.AccVar, ElemVar: d.ElemVar, Init: init, Body: body})
	case ir.MapNode:
		coll, body := r(d.Coll), r(d.Body)
		if coll == d.Coll && body == d.Body {
			return t
		}
		return withDesc(t, ir.MapNode{Kind: d.Kind, Coll: coll, ElemVar: d.ElemVar, Body: body})
	case ir.MapFold:
		coll, init, body := r(d.Coll), r(d.Init), r(d.Body)
		if coll == d.Coll && init == d.Init && body == d.Body {
			return t
		}
		return withDesc(t, ir.MapFold{Kind: d.Kind, Coll: coll, AccVar: d.AccVar, ElemVar: d.ElemVar, Init: init, Body: body})
	case ir.RecordConstruct:
		fields, changed := transformAll(d.Fields, f)
		if !changed {
			return t
		}
		return withDesc(t, ir.RecordConstruct{Record: d.Record, Fields: fields})
	case ir.Project:
		target := r(d.Target)
		if target == d.Target {
			return t
		}
		return withDesc(t, ir.Project{Target: target, Index: d.Index, Record: d.Record, Field: d.Field})
	case ir.SetField:
		target, value := r(d.Target), r(d.Value)
		if target == d.Target && value == d.Value {
			return t
		}
		return withDesc(t, ir.SetField{Target: target, Index: d.Index, Record: d.Record, Field: d.Field, Value: value})
	case ir.TransferNode:
		contract, amount, arg := r(d.Contract), r(d.Amount), r(d.Arg)
		if contract == d.Contract && amount == d.Amount && arg == d.Arg {
			return t
		}
		return withDesc(t, ir.TransferNode{Contract: contract, Amount: amount, Arg: arg})
	case ir.Failwith:
		arg := r(d.Arg)
		if arg == d.Arg {
			return t
		}
		return withDesc(t, ir.Failwith{Arg: arg})
	case ir.CreateContract:
		body, delegate, amount, initS := r(d.Body), r(d.Delegate), r(d.Amount), r(d.InitStorage)
		if body == d.Body && delegate == d.Delegate && amount == d.Amount && initS == d.InitStorage {
			return t
		}
		return withDesc(t, ir.CreateContract{
			StorageTy: d.StorageTy, ParamTy: d.ParamTy, ParamName: d.ParamName, StorageName: d.StorageName,
			Body: body, Delegate: delegate, Amount: amount, InitStorage: initS,
		})
	case ir.ContractAt:
		addr := r(d.Addr)
		if addr == d.Addr {
			return t
		}
		return withDesc(t, ir.ContractAt{Addr: addr, Of: d.Of})
	case ir.Unpack:
		bs := r(d.Bytes)
		if bs == d.Bytes {
			return t
		}
		return withDesc(t, ir.Unpack{Bytes: bs, Of: d.Of})
	default:
		return t
	}
}

// withDesc returns a copy of t with Desc replaced, preserving Ty/Loc/Name/
// Transfer/UseCount/Pure.
func withDesc(t *ir.Term, d ir.Desc) *ir.Term {
	cp := *t
	cp.Desc = d
	return &cp
}
