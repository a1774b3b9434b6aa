package hash

import "github.com/chazu/clc/ir"

// scope is one binding frame: the names it introduces, in slot order.
type scope []string

// normalizer walks a *ir.Term maintaining a stack of binding frames so
// every ir.Var it encounters can be resolved to a (depth, slot) pair
// instead of carried through by name.
type normalizer struct {
	scopes []scope
}

func (n *normalizer) push(names ...string) {
	n.scopes = append(n.scopes, scope(names))
}

func (n *normalizer) pop() {
	n.scopes = n.scopes[:len(n.scopes)-1]
}

func (n *normalizer) resolve(name string) HNode {
	for i := len(n.scopes) - 1; i >= 0; i-- {
		for slot, cand := range n.scopes[i] {
			if cand == name {
				return HVarRef{Depth: uint32(len(n.scopes) - 1 - i), Slot: uint32(slot)}
			}
		}
	}
	return HFreeRef{Name: name}
}

// NormalizeContract produces the frozen hashing tree for c. All global
// names form the outermost binding frame, pushed together before any
// global's value is normalized (so every global value sees every global
// name), and every entry's parameter and storage names form their own
// frame nested inside it.
func NormalizeContract(c *ir.Contract) *HContract {
	n := &normalizer{}

	names := make([]string, len(c.Globals))
	for i, g := range c.Globals {
		names[i] = g.Name
	}
	n.push(names...)

	globals := make([]HGlobal, len(c.Globals))
	for i, g := range c.Globals {
		globals[i] = HGlobal{Value: n.term(g.Value)}
	}

	entries := make([]HEntry, len(c.Entries))
	for i, e := range c.Entries {
		n.push(e.ParamName, e.StorageName)
		entries[i] = HEntry{
			Name:    e.Name,
			ParamTy: HType{Value: e.ParamTy},
			Body:    n.term(e.Body),
		}
		n.pop()
	}

	n.pop()

	return &HContract{
		Name:    c.Name,
		Storage: HType{Value: c.Storage},
		Globals: globals,
		Entries: entries,
	}
}

func (n *normalizer) term(t *ir.Term) HNode {
	if t == nil {
		return nil
	}
	switch d := t.Desc.(type) {
	case ir.Var:
		return n.resolve(d.Name)
	case ir.ConstNode:
		return HConst{Value: d.Value}
	case ir.Let:
		rhs := n.term(d.Rhs)
		n.push(d.Name)
		body := n.term(d.Body)
		n.pop()
		return HLet{Rhs: rhs, Body: body}
	case ir.Seq:
		return HSeq{First: n.term(d.First), Second: n.term(d.Second)}
	case ir.If:
		return HIf{Cond: n.term(d.Cond), Then: n.term(d.Then), Else: n.term(d.Else)}
	case ir.Lambda:
		paramTy := HType{Value: d.ParamTy}
		n.push(d.Param)
		body := n.term(d.Body)
		n.pop()
		return HLambda{ParamTy: paramTy, Body: body, Recursive: d.Recursive}
	case ir.ClosureNode:
		captured := make([]HNode, len(d.Captured))
		for i, name := range d.Captured {
			captured[i] = n.resolve(name)
		}
		return HClosure{Lifted: n.term(d.Lifted), Captured: captured}
	case ir.Apply:
		args := make([]HNode, len(d.Args))
		for i, a := range d.Args {
			args[i] = n.term(a)
		}
		return HApply{Prim: d.Prim, Args: args}
	case ir.MatchOption:
		scrutinee := n.term(d.Scrutinee)
		noneCase := n.term(d.NoneCase)
		n.push(d.SomeVar)
		someCase := n.term(d.SomeCase)
		n.pop()
		return HMatchOption{Scrutinee: scrutinee, NoneCase: noneCase, SomeCase: someCase}
	case ir.MatchNat:
		scrutinee := n.term(d.Scrutinee)
		n.push(d.PlusVar)
		plusCase := n.term(d.PlusCase)
		n.pop()
		n.push(d.MinusVar)
		minusCase := n.term(d.MinusCase)
		n.pop()
		return HMatchNat{Scrutinee: scrutinee, PlusCase: plusCase, MinusCase: minusCase}
	case ir.MatchList:
		scrutinee := n.term(d.Scrutinee)
		nilCase := n.term(d.NilCase)
		n.push(d.HeadVar, d.TailVar)
		consCase := n.term(d.ConsCase)
		n.pop()
		return HMatchList{Scrutinee: scrutinee, NilCase: nilCase, ConsCase: consCase}
	case ir.MatchVariant:
		scrutinee := n.term(d.Scrutinee)
		cases := make([]HMatchCase, len(d.Cases))
		for i, c := range d.Cases {
			if c.Wildcard {
				cases[i] = HMatchCase{Ctor: c.Ctor, Wildcard: true, Body: n.term(c.Body)}
				continue
			}
			n.push(c.Var)
			cases[i] = HMatchCase{Ctor: c.Ctor, Body: n.term(c.Body)}
			n.pop()
		}
		return HMatchVariant{Scrutinee: scrutinee, Variant: d.Variant, Cases: cases}
	case ir.Loop:
		init := n.term(d.Init)
		n.push(d.AccVar)
		body := n.term(d.Body)
		n.pop()
		return HLoop{Init: init, Body: body}
	case ir.LoopLeft:
		init := n.term(d.Init)
		n.push(d.AccVar)
		body := n.term(d.Body)
		n.pop()
		return HLoopLeft{Init: init, Body: body}
	case ir.Fold:
		coll := n.term(d.Coll)
		init := n.term(d.Init)
		n.push(d.AccVar, d.ElemVar)
		body := n.term(d.Body)
		n.pop()
		return HFold{Kind: int(d.Kind), Coll: coll, Init: init, Body: body}
	case ir.MapNode:
		coll := n.term(d.Coll)
		n.push(d.ElemVar)
		body := n.term(d.Body)
		n.pop()
		return HMap{Kind: int(d.Kind), Coll: coll, Body: body}
	case ir.MapFold:
		coll := n.term(d.Coll)
		init := n.term(d.Init)
		n.push(d.AccVar, d.ElemVar)
		body := n.term(d.Body)
		n.pop()
		return HMapFold{Kind: int(d.Kind), Coll: coll, Init: init, Body: body}
	case ir.RecordConstruct:
		fields := make([]HNode, len(d.Fields))
		for i, f := range d.Fields {
			fields[i] = n.term(f)
		}
		return HRecordConstruct{Record: d.Record, Fields: fields}
	case ir.Project:
		return HProject{Target: n.term(d.Target), Index: d.Index, Record: d.Record, Field: d.Field}
	case ir.SetField:
		return HSetField{
			Target: n.term(d.Target), Index: d.Index, Record: d.Record, Field: d.Field,
			Value: n.term(d.Value),
		}
	case ir.TransferNode:
		return HTransfer{Contract: n.term(d.Contract), Amount: n.term(d.Amount), Arg: n.term(d.Arg)}
	case ir.Failwith:
		return HFailwith{Arg: n.term(d.Arg)}
	case ir.CreateContract:
		n.push(d.ParamName, d.StorageName)
		body := n.term(d.Body)
		n.pop()
		return HCreateContract{
			StorageTy: HType{Value: d.StorageTy}, ParamTy: HType{Value: d.ParamTy},
			Body: body, Delegate: n.term(d.Delegate), Amount: n.term(d.Amount),
			InitStorage: n.term(d.InitStorage),
		}
	case ir.ContractAt:
		return HContractAt{Addr: n.term(d.Addr), Of: HType{Value: d.Of}}
	case ir.Unpack:
		return HUnpack{Bytes: n.term(d.Bytes), Of: HType{Value: d.Of}}
	default:
		return HFreeRef{Name: "unknown"}
	}
}
