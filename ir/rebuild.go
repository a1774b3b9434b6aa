package ir

// Rebuild reconstructs a copy of t with its Desc's child slots replaced by
// newChildren, given in the same order Children(t) enumerates them. It is
// the inverse of Children: passes that already collected and transformed
// a node's children (rather than recursing themselves, as simplify's
// transform does) use this to splice the results back in without
// re-deriving the per-node-kind field layout.
func Rebuild(t *Term, newChildren []*Term) *Term {
	cp := *t
	switch d := t.Desc.(type) {
	case Var, ConstNode:
		return t
	case Let:
		cp.Desc = Let{Name: d.Name, Rhs: newChildren[0], Body: newChildren[1]}
	case Seq:
		cp.Desc = Seq{First: newChildren[0], Second: newChildren[1]}
	case If:
		cp.Desc = If{Cond: newChildren[0], Then: newChildren[1], Else: newChildren[2]}
	case Lambda:
		cp.Desc = Lambda{Param: d.Param, ParamTy: d.ParamTy, Body: newChildren[0], Recursive: d.Recursive}
	case ClosureNode:
		cp.Desc = ClosureNode{Lifted: newChildren[0], Captured: d.Captured}
	case Apply:
		cp.Desc = Apply{Prim: d.Prim, Args: newChildren}
	case MatchOption:
		cp.Desc = MatchOption{Scrutinee: newChildren[0], NoneCase: newChildren[1], SomeVar: d.SomeVar, SomeCase: newChildren[2]}
	case MatchNat:
		cp.Desc = MatchNat{Scrutinee: newChildren[0], PlusVar: d.PlusVar, PlusCase: newChildren[1], MinusVar: d.MinusVar, MinusCase: newChildren[2]}
	case MatchList:
		cp.Desc = MatchList{Scrutinee: newChildren[0], NilCase: newChildren[1], HeadVar: d.HeadVar, TailVar: d.TailVar, ConsCase: newChildren[2]}
	case MatchVariant:
		cases := make([]MatchCase, len(d.Cases))
		for i, cs := range d.Cases {
			cases[i] = MatchCase{Ctor: cs.Ctor, Var: cs.Var, Wildcard: cs.Wildcard, Body: newChildren[i+1]}
		}
		cp.Desc = MatchVariant{Scrutinee: newChildren[0], Variant: d.Variant, Cases: cases}
	case Loop:
		cp.Desc = Loop{AccVar: d.AccVar, Init: newChildren[0], Body: newChildren[1]}
	case LoopLeft:
		cp.Desc = LoopLeft{AccVar: d.AccVar, Init: newChildren[0], Body: newChildren[1]}
	case Fold:
		cp.Desc = Fold{Kind: d.Kind, Coll: newChildren[0], AccVar: d.AccVar, ElemVar: d.ElemVar, Init: newChildren[1], Body: newChildren[2]}
	case MapNode:
		cp.Desc = MapNode{Kind: d.Kind, Coll: newChildren[0], ElemVar: d.ElemVar, Body: newChildren[1]}
	case MapFold:
		cp.Desc = MapFold{Kind: d.Kind, Coll: newChildren[0], AccVar: d.AccVar, ElemVar: d.ElemVar, Init: newChildren[1], Body: newChildren[2]}
	case RecordConstruct:
		cp.Desc = RecordConstruct{Record: d.Record, Fields: newChildren}
	case Project:
		cp.Desc = Project{Target: newChildren[0], Index: d.Index, Record: d.Record, Field: d.Field}
	case SetField:
		cp.Desc = SetField{Target: newChildren[0], Index: d.Index, Record: d.Record, Field: d.Field, Value: newChildren[1]}
	case TransferNode:
		cp.Desc = TransferNode{Contract: newChildren[0], Amount: newChildren[1], Arg: newChildren[2]}
	case Failwith:
		cp.Desc = Failwith{Arg: newChildren[0]}
	case CreateContract:
		cp.Desc = CreateContract{
			StorageTy: d.StorageTy, ParamTy: d.ParamTy, ParamName: d.ParamName, StorageName: d.StorageName,
			Body: newChildren[0], Delegate: newChildren[1], Amount: newChildren[2], InitStorage: newChildren[3],
		}
	case ContractAt:
		cp.Desc = ContractAt{Addr: newChildren[0], Of: d.Of}
	case Unpack:
		cp.Desc = Unpack{Bytes: newChildren[0], Of: d.Of}
	default:
		return t
	}
	return &cp
}
