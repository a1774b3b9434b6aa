package ir

// Children enumerates every immediate Term child of t's Desc, in
// evaluation order, nil entries included where a slot happens to be nil
// (callers that recurse should skip nils themselves). Every whole-tree
// pass — use-counting, simplification, encoding, code generation — goes
// through this so the node set only needs to be kept in sync in one place.
func Children(t *Term) []*Term {
	if t == nil {
		return nil
	}
	switch d := t.Desc.(type) {
	case Var, ConstNode:
		return nil
	case Let:
		return []*Term{d.Rhs, d.Body}
	case Seq:
		return []*Term{d.First, d.Second}
	case If:
		return []*Term{d.Cond, d.Then, d.Else}
	case Lambda:
		return []*Term{d.Body}
	case ClosureNode:
		return []*Term{d.Lifted}
	case Apply:
		return d.Args
	case MatchOption:
		return []*Term{d.Scrutinee, d.NoneCase, d.SomeCase}
	case MatchNat:
		return []*Term{d.Scrutinee, d.PlusCase, d.MinusCase}
	case MatchList:
		return []*Term{d.Scrutinee, d.NilCase, d.ConsCase}
	case MatchVariant:
		out := []*Term{d.Scrutinee}
		for _, c := range d.Cases {
			out = append(out, c.Body)
		}
		return out
	case Loop:
		return []*Term{d.Init, d.Body}
	case LoopLeft:
		return []*Term{d.Init, d.Body}
	case Fold:
		return []*Term{d.Coll, d.Init, d.Body}
	case MapNode:
		return []*Term{d.Coll, d.Body}
	case MapFold:
		return []*Term{d.Coll, d.Init, d.Body}
	case RecordConstruct:
		return d.Fields
	case Project:
		return []*Term{d.Target}
	case SetField:
		return []*Term{d.Target, d.Value}
	case TransferNode:
		return []*Term{d.Contract, d.Amount, d.Arg}
	case Failwith:
		return []*Term{d.Arg}
	case CreateContract:
		return []*Term{d.Body, d.Delegate, d.Amount, d.InitStorage}
	case ContractAt:
		return []*Term{d.Addr}
	case Unpack:
		return []*Term{d.Bytes}
	default:
		return nil
	}
}
