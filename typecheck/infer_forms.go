package typecheck

import (
	"github.com/chazu/clc/diag"
	"github.com/chazu/clc/ir"
	"github.com/chazu/clc/loc"
	"github.com/chazu/clc/surfaceast"
	"github.com/chazu/clc/types"
)

func (c *checker) inferApply(n *surfaceast.Node, span loc.Span) *ir.Term {
	sig, ok := prims[n.Prim]
	if !ok {
		c.bag.Add(diag.Diagnostic{Kind: diag.Internal, Severity: diag.SevError, Message: "unknown primitive \"" + n.Prim + "\"", Loc: span})
		return ir.New(ir.ConstNode{Value: types.Unit_()}, types.Unit, span)
	}
	if len(n.Args) != sig.arity {
		c.bag.Errorf(diag.Semantic, span, "primitive %q expects %d arguments, got %d", n.Prim, sig.arity, len(n.Args))
	}
	args := make([]*ir.Term, len(n.Args))
	argTys := make([]*types.Type, len(n.Args))
	transfer := false
	for i, a := range n.Args {
		args[i] = c.infer(a)
		argTys[i] = args[i].Ty
		transfer = transfer || args[i].Transfer
	}
	resTy, ok := sig.result(argTys)
	if !ok {
		c.bag.Errorf(diag.Semantic, span, "primitive %q is not defined for argument types given", n.Prim)
		resTy = types.Unit
	}
	term := ir.New(ir.Apply{Prim: n.Prim, Args: args}, resTy, span)
	term.Transfer = transfer
	return term
}

func (c *checker) constant(lit *surfaceast.ConstLit) (*types.Const, *types.Type, error) {
	if lit == nil {
		return types.Unit_(), types.Unit, nil
	}
	switch lit.Kind {
	case "unit":
		return types.Unit_(), types.Unit, nil
	case "bool":
		return types.Bool_(lit.Bool), types.Bool, nil
	case "int":
		return types.Int_(lit.Int), types.Int, nil
	case "nat":
		return &types.Const{Kind: types.CInt, Int: lit.Int}, types.Nat, nil
	case "tez":
		return &types.Const{Kind: types.CInt, Int: lit.Int}, types.Tez, nil
	case "string":
		return types.String_(lit.Str), types.String, nil
	case "bytes":
		return types.Bytes_([]byte(lit.Bytes)), types.Bytes, nil
	case "list":
		elems := make([]*types.Const, len(lit.Elems))
		var elemTy *types.Type = types.Unit
		for i, e := range lit.Elems {
			v, t, err := c.constant(e)
			if err != nil {
				return nil, nil, err
			}
			elems[i] = v
			elemTy = t
		}
		return &types.Const{Kind: types.CList, Elems: elems}, types.List(elemTy), nil
	default:
		return types.Unit_(), types.Unit, nil
	}
}

func (c *checker) inferMatchVariant(n *surfaceast.Node, span loc.Span) *ir.Term {
	scrut := c.infer(n.A)
	variantName := scrut.Ty.Name
	ctors, ok := c.env.VariantCtors(variantName)
	if !ok {
		c.bag.Errorf(diag.Semantic, span, "match_variant scrutinee is not a registered variant")
	}
	cases := make([]ir.MatchCase, 0, len(n.Cases))
	var resultTy *types.Type
	seen := map[string]bool{}
	for _, cn := range n.Cases {
		seen[cn.Ctor] = true
		var payloadTy *types.Type = types.Unit
		if !cn.Wildcard {
			payloadTy = c.env.CtorType(variantName, cn.Ctor)
			c.env.Push()
			c.env.Bind(cn.Var, payloadTy)
		}
		var body *ir.Term
		if resultTy == nil {
			body = c.infer(cn.Body)
			resultTy = body.Ty
		} else {
			body = c.check(cn.Body, resultTy)
		}
		if !cn.Wildcard {
			c.env.Pop()
		}
		cases = append(cases, ir.MatchCase{Ctor: cn.Ctor, Var: cn.Var, Wildcard: cn.Wildcard, Body: body})
	}
	hasWildcard := false
	for _, cs := range cases {
		if cs.Wildcard {
			hasWildcard = true
		}
	}
	if !hasWildcard {
		for _, ctor := range ctors {
			if !seen[ctor.Name] {
				c.bag.Errorf(diag.Semantic, span, "match_variant is missing arm for constructor %q", ctor.Name)
			}
		}
	}
	if resultTy == nil {
		resultTy = types.Unit
	}
	term := ir.New(ir.MatchVariant{Scrutinee: scrut, Variant: variantName, Cases: cases}, resultTy, span)
	transfer := scrut.Transfer
	for _, cs := range cases {
		transfer = transfer || cs.Body.Transfer
	}
	term.Transfer = transfer
	return term
}

func (c *checker) inferFoldLike(n *surfaceast.Node, span loc.Span) *ir.Term {
	coll := c.infer(n.A)
	var kind ir.FoldKind
	var elemTy *types.Type
	switch coll.Ty.Kind {
	case types.KList:
		kind, elemTy = ir.FoldList, coll.Ty.Elem
	case types.KSet:
		kind, elemTy = ir.FoldSet, coll.Ty.Elem
	case types.KMap, types.KBigMap:
		kind, elemTy = ir.FoldMap, types.Tuple(coll.Ty.Key, coll.Ty.Value)
	default:
		c.bag.Errorf(diag.Semantic, span, "%s target is not a list, set, or map", n.Kind)
		kind, elemTy = ir.FoldList, types.Unit
	}

	c.pushForbidden(span, string(n.Kind)+" body")
	defer c.popForbidden()

	switch n.Kind {
	case surfaceast.KMap:
		c.env.Push()
		c.env.Bind(n.Name, elemTy)
		body := c.infer(n.B)
		c.env.Pop()
		resultColl := rebuildCollection(coll.Ty, kind, body.Ty)
		term := ir.New(ir.MapNode{Kind: kind, Coll: coll, ElemVar: n.Name, Body: body}, resultColl, span)
		term.Transfer = coll.Transfer || body.Transfer
		return term

	case surfaceast.KFold:
		init := c.infer(n.C)
		c.env.Push()
		c.env.Bind(n.Name, init.Ty)
		c.env.Bind(n.Name2, elemTy)
		body := c.check(n.B, init.Ty)
		c.env.Pop()
		term := ir.New(ir.Fold{Kind: kind, Coll: coll, AccVar: n.Name, ElemVar: n.Name2, Init: init, Body: body}, init.Ty, span)
		term.Transfer = coll.Transfer || init.Transfer || body.Transfer
		return term

	default: // map_fold
		init := c.infer(n.C)
		c.env.Push()
		c.env.Bind(n.Name, init.Ty)
		c.env.Bind(n.Name2, elemTy)
		body := c.infer(n.B) // body : (new_elem, new_acc)
		c.env.Pop()
		var newElemTy, newAccTy *types.Type = types.Unit, init.Ty
		if body.Ty.Kind == types.KTuple && len(body.Ty.Elems) == 2 {
			newElemTy, newAccTy = body.Ty.Elems[0], body.Ty.Elems[1]
		} else {
			c.bag.Errorf(diag.Semantic, span, "map_fold body must produce (new_elem, new_acc)")
		}
		resultColl := rebuildCollection(coll.Ty, kind, newElemTy)
		term := ir.New(ir.MapFold{Kind: kind, Coll: coll, AccVar: n.Name, ElemVar: n.Name2, Init: init, Body: body}, types.Tuple(resultColl, newAccTy), span)
		term.Transfer = coll.Transfer || init.Transfer || body.Transfer
		return term
	}
}

func rebuildCollection(orig *types.Type, kind ir.FoldKind, elemTy *types.Type) *types.Type {
	switch kind {
	case ir.FoldList:
		return types.List(elemTy)
	case ir.FoldSet:
		return types.Set(elemTy)
	default:
		if elemTy.Kind == types.KTuple && len(elemTy.Elems) == 2 {
			return types.Map(elemTy.Elems[0], elemTy.Elems[1])
		}
		return types.Map(orig.Key, orig.Value)
	}
}

func (c *checker) inferRecord(n *surfaceast.Node, span loc.Span) *ir.Term {
	declared, ok := c.env.RecordFields(n.Name)
	if !ok {
		c.bag.Errorf(diag.Semantic, span, "unknown record type %q", n.Name)
		return ir.New(ir.RecordConstruct{Record: n.Name}, types.Unit, span)
	}
	byName := map[string]*surfaceast.Node{}
	for _, f := range n.Fields {
		byName[f.Name] = f.Value
	}
	fields := make([]*ir.Term, len(declared))
	transfer := false
	for i, f := range declared {
		given, ok := byName[f.Name]
		if !ok {
			c.bag.Errorf(diag.Semantic, span, "record %q is missing field %q", n.Name, f.Name)
			fields[i] = ir.New(ir.ConstNode{Value: types.Unit_()}, f.Type, span)
			continue
		}
		fields[i] = c.check(given, f.Type)
		transfer = transfer || fields[i].Transfer
	}
	term := ir.New(ir.RecordConstruct{Record: n.Name, Fields: fields}, types.Record(n.Name), span)
	term.Transfer = transfer
	return term
}

func (c *checker) inferCreateContract(n *surfaceast.Node, span loc.Span) *ir.Term {
	storageTy, err := resolveType(n.Type, c.env)
	if err != nil {
		c.bag.Errorf(diag.Semantic, span, "%v", err)
		storageTy = types.Unit
	}
	paramTy, err := resolveType(n.Fields[0].Type, c.env)
	if err != nil {
		c.bag.Errorf(diag.Semantic, span, "%v", err)
		paramTy = types.Unit
	}
	paramName := n.Name
	storageName := n.Name2

	c.env.Push()
	c.env.Bind(paramName, paramTy)
	c.env.Bind(storageName, storageTy)
	body := c.check(n.A, types.Tuple(types.List(types.Operation), storageTy))
	c.env.Pop()

	delegate := c.check(n.B, types.Option(types.KeyHash))
	amount := c.check(n.C, types.Tez)
	initStorage := c.check(n.D, storageTy)

	term := ir.New(ir.CreateContract{
		StorageTy: storageTy, ParamTy: paramTy, ParamName: paramName, StorageName: storageName,
		Body: body, Delegate: delegate, Amount: amount, InitStorage: initStorage,
	}, types.Tuple(types.Operation, types.Address), span)
	c.forbidIfInside(span, "create_contract")
	term.Transfer = true
	return term
}
