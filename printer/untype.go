// Package printer implements §4.7's final decompile-direction stage: it
// strips a decompiled ir.Contract back down to the untyped surfaceast
// shape (the "untyper"), then renders that tree as a minimal textual
// surface syntax good enough for the file.tz.liq artifact §6 requires.
// It is deliberately not the language's real front-end grammar — that
// lives outside this repository (§1) — so it is held to a much lower bar
// than the typed core: producing readable, re-decompilable-by-eye text,
// not text a real parser would necessarily accept back.
package printer

import (
	"fmt"

	"github.com/chazu/clc/ir"
	"github.com/chazu/clc/surfaceast"
	"github.com/chazu/clc/types"
)

// Untype converts a decompiled contract into the untyped wire AST shared
// with the external frontend, discarding every *types.Type annotation
// interp attached along the way. Contract.Globals is always empty coming
// out of decompile (see the decompile package), so the printed program
// only ever carries type declarations recovered along the way (records
// and variants the interpreter registered or matched against) and the
// single entry decompile produced.
func Untype(c *ir.Contract) *surfaceast.Program {
	u := &untyper{}
	p := &surfaceast.Program{
		ContractName: c.Name,
		StorageType:  u.untypeType(c.Storage),
	}
	for _, g := range c.Globals {
		p.Globals = append(p.Globals, surfaceast.GlobalNode{
			Name:  g.Name,
			Value: u.untypeTerm(g.Value),
		})
	}
	for _, e := range c.Entries {
		p.Entries = append(p.Entries, surfaceast.EntryNode{
			Name:        e.Name,
			ParamType:   u.untypeType(e.ParamTy),
			ParamName:   e.ParamName,
			StorageName: e.StorageName,
			Body:        u.untypeTerm(e.Body),
		})
	}
	return p
}

// untyper carries no state of its own; it exists so untypeTerm's many
// mutually-recursive cases read as methods rather than a family of
// free functions all threading the same (unused) receiver.
type untyper struct{}

func (u *untyper) untypeType(t *types.Type) *surfaceast.TypeExpr {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case types.KTuple:
		te := &surfaceast.TypeExpr{Kind: "tuple"}
		for _, e := range t.Elems {
			te.Elems = append(te.Elems, u.untypeType(e))
		}
		return te
	case types.KOr:
		te := &surfaceast.TypeExpr{Kind: "or"}
		for _, e := range t.Elems {
			te.Elems = append(te.Elems, u.untypeType(e))
		}
		return te
	case types.KOption, types.KList, types.KSet, types.KContract:
		return &surfaceast.TypeExpr{Kind: t.Kind.String(), Elem: u.untypeType(t.Elem)}
	case types.KMap, types.KBigMap:
		return &surfaceast.TypeExpr{Kind: t.Kind.String(), Key: u.untypeType(t.Key), Value: u.untypeType(t.Value)}
	case types.KLambda:
		return &surfaceast.TypeExpr{Kind: "lambda", Arg: u.untypeType(t.Arg), Res: u.untypeType(t.Res)}
	case types.KRecord, types.KVariant:
		return &surfaceast.TypeExpr{Kind: t.Kind.String(), Name: t.Name}
	default:
		return &surfaceast.TypeExpr{Kind: t.Kind.String()}
	}
}

func (u *untyper) untypeConst(c *types.Const) *surfaceast.ConstLit {
	if c == nil {
		return nil
	}
	lit := &surfaceast.ConstLit{Kind: constKindName(c.Kind)}
	switch c.Kind {
	case types.CBool:
		lit.Bool = c.Bool
	case types.CInt:
		lit.Int = c.Int
	case types.CString, types.CTimestamp, types.CKey, types.CKeyHash, types.CSignature, types.CAddress:
		lit.Str = c.Str
	case types.CBytes:
		lit.Bytes = fmt.Sprintf("%x", c.Bytes)
	case types.CTuple, types.CList, types.CSet:
		for _, e := range c.Elems {
			lit.Elems = append(lit.Elems, u.untypeConst(e))
		}
	case types.CSome, types.CLeft, types.CRight:
		if c.Inner != nil {
			lit.Elems = []*surfaceast.ConstLit{u.untypeConst(c.Inner)}
		}
	case types.CRecord:
		for _, f := range c.Fields {
			lit.Fields = append(lit.Fields, surfaceast.FieldNode{Name: f.Name})
			lit.Elems = append(lit.Elems, u.untypeConst(f.Value))
		}
	}
	return lit
}

func constKindName(k types.ConstKind) string {
	names := [...]string{
		"unit", "bool", "int", "string", "bytes", "timestamp", "key", "key_hash",
		"signature", "address", "tuple", "some", "none", "left", "right", "list",
		"set", "map", "bigmap", "record", "operation",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

func (u *untyper) untypeTerm(t *ir.Term) *surfaceast.Node {
	if t == nil {
		return nil
	}
	n := &surfaceast.Node{}
	switch d := t.Desc.(type) {
	case ir.Var:
		n.Kind, n.Name = surfaceast.KVar, d.Name
	case ir.ConstNode:
		n.Kind, n.Const = surfaceast.KConst, u.untypeConst(d.Value)
	case ir.Let:
		n.Kind, n.Name = surfaceast.KLet, d.Name
		n.A, n.B = u.untypeTerm(d.Rhs), u.untypeTerm(d.Body)
	case ir.Seq:
		n.Kind = surfaceast.KSeq
		n.A, n.B = u.untypeTerm(d.First), u.untypeTerm(d.Second)
	case ir.If:
		n.Kind = surfaceast.KIf
		n.A, n.B, n.C = u.untypeTerm(d.Cond), u.untypeTerm(d.Then), u.untypeTerm(d.Else)
	case ir.Lambda:
		n.Kind, n.Name, n.Recursive = surfaceast.KLambda, d.Param, d.Recursive
		n.Type, n.A = u.untypeType(d.ParamTy), u.untypeTerm(d.Body)
	case ir.ClosureNode:
		// A closure's untyped rendering is its lifted lambda body; the
		// capture list has no surface counterpart in this printer (§10.6
		// isn't held to the round-trip bar the typed core is).
		return u.untypeTerm(d.Lifted)
	case ir.Apply:
		// "pair"/"some"/"none"/"left"/"right" are typechecker-side sugar,
		// not entries in the primitive table (typecheck/prims.go): they
		// construct a tuple/option/or type outright rather than deriving
		// a result type from argument types, so KApply can't round-trip
		// them back — each needs its own surfaceast Kind, the same one
		// infer.go dispatches on for the forward direction.
		switch d.Prim {
		case "pair":
			n.Kind = surfaceast.KTuple
			for _, a := range d.Args {
				n.Args = append(n.Args, u.untypeTerm(a))
			}
		case "some":
			n.Kind = surfaceast.KSome
			n.A = u.untypeTerm(d.Args[0])
		case "none":
			n.Kind = surfaceast.KNone
			n.Type = u.untypeType(t.Ty.Elem)
		case "left":
			n.Kind = surfaceast.KLeft
			n.A = u.untypeTerm(d.Args[0])
			n.Type = u.untypeType(t.Ty.OrRight())
		case "right":
			n.Kind = surfaceast.KRight
			n.A = u.untypeTerm(d.Args[0])
			n.Type = u.untypeType(t.Ty.OrLeft())
		default:
			n.Kind, n.Prim = surfaceast.KApply, d.Prim
			for _, a := range d.Args {
				n.Args = append(n.Args, u.untypeTerm(a))
			}
		}
	case ir.MatchOption:
		n.Kind, n.Name = surfaceast.KMatchOption, d.SomeVar
		n.A, n.B, n.C = u.untypeTerm(d.Scrutinee), u.untypeTerm(d.NoneCase), u.untypeTerm(d.SomeCase)
	case ir.MatchNat:
		n.Kind, n.Name, n.Name2 = surfaceast.KMatchNat, d.PlusVar, d.MinusVar
		n.A, n.B, n.C = u.untypeTerm(d.Scrutinee), u.untypeTerm(d.PlusCase), u.untypeTerm(d.MinusCase)
	case ir.MatchList:
		n.Kind, n.Name, n.Name2 = surfaceast.KMatchList, d.HeadVar, d.TailVar
		n.A, n.B, n.C = u.untypeTerm(d.Scrutinee), u.untypeTerm(d.NilCase), u.untypeTerm(d.ConsCase)
	case ir.MatchVariant:
		n.Kind, n.Name = surfaceast.KMatchVariant, d.Variant
		n.A = u.untypeTerm(d.Scrutinee)
		for _, c := range d.Cases {
			n.Cases = append(n.Cases, surfaceast.CaseNode{
				Ctor: c.Ctor, Var: c.Var, Wildcard: c.Wildcard, Body: u.untypeTerm(c.Body),
			})
		}
	case ir.Loop:
		n.Kind, n.Name = surfaceast.KLoop, d.AccVar
		n.A, n.B = u.untypeTerm(d.Init), u.untypeTerm(d.Body)
	case ir.LoopLeft:
		n.Kind, n.Name = surfaceast.KLoopLeft, d.AccVar
		n.A, n.B = u.untypeTerm(d.Init), u.untypeTerm(d.Body)
	case ir.Fold:
		n.Kind, n.Name, n.Name2, n.FoldKind = surfaceast.KFold, d.AccVar, d.ElemVar, foldKindName(d.Kind)
		n.A, n.B, n.C = u.untypeTerm(d.Coll), u.untypeTerm(d.Init), u.untypeTerm(d.Body)
	case ir.MapNode:
		n.Kind, n.Name, n.FoldKind = surfaceast.KMap, d.ElemVar, foldKindName(d.Kind)
		n.A, n.B = u.untypeTerm(d.Coll), u.untypeTerm(d.Body)
	case ir.MapFold:
		n.Kind, n.Name, n.Name2, n.FoldKind = surfaceast.KMapFold, d.AccVar, d.ElemVar, foldKindName(d.Kind)
		n.A, n.B, n.C = u.untypeTerm(d.Coll), u.untypeTerm(d.Init), u.untypeTerm(d.Body)
	case ir.RecordConstruct:
		n.Kind, n.Name = surfaceast.KRecordConstruct, d.Record
		for _, f := range d.Fields {
			n.Args = append(n.Args, u.untypeTerm(f))
		}
	case ir.Project:
		n.Kind, n.Name, n.Name2 = surfaceast.KProject, d.Record, d.Field
		n.A = u.untypeTerm(d.Target)
	case ir.SetField:
		n.Kind, n.Name, n.Name2 = surfaceast.KSetField, d.Record, d.Field
		n.A, n.B = u.untypeTerm(d.Target), u.untypeTerm(d.Value)
	case ir.TransferNode:
		n.Kind = surfaceast.KTransfer
		n.A, n.B, n.C = u.untypeTerm(d.Contract), u.untypeTerm(d.Amount), u.untypeTerm(d.Arg)
	case ir.Failwith:
		n.Kind = surfaceast.KFailwith
		n.A = u.untypeTerm(d.Arg)
	case ir.CreateContract:
		n.Kind, n.Name, n.Name2 = surfaceast.KCreateContract, d.ParamName, d.StorageName
		n.Type = u.untypeType(d.StorageTy)
		n.A, n.B, n.C, n.D = u.untypeTerm(d.Body), u.untypeTerm(d.Delegate), u.untypeTerm(d.Amount), u.untypeTerm(d.InitStorage)
	case ir.ContractAt:
		n.Kind, n.Type = surfaceast.KContractAt, u.untypeType(d.Of)
		n.A = u.untypeTerm(d.Addr)
	case ir.Unpack:
		n.Kind, n.Type = surfaceast.KUnpack, u.untypeType(d.Of)
		n.A = u.untypeTerm(d.Bytes)
	default:
		n.Kind = surfaceast.KConst
		n.Const = &surfaceast.ConstLit{Kind: "unit"}
	}
	return n
}

func foldKindName(k ir.FoldKind) string {
	switch k {
	case ir.FoldSet:
		return "set"
	case ir.FoldMap:
		return "map"
	default:
		return "list"
	}
}
