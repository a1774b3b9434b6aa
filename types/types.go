// Package types defines the closed type algebra shared by the typechecker,
// encoder, code generator, and decompiler: ground types, composite types,
// and named record/variant types registered once per translation unit.
package types

import (
	"fmt"
	"strings"
)

// Kind discriminates the closed sum of type forms.
type Kind int

const (
	// Ground types.
	KUnit Kind = iota
	KBool
	KInt
	KNat
	KTez
	KString
	KBytes
	KTimestamp
	KKey
	KKeyHash
	KSignature
	KOperation
	KAddress

	// Composite types.
	KTuple
	KOption
	KOr
	KList
	KSet
	KMap
	KBigMap
	KContract
	KLambda
	KClosure

	// Named types, resolved through the environment's registries.
	KRecord
	KVariant
)

var kindNames = map[Kind]string{
	KUnit: "unit", KBool: "bool", KInt: "int", KNat: "nat", KTez: "tez",
	KString: "string", KBytes: "bytes", KTimestamp: "timestamp", KKey: "key",
	KKeyHash: "key_hash", KSignature: "signature", KOperation: "operation",
	KAddress: "address", KTuple: "tuple", KOption: "option", KOr: "or",
	KList: "list", KSet: "set", KMap: "map", KBigMap: "bigmap",
	KContract: "contract", KLambda: "lambda", KClosure: "closure",
	KRecord: "record", KVariant: "variant",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Type is an immutable node in the closed type algebra. Two Types are the
// same type iff Equal reports true; Types are never mutated after
// construction, so sharing a *Type between many term nodes is safe.
type Type struct {
	Kind Kind

	// Composite payloads. Only the fields relevant to Kind are populated.
	Elems []*Type // KTuple: N elements. KOr: [left, right].
	Elem  *Type   // KOption, KList, KSet, KContract: element type.
	Key   *Type   // KMap, KBigMap: key type.
	Value *Type   // KMap, KBigMap: value type.
	Arg   *Type   // KLambda, KClosure: argument type.
	Res   *Type   // KLambda, KClosure: result type.
	Env   *Type   // KClosure: captured-environment type.

	// Named payload. Only the name is carried on the type itself; field and
	// constructor lists live once in the environment's registries (see the
	// env package) and are looked up by Name when needed.
	Name string
}

var (
	Unit      = &Type{Kind: KUnit}
	Bool      = &Type{Kind: KBool}
	Int       = &Type{Kind: KInt}
	Nat       = &Type{Kind: KNat}
	Tez       = &Type{Kind: KTez}
	String    = &Type{Kind: KString}
	Bytes     = &Type{Kind: KBytes}
	Timestamp = &Type{Kind: KTimestamp}
	Key       = &Type{Kind: KKey}
	KeyHash   = &Type{Kind: KKeyHash}
	Signature = &Type{Kind: KSignature}
	Operation = &Type{Kind: KOperation}
	Address   = &Type{Kind: KAddress}
)

// Tuple constructs an N-ary tuple type. A 1-tuple degenerates to its
// element (tuples of size < 2 never appear once the encoder has run, but
// the typechecker may see them transiently while desugaring records).
func Tuple(elems ...*Type) *Type {
	if len(elems) == 1 {
		return elems[0]
	}
	return &Type{Kind: KTuple, Elems: elems}
}

func Option(t *Type) *Type   { return &Type{Kind: KOption, Elem: t} }
func Or(l, r *Type) *Type    { return &Type{Kind: KOr, Elems: []*Type{l, r}} }
func List(t *Type) *Type     { return &Type{Kind: KList, Elem: t} }
func Set(t *Type) *Type      { return &Type{Kind: KSet, Elem: t} }
func Map(k, v *Type) *Type   { return &Type{Kind: KMap, Key: k, Value: v} }
func BigMap(k, v *Type) *Type { return &Type{Kind: KBigMap, Key: k, Value: v} }
func Contract(t *Type) *Type { return &Type{Kind: KContract, Elem: t} }
func Lambda(a, r *Type) *Type { return &Type{Kind: KLambda, Arg: a, Res: r} }
func Closure(a, r, env *Type) *Type {
	return &Type{Kind: KClosure, Arg: a, Res: r, Env: env}
}
func Record(name string) *Type  { return &Type{Kind: KRecord, Name: name} }
func Variant(name string) *Type { return &Type{Kind: KVariant, Name: name} }

// OrLeft and OrRight return the branch types of a KOr type.
func (t *Type) OrLeft() *Type  { return t.Elems[0] }
func (t *Type) OrRight() *Type { return t.Elems[1] }

// IsGround reports whether t is one of the fixed primitive ground types.
func (t *Type) IsGround() bool {
	return t.Kind <= KAddress
}

// IsInteger reports whether t is int or nat, the two integer sub-kinds
// that require explicit coercion between each other (§4.1).
func (t *Type) IsInteger() bool {
	return t.Kind == KInt || t.Kind == KNat
}

// Equal reports structural equality. Named types compare by name only:
// record/variant identity is established once at registration time and
// two types with the same registered name always denote the same fields.
func Equal(a, b *Type) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KRecord, KVariant:
		return a.Name == b.Name
	case KOption, KList, KSet, KContract:
		return Equal(a.Elem, b.Elem)
	case KMap, KBigMap:
		return Equal(a.Key, b.Key) && Equal(a.Value, b.Value)
	case KLambda:
		return Equal(a.Arg, b.Arg) && Equal(a.Res, b.Res)
	case KClosure:
		return Equal(a.Arg, b.Arg) && Equal(a.Res, b.Res) && Equal(a.Env, b.Env)
	case KTuple, KOr:
		if len(a.Elems) != len(b.Elems) {
			return false
		}
		for i := range a.Elems {
			if !Equal(a.Elems[i], b.Elems[i]) {
				return false
			}
		}
		return true
	default:
		return true // ground types: Kind equality is sufficient
	}
}

// String renders a type in a debug-friendly, deterministic form. It is not
// the surface-language type syntax (that lives in the out-of-scope
// printer collaborator's territory) but is used in diagnostics.
func (t *Type) String() string {
	if t == nil {
		return "<nil type>"
	}
	switch t.Kind {
	case KTuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = e.String()
		}
		return "(" + strings.Join(parts, " * ") + ")"
	case KOption:
		return "option " + t.Elem.String()
	case KOr:
		return "or (" + t.Elems[0].String() + ") (" + t.Elems[1].String() + ")"
	case KList:
		return "list " + t.Elem.String()
	case KSet:
		return "set " + t.Elem.String()
	case KMap:
		return "map " + t.Key.String() + " " + t.Value.String()
	case KBigMap:
		return "bigmap " + t.Key.String() + " " + t.Value.String()
	case KContract:
		return "contract " + t.Elem.String()
	case KLambda:
		return "(" + t.Arg.String() + " -> " + t.Res.String() + ")"
	case KClosure:
		return "closure(" + t.Arg.String() + " -> " + t.Res.String() + "; env=" + t.Env.String() + ")"
	case KRecord:
		return t.Name
	case KVariant:
		return t.Name
	default:
		return t.Kind.String()
	}
}

// Field describes one labeled component of a registered record type, in
// declaration order.
type Field struct {
	Name string
	Type *Type
}

// Ctor describes one labeled constructor of a registered variant type, in
// declaration order.
type Ctor struct {
	Name string
	Type *Type
}
