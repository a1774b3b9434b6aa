package types

import "fmt"

// ConstKind discriminates the constant algebra, which mirrors the type
// algebra (§3): every ground type has a literal form, and composite
// literals nest recursively.
type ConstKind int

const (
	CUnit ConstKind = iota
	CBool
	CInt      // arbitrary precision, used for both `int` and `nat`
	CString
	CBytes
	CTimestamp // Unix seconds
	CKey
	CKeyHash
	CSignature
	CAddress
	CTuple
	CSome
	CNone
	CLeft
	CRight
	CList
	CSet
	CMap
	CBigMap   // construction restricted to §4.2's encoder (empty literal only)
	CRecord
	COperation // construction restricted to code-generated TRANSFER_TOKENS results
)

// MapEntry is one key/value pair of a CMap/CBigMap constant, kept in
// ascending key order (the canonical order M itself requires for maps).
type MapEntry struct {
	Key   *Const
	Value *Const
}

// Const is a literal value in the constant algebra (§3). Like Type, it is
// immutable after construction.
type Const struct {
	Kind ConstKind

	Bool    bool
	Int     int64 // sufficient for a reimplementation; a production compiler would use big.Int
	Str     string
	Bytes   []byte
	Elems   []*Const   // CTuple, CList, CSet
	Entries []MapEntry // CMap, CBigMap
	Inner   *Const     // CSome, CLeft, CRight
	Field   string     // CLeft/CRight: constructor label; CRecord: unused
	Fields  []RecordField
}

// RecordField is one labeled field of a CRecord literal, declaration order.
type RecordField struct {
	Name  string
	Value *Const
}

func Bool_(b bool) *Const       { return &Const{Kind: CBool, Bool: b} }
func Int_(i int64) *Const       { return &Const{Kind: CInt, Int: i} }
func String_(s string) *Const   { return &Const{Kind: CString, Str: s} }
func Bytes_(b []byte) *Const    { return &Const{Kind: CBytes, Bytes: b} }
func Unit_() *Const             { return &Const{Kind: CUnit} }
func None_() *Const             { return &Const{Kind: CNone} }
func Some_(v *Const) *Const     { return &Const{Kind: CSome, Inner: v} }
func Tuple_(v ...*Const) *Const { return &Const{Kind: CTuple, Elems: v} }

// Left_ and Right_ build the injections used by variant binarization
// (§4.2); label carries the source constructor name for decompiler and
// debug-annotation recovery.
func Left_(label string, v *Const) *Const  { return &Const{Kind: CLeft, Field: label, Inner: v} }
func Right_(label string, v *Const) *Const { return &Const{Kind: CRight, Field: label, Inner: v} }

// EmptyBigMap constructs the one literal form of a bigmap the language
// permits directly: the empty map. See SPEC_FULL.md §10.8 for how the
// encoder rewrites this away from anywhere but a storage initializer.
func EmptyBigMap(k, v *Type) *Const {
	return &Const{Kind: CBigMap, Entries: nil}
}

func (c *Const) String() string {
	if c == nil {
		return "<nil const>"
	}
	switch c.Kind {
	case CUnit:
		return "Unit"
	case CBool:
		if c.Bool {
			return "True"
		}
		return "False"
	case CInt:
		return fmt.Sprintf("%d", c.Int)
	case CString:
		return fmt.Sprintf("%q", c.Str)
	case CBytes:
		return fmt.Sprintf("0x%x", c.Bytes)
	case CNone:
		return "None"
	case CSome:
		return "Some(" + c.Inner.String() + ")"
	case CLeft:
		return "Left(" + c.Inner.String() + ")"
	case CRight:
		return "Right(" + c.Inner.String() + ")"
	case CTuple:
		s := "("
		for i, e := range c.Elems {
			if i > 0 {
				s += ", "
			}
			s += e.String()
		}
		return s + ")"
	default:
		return fmt.Sprintf("Const(%d)", int(c.Kind))
	}
}
