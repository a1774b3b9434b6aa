// Package ir defines the canonical typed intermediate representation
// (§3's "Typed term"): the tree the typechecker produces, the encoder and
// simplifier rewrite, and the code generator consumes. It is also the
// shape the decompiler reconstructs on the way back from M.
//
// Every transformation pass over this tree returns a new tree but must
// preserve physical identity of unchanged subtrees (§9's design note): a
// pass that touches no descendant of a node returns that exact node
// pointer rather than a copy, so callers can use `==` to detect "nothing
// changed here" the way the corpus's own AST-rewrite helpers do.
package ir

import (
	"github.com/chazu/clc/loc"
	"github.com/chazu/clc/types"
)

// Term is one node of the typed IR.
type Term struct {
	Desc     Desc
	Ty       *types.Type
	Loc      loc.Span
	Name     string // debug annotation, propagated to M as a RENAME/annots
	Transfer bool   // may this term enqueue an operation? (§4.1 effect analysis)

	// UseCount and Pure are filled in by the typechecker for Let nodes and
	// consumed by the simplifier (§4.1, §4.3). Zero value is meaningless
	// for anything but *Let.
	UseCount int
	Pure     bool
}

// Desc is the node-kind-specific payload of a Term.
type Desc interface{ desc() }

// New is a small constructor helper so passes don't have to spell out the
// Term{} literal at every call site.
func New(d Desc, ty *types.Type, span loc.Span) *Term {
	return &Term{Desc: d, Ty: ty, Loc: span}
}

// WithName returns t with Name set, used to attach a debug annotation to
// an already-built term without mutating a shared node.
func (t *Term) WithName(name string) *Term {
	if t.Name == name {
		return t
	}
	cp := *t
	cp.Name = name
	return &cp
}

// --- Node variants (§3) ---------------------------------------------------

// Var is a reference to a bound name.
type Var struct{ Name string }

func (Var) desc() {}

// ConstNode wraps a literal constant.
type ConstNode struct{ Value *types.Const }

func (ConstNode) desc() {}

// Let binds Rhs to Name in the scope of Body.
type Let struct {
	Name string
	Rhs  *Term
	Body *Term
}

func (Let) desc() {}

// Seq sequences two effectful terms, discarding the first's value.
type Seq struct{ First, Second *Term }

func (Seq) desc() {}

// If is a boolean conditional.
type If struct{ Cond, Then, Else *Term }

func (If) desc() {}

// Lambda is an unevaluated function value. Recursive is set when the
// surface program declared it with `rec`; the encoder rewrites a
// recursive lambda into the Y-combinator-equivalent construction (§4.2)
// and clears the flag.
type Lambda struct {
	Param     string
	ParamTy   *types.Type
	Body      *Term
	Recursive bool
}

func (Lambda) desc() {}

// ClosureNode pairs a lifted lambda with the list of free variable names
// it captures from the enclosing scope (§4.2). Before the encoder has run,
// a Lambda referencing free variables is *not yet* a ClosureNode: the
// typechecker only distinguishes Lambda from ClosureNode after the
// encoder's lambda-lifting pass has determined the capture set.
type ClosureNode struct {
	Lifted   *Term // the lifted lambda, of type (Env * Arg) -> Res
	Captured []string
}

func (ClosureNode) desc() {}

// Apply applies a primitive operation to arguments. Primitive names cover
// arithmetic, comparison, crypto, and collection operations (§3); by the
// time the encoder has run, every Apply.Prim must resolve to a code
// generator primitive or it is an internal error (§4.2, §7.3).
type Apply struct {
	Prim string
	Args []*Term
}

func (Apply) desc() {}

// MatchOption pattern-matches an `option` value.
type MatchOption struct {
	Scrutinee *Term
	NoneCase  *Term
	SomeVar   string
	SomeCase  *Term
}

func (MatchOption) desc() {}

// MatchNat implements `match%nat`: the plus arm sees the original int
// value, the minus arm sees its absolute value (§4.4).
type MatchNat struct {
	Scrutinee *Term
	PlusVar   string
	PlusCase  *Term
	MinusVar  string
	MinusCase *Term
}

func (MatchNat) desc() {}

// MatchList pattern-matches a `list` value.
type MatchList struct {
	Scrutinee        *Term
	NilCase          *Term
	HeadVar, TailVar string
	ConsCase         *Term
}

func (MatchList) desc() {}

// MatchCase is one arm of a MatchVariant, in canonical constructor order
// (§4.2). Wildcard is set for a `_` arm, which binds nothing and drops the
// payload (§4.4).
type MatchCase struct {
	Ctor     string
	Var      string
	Wildcard bool
	Body     *Term
}

// MatchVariant pattern-matches a registered variant value. Cases is
// exactly Cases in declaration order once the typechecker has finished
// (missing arms are a type error unless a wildcard is present).
type MatchVariant struct {
	Scrutinee *Term
	Variant   string
	Cases     []MatchCase
}

func (MatchVariant) desc() {}

// Loop implements a while-style loop whose body must produce
// (continue bool, acc). AccVar names the accumulator inside Body.
type Loop struct {
	AccVar string
	Init   *Term
	Body   *Term
}

func (Loop) desc() {}

// LoopLeft implements the LOOP_LEFT primitive directly: Body returns an
// `or`, Left continues the loop with the new accumulator, Right exits with
// the final result. Codegen injects Init as Left(Init) once and lets
// LOOP_LEFT itself unwrap/rewrap the accumulator each iteration, so no
// extra option layer around the accumulator is needed.
type LoopLeft struct {
	AccVar string
	Init   *Term
	Body   *Term
}

func (LoopLeft) desc() {}

// FoldKind distinguishes which collection a Fold/MapNode/MapFold iterates.
type FoldKind int

const (
	FoldList FoldKind = iota
	FoldSet
	FoldMap
)

// Fold iterates Coll, threading an accumulator through Body.
type Fold struct {
	Kind            FoldKind
	Coll            *Term
	AccVar, ElemVar string
	Init            *Term
	Body            *Term
}

func (Fold) desc() {}

// MapNode transforms every element of Coll through Body (no accumulator).
type MapNode struct {
	Kind    FoldKind
	Coll    *Term
	ElemVar string
	Body    *Term
}

func (MapNode) desc() {}

// MapFold both transforms and accumulates in one traversal, matching M's
// combined MAP primitive when the body needs to see prior state (§4.4).
type MapFold struct {
	Kind            FoldKind
	Coll            *Term
	AccVar, ElemVar string
	Init            *Term
	Body            *Term
}

func (MapFold) desc() {}

// RecordConstruct builds a value of a registered record type. Fields is in
// declaration order (§4.2 requires this before code generation).
type RecordConstruct struct {
	Record string
	Fields []*Term
}

func (RecordConstruct) desc() {}

// Project accesses tuple element Index (0-based) of Target, with an
// optional Record/Field label kept for readable M output (§4.4).
type Project struct {
	Target *Term
	Index  int
	Record string
	Field  string
}

func (Project) desc() {}

// SetField rebuilds Target with component Index replaced by Value.
type SetField struct {
	Target *Term
	Index  int
	Record string
	Field  string
	Value  *Term
}

func (SetField) desc() {}

// TransferNode calls another contract.
type TransferNode struct {
	Contract *Term
	Amount   *Term
	Arg      *Term
}

func (TransferNode) desc() {}

// Failwith aborts execution with a value. Must occupy tail position in its
// containing basic block once finalized (§4.4, §4.5, §8).
type Failwith struct{ Arg *Term }

func (Failwith) desc() {}

// CreateContract originates a new contract from within an entry body.
type CreateContract struct {
	StorageTy *types.Type
	ParamTy   *types.Type
	ParamName string
	StorageName string
	Body      *Term
	Delegate  *Term // option key_hash
	Amount    *Term
	InitStorage *Term
}

func (CreateContract) desc() {}

// ContractAt casts an address to a typed contract handle.
type ContractAt struct {
	Addr *Term
	Of   *types.Type
}

func (ContractAt) desc() {}

// Unpack deserializes bytes into a typed value, wrapped in `option`.
type Unpack struct {
	Bytes *Term
	Of    *types.Type
}

func (Unpack) desc() {}
