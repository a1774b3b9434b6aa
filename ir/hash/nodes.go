package hash

import "github.com/chazu/clc/types"

// HNode is one node of the frozen, name-erased hashing tree normalize.go
// produces from an *ir.Term. Every bound name a term carries — Let's
// binder, a lambda's parameter, a match arm's payload variable — is
// resolved to a (depth, slot) pair before it ever reaches this tree, so
// two terms that differ only in what their authors happened to call a
// variable serialize to identical bytes.
type HNode interface{ hnode() }

// HVarRef is a de-Bruijn-indexed reference to an enclosing binder: Depth
// counts binding frames outward from the reference site (0 = innermost),
// Slot picks the name within that frame for frames that bind more than
// one name at once (MatchList's head/tail, Fold's accumulator/element).
type HVarRef struct{ Depth, Slot uint32 }

func (HVarRef) hnode() {}

// HFreeRef is a fallback for a name that resolved to no enclosing binder
// at all. Well-formed input never produces one — every ir.Var decompile
// or the typechecker attaches is either a global, an entry parameter, or
// bound by some enclosing form — but a missing scope frame here degrades
// to hashing by literal name rather than panicking.
type HFreeRef struct{ Name string }

func (HFreeRef) hnode() {}

// HConst wraps a constant literal, hashed structurally by its own
// serializer since a Const carries no variable references to normalize.
type HConst struct{ Value *types.Const }

func (HConst) hnode() {}

// HType wraps a type expression the same way, for the handful of node
// kinds that carry one directly (CreateContract, ContractAt, Unpack,
// Lambda's parameter type).
type HType struct{ Value *types.Type }

func (HType) hnode() {}

type HLet struct{ Rhs, Body HNode }

func (HLet) hnode() {}

type HSeq struct{ First, Second HNode }

func (HSeq) hnode() {}

type HIf struct{ Cond, Then, Else HNode }

func (HIf) hnode() {}

type HLambda struct {
	ParamTy   HNode
	Body      HNode
	Recursive bool
}

func (HLambda) hnode() {}

type HClosure struct {
	Lifted   HNode
	Captured []HNode // one HVarRef/HFreeRef per captured name, resolved in the enclosing scope
}

func (HClosure) hnode() {}

type HApply struct {
	Prim string
	Args []HNode
}

func (HApply) hnode() {}

type HMatchOption struct{ Scrutinee, NoneCase, SomeCase HNode }

func (HMatchOption) hnode() {}

type HMatchNat struct{ Scrutinee, PlusCase, MinusCase HNode }

func (HMatchNat) hnode() {}

type HMatchList struct{ Scrutinee, NilCase, ConsCase HNode }

func (HMatchList) hnode() {}

type HMatchCase struct {
	Ctor     string
	Wildcard bool
	Body     HNode
}

type HMatchVariant struct {
	Scrutinee HNode
	Variant   string
	Cases     []HMatchCase
}

func (HMatchVariant) hnode() {}

type HLoop struct{ Init, Body HNode }

func (HLoop) hnode() {}

type HLoopLeft struct{ Init, Body HNode }

func (HLoopLeft) hnode() {}

type HFold struct {
	Kind       int
	Coll, Init HNode
	Body       HNode
}

func (HFold) hnode() {}

type HMap struct {
	Kind int
	Coll HNode
	Body HNode
}

func (HMap) hnode() {}

type HMapFold struct {
	Kind       int
	Coll, Init HNode
	Body       HNode
}

func (HMapFold) hnode() {}

type HRecordConstruct struct {
	Record string
	Fields []HNode
}

func (HRecordConstruct) hnode() {}

type HProject struct {
	Target       HNode
	Index        int
	Record, Field string
}

func (HProject) hnode() {}

type HSetField struct {
	Target        HNode
	Index         int
	Record, Field string
	Value         HNode
}

func (HSetField) hnode() {}

type HTransfer struct{ Contract, Amount, Arg HNode }

func (HTransfer) hnode() {}

type HFailwith struct{ Arg HNode }

func (HFailwith) hnode() {}

type HCreateContract struct {
	StorageTy, ParamTy                 HNode
	Body, Delegate, Amount, InitStorage HNode
}

func (HCreateContract) hnode() {}

type HContractAt struct {
	Addr HNode
	Of   HNode
}

func (HContractAt) hnode() {}

type HUnpack struct {
	Bytes HNode
	Of    HNode
}

func (HUnpack) hnode() {}

// HGlobal and HEntry mirror ir.GlobalBinding and ir.Entry once their names
// have been erased to positional slots in the outer scope.
type HGlobal struct{ Value HNode }

type HEntry struct {
	Name    string
	ParamTy HNode
	Body    HNode
}

// HContract is the top-level tree Hash hashes.
type HContract struct {
	Name    string
	Storage HNode
	Globals []HGlobal
	Entries []HEntry
}
