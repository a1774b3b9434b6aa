// Package surfaceast is the boundary with the out-of-scope external
// frontend (§1, SPEC_FULL.md §10.1): it defines the untyped AST wire
// format the frontend hands us, decodes it from JSON, and validates it
// against a published CUE schema before anything downstream ever sees it.
//
// The tree uses one generic, tagged Node type rather than one Go struct
// per surface construct. This mirrors how a language-agnostic frontend
// realistically emits its AST (a small closed vocabulary of node kinds,
// each carrying only the fields relevant to it) and keeps the boundary
// stable if the surface grammar grows a construct the compiler core
// doesn't care about yet.
package surfaceast

// Kind is the surface AST's node-kind tag. It intentionally mirrors the
// typed IR's node variants (§3) one level up, before type inference.
type Kind string

const (
	KVar             Kind = "var"
	KConst           Kind = "const"
	KLet             Kind = "let"
	KSeq             Kind = "seq"
	KIf              Kind = "if"
	KLambda          Kind = "lambda"
	KApply           Kind = "apply"
	KMatchOption     Kind = "match_option"
	KMatchNat        Kind = "match_nat"
	KMatchList       Kind = "match_list"
	KMatchVariant    Kind = "match_variant"
	KLoop            Kind = "loop"
	KLoopLeft        Kind = "loop_left"
	KFold            Kind = "fold"
	KMap             Kind = "map"
	KMapFold         Kind = "map_fold"
	KRecordConstruct Kind = "record"
	KProject         Kind = "project"
	KSetField        Kind = "set_field"
	KTransfer        Kind = "transfer"
	KFailwith        Kind = "failwith"
	KCreateContract  Kind = "create_contract"
	KContractAt      Kind = "contract_at"
	KUnpack          Kind = "unpack"
	KLeft            Kind = "left"
	KRight           Kind = "right"
	KSome            Kind = "some"
	KNone            Kind = "none"
	KTuple           Kind = "tuple"
)

// Pos is the JSON-wire form of loc.Pos.
type Pos struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// TypeExpr is a surface type annotation: ground types carry only Name;
// composites carry Elems (tuple/or), Elem (option/list/set/contract), Key
// and Value (map/bigmap), Arg/Res (lambda), or Name alone for a record or
// variant reference.
type TypeExpr struct {
	Kind  string      `json:"kind"`
	Name  string      `json:"name,omitempty"`
	Elems []*TypeExpr `json:"elems,omitempty"`
	Elem  *TypeExpr   `json:"elem,omitempty"`
	Key   *TypeExpr   `json:"key,omitempty"`
	Value *TypeExpr   `json:"value,omitempty"`
	Arg   *TypeExpr   `json:"arg,omitempty"`
	Res   *TypeExpr   `json:"res,omitempty"`
}

// CaseNode is one arm of a match_variant node.
type CaseNode struct {
	Ctor     string `json:"ctor"`
	Var      string `json:"var,omitempty"`
	Wildcard bool   `json:"wildcard,omitempty"`
	Body     *Node  `json:"body"`
}

// FieldNode is one labeled field of a record-construct node, or one
// labeled field declaration in a record/variant type definition.
type FieldNode struct {
	Name  string `json:"name"`
	Value *Node  `json:"value,omitempty"`
	Type  *TypeExpr `json:"type,omitempty"`
}

// ConstLit is the JSON wire form of a literal constant. Kind mirrors
// types.ConstKind by name; only the field relevant to Kind is populated.
type ConstLit struct {
	Kind    string      `json:"kind"`
	Bool    bool        `json:"bool,omitempty"`
	Int     int64       `json:"int,omitempty"`
	Str     string      `json:"str,omitempty"`
	Bytes   string      `json:"bytes,omitempty"` // hex-encoded
	Elems   []*ConstLit `json:"elems,omitempty"`
	Fields  []FieldNode `json:"fields,omitempty"`
}

// Node is one untyped AST node.
type Node struct {
	Kind Kind `json:"kind"`
	Loc  Pos  `json:"loc,omitempty"`

	// Identifier-bearing forms: var, let-bound name, lambda param, match
	// bound variables, project/set_field field label, record/variant name.
	Name  string `json:"name,omitempty"`
	Name2 string `json:"name2,omitempty"` // second bound name, e.g. list-match tail

	Type *TypeExpr `json:"type,omitempty"` // lambda param type, match%nat scrutinee hint, unpack/contract_at target type
	Const *ConstLit `json:"value,omitempty"`

	// Sub-terms. Which are populated depends on Kind; see decode.go's
	// validation and typecheck's dispatch for the authoritative mapping.
	A          *Node       `json:"a,omitempty"`
	B          *Node       `json:"b,omitempty"`
	C          *Node       `json:"c,omitempty"`
	D          *Node       `json:"d,omitempty"`
	Args       []*Node     `json:"args,omitempty"`
	Cases      []CaseNode  `json:"cases,omitempty"`
	Fields     []FieldNode `json:"fields,omitempty"`

	Recursive bool `json:"recursive,omitempty"`
	FoldKind  string `json:"fold_kind,omitempty"` // "list" | "set" | "map"
	Prim      string `json:"prim,omitempty"`      // apply's primitive name
}

// EntryNode is one `entry` declaration from the surface program.
type EntryNode struct {
	Name        string    `json:"name"`
	ParamType   *TypeExpr `json:"param_type"`
	ParamName   string    `json:"param_name"`
	StorageName string    `json:"storage_name"`
	Body        *Node     `json:"body"`
}

// GlobalNode is one top-level `let` visible to every entry.
type GlobalNode struct {
	Name  string `json:"name"`
	Value *Node  `json:"value"`
}

// TypeDeclNode declares a named record or variant type.
type TypeDeclNode struct {
	Kind   string      `json:"kind"` // "record" | "variant"
	Name   string      `json:"name"`
	Fields []FieldNode `json:"fields"`
}

// Program is the top-level untyped AST for one translation unit (§3's
// Contract record, before typechecking).
type Program struct {
	ContractName string         `json:"contract_name"`
	StorageType  *TypeExpr      `json:"storage_type"`
	TypeDecls    []TypeDeclNode `json:"type_decls,omitempty"`
	Globals      []GlobalNode   `json:"globals,omitempty"`
	Entries      []EntryNode    `json:"entries"`
}
