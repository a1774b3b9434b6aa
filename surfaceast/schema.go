package surfaceast

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// programSchema is the CUE schema the frontend's JSON must satisfy. It only
// constrains the closed vocabulary of kinds and the presence of the fields
// each kind requires; it deliberately does not attempt to encode the type
// system itself (that's typecheck's job once the tree is in Go structs).
const programSchema = `
#Pos: {
	line?:   int
	column?: int
}

#TypeExpr: {
	kind:   string
	name?:  string
	elems?: [...#TypeExpr]
	elem?:  #TypeExpr
	key?:   #TypeExpr
	value?: #TypeExpr
	arg?:   #TypeExpr
	res?:   #TypeExpr
}

#ConstLit: {
	kind:    string
	bool?:   bool
	int?:    int
	str?:    string
	bytes?:  string
	elems?:  [...#ConstLit]
	fields?: [...#FieldNode]
}

#CaseNode: {
	ctor:      string
	var?:      string
	wildcard?: bool
	body:      #Node
}

#FieldNode: {
	name:   string
	value?: #Node
	type?:  #TypeExpr
}

#Node: {
	kind: "var" | "const" | "let" | "seq" | "if" | "lambda" | "apply" |
		"match_option" | "match_nat" | "match_list" | "match_variant" |
		"loop" | "loop_left" | "fold" | "map" | "map_fold" |
		"record" | "project" | "set_field" | "transfer" | "failwith" |
		"create_contract" | "contract_at" | "unpack" |
		"left" | "right" | "some" | "none" | "tuple"
	loc?:       #Pos
	name?:      string
	name2?:     string
	type?:      #TypeExpr
	value?:     #ConstLit
	a?:         #Node
	b?:         #Node
	c?:         #Node
	d?:         #Node
	args?:      [...#Node]
	cases?:     [...#CaseNode]
	fields?:    [...#FieldNode]
	recursive?: bool
	fold_kind?: "list" | "set" | "map"
	prim?:      string
}

#EntryNode: {
	name:         string
	param_type:   #TypeExpr
	param_name:   string
	storage_name: string
	body:         #Node
}

#GlobalNode: {
	name:  string
	value: #Node
}

#TypeDeclNode: {
	kind:   "record" | "variant"
	name:   string
	fields: [...#FieldNode]
}

#Program: {
	contract_name: string
	storage_type:  #TypeExpr
	type_decls?: [...#TypeDeclNode]
	globals?: [...#GlobalNode]
	entries: [...#EntryNode]
}

#Program
`

// ValidateJSON checks data against the surface program schema without
// decoding it into Go structs. It is the boundary check called before
// Decode (§10.1): malformed input from the frontend never reaches the
// typechecker.
func ValidateJSON(data []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(programSchema)
	if schema.Err() != nil {
		return fmt.Errorf("surfaceast: internal schema error: %w", schema.Err())
	}

	instance := ctx.CompileBytes(data)
	if instance.Err() != nil {
		return fmt.Errorf("surfaceast: malformed json: %w", instance.Err())
	}

	unified := schema.Unify(instance)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("surfaceast: schema violation: %w", err)
	}
	return nil
}
