// Package env implements the per-translation-unit environment: name→type
// bindings threaded through the typechecker, plus the record and variant
// registries that persist from parsing through emission (§3's Lifecycle
// clause). The scope push/pop shape is grounded on the teacher's
// SemanticAnalyzer.outerScopes stack (compiler/semantic.go).
package env

import "github.com/chazu/clc/types"

// scope is one lexical frame of name→type bindings.
type scope struct {
	vars map[string]*types.Type
}

// Env is a persistent-by-convention name environment: Push/Pop delimit
// lexical frames and Lookup walks outward, matching §9's note that a
// hashmap with explicit push/pop is an acceptable stand-in for a
// persistent trie when depths/scopes are small and rebinding is frequent.
type Env struct {
	frames []scope

	records  map[string][]types.Field
	variants map[string][]types.Ctor

	// recordFieldOwner maps a field name to the set of record type names
	// that declare it, used to detect the ambiguous-field-name type error
	// (§4.1: "ambiguous field names across two record types is a type
	// error" when the record type cannot be inferred from context).
	recordFieldOwner map[string][]string
}

// New returns an empty environment with one root frame.
func New() *Env {
	return &Env{
		frames:           []scope{{vars: map[string]*types.Type{}}},
		records:          map[string][]types.Field{},
		variants:         map[string][]types.Ctor{},
		recordFieldOwner: map[string][]string{},
	}
}

// Push opens a new lexical frame (entering a let-body, lambda body, match
// arm, etc).
func (e *Env) Push() { e.frames = append(e.frames, scope{vars: map[string]*types.Type{}}) }

// Pop closes the innermost lexical frame.
func (e *Env) Pop() { e.frames = e.frames[:len(e.frames)-1] }

// Bind introduces name into the innermost frame.
func (e *Env) Bind(name string, t *types.Type) {
	e.frames[len(e.frames)-1].vars[name] = t
}

// Lookup finds name's type, searching from the innermost frame outward.
func (e *Env) Lookup(name string) (*types.Type, bool) {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if t, ok := e.frames[i].vars[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// RegisterRecord adds a record type to the global registry. Field order is
// preserved exactly as declared (§3's ordering invariant).
func (e *Env) RegisterRecord(name string, fields []types.Field) {
	e.records[name] = fields
	for _, f := range fields {
		e.recordFieldOwner[f.Name] = append(e.recordFieldOwner[f.Name], name)
	}
}

// RegisterVariant adds a variant type to the global registry, constructor
// order preserved exactly as declared.
func (e *Env) RegisterVariant(name string, ctors []types.Ctor) {
	e.variants[name] = ctors
}

// RecordFields returns the declared fields of a registered record type, or
// (nil, false) if name is not a known record.
func (e *Env) RecordFields(name string) ([]types.Field, bool) {
	f, ok := e.records[name]
	return f, ok
}

// VariantCtors returns the declared constructors of a registered variant
// type, or (nil, false) if name is not a known variant.
func (e *Env) VariantCtors(name string) ([]types.Ctor, bool) {
	c, ok := e.variants[name]
	return c, ok
}

// FieldIndex returns the declaration-order index of field within record
// recordName, or -1 if it is not a field of that record.
func (e *Env) FieldIndex(recordName, field string) int {
	fields, ok := e.records[recordName]
	if !ok {
		return -1
	}
	for i, f := range fields {
		if f.Name == field {
			return i
		}
	}
	return -1
}

// CtorIndex returns the declaration-order index of ctor within variant
// variantName, or -1 if it is not a constructor of that variant.
func (e *Env) CtorIndex(variantName, ctor string) int {
	ctors, ok := e.variants[variantName]
	if !ok {
		return -1
	}
	for i, c := range ctors {
		if c.Name == ctor {
			return i
		}
	}
	return -1
}

// RecordsOwningField returns every registered record type name that
// declares a field with this name, used to decide whether `r.f` resolves
// unambiguously (§4.1).
func (e *Env) RecordsOwningField(field string) []string {
	return e.recordFieldOwner[field]
}

// FieldType returns the declared type of a record field, or nil if not
// found.
func (e *Env) FieldType(recordName, field string) *types.Type {
	for _, f := range e.records[recordName] {
		if f.Name == field {
			return f.Type
		}
	}
	return nil
}

// CtorType returns the declared payload type of a variant constructor, or
// nil if not found.
func (e *Env) CtorType(variantName, ctor string) *types.Type {
	for _, c := range e.variants[variantName] {
		if c.Name == ctor {
			return c.Type
		}
	}
	return nil
}

// RecordNames returns every registered record type name, used by the
// decompiler to search for a structural match when M gives it an
// anonymous tuple shape with no type annotation of its own.
func (e *Env) RecordNames() []string {
	names := make([]string, 0, len(e.records))
	for name := range e.records {
		names = append(names, name)
	}
	return names
}

// VariantNames returns every registered variant type name, for the same
// reason RecordNames exists.
func (e *Env) VariantNames() []string {
	names := make([]string, 0, len(e.variants))
	for name := range e.variants {
		names = append(names, name)
	}
	return names
}
