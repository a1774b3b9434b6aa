package ir

import "github.com/chazu/clc/types"

// GlobalBinding is a top-level `let` visible to every entry (§3's
// "list of global value bindings").
type GlobalBinding struct {
	Name  string
	Value *Term
}

// Entry is one exposed `(parameter, storage) -> (operations, storage)`
// function (§3's Contract record / §6's Glossary "Entry point").
type Entry struct {
	Name        string
	ParamTy     *types.Type
	ParamName   string
	StorageName string
	// Body has type (operation list * storage) once typechecked.
	Body *Term
}

// Contract is the top-level unit the typechecker, encoder, code generator,
// and decompiler all operate on.
type Contract struct {
	Name    string
	Storage *types.Type
	Globals []GlobalBinding
	Entries []Entry
}
