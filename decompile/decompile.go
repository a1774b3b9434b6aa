// Package decompile turns a parsed M program back into a named IR
// contract, the inverse of codegen.Compile. It runs the symbolic
// interpreter over the whole script once, retrying once with annotations
// ignored if the first pass hits a RENAME conflict (§7.5's one explicit
// recovery), and hands the caller a single-entry ir.Contract ready for
// the untyper.
package decompile

import (
	"strings"

	"github.com/chazu/clc/diag"
	"github.com/chazu/clc/env"
	"github.com/chazu/clc/instr"
	"github.com/chazu/clc/interp"
	"github.com/chazu/clc/ir"
	"github.com/chazu/clc/loc"
	"github.com/chazu/clc/mtext"
)

// entryName is what a decompiled contract's sole entry is called, absent
// any surface name to recover — M carries none.
const entryName = "main"

// Decompile reconstructs an ir.Contract from prog. codegen.Compile always
// emits UNPAIR (splitting the incoming (parameter, storage) argument),
// then zero or more global-let-binding prefixes with no marker separating
// them from the entry body once lowered, then the body itself, then a
// trailing DIP that strips every binding back off the stack. The globals
// prefix is unrecoverable as separate bindings for exactly that reason —
// compiled global values are ordinary straight-line code indistinguishable
// from body code — so Decompile does not attempt to split it back out;
// the whole thing becomes a single entry's body, and Contract.Globals is
// always empty for a decompiled contract.
func Decompile(prog *mtext.Program, e *env.Env) (*ir.Contract, *diag.Bag) {
	body := stripUnpair(prog.Code)

	c, bag := run(body, prog, e, false)
	if hasAnnotationConflict(bag) {
		c, bag = run(body, prog, e, true)
	}
	return c, bag
}

func stripUnpair(seq instr.Seq) instr.Seq {
	if len(seq) > 0 {
		if _, ok := seq[0].(instr.Unpair); ok {
			return seq[1:]
		}
	}
	return seq
}

func run(body instr.Seq, prog *mtext.Program, e *env.Env, ignoreAnnotations bool) (*ir.Contract, *diag.Bag) {
	in := interp.New(e, ignoreAnnotations)

	paramName, storageName := "param", "storage"
	st := interp.Stack{
		{Term: ir.New(ir.Var{Name: paramName}, prog.Parameter, loc.Span{}), Ty: prog.Parameter},
		{Term: ir.New(ir.Var{Name: storageName}, prog.Storage, loc.Span{}), Ty: prog.Storage},
	}

	result := in.Run(body, st)
	if in.Bag.HasErrors() {
		return nil, in.Bag
	}

	entry := ir.Entry{
		Name:        entryName,
		ParamTy:     prog.Parameter,
		ParamName:   paramName,
		StorageName: storageName,
		Body:        result,
	}
	c := &ir.Contract{
		Name:    entryName,
		Storage: prog.Storage,
		Globals: nil,
		Entries: []ir.Entry{entry},
	}
	return c, in.Bag
}

// hasAnnotationConflict looks for the one recognized class of error that
// warrants a second pass; every other diagnostic aborts decompilation
// outright.
func hasAnnotationConflict(bag *diag.Bag) bool {
	if bag == nil {
		return false
	}
	for _, d := range bag.All() {
		if d.Kind == diag.Decompile && strings.HasPrefix(d.Message, "AnnotationConflict:") {
			return true
		}
	}
	return false
}
