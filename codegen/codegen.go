package codegen

import (
	"fmt"

	"github.com/chazu/clc/diag"
	"github.com/chazu/clc/env"
	"github.com/chazu/clc/instr"
	"github.com/chazu/clc/ir"
	"github.com/chazu/clc/loc"
)

// gen carries the per-compile state codegen needs beyond the stack frame:
// the environment for record/variant lookups and a counter for synthetic
// names that must stay unique within one compile (closure env slots,
// map_fold builder slots) without needing a fresh alpha-renaming pass.
type gen struct {
	env     *env.Env
	bag     *diag.Bag
	counter int
}

func (g *gen) fresh(prefix string) string {
	g.counter++
	return fmt.Sprintf("%s$%d", prefix, g.counter)
}

// Compile lowers a single-entry, encoded, simplified contract into the M
// script it runs as: UNPAIR the incoming (parameter, storage), bind the
// global let-chain, run the entry body, then strip every binding back off
// the stack so the only thing left is the body's (operations, storage)
// result — the exact shape a script's exit stack must have.
func Compile(c *ir.Contract, e *env.Env) (instr.Seq, *diag.Bag) {
	g := &gen{env: e, bag: diag.New()}
	if len(c.Entries) != 1 {
		g.bag.Errorf(diag.Internal, loc.Span{}, "codegen requires a single dispatched entry (%d found); run encode.Run first", len(c.Entries))
		return nil, g.bag
	}
	entry := c.Entries[0]

	code := instr.Seq{instr.Unpair{}}
	fr := frame{entry.ParamName, entry.StorageName}
	bound := 2

	for _, gl := range c.Globals {
		code = append(code, g.compile(gl.Value, fr)...)
		fr = fr.push(gl.Name)
		bound++
	}

	bodyCode := g.compile(entry.Body, fr)
	code = append(code, bodyCode...)
	code = append(code, instr.Dip{N: 1, Body: instr.Seq{instr.Drop{N: bound}}})

	return code, g.bag
}

// CompileInitializer lowers just a contract's global let-chain, with no
// parameter or storage argument on the incoming stack, leaving each
// global's computed value on the stack in binding order (deepest bound
// first, most recently bound on top). This is the artifact the CLI emits
// as a contract's storage-initializer sidecar (§10.8) when the storage's
// initial value isn't a compile-time constant: an on-chain caller runs
// this script once at origination time and assembles the resulting
// values into the storage the entry dispatcher then expects.
func CompileInitializer(c *ir.Contract, e *env.Env) (instr.Seq, *diag.Bag) {
	g := &gen{env: e, bag: diag.New()}
	var code instr.Seq
	var fr frame
	for _, gl := range c.Globals {
		code = append(code, g.compile(gl.Value, fr)...)
		fr = fr.push(gl.Name)
	}
	return code, g.bag
}
