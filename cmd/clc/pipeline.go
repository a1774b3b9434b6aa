package main

import (
	"context"
	"fmt"
	"os"

	"github.com/chazu/clc/cache"
	"github.com/chazu/clc/codegen"
	"github.com/chazu/clc/config"
	"github.com/chazu/clc/diag"
	"github.com/chazu/clc/encode"
	"github.com/chazu/clc/env"
	"github.com/chazu/clc/finalize"
	"github.com/chazu/clc/instr"
	"github.com/chazu/clc/ir"
	"github.com/chazu/clc/mtext"
	"github.com/chazu/clc/simplify"
	"github.com/chazu/clc/surfaceast"
	"github.com/chazu/clc/typecheck"
)

// cacheFile is where the content-addressed compile cache lives, one file
// per project directory (§10.9). --no-cache/clc.toml's no_cache bypasses
// it entirely rather than pointing it elsewhere.
const cacheFile = ".clc-cache.sqlite"

func openCache(cfg config.Config) *cache.Cache {
	if cfg.NoCache {
		return nil
	}
	c, err := cache.Open(cacheFile)
	if err != nil {
		vlog(cfg, "clc: cache unavailable, compiling without it: %v", err)
		return nil
	}
	return c
}

// compiled is everything one source file's trip through the pipeline
// produces, shared by every command that starts from L source: compile,
// --run, --init-storage, --deploy, and --forge-deploy.
type compiled struct {
	source     *ir.Contract // pre-encode, for diagnostics that want original names
	env        *env.Env
	contract   *ir.Contract // encoded + simplified, single dispatched entry
	code       instr.Seq
	program    *mtext.Program
	isConstant bool
}

// compileSource runs every stage through finalize for path, stopping
// early (with a nil *compiled) at --parse-only/--type-only exactly as
// compileFile's caller expects, and printing whatever diagnostics
// accumulated along the way.
func compileSource(cfg config.Config, path string) (*compiled, int) {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "clc: %s: %v\n", path, err)
		return nil, exitInternal
	}
	prog, decodeErr := surfaceast.Decode(src)
	if decodeErr != nil {
		fmt.Fprintf(os.Stderr, "clc: %s: %s at %s\n", path, decodeErr.Message, decodeErr.Loc)
		return nil, exitInternal
	}
	if cfg.ParseOnly {
		vlog(cfg, "clc: %s: parsed OK", path)
		return nil, exitOK
	}

	contract, e, bag := typecheck.Check(prog)
	if bag.Count() > 0 {
		fmt.Fprint(os.Stderr, bag.Format(path))
	}
	if bag.HasErrors() {
		return nil, exitInternal
	}
	if cfg.TypeOnly {
		vlog(cfg, "clc: %s: typechecked OK", path)
		return nil, exitOK
	}

	encoded, ebag := encode.Run(contract, e)
	if ebag.HasErrors() {
		fmt.Fprint(os.Stderr, ebag.Format(path))
		return nil, exitInternal
	}
	simplified := simplify.Contract(encoded)

	c := openCache(cfg)
	if c != nil {
		defer c.Close()
	}

	var code instr.Seq
	ctx := context.Background()
	if c != nil {
		if hit, ok, err := c.Lookup(ctx, contract); err == nil && ok {
			vlog(cfg, "clc: %s: cache hit", path)
			code = hit.Code
		}
	}
	if code == nil {
		var cbag *diag.Bag
		code, cbag = codegen.Compile(simplified, e)
		if cbag.HasErrors() {
			fmt.Fprint(os.Stderr, cbag.Format(path))
			return nil, exitInternal
		}
		code = finalizeCode(cfg, code)
	}

	program := &mtext.Program{Storage: contract.Storage, Code: code}
	if len(simplified.Entries) == 1 {
		program.Parameter = simplified.Entries[0].ParamTy
	}

	if c != nil && code != nil {
		if err := c.Store(ctx, contract, program); err != nil {
			vlog(cfg, "clc: %s: cache store failed: %v", path, err)
		}
	}

	return &compiled{
		source:     contract,
		env:        e,
		contract:   simplified,
		code:       code,
		program:    program,
		isConstant: storageIsConstant(simplified),
	}, exitOK
}

// finalizeCode applies finalize.Run unless --no-peephole asked to see
// the codegen output as-is; finalize exposes peephole rewriting and
// tail-fail truncation as one combined pass, so skipping one skips both.
func finalizeCode(cfg config.Config, seq instr.Seq) instr.Seq {
	if !cfg.Peephole {
		return seq
	}
	return finalize.Run(seq)
}

// storageIsConstant reports whether every global c binds is a
// compile-time constant, the heuristic §10.8's sidecar-naming decision
// rests on: a program with no non-constant global needs no on-chain
// initializer step at all.
func storageIsConstant(c *ir.Contract) bool {
	for _, g := range c.Globals {
		if _, ok := g.Value.Desc.(ir.ConstNode); !ok {
			return false
		}
	}
	return true
}

// initializerProgram compiles cd's global let-chain in isolation, the
// artifact §10.8 hands an on-chain originator when the storage's initial
// value isn't a compile-time constant.
func initializerProgram(cfg config.Config, cd *compiled) (*mtext.Program, error) {
	seq, bag := codegen.CompileInitializer(cd.contract, cd.env)
	if bag.HasErrors() {
		return nil, fmt.Errorf("%s", bag.Format(""))
	}
	seq = finalizeCode(cfg, seq)
	return &mtext.Program{Storage: cd.contract.Storage, Code: seq}, nil
}
