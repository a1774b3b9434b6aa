package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/chazu/clc/artifact"
	"github.com/chazu/clc/config"
	"github.com/chazu/clc/decompile"
	"github.com/chazu/clc/env"
	"github.com/chazu/clc/mtext"
	"github.com/chazu/clc/printer"
)

// decompileFile runs an M artifact back through the recovery pipeline
// (§4.7) and writes the recovered surface-syntax rendering. Unlike
// compile's two output forms, decompile always emits text — §10.6 holds
// the recovered surface form to no serialization contract of its own.
func decompileFile(cfg config.Config, f cliFlags, path string) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "clc: %s: %v\n", path, err)
		return exitInternal
	}

	program, perr := decodeProgram(path, src)
	if perr != nil {
		fmt.Fprintf(os.Stderr, "clc: %s: %v\n", path, perr)
		return exitInternal
	}

	contract, bag := decompile.Decompile(program, env.New())
	if bag.Count() > 0 {
		fmt.Fprint(os.Stderr, bag.Format(path))
	}
	if bag.HasErrors() {
		return exitInternal
	}

	surface := printer.Untype(contract)
	out := printer.Print(surface)

	outPath := artifact.DecompilePath(path)
	if cfg.OutPath != "" {
		outPath = cfg.OutPath
	}
	if err := artifact.Write(outPath, []byte(out)); err != nil {
		fmt.Fprintf(os.Stderr, "clc: %v\n", err)
		return exitInternal
	}
	vlog(cfg, "clc: %s -> %s", path, outPath)
	return exitOK
}

// decodeProgram picks the text or JSON decoder by extension — the two
// wire forms an M artifact can arrive in (§4.6).
func decodeProgram(path string, src []byte) (*mtext.Program, error) {
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return mtext.DecodeJSON(src)
	}
	return mtext.DecodeText(string(src))
}
