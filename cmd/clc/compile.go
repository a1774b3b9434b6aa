package main

import (
	"fmt"
	"os"

	"github.com/chazu/clc/artifact"
	"github.com/chazu/clc/config"
	"github.com/chazu/clc/mtext"
)

// compileFile runs the full pipeline over a single source input and
// writes its artifact(s) (§4's stage list, §6's naming rules). It never
// aborts the whole invocation on a per-file failure — the caller decides
// the process exit code from every file's outcome.
func compileFile(cfg config.Config, f cliFlags, path string) int {
	cd, rc := compileSource(cfg, path)
	if cd == nil {
		return rc
	}

	format := artifact.Text
	if cfg.JSON {
		format = artifact.JSON
	}

	main, encErr := encodeProgram(cd.program, format)
	if encErr != nil {
		fmt.Fprintf(os.Stderr, "clc: %s: %v\n", path, encErr)
		return exitInternal
	}

	set := artifact.Compile(path, format, cd.isConstant)
	if cfg.OutPath != "" {
		set.Main = cfg.OutPath
	}

	var sidecar []byte
	if !cd.isConstant {
		initProgram, ierr := initializerProgram(cfg, cd)
		if ierr != nil {
			fmt.Fprintf(os.Stderr, "clc: %s: %v\n", path, ierr)
			return exitInternal
		}
		sidecar, encErr = encodeProgram(initProgram, format)
		if encErr != nil {
			fmt.Fprintf(os.Stderr, "clc: %s: %v\n", path, encErr)
			return exitInternal
		}
	}

	if err := artifact.WriteCompile(set, main, sidecar); err != nil {
		fmt.Fprintf(os.Stderr, "clc: %v\n", err)
		return exitInternal
	}
	vlog(cfg, "clc: %s -> %s", path, set.Main)

	if f.dumpIR {
		if err := dumpIR(cd, path); err != nil {
			vlog(cfg, "clc: %s: %v", path, err)
		}
	}
	return exitOK
}

func encodeProgram(p *mtext.Program, f artifact.Format) ([]byte, error) {
	if f == artifact.JSON {
		return mtext.EncodeJSON(p)
	}
	return []byte(mtext.EncodeText(p)), nil
}
