package main

import (
	"fmt"
	"os"

	"github.com/chazu/clc/config"
	"github.com/chazu/clc/mtext"
	"github.com/chazu/clc/vm"
)

// runRun implements `--run ENTRY FILE PARAM STORAGE`: it compiles FILE
// the same way compileFile would, then interprets the result locally
// against literal PARAM/STORAGE arguments instead of writing an
// artifact. It never touches a node — anything the contract does that
// depends on chain state fails loudly out of vm.Machine rather than
// guessing (see vm's package doc).
func runRun(cfg config.Config, f cliFlags, args []string) int {
	if len(args) < 3 {
		fmt.Fprintln(os.Stderr, "clc: --run ENTRY requires FILE PARAM STORAGE")
		return exitUsage
	}
	path, paramSrc, storageSrc := args[0], args[1], args[2]

	cd, rc := compileSource(cfg, path)
	if cd == nil {
		if rc == exitOK {
			fmt.Fprintln(os.Stderr, "clc: --run: nothing to interpret with --parse-only/--type-only set")
			return exitUsage
		}
		return rc
	}

	if f.run != "main" && f.run != cd.contract.Entries[0].Name {
		vlog(cfg, "clc: --run: entry names are erased by dispatch synthesis; running the compiled contract as a whole")
	}

	param, perr := mtext.ParseConst(paramSrc)
	if perr != nil {
		fmt.Fprintf(os.Stderr, "clc: --run: parsing PARAM: %v\n", perr)
		return exitUsage
	}
	storage, serr := mtext.ParseConst(storageSrc)
	if serr != nil {
		fmt.Fprintf(os.Stderr, "clc: --run: parsing STORAGE: %v\n", serr)
		return exitUsage
	}

	m := vm.New()
	result := m.Run(cd.code, param, storage)
	if m.Bag.HasErrors() {
		fmt.Fprint(os.Stderr, m.Bag.Format(path))
		return exitInternal
	}

	for _, c := range result {
		fmt.Println(mtext.ConstText(c))
	}
	return exitOK
}
