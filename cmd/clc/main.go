// Command clc is the compiler driver: it dispatches to compile,
// decompile, --run, and the RPC-backed deploy/call commands over a
// single config.Config resolved from clc.toml plus whatever flags this
// invocation set (§6, §9's design note).
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chazu/clc/config"
)

const (
	exitOK      = 0
	exitInternal = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// cliFlags holds every recognized flag (§6), regardless of which command
// ends up using it — mirroring how the corpus's own `mag` driver defines
// its whole flag surface up front before deciding what to do with args.
type cliFlags struct {
	out          string
	mainName     string
	noPeephole   bool
	typeOnly     bool
	parseOnly    bool
	compact      bool
	json         bool
	verbose      bool
	noCache      bool
	dumpIR       bool
	amount       int64
	fee          int64
	source       string
	privateKey   string
	counter      int64
	tezosNode    string
	protocol     string
	signature    string

	run         string // ENTRY, with PARAM/STORAGE consumed from args
	initStorage bool
	forgeDeploy bool
	deploy      bool
	getStorage  string // ADDR
	call        string // ADDR, ENTRY/PARAM consumed from args
	forgeCall   string // ADDR
	data        bool
	inject      string // FILE
}

// newTestFlagSet gives cmd_test.go the same starting point run's flag set
// has, without duplicating every StringVar/BoolVar call in test code.
func newTestFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("clc", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

// bindFlags registers every recognized flag against fs, writing into f.
func bindFlags(fs *flag.FlagSet, f *cliFlags) {
	fs.StringVar(&f.out, "o", "", "output path (default: derived from the input file name)")
	fs.StringVar(&f.mainName, "main", "", "entry point name to treat as the contract's default (overrides clc.toml)")
	fs.BoolVar(&f.noPeephole, "no-peephole", false, "skip peephole/tail-fail finalization")
	fs.BoolVar(&f.typeOnly, "type-only", false, "typecheck and report diagnostics, writing no artifact")
	fs.BoolVar(&f.parseOnly, "parse-only", false, "validate the input against the AST schema, writing no artifact")
	fs.BoolVar(&f.compact, "compact", false, "omit optional whitespace/formatting in text output")
	fs.BoolVar(&f.json, "json", false, "emit the structured-JSON artifact form instead of stanza text")
	fs.BoolVar(&f.verbose, "verbose", false, "print pipeline stage progress to stderr")
	fs.BoolVar(&f.noCache, "no-cache", false, "bypass the content-addressed compile cache")
	fs.BoolVar(&f.dumpIR, "dump-ir", false, "write the post-encode and post-simplify IR as CBOR beside the output")
	fs.Int64Var(&f.amount, "amount", 0, "transaction amount, in the chain's smallest unit")
	fs.Int64Var(&f.fee, "fee", 0, "transaction fee")
	fs.StringVar(&f.source, "source", "", "originating/sending account")
	fs.StringVar(&f.privateKey, "private-key", "", "signing key for --deploy/--call")
	fs.Int64Var(&f.counter, "counter", 0, "account counter for the forged operation")
	fs.StringVar(&f.tezosNode, "tezos-node", "", "HOST:PORT of the node to talk to")
	fs.StringVar(&f.protocol, "protocol", "", "mainnet|zeronet|alphanet (overrides clc.toml)")
	fs.StringVar(&f.signature, "signature", "", "signature to attach when injecting a pre-forged operation")

	fs.StringVar(&f.run, "run", "", "ENTRY: interpret the compiled contract locally against PARAM and STORAGE args")
	fs.BoolVar(&f.initStorage, "init-storage", false, "compile just the storage initializer for the given input(s)")
	fs.BoolVar(&f.forgeDeploy, "forge-deploy", false, "forge (without injecting) an origination for the given input(s)")
	fs.BoolVar(&f.deploy, "deploy", false, "originate the given input(s) against --tezos-node")
	fs.StringVar(&f.getStorage, "get-storage", "", "ADDR: fetch and print a contract's current storage")
	fs.StringVar(&f.call, "call", "", "ADDR: invoke ENTRY with PARAM against --tezos-node")
	fs.StringVar(&f.forgeCall, "forge-call", "", "ADDR: forge (without injecting) an entry invocation")
	fs.BoolVar(&f.data, "data", false, "encode ENTRY/PARAM[/STORAGE] as data without compiling a contract")
	fs.StringVar(&f.inject, "inject", "", "FILE: inject a pre-forged, pre-signed operation")
}

func run(argv []string) int {
	fs := newTestFlagSet()
	var f cliFlags
	bindFlags(fs, &f)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: clc [flags] FILE...\n\n")
		fmt.Fprintf(os.Stderr, "Compiles .liq inputs to M (the default action) or decompiles .tz/.tz.json\n")
		fmt.Fprintf(os.Stderr, "inputs back to L, depending on each input's extension. Flags:\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(argv); err != nil {
		return exitUsage
	}

	cfg, err := config.FindAndLoad(".")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitInternal
	}
	cfg = cfg.WithOverrides(overridesFrom(fs, &f))
	if cfg.Protocol != "" && !config.ValidProtocol(cfg.Protocol) {
		fmt.Fprintf(os.Stderr, "clc: unrecognized --protocol %q\n", cfg.Protocol)
		return exitUsage
	}

	args := fs.Args()

	switch {
	case f.run != "":
		return runRun(cfg, f, args)
	case f.getStorage != "":
		return runGetStorage(cfg, f)
	case f.call != "":
		return runCall(cfg, f, args)
	case f.forgeCall != "":
		return runForgeCall(cfg, f, args)
	case f.inject != "":
		return runInject(cfg, f)
	case f.data:
		return runData(cfg, f, args)
	case f.deploy, f.forgeDeploy, f.initStorage:
		return runDeployFamily(cfg, f, args)
	default:
		return runCompileOrDecompile(cfg, f, args)
	}
}

// overridesFrom builds a config.Overrides carrying only the flags fs
// actually saw set, so an unset flag never clobbers a clc.toml value with
// its zero default (§10.2's "flags always win, but only the ones given").
func overridesFrom(fs *flag.FlagSet, f *cliFlags) config.Overrides {
	var o config.Overrides
	seen := map[string]bool{}
	fs.Visit(func(fl *flag.Flag) { seen[fl.Name] = true })

	if seen["o"] {
		o.OutPath = &f.out
	}
	if seen["main"] {
		o.MainEntry = &f.mainName
	}
	if seen["no-peephole"] {
		v := !f.noPeephole
		o.Peephole = &v
	}
	if seen["type-only"] {
		o.TypeOnly = &f.typeOnly
	}
	if seen["parse-only"] {
		o.ParseOnly = &f.parseOnly
	}
	if seen["compact"] {
		o.Compact = &f.compact
	}
	if seen["json"] {
		o.JSON = &f.json
	}
	if seen["verbose"] {
		o.Verbose = &f.verbose
	}
	if seen["no-cache"] {
		o.NoCache = &f.noCache
	}
	if seen["protocol"] {
		o.Protocol = &f.protocol
	}
	return o
}

// classifyInput decides compile vs decompile from the input's extension
// (§6: compile is the default on .liq, decompile the default on .tz/.json).
func classifyInput(path string) (decompile bool) {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".tz") || strings.HasSuffix(lower, ".tz.json") || strings.HasSuffix(lower, ".json")
}

func runCompileOrDecompile(cfg config.Config, f cliFlags, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "clc: no input files")
		return exitUsage
	}
	code := exitOK
	for _, path := range args {
		var rc int
		if classifyInput(path) {
			rc = decompileFile(cfg, f, path)
		} else {
			rc = compileFile(cfg, f, path)
		}
		if rc != exitOK {
			code = rc
		}
	}
	return code
}

func vlog(cfg config.Config, format string, args ...any) {
	if cfg.Verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
