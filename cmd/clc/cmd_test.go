package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/clc/config"
	"github.com/chazu/clc/rpcclient"
)

const counterSource = `{
  "contract_name": "counter",
  "storage_type": {"kind": "int"},
  "entries": [
    {
      "name": "bump",
      "param_type": {"kind": "int"},
      "param_name": "delta",
      "storage_name": "s",
      "body": {
        "kind": "tuple",
        "args": [
          {"kind": "const", "value": {"kind": "list", "elems": []}},
          {"kind": "apply", "prim": "add", "args": [
            {"kind": "var", "name": "delta"},
            {"kind": "var", "name": "s"}
          ]}
        ]
      }
    }
  ]
}`

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func testConfig() config.Config {
	c := config.Default()
	c.NoCache = true // keep tests from touching a real cache file on disk
	return c
}

func TestClassifyInputPicksCompileVsDecompileByExtension(t *testing.T) {
	cases := map[string]bool{
		"a.liq":     false,
		"a.tz":      true,
		"a.tz.json": true,
		"a.json":    true,
		"a.TZ":      true,
	}
	for path, wantDecompile := range cases {
		if got := classifyInput(path); got != wantDecompile {
			t.Errorf("classifyInput(%q) = %v, want %v", path, got, wantDecompile)
		}
	}
}

func TestCompileFileWritesArtifact(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "counter.liq", counterSource)
	cfg := testConfig()

	rc := compileFile(cfg, cliFlags{}, path)
	if rc != exitOK {
		t.Fatalf("compileFile returned exit %d", rc)
	}

	out, err := os.ReadFile(filepath.Join(dir, "counter.tz"))
	if err != nil {
		t.Fatalf("reading compiled output: %v", err)
	}
	if !strings.Contains(string(out), "parameter") || !strings.Contains(string(out), "storage") {
		t.Errorf("compiled output missing stanzas: %s", out)
	}
}

func TestCompileFileDumpIRWritesSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "counter.liq", counterSource)
	cfg := testConfig()

	rc := compileFile(cfg, cliFlags{dumpIR: true}, path)
	if rc != exitOK {
		t.Fatalf("compileFile returned exit %d", rc)
	}
	data, err := os.ReadFile(filepath.Join(dir, "counter.ir.cbor"))
	if err != nil {
		t.Fatalf("reading IR dump: %v", err)
	}
	if len(data) == 0 {
		t.Errorf("IR dump is empty")
	}
}

func TestCompileFileParseOnlyWritesNothing(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "counter.liq", counterSource)
	cfg := testConfig()
	cfg.ParseOnly = true

	rc := compileFile(cfg, cliFlags{}, path)
	if rc != exitOK {
		t.Fatalf("compileFile returned exit %d", rc)
	}
	if _, err := os.Stat(filepath.Join(dir, "counter.tz")); !os.IsNotExist(err) {
		t.Errorf("expected no artifact written under --parse-only")
	}
}

func TestCompileFileTypeErrorReportsExitInternal(t *testing.T) {
	dir := t.TempDir()
	badSource := strings.Replace(counterSource, `{"kind": "var", "name": "delta"}`, `{"kind": "var", "name": "nonexistent"}`, 1)
	path := writeSource(t, dir, "bad.liq", badSource)
	cfg := testConfig()

	rc := compileFile(cfg, cliFlags{}, path)
	if rc != exitInternal {
		t.Fatalf("expected exitInternal for an unbound name, got %d", rc)
	}
}

func TestCompileThenDecompileRoundTripsStanzas(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "counter.liq", counterSource)
	cfg := testConfig()

	if rc := compileFile(cfg, cliFlags{}, path); rc != exitOK {
		t.Fatalf("compile failed: %d", rc)
	}
	tzPath := filepath.Join(dir, "counter.tz")

	rc := decompileFile(cfg, cliFlags{}, tzPath)
	if rc != exitOK {
		t.Fatalf("decompile returned exit %d", rc)
	}
	out, err := os.ReadFile(filepath.Join(dir, "counter.tz.liq"))
	if err != nil {
		t.Fatalf("reading decompiled output: %v", err)
	}
	if len(out) == 0 {
		t.Errorf("decompiled output is empty")
	}
}

func TestRunRunInterpretsCompiledContract(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "counter.liq", counterSource)
	cfg := testConfig()

	rc := runRun(cfg, cliFlags{run: "main"}, []string{path, "3", "4"})
	if rc != exitOK {
		t.Fatalf("runRun returned exit %d", rc)
	}
}

func TestRunRunRejectsTooFewArgs(t *testing.T) {
	rc := runRun(config.Default(), cliFlags{run: "main"}, []string{"only-one.liq"})
	if rc != exitUsage {
		t.Fatalf("expected exitUsage, got %d", rc)
	}
}

func TestGetStorageAgainstFake(t *testing.T) {
	fake := rpcclient.NewFake()
	res, err := fake.Originate(nil, rpcclient.OriginateRequest{InitStorage: []byte(`"3"`)})
	if err != nil {
		t.Fatalf("seeding fake: %v", err)
	}
	rc := getStorage(fake, res.ContractAddress)
	if rc != exitOK {
		t.Fatalf("getStorage returned exit %d", rc)
	}
}

func TestGetStorageUnknownContractIsInternalError(t *testing.T) {
	fake := rpcclient.NewFake()
	rc := getStorage(fake, "KT1DoesNotExist")
	if rc != exitInternal {
		t.Fatalf("expected exitInternal for a missing contract, got %d", rc)
	}
}

func TestCallEntryRecordsInvocationOnFake(t *testing.T) {
	fake := rpcclient.NewFake()
	res, err := fake.Originate(nil, rpcclient.OriginateRequest{InitStorage: []byte(`"3"`)})
	if err != nil {
		t.Fatalf("seeding fake: %v", err)
	}
	rc := callEntry(fake, res.ContractAddress, "bump", "1", 0)
	if rc != exitOK {
		t.Fatalf("callEntry returned exit %d", rc)
	}
	if len(fake.Calls) != 1 {
		t.Fatalf("expected 1 recorded call, got %d", len(fake.Calls))
	}
	if fake.Calls[0].Entry != "bump" {
		t.Errorf("expected entry %q, got %q", "bump", fake.Calls[0].Entry)
	}
}

func TestCallEntryRejectsMalformedParam(t *testing.T) {
	fake := rpcclient.NewFake()
	rc := callEntry(fake, "KT1Whatever", "bump", "not a const(((", 0)
	if rc != exitUsage {
		t.Fatalf("expected exitUsage for a malformed literal, got %d", rc)
	}
}

func TestInjectOpAgainstFake(t *testing.T) {
	fake := rpcclient.NewFake()
	rc := injectOp(fake, []byte("signed-op-bytes"))
	if rc != exitOK {
		t.Fatalf("injectOp returned exit %d", rc)
	}
}

func TestRunDataPrintsParsedLiterals(t *testing.T) {
	rc := runData(config.Default(), cliFlags{}, []string{"bump", "1", "3"})
	if rc != exitOK {
		t.Fatalf("runData returned exit %d", rc)
	}
}

func TestOverridesFromOnlyCarriesFlagsExplicitlySet(t *testing.T) {
	fs := newTestFlagSet()
	var f cliFlags
	bindFlags(fs, &f)
	if err := fs.Parse([]string{"-json"}); err != nil {
		t.Fatalf("parsing flags: %v", err)
	}
	o := overridesFrom(fs, &f)
	if o.JSON == nil || !*o.JSON {
		t.Errorf("expected JSON override to be set true")
	}
	if o.Compact != nil {
		t.Errorf("expected Compact override to stay unset when -compact wasn't passed")
	}
}
