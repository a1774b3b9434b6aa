package artifact

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMainPathTextAndJSON(t *testing.T) {
	if got := MainPath("wallet.liq", Text); got != "wallet.tz" {
		t.Errorf("expected wallet.tz, got %s", got)
	}
	if got := MainPath("wallet.liq", JSON); got != "wallet.tz.json" {
		t.Errorf("expected wallet.tz.json, got %s", got)
	}
}

func TestSidecarPathPicksInitOrInitializer(t *testing.T) {
	if got := SidecarPath("wallet.liq", Text, true); got != "wallet.init.tz" {
		t.Errorf("expected wallet.init.tz for constant storage, got %s", got)
	}
	if got := SidecarPath("wallet.liq", Text, false); got != "wallet.initializer.tz" {
		t.Errorf("expected wallet.initializer.tz for non-constant storage, got %s", got)
	}
	if got := SidecarPath("wallet.liq", JSON, false); got != "wallet.initializer.tz.json" {
		t.Errorf("expected wallet.initializer.tz.json, got %s", got)
	}
}

func TestDecompilePathAddsLiqSuffix(t *testing.T) {
	if got := DecompilePath("wallet.tz"); got != "wallet.tz.liq" {
		t.Errorf("expected wallet.tz.liq, got %s", got)
	}
}

func TestWriteCompileWritesBothFiles(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "wallet.liq")
	set := Compile(src, Text, false)
	if err := WriteCompile(set, []byte("code"), []byte("init")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	main, err := os.ReadFile(set.Main)
	if err != nil || string(main) != "code" {
		t.Fatalf("expected main artifact content 'code', got %q (err=%v)", main, err)
	}
	sidecar, err := os.ReadFile(set.Sidecar)
	if err != nil || string(sidecar) != "init" {
		t.Fatalf("expected sidecar content 'init', got %q (err=%v)", sidecar, err)
	}
}

func TestWriteCompileSkipsEmptySidecar(t *testing.T) {
	dir := t.TempDir()
	set := Set{Main: filepath.Join(dir, "wallet.tz")}
	if err := WriteCompile(set, []byte("code"), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the main artifact to be written, found %d files", len(entries))
	}
}
