package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultHasPeepholeOnAndMainnet(t *testing.T) {
	c := Default()
	if !c.Peephole {
		t.Error("expected peephole enabled by default")
	}
	if c.Protocol != "mainnet" {
		t.Errorf("expected mainnet default protocol, got %q", c.Protocol)
	}
	if c.MainEntry != "main" {
		t.Errorf("expected default entry name main, got %q", c.MainEntry)
	}
}

func TestLoadAppliesFileOverDefault(t *testing.T) {
	dir := t.TempDir()
	toml := "protocol = \"zeronet\"\npeephole = false\n"
	if err := os.WriteFile(filepath.Join(dir, "clc.toml"), []byte(toml), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Protocol != "zeronet" {
		t.Errorf("expected file's protocol to win, got %q", c.Protocol)
	}
	if c.Peephole {
		t.Error("expected file's peephole=false to win")
	}
	if c.MainEntry != "main" {
		t.Errorf("expected untouched fields to keep their default, got %q", c.MainEntry)
	}
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	dir := t.TempDir()
	c, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != Default() {
		t.Errorf("expected Default() for a missing clc.toml, got %+v", c)
	}
}

func TestOverridesWinOverFile(t *testing.T) {
	dir := t.TempDir()
	toml := "protocol = \"zeronet\"\n"
	if err := os.WriteFile(filepath.Join(dir, "clc.toml"), []byte(toml), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	flag := "alphanet"
	c = c.WithOverrides(Overrides{Protocol: &flag})
	if c.Protocol != "alphanet" {
		t.Errorf("expected the CLI flag to win over the file, got %q", c.Protocol)
	}
}

func TestFindAndLoadWalksUpToProjectRoot(t *testing.T) {
	root := t.TempDir()
	toml := "main = \"entry\"\n"
	if err := os.WriteFile(filepath.Join(root, "clc.toml"), []byte(toml), 0o644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	c, err := FindAndLoad(nested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.MainEntry != "entry" {
		t.Errorf("expected the ancestor clc.toml to be found, got %q", c.MainEntry)
	}
}
