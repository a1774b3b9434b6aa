// Package config implements §9's design note: every CLI flag and
// environment default collapses into one immutable Config value, built
// once at startup and threaded explicitly through the pipeline rather
// than read back out of a package global anywhere downstream.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the fully-resolved bundle every pipeline call and CLI command
// takes as an argument (§10.2).
type Config struct {
	Verbose   bool
	JSON      bool
	Peephole  bool
	Protocol  string
	OutPath   string
	TypeOnly  bool
	ParseOnly bool
	Compact   bool
	MainEntry string
	NoCache   bool
}

// Default returns the bundle's zero-file, zero-flag baseline.
func Default() Config {
	return Config{
		Peephole:  true,
		Protocol:  "mainnet",
		MainEntry: "main",
	}
}

// fileConfig is the on-disk shape of a clc.toml project file. Every field
// is a pointer so an absent key in the file leaves Default()'s value (or
// a still-earlier file's value) untouched rather than zeroing it.
type fileConfig struct {
	Peephole  *bool   `toml:"peephole"`
	Protocol  *string `toml:"protocol"`
	OutPath   *string `toml:"out"`
	Compact   *bool   `toml:"compact"`
	MainEntry *string `toml:"main"`
	NoCache   *bool   `toml:"no_cache"`
}

func (f fileConfig) applyTo(c Config) Config {
	if f.Peephole != nil {
		c.Peephole = *f.Peephole
	}
	if f.Protocol != nil {
		c.Protocol = *f.Protocol
	}
	if f.OutPath != nil {
		c.OutPath = *f.OutPath
	}
	if f.Compact != nil {
		c.Compact = *f.Compact
	}
	if f.MainEntry != nil {
		c.MainEntry = *f.MainEntry
	}
	if f.NoCache != nil {
		c.NoCache = *f.NoCache
	}
	return c
}

// Load reads clc.toml from dir, if present, layered over Default(). A
// missing file is not an error — most invocations have no project file
// at all — but a malformed one is.
func Load(dir string) (Config, error) {
	c := Default()
	path := filepath.Join(dir, "clc.toml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("config: cannot read %s: %w", path, err)
	}
	var f fileConfig
	if err := toml.Unmarshal(data, &f); err != nil {
		return c, fmt.Errorf("config: parse error in %s: %w", path, err)
	}
	return f.applyTo(c), nil
}

// FindAndLoad walks up from startDir looking for a clc.toml, the same
// nearest-ancestor search a project manifest uses, and loads the first
// one found. Config.Default() is returned unchanged if none exists
// anywhere above startDir.
func FindAndLoad(startDir string) (Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return Default(), err
	}
	for {
		path := filepath.Join(dir, "clc.toml")
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}

// Overrides carries only the flags a CLI invocation actually set; nil
// fields leave whatever Load produced untouched. CLI flags always win
// over a project file (§10.2), which is exactly what applying Overrides
// after Load achieves.
type Overrides struct {
	Verbose   *bool
	JSON      *bool
	Peephole  *bool
	Protocol  *string
	OutPath   *string
	TypeOnly  *bool
	ParseOnly *bool
	Compact   *bool
	MainEntry *string
	NoCache   *bool
}

// WithOverrides returns c with every set field in o applied on top.
func (c Config) WithOverrides(o Overrides) Config {
	if o.Verbose != nil {
		c.Verbose = *o.Verbose
	}
	if o.JSON != nil {
		c.JSON = *o.JSON
	}
	if o.Peephole != nil {
		c.Peephole = *o.Peephole
	}
	if o.Protocol != nil {
		c.Protocol = *o.Protocol
	}
	if o.OutPath != nil {
		c.OutPath = *o.OutPath
	}
	if o.TypeOnly != nil {
		c.TypeOnly = *o.TypeOnly
	}
	if o.ParseOnly != nil {
		c.ParseOnly = *o.ParseOnly
	}
	if o.Compact != nil {
		c.Compact = *o.Compact
	}
	if o.MainEntry != nil {
		c.MainEntry = *o.MainEntry
	}
	if o.NoCache != nil {
		c.NoCache = *o.NoCache
	}
	return c
}

// ValidProtocol reports whether p is one of the three recognized
// protocol selectors (§6).
func ValidProtocol(p string) bool {
	switch p {
	case "mainnet", "zeronet", "alphanet":
		return true
	default:
		return false
	}
}
