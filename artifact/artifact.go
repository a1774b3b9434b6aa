// Package artifact implements §6's compile-artifact naming rules: given
// the path to a source file, it derives the sibling filenames the CLI
// writes and writes them, but never decides their content — that stays
// the caller's job (mtext.EncodeText/EncodeJSON, printer.PrintContract).
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format selects text or structured-JSON rendering, mirroring the two
// concrete forms §4.6's emitter produces for the same Program.
type Format int

const (
	Text Format = iota
	JSON
)

func (f Format) ext() string {
	if f == JSON {
		return ".tz.json"
	}
	return ".tz"
}

// stem strips the source file's own extension (".liq", or whatever it
// happens to be) so every derived name shares one base regardless of
// what the front end that produced the source called itself.
func stem(sourcePath string) string {
	return strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath))
}

// MainPath is where compiling sourcePath writes its primary output.
func MainPath(sourcePath string, f Format) string {
	return stem(sourcePath) + f.ext()
}

// SidecarPath is where the storage-initializer artifact goes.
// constant selects between the two forms §6 distinguishes: `.init.` when
// the encoder proved the storage's initial value a compile-time
// constant, `.initializer.` when it did not and the initializer must run
// on-chain at origination time.
func SidecarPath(sourcePath string, f Format, constant bool) string {
	tag := "initializer"
	if constant {
		tag = "init"
	}
	return stem(sourcePath) + "." + tag + f.ext()
}

// DecompilePath is where decompiling sourcePath (an M artifact) writes
// its recovered surface-syntax rendering.
func DecompilePath(sourcePath string) string {
	return stem(sourcePath) + ".tz.liq"
}

// IRPath is where --dump-ir writes a source file's intermediate-
// representation snapshot, alongside its compiled output rather than
// under a separate directory, so it survives the same cleanup a
// developer already does on the .tz/.tz.json it sits next to.
func IRPath(sourcePath string) string {
	return stem(sourcePath) + ".ir.cbor"
}

// Write is the one place this package touches a filesystem: every path
// helper above is pure, so a caller that only wants the name (to report
// it, or to check it against a golden file) never needs to write
// anything.
func Write(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("artifact: writing %s: %w", path, err)
	}
	return nil
}

// Set is the full complement of files one compile invocation may
// produce: the primary artifact, and — only when the contract's storage
// initializer isn't a compile-time constant, or is — its sidecar.
type Set struct {
	Main    string
	Sidecar string // empty when the caller chose not to emit one
}

// Compile derives the output paths a single `--compile` invocation over
// sourcePath writes, given whether its storage initializer turned out to
// be a compile-time constant.
func Compile(sourcePath string, f Format, constantStorage bool) Set {
	return Set{
		Main:    MainPath(sourcePath, f),
		Sidecar: SidecarPath(sourcePath, f, constantStorage),
	}
}

// WriteCompile writes main and sidecar (if non-empty) to disk.
func WriteCompile(set Set, main, sidecar []byte) error {
	if err := Write(set.Main, main); err != nil {
		return err
	}
	if set.Sidecar == "" {
		return nil
	}
	return Write(set.Sidecar, sidecar)
}
