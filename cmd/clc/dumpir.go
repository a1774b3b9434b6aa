package main

import (
	"fmt"

	"github.com/chazu/clc/artifact"
	"github.com/chazu/clc/encode"
	"github.com/chazu/clc/ir/hash"
	"github.com/chazu/clc/printer"
	"github.com/fxamacker/cbor/v2"
)

// irCborEncMode uses cbor's canonical encoding options: deterministic map
// key ordering so two dumps of the same contract produce byte-identical
// files.
var irCborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("clc: failed to create CBOR enc mode: %v", err))
	}
	irCborEncMode = em
}

// irStage is one snapshot of a contract as it passes through the
// pipeline. The tree itself (*ir.Term's Desc is an interface, so it
// carries no CBOR-serializable shape of its own) is flattened to its
// printed rendering and its content hash rather than walked field by
// field — --dump-ir is a debugging aid, not a format other tools parse
// back in, so a stable readable string plus the same Key the compile
// cache keys on is more useful than a schema nobody but this file would
// ever decode.
type irStage struct {
	Stage string
	Text  string
	Hash  string
}

// dumpIR writes cd's post-encode and post-simplify snapshots to path's
// .ir.cbor sibling (§5's verbosity note: this is opt-in, not part of the
// default compile output).
func dumpIR(cd *compiled, path string) error {
	encoded, _ := encode.Run(cd.source, cd.env)
	stages := []irStage{
		{Stage: "encoded", Text: printer.PrintContract(encoded), Hash: hash.Contract(encoded).String()},
		{Stage: "simplified", Text: printer.PrintContract(cd.contract), Hash: hash.Contract(cd.contract).String()},
	}
	data, err := irCborEncMode.Marshal(stages)
	if err != nil {
		return fmt.Errorf("clc: encoding IR dump: %w", err)
	}
	return artifact.Write(artifact.IRPath(path), data)
}
