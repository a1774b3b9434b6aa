// Package finalize runs the peephole and tail-fail passes that turn
// straightforwardly generated M into the code the emitter actually
// serializes: collapsing a handful of always-safe instruction pairs, then
// truncating every SEQ at the point past which nothing can execute.
package finalize

import "github.com/chazu/clc/instr"

// Run applies peephole rewriting to a fixpoint, then truncates every SEQ at
// its first tail-failing instruction. Order matters: peephole can expose
// new tail-fail opportunities (merging two DIPs can bring a FAILWITH into
// tail position that a merge boundary previously hid), but not the other
// way around, so a single peephole-then-truncate pass suffices.
func Run(seq instr.Seq) instr.Seq {
	seq = peephole(seq)
	seq = truncateFails(seq)
	return seq
}
