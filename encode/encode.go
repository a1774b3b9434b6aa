package encode

import (
	"github.com/chazu/clc/diag"
	"github.com/chazu/clc/env"
	"github.com/chazu/clc/ir"
)

// Run applies the full encode stage in order (§4.2): bigmap placement
// validation, entry-point dispatch synthesis, then closure lifting over
// the merged single-entry program. Dispatch synthesis runs before closure
// lifting because merging entries introduces the dispatch MatchVariant,
// whose case bodies may themselves contain lambdas that still need
// lifting.
func Run(c *ir.Contract, e *env.Env) (*ir.Contract, *diag.Bag) {
	bag := CheckBigMapPlacement(c)
	if bag.HasErrors() {
		return nil, bag
	}
	dispatched := SynthesizeDispatch(c, e)
	lifted := LiftClosures(dispatched)
	return lifted, bag
}
