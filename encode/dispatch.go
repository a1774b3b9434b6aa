package encode

import (
	"fmt"

	"github.com/chazu/clc/env"
	"github.com/chazu/clc/ir"
	"github.com/chazu/clc/loc"
	"github.com/chazu/clc/types"
)

// dispatchStorageName and dispatchParamName are the fresh names every
// synthesized entry point's body is rewritten to use once individual
// entries are merged into one dispatcher (§5.1). Every original entry's
// own ParamName/StorageName is renamed to these before its body is spliced
// into the match, so two entries that both happened to call their storage
// argument "s" don't collide once they share a single function body.
const (
	dispatchParamName   = "__dispatch_param"
	dispatchStorageName = "__dispatch_storage"
)

// SynthesizeDispatch merges every declared entry into a single
// (parameter, storage) -> (operations, storage) program: a variant type is
// registered with one constructor per entry (named after the entry, payload
// the entry's parameter type), and the merged body pattern-matches on it,
// renaming each entry's own parameter/storage names to the shared dispatch
// names before splicing its body in as that constructor's case (§3's
// "single field, called `parameter`, whose type is the union of every
// entry's own parameter type").
func SynthesizeDispatch(c *ir.Contract, e *env.Env) *ir.Contract {
	if len(c.Entries) == 1 {
		// Nothing to dispatch across; still normalize names for codegen's
		// benefit so downstream passes never special-case the arity-1 case.
		entry := c.Entries[0]
		body := ir.RenameVar(entry.Body, entry.ParamName, dispatchParamName)
		body = ir.RenameVar(body, entry.StorageName, dispatchStorageName)
		return &ir.Contract{
			Name: c.Name, Storage: c.Storage, Globals: c.Globals,
			Entries: []ir.Entry{{
				Name: entry.Name, ParamTy: entry.ParamTy,
				ParamName: dispatchParamName, StorageName: dispatchStorageName, Body: body,
			}},
		}
	}

	variantName := c.Name + "$entry"
	ctors := make([]types.Ctor, len(c.Entries))
	cases := make([]ir.MatchCase, len(c.Entries))
	for i, entry := range c.Entries {
		ctors[i] = types.Ctor{Name: entry.Name, Type: entry.ParamTy}

		body := ir.RenameVar(entry.Body, entry.ParamName, dispatchParamName)
		body = ir.RenameVar(body, entry.StorageName, dispatchStorageName)

		caseVar := fmt.Sprintf("%s_payload", entry.Name)
		body = ir.RenameVar(body, dispatchParamName, caseVar)
		cases[i] = ir.MatchCase{Ctor: entry.Name, Var: caseVar, Body: body}
	}
	e.RegisterVariant(variantName, ctors)

	paramTy := types.Variant(variantName)
	resultTy := types.Tuple(types.List(types.Operation), c.Storage)
	scrutinee := ir.New(ir.Var{Name: dispatchParamName}, paramTy, loc.Span{})
	match := ir.New(ir.MatchVariant{Scrutinee: scrutinee, Variant: variantName, Cases: cases}, resultTy, scrutinee.Loc)

	return &ir.Contract{
		Name: c.Name, Storage: c.Storage, Globals: c.Globals,
		Entries: []ir.Entry{{
			Name: "main", ParamTy: paramTy,
			ParamName: dispatchParamName, StorageName: dispatchStorageName, Body: match,
		}},
	}
}
