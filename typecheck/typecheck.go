package typecheck

import (
	"github.com/chazu/clc/diag"
	"github.com/chazu/clc/env"
	"github.com/chazu/clc/ir"
	"github.com/chazu/clc/loc"
	"github.com/chazu/clc/surfaceast"
	"github.com/chazu/clc/types"
)

// Check typechecks a whole surface program, returning the typed IR
// contract, the environment its record/variant registries were built in
// (encode and codegen resolve record/variant types by name against this
// same environment, since a Record/Variant types.Type carries only a
// name), and every diagnostic accumulated along the way (§4.1's
// Lifecycle). A non-empty error-severity set of diagnostics means the
// returned contract is not safe to hand to encode.
func Check(prog *surfaceast.Program) (*ir.Contract, *env.Env, *diag.Bag) {
	e := env.New()
	bag := diag.New()
	c := &checker{env: e, bag: bag}

	for _, td := range prog.TypeDecls {
		switch td.Kind {
		case "record":
			fields := make([]types.Field, len(td.Fields))
			for i, f := range td.Fields {
				t, err := resolveType(f.Type, e)
				if err != nil {
					bag.Errorf(diag.Semantic, loc.Span{}, "record %q field %q: %v", td.Name, f.Name, err)
					t = types.Unit
				}
				fields[i] = types.Field{Name: f.Name, Type: t}
			}
			e.RegisterRecord(td.Name, fields)
		case "variant":
			ctors := make([]types.Ctor, len(td.Fields))
			for i, f := range td.Fields {
				t, err := resolveType(f.Type, e)
				if err != nil {
					bag.Errorf(diag.Semantic, loc.Span{}, "variant %q constructor %q: %v", td.Name, f.Name, err)
					t = types.Unit
				}
				ctors[i] = types.Ctor{Name: f.Name, Type: t}
			}
			e.RegisterVariant(td.Name, ctors)
		default:
			bag.Errorf(diag.Semantic, loc.Span{}, "unknown type_decl kind %q", td.Kind)
		}
	}

	storageTy, err := resolveType(prog.StorageType, e)
	if err != nil {
		bag.Errorf(diag.Semantic, loc.Span{}, "storage type: %v", err)
		storageTy = types.Unit
	}

	contract := &ir.Contract{Name: prog.ContractName, Storage: storageTy}

	for _, g := range prog.Globals {
		term := c.infer(g.Value)
		e.Bind(g.Name, term.Ty)
		contract.Globals = append(contract.Globals, ir.GlobalBinding{Name: g.Name, Value: term})
	}

	for _, en := range prog.Entries {
		paramTy, err := resolveType(en.ParamType, e)
		if err != nil {
			bag.Errorf(diag.Semantic, loc.Span{}, "entry %q param type: %v", en.Name, err)
			paramTy = types.Unit
		}
		e.Push()
		e.Bind(en.ParamName, paramTy)
		e.Bind(en.StorageName, storageTy)
		expected := types.Tuple(types.List(types.Operation), storageTy)
		body := c.check(en.Body, expected)
		e.Pop()
		contract.Entries = append(contract.Entries, ir.Entry{
			Name: en.Name, ParamTy: paramTy, ParamName: en.ParamName,
			StorageName: en.StorageName, Body: body,
		})
	}

	countUses(contract)

	return contract, e, bag
}
