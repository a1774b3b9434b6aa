// Package typecheck implements §4.1: bidirectional inference over the
// untyped surface tree, producing the canonical typed IR (package ir),
// plus the effect (transfer) analysis and let-binding use-counting that
// feed the simplifier and encoder.
package typecheck

import (
	"fmt"

	"github.com/chazu/clc/env"
	"github.com/chazu/clc/surfaceast"
	"github.com/chazu/clc/types"
)

// resolveType converts a surface type annotation into the closed type
// algebra, resolving named record/variant references against env. Ground
// type names are matched against §3's fixed ground-type vocabulary.
func resolveType(te *surfaceast.TypeExpr, e *env.Env) (*types.Type, error) {
	if te == nil {
		return nil, fmt.Errorf("missing type annotation")
	}
	switch te.Kind {
	case "unit":
		return types.Unit, nil
	case "bool":
		return types.Bool, nil
	case "int":
		return types.Int, nil
	case "nat":
		return types.Nat, nil
	case "tez":
		return types.Tez, nil
	case "string":
		return types.String, nil
	case "bytes":
		return types.Bytes, nil
	case "timestamp":
		return types.Timestamp, nil
	case "key":
		return types.Key, nil
	case "key_hash":
		return types.KeyHash, nil
	case "signature":
		return types.Signature, nil
	case "operation":
		return types.Operation, nil
	case "address":
		return types.Address, nil
	case "tuple":
		elems := make([]*types.Type, len(te.Elems))
		for i, el := range te.Elems {
			t, err := resolveType(el, e)
			if err != nil {
				return nil, err
			}
			elems[i] = t
		}
		return types.Tuple(elems...), nil
	case "option":
		inner, err := resolveType(te.Elem, e)
		if err != nil {
			return nil, err
		}
		return types.Option(inner), nil
	case "or":
		if len(te.Elems) != 2 {
			return nil, fmt.Errorf("or type needs exactly two elems, got %d", len(te.Elems))
		}
		l, err := resolveType(te.Elems[0], e)
		if err != nil {
			return nil, err
		}
		r, err := resolveType(te.Elems[1], e)
		if err != nil {
			return nil, err
		}
		return types.Or(l, r), nil
	case "list":
		inner, err := resolveType(te.Elem, e)
		if err != nil {
			return nil, err
		}
		return types.List(inner), nil
	case "set":
		inner, err := resolveType(te.Elem, e)
		if err != nil {
			return nil, err
		}
		return types.Set(inner), nil
	case "map":
		k, err := resolveType(te.Key, e)
		if err != nil {
			return nil, err
		}
		v, err := resolveType(te.Value, e)
		if err != nil {
			return nil, err
		}
		return types.Map(k, v), nil
	case "bigmap":
		k, err := resolveType(te.Key, e)
		if err != nil {
			return nil, err
		}
		v, err := resolveType(te.Value, e)
		if err != nil {
			return nil, err
		}
		return types.BigMap(k, v), nil
	case "contract":
		inner, err := resolveType(te.Elem, e)
		if err != nil {
			return nil, err
		}
		return types.Contract(inner), nil
	case "lambda":
		arg, err := resolveType(te.Arg, e)
		if err != nil {
			return nil, err
		}
		res, err := resolveType(te.Res, e)
		if err != nil {
			return nil, err
		}
		return types.Lambda(arg, res), nil
	case "record":
		if _, ok := e.RecordFields(te.Name); !ok {
			return nil, fmt.Errorf("unknown record type %q", te.Name)
		}
		return types.Record(te.Name), nil
	case "variant":
		if _, ok := e.VariantCtors(te.Name); !ok {
			return nil, fmt.Errorf("unknown variant type %q", te.Name)
		}
		return types.Variant(te.Name), nil
	default:
		return nil, fmt.Errorf("unknown type kind %q", te.Kind)
	}
}
