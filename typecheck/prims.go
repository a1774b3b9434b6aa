package typecheck

import "github.com/chazu/clc/types"

// primSig describes one primitive's arity and how to compute its result
// type from already-inferred argument types. Comparison and arithmetic
// primitives that are polymorphic over int/nat/tez are resolved by argType,
// matching §3's fixed primitive vocabulary.
type primSig struct {
	arity  int
	result func(args []*types.Type) (*types.Type, bool)
}

func sameNumeric(a, b *types.Type) bool {
	return a.IsInteger() && types.Equal(a, b)
}

var prims = map[string]primSig{
	"add": {2, func(a []*types.Type) (*types.Type, bool) {
		if sameNumeric(a[0], a[1]) {
			return a[0], true
		}
		if types.Equal(a[0], types.Tez) && types.Equal(a[1], types.Tez) {
			return types.Tez, true
		}
		if types.Equal(a[0], types.Timestamp) && types.Equal(a[1], types.Int) {
			return types.Timestamp, true
		}
		return nil, false
	}},
	"sub": {2, func(a []*types.Type) (*types.Type, bool) {
		if a[0].IsInteger() && a[1].IsInteger() {
			return types.Int, true // subtraction always widens to int (§4.4)
		}
		if types.Equal(a[0], types.Tez) && types.Equal(a[1], types.Tez) {
			return types.Tez, true
		}
		return nil, false
	}},
	"mul": {2, func(a []*types.Type) (*types.Type, bool) {
		if sameNumeric(a[0], a[1]) {
			return a[0], true
		}
		if (types.Equal(a[0], types.Nat) && types.Equal(a[1], types.Tez)) ||
			(types.Equal(a[0], types.Tez) && types.Equal(a[1], types.Nat)) {
			return types.Tez, true
		}
		return nil, false
	}},
	"div":     {2, arithResultAsOption},
	"mod":     {2, arithResultAsOption},
	"neg":     {1, func(a []*types.Type) (*types.Type, bool) { return types.Int, a[0].IsInteger() }},
	"abs":     {1, func(a []*types.Type) (*types.Type, bool) { return types.Nat, types.Equal(a[0], types.Int) }},
	"isnat":   {1, func(a []*types.Type) (*types.Type, bool) { return types.Option(types.Nat), types.Equal(a[0], types.Int) }},
	"int_of":  {1, func(a []*types.Type) (*types.Type, bool) { return types.Int, types.Equal(a[0], types.Nat) }},
	"and":     {2, boolOrBitwise},
	"or":      {2, boolOrBitwise},
	"xor":     {2, boolOrBitwise},
	"not":     {1, func(a []*types.Type) (*types.Type, bool) {
		if types.Equal(a[0], types.Bool) {
			return types.Bool, true
		}
		if a[0].IsInteger() {
			return types.Int, true
		}
		return nil, false
	}},
	"eq":  {2, cmpResult},
	"neq": {2, cmpResult},
	"lt":  {2, cmpResult},
	"le":  {2, cmpResult},
	"gt":  {2, cmpResult},
	"ge":  {2, cmpResult},
	"compare": {2, func(a []*types.Type) (*types.Type, bool) {
		if types.Equal(a[0], a[1]) {
			return types.Int, true
		}
		return nil, false
	}},
	"concat": {2, func(a []*types.Type) (*types.Type, bool) {
		if types.Equal(a[0], types.String) && types.Equal(a[1], types.String) {
			return types.String, true
		}
		if types.Equal(a[0], types.Bytes) && types.Equal(a[1], types.Bytes) {
			return types.Bytes, true
		}
		return nil, false
	}},
	"size": {1, func(a []*types.Type) (*types.Type, bool) {
		switch a[0].Kind {
		case types.KList, types.KSet, types.KMap, types.KString, types.KBytes:
			return types.Nat, true
		}
		return nil, false
	}},
	"sha256":          {1, hashOf(types.Bytes, types.Bytes)},
	"sha512":          {1, hashOf(types.Bytes, types.Bytes)},
	"sha3":            {1, hashOf(types.Bytes, types.Bytes)},
	"keccak":          {1, hashOf(types.Bytes, types.Bytes)},
	"blake2b":         {1, hashOf(types.Bytes, types.Bytes)},
	"hash_key":        {1, hashOf(types.Key, types.KeyHash)},
	"check_signature": {3, func(a []*types.Type) (*types.Type, bool) {
		if types.Equal(a[0], types.Key) && types.Equal(a[1], types.Signature) && types.Equal(a[2], types.Bytes) {
			return types.Bool, true
		}
		return nil, false
	}},
	"address_of": {1, func(a []*types.Type) (*types.Type, bool) {
		if a[0].Kind == types.KContract {
			return types.Address, true
		}
		return nil, false
	}},
	"implicit_account": {1, func(a []*types.Type) (*types.Type, bool) {
		if types.Equal(a[0], types.KeyHash) {
			return types.Contract(types.Unit), true
		}
		return nil, false
	}},
	// Nullary environment reads (§3's implicit context values); modeled as
	// zero-argument Apply so they share the same node shape as everything
	// else, rather than adding a dedicated Term variant for each one.
	"self":    {0, constResult(types.Address)},
	"sender":  {0, constResult(types.Address)},
	"source":  {0, constResult(types.Address)},
	"amount":  {0, constResult(types.Tez)},
	"balance": {0, constResult(types.Tez)},
	"now":     {0, constResult(types.Timestamp)},
	"level":   {0, constResult(types.Nat)},
	"chain_id": {0, constResult(types.Bytes)},
	// exec invokes a first-class function value: args are (arg, fn), matching
	// M's EXEC stack order (arg pushed, then the lambda/closure beneath it).
	"exec": {2, func(a []*types.Type) (*types.Type, bool) {
		switch a[1].Kind {
		case types.KLambda:
			if types.Equal(a[1].Arg, a[0]) {
				return a[1].Res, true
			}
		case types.KClosure:
			if types.Equal(a[1].Arg, a[0]) {
				return a[1].Res, true
			}
		}
		return nil, false
	}},
	// mem/get/update give direct set/map/bigmap access outside fold/map
	// (§4.4's collection primitives beyond iteration).
	"mem": {2, func(a []*types.Type) (*types.Type, bool) {
		switch a[1].Kind {
		case types.KSet:
			return types.Bool, types.Equal(a[0], a[1].Elem)
		case types.KMap, types.KBigMap:
			return types.Bool, types.Equal(a[0], a[1].Key)
		}
		return nil, false
	}},
	"get": {2, func(a []*types.Type) (*types.Type, bool) {
		switch a[1].Kind {
		case types.KMap, types.KBigMap:
			if types.Equal(a[0], a[1].Key) {
				return types.Option(a[1].Value), true
			}
		}
		return nil, false
	}},
	"update": {3, func(a []*types.Type) (*types.Type, bool) {
		switch a[2].Kind {
		case types.KSet:
			if types.Equal(a[0], a[2].Elem) && types.Equal(a[1], types.Bool) {
				return a[2], true
			}
		case types.KMap, types.KBigMap:
			if types.Equal(a[0], a[2].Key) && types.Equal(a[1], types.Option(a[2].Value)) {
				return a[2], true
			}
		}
		return nil, false
	}},
}

// PrimResultType exposes the primitive signature table to callers outside
// this package. The decompiler is the one other consumer: M's arithmetic
// and comparison instructions carry no result-type annotation of their
// own, so recovering an Apply node's type has to run the same signature
// resolution forward from its already-known argument types instead of
// duplicating this table.
func PrimResultType(name string, args []*types.Type) (*types.Type, bool) {
	sig, ok := prims[name]
	if !ok || sig.arity != len(args) {
		return nil, false
	}
	return sig.result(args)
}

func constResult(t *types.Type) func([]*types.Type) (*types.Type, bool) {
	return func([]*types.Type) (*types.Type, bool) { return t, true }
}

func hashOf(in, out *types.Type) func([]*types.Type) (*types.Type, bool) {
	return func(a []*types.Type) (*types.Type, bool) {
		if types.Equal(a[0], in) {
			return out, true
		}
		return nil, false
	}
}

func arithResultAsOption(a []*types.Type) (*types.Type, bool) {
	if !a[0].IsInteger() || !a[1].IsInteger() {
		return nil, false
	}
	if types.Equal(a[0], types.Nat) && types.Equal(a[1], types.Nat) {
		return types.Option(types.Tuple(types.Nat, types.Nat)), true
	}
	return types.Option(types.Tuple(types.Int, types.Nat)), true
}

func boolOrBitwise(a []*types.Type) (*types.Type, bool) {
	if types.Equal(a[0], types.Bool) && types.Equal(a[1], types.Bool) {
		return types.Bool, true
	}
	if a[0].IsInteger() && a[1].IsInteger() {
		return types.Nat, true
	}
	return nil, false
}

func cmpResult(a []*types.Type) (*types.Type, bool) {
	if types.Equal(a[0], a[1]) {
		return types.Bool, true
	}
	return nil, false
}
