package interp

import "github.com/chazu/clc/types"

// matchRecordType looks for a registered record whose fields, in
// declaration order, have exactly these types — the structural test that
// resolves Pair/PairN's ambiguity between "anonymous tuple" and "named
// record construction," since M's PAIR carries no type name of its own.
// tys is given top-to-bottom (tys[0] is what ended up on top of stack),
// which is exactly declaration order per compilePairLike's convention
// that Fields[0] ends up on top.
func matchRecordType(names []string, fields func(string) ([]types.Field, bool), tys []*types.Type) (string, bool) {
	for _, name := range names {
		fs, ok := fields(name)
		if !ok || len(fs) != len(tys) {
			continue
		}
		match := true
		for i, f := range fs {
			if !types.Equal(f.Type, tys[i]) {
				match = false
				break
			}
		}
		if match {
			return name, true
		}
	}
	return "", false
}

// encodeVariantAsOr computes the KOr encoding a registered variant's
// constructors would compile to, right-associated exactly the way
// compileVariantCases nests IfLeft: the last two constructors (and every
// constructor after the first) live under the previous or's right arm.
func encodeVariantAsOr(ctors []types.Ctor) *types.Type {
	if len(ctors) == 1 {
		return ctors[0].Type
	}
	return types.Or(ctors[0].Type, encodeVariantAsOr(ctors[1:]))
}

// matchVariantType looks for a registered variant whose constructors
// encode to exactly ty (a KOr chain), giving the decompiler back the
// surface variant name and constructor names an IfLeft chain's payload
// types alone can't carry.
func matchVariantType(names []string, ctors func(string) ([]types.Ctor, bool), ty *types.Type) (string, []types.Ctor, bool) {
	for _, name := range names {
		cs, ok := ctors(name)
		if !ok || len(cs) < 2 {
			continue
		}
		if types.Equal(ty, encodeVariantAsOr(cs)) {
			return name, cs, true
		}
	}
	return "", nil, false
}

// decomposeOrChain walks a right-nested KOr type into its leaf payload
// types in left-to-right order — the arity and per-arm types an IfLeft
// chain must match, independent of whether any registered variant
// happens to describe the same shape.
func decomposeOrChain(ty *types.Type) []*types.Type {
	if ty == nil || ty.Kind != types.KOr {
		return []*types.Type{ty}
	}
	rest := decomposeOrChain(ty.OrRight())
	return append([]*types.Type{ty.OrLeft()}, rest...)
}
