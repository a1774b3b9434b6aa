package mtext

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chazu/clc/types"
)

var groundTypeText = map[string]*types.Type{
	"unit": types.Unit, "bool": types.Bool, "int": types.Int, "nat": types.Nat,
	"tez": types.Tez, "string": types.String, "bytes": types.Bytes,
	"timestamp": types.Timestamp, "key": types.Key, "key_hash": types.KeyHash,
	"signature": types.Signature, "operation": types.Operation, "address": types.Address,
}

// TypeText renders t in M's concrete type syntax: ground types by keyword,
// compound types as a constructor keyword followed by its argument types
// (parenthesized whenever an argument is itself compound, matching real
// stack-machine assembly's own type grammar), and pair with an explicit
// arity so an N-ary tuple parses without needing right-nested pairs.
func TypeText(t *types.Type) string {
	if t == nil {
		return "unit"
	}
	switch t.Kind {
	case types.KTuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = typeArgText(e)
		}
		return fmt.Sprintf("pair %d %s", len(t.Elems), strings.Join(parts, " "))
	case types.KOption:
		return "option " + typeArgText(t.Elem)
	case types.KOr:
		return "or " + typeArgText(t.Elems[0]) + " " + typeArgText(t.Elems[1])
	case types.KList:
		return "list " + typeArgText(t.Elem)
	case types.KSet:
		return "set " + typeArgText(t.Elem)
	case types.KMap:
		return "map " + typeArgText(t.Key) + " " + typeArgText(t.Value)
	case types.KBigMap:
		return "bigmap " + typeArgText(t.Key) + " " + typeArgText(t.Value)
	case types.KContract:
		return "contract " + typeArgText(t.Elem)
	case types.KLambda:
		return "lambda " + typeArgText(t.Arg) + " " + typeArgText(t.Res)
	case types.KClosure:
		return "closure " + typeArgText(t.Arg) + " " + typeArgText(t.Res) + " " + typeArgText(t.Env)
	case types.KRecord:
		return "record " + t.Name
	case types.KVariant:
		return "variant " + t.Name
	default:
		if name, ok := groundTypeKeyword(t.Kind); ok {
			return name
		}
		return "unit"
	}
}

func groundTypeKeyword(k types.Kind) (string, bool) {
	for name, ty := range groundTypeText {
		if ty.Kind == k {
			return name, true
		}
	}
	return "", false
}

// typeArgText parenthesizes any compound type used as an argument to
// another type constructor; ground types and named record/variant
// references never need it.
func typeArgText(t *types.Type) string {
	text := TypeText(t)
	if strings.ContainsRune(text, ' ') {
		return "(" + text + ")"
	}
	return text
}

// ParseType parses one M type from src, expecting src to be exactly one
// well-formed type with nothing trailing.
func ParseType(src string) (*types.Type, error) {
	ts := newTokenStream(src)
	t, err := parseType(ts)
	if err != nil {
		return nil, err
	}
	tok, err := ts.peekTok()
	if err != nil {
		return nil, err
	}
	if tok.kind != tokEOF {
		return nil, fmt.Errorf("mtext: trailing input after type at %d", tok.pos)
	}
	return t, nil
}

func parseType(ts *tokenStream) (*types.Type, error) {
	tok, err := ts.advance()
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokLParen:
		t, err := parseType(ts)
		if err != nil {
			return nil, err
		}
		if _, err := ts.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return t, nil
	case tokIdent:
		return parseTypeKeyword(ts, tok.text)
	default:
		return nil, fmt.Errorf("mtext: expected a type at %d, got %q", tok.pos, tok.text)
	}
}

func parseTypeKeyword(ts *tokenStream, name string) (*types.Type, error) {
	if t, ok := groundTypeText[name]; ok {
		return t, nil
	}
	switch name {
	case "option":
		e, err := parseType(ts)
		if err != nil {
			return nil, err
		}
		return types.Option(e), nil
	case "list":
		e, err := parseType(ts)
		if err != nil {
			return nil, err
		}
		return types.List(e), nil
	case "set":
		e, err := parseType(ts)
		if err != nil {
			return nil, err
		}
		return types.Set(e), nil
	case "contract":
		e, err := parseType(ts)
		if err != nil {
			return nil, err
		}
		return types.Contract(e), nil
	case "map", "bigmap":
		k, err := parseType(ts)
		if err != nil {
			return nil, err
		}
		v, err := parseType(ts)
		if err != nil {
			return nil, err
		}
		if name == "map" {
			return types.Map(k, v), nil
		}
		return types.BigMap(k, v), nil
	case "or":
		l, err := parseType(ts)
		if err != nil {
			return nil, err
		}
		r, err := parseType(ts)
		if err != nil {
			return nil, err
		}
		return types.Or(l, r), nil
	case "lambda":
		a, err := parseType(ts)
		if err != nil {
			return nil, err
		}
		r, err := parseType(ts)
		if err != nil {
			return nil, err
		}
		return types.Lambda(a, r), nil
	case "closure":
		a, err := parseType(ts)
		if err != nil {
			return nil, err
		}
		r, err := parseType(ts)
		if err != nil {
			return nil, err
		}
		e, err := parseType(ts)
		if err != nil {
			return nil, err
		}
		return types.Closure(a, r, e), nil
	case "pair":
		n, err := parseArityInt(ts)
		if err != nil {
			return nil, err
		}
		elems := make([]*types.Type, n)
		for i := range elems {
			elems[i], err = parseType(ts)
			if err != nil {
				return nil, err
			}
		}
		return types.Tuple(elems...), nil
	case "record":
		nameTok, err := ts.expect(tokIdent, "a record name")
		if err != nil {
			return nil, err
		}
		return types.Record(nameTok.text), nil
	case "variant":
		nameTok, err := ts.expect(tokIdent, "a variant name")
		if err != nil {
			return nil, err
		}
		return types.Variant(nameTok.text), nil
	default:
		return nil, fmt.Errorf("mtext: unknown type keyword %q", name)
	}
}

func parseArityInt(ts *tokenStream) (int, error) {
	tok, err := ts.expect(tokNumber, "an arity")
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(tok.text)
}
