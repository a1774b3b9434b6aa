package mtext

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/chazu/clc/types"
)

// ConstText renders c in M's concrete literal syntax: ground values as a
// bare token (True/False/an integer/a quoted string/a 0x byte literal),
// everything else as a parenthesized keyword form carrying an explicit
// arity wherever the payload is a list, matching TypeText's pair
// convention so both grammars parse the same way.
func ConstText(c *types.Const) string {
	if c == nil {
		return "Unit"
	}
	switch c.Kind {
	case types.CUnit:
		return "Unit"
	case types.CBool:
		if c.Bool {
			return "True"
		}
		return "False"
	case types.CInt:
		return strconv.FormatInt(c.Int, 10)
	case types.CString:
		return strconv.Quote(c.Str)
	case types.CBytes:
		return "0x" + hex.EncodeToString(c.Bytes)
	case types.CTimestamp:
		return fmt.Sprintf("(Timestamp %d)", c.Int)
	case types.CKey:
		return fmt.Sprintf("(Key %s)", strconv.Quote(c.Str))
	case types.CKeyHash:
		return fmt.Sprintf("(KeyHash %s)", strconv.Quote(c.Str))
	case types.CSignature:
		return fmt.Sprintf("(Signature %s)", strconv.Quote(c.Str))
	case types.CAddress:
		return fmt.Sprintf("(Address %s)", strconv.Quote(c.Str))
	case types.CNone:
		return "None"
	case types.CSome:
		return "(Some " + ConstText(c.Inner) + ")"
	case types.CLeft:
		return "(Left" + labelSuffix(c.Field) + " " + ConstText(c.Inner) + ")"
	case types.CRight:
		return "(Right" + labelSuffix(c.Field) + " " + ConstText(c.Inner) + ")"
	case types.CTuple:
		return constListForm("Tuple", c.Elems)
	case types.CList:
		return constListForm("List", c.Elems)
	case types.CSet:
		return constListForm("Set", c.Elems)
	case types.CMap:
		return constMapForm("Map", c.Entries)
	case types.CBigMap:
		return "(BigMap)"
	case types.CRecord:
		return constRecordForm(c.Fields)
	case types.COperation:
		return "(Operation)"
	default:
		return "Unit"
	}
}

func labelSuffix(label string) string {
	if label == "" {
		return ""
	}
	return " %" + label
}

func constListForm(keyword string, elems []*types.Const) string {
	s := fmt.Sprintf("(%s %d", keyword, len(elems))
	for _, e := range elems {
		s += " " + ConstText(e)
	}
	return s + ")"
}

func constMapForm(keyword string, entries []types.MapEntry) string {
	s := fmt.Sprintf("(%s %d", keyword, len(entries))
	for _, e := range entries {
		s += " " + ConstText(e.Key) + " " + ConstText(e.Value)
	}
	return s + ")"
}

func constRecordForm(fields []types.RecordField) string {
	s := fmt.Sprintf("(Record %d", len(fields))
	for _, f := range fields {
		s += " %" + f.Name + " " + ConstText(f.Value)
	}
	return s + ")"
}

// ParseConst parses one M literal from src.
func ParseConst(src string) (*types.Const, error) {
	ts := newTokenStream(src)
	c, err := parseConst(ts)
	if err != nil {
		return nil, err
	}
	tok, err := ts.peekTok()
	if err != nil {
		return nil, err
	}
	if tok.kind != tokEOF {
		return nil, fmt.Errorf("mtext: trailing input after constant at %d", tok.pos)
	}
	return c, nil
}

func parseConst(ts *tokenStream) (*types.Const, error) {
	tok, err := ts.advance()
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokNumber:
		n, err := strconv.ParseInt(tok.text, 10, 64)
		if err != nil {
			return nil, err
		}
		return types.Int_(n), nil
	case tokString:
		return types.String_(tok.text), nil
	case tokBytes:
		raw, err := hex.DecodeString(tok.text[2:])
		if err != nil {
			return nil, fmt.Errorf("mtext: bad byte literal %q: %w", tok.text, err)
		}
		return types.Bytes_(raw), nil
	case tokIdent:
		switch tok.text {
		case "Unit":
			return types.Unit_(), nil
		case "True":
			return types.Bool_(true), nil
		case "False":
			return types.Bool_(false), nil
		case "None":
			return types.None_(), nil
		default:
			return nil, fmt.Errorf("mtext: unknown constant keyword %q at %d", tok.text, tok.pos)
		}
	case tokLParen:
		c, err := parseParenConst(ts)
		if err != nil {
			return nil, err
		}
		if _, err := ts.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("mtext: expected a constant at %d, got %q", tok.pos, tok.text)
	}
}

func parseParenConst(ts *tokenStream) (*types.Const, error) {
	head, err := ts.expect(tokIdent, "a constant keyword")
	if err != nil {
		return nil, err
	}
	switch head.text {
	case "Some":
		inner, err := parseConst(ts)
		if err != nil {
			return nil, err
		}
		return types.Some_(inner), nil
	case "Left", "Right":
		label, err := maybeLabel(ts)
		if err != nil {
			return nil, err
		}
		inner, err := parseConst(ts)
		if err != nil {
			return nil, err
		}
		if head.text == "Left" {
			return types.Left_(label, inner), nil
		}
		return types.Right_(label, inner), nil
	case "Timestamp":
		n, err := parseArityInt(ts)
		if err != nil {
			return nil, err
		}
		return &types.Const{Kind: types.CTimestamp, Int: int64(n)}, nil
	case "Key", "KeyHash", "Signature", "Address":
		strTok, err := ts.expect(tokString, "a string")
		if err != nil {
			return nil, err
		}
		return &types.Const{Kind: opaqueStrKind(head.text), Str: strTok.text}, nil
	case "Tuple", "List", "Set":
		n, err := parseArityInt(ts)
		if err != nil {
			return nil, err
		}
		elems := make([]*types.Const, n)
		for i := range elems {
			elems[i], err = parseConst(ts)
			if err != nil {
				return nil, err
			}
		}
		return &types.Const{Kind: listConstKind(head.text), Elems: elems}, nil
	case "Map":
		n, err := parseArityInt(ts)
		if err != nil {
			return nil, err
		}
		entries := make([]types.MapEntry, n)
		for i := range entries {
			k, err := parseConst(ts)
			if err != nil {
				return nil, err
			}
			v, err := parseConst(ts)
			if err != nil {
				return nil, err
			}
			entries[i] = types.MapEntry{Key: k, Value: v}
		}
		return &types.Const{Kind: types.CMap, Entries: entries}, nil
	case "BigMap":
		return &types.Const{Kind: types.CBigMap}, nil
	case "Record":
		n, err := parseArityInt(ts)
		if err != nil {
			return nil, err
		}
		fields := make([]types.RecordField, n)
		for i := range fields {
			label, err := ts.expect(tokIdent, "a %field label")
			if err != nil {
				return nil, err
			}
			v, err := parseConst(ts)
			if err != nil {
				return nil, err
			}
			name := label.text
			if len(name) > 0 && name[0] == '%' {
				name = name[1:]
			}
			fields[i] = types.RecordField{Name: name, Value: v}
		}
		return &types.Const{Kind: types.CRecord, Fields: fields}, nil
	case "Operation":
		return &types.Const{Kind: types.COperation}, nil
	default:
		return nil, fmt.Errorf("mtext: unknown constant form %q", head.text)
	}
}

// maybeLabel consumes an optional %ctor label that precedes a Left/Right
// payload.
func maybeLabel(ts *tokenStream) (string, error) {
	tok, err := ts.peekTok()
	if err != nil {
		return "", err
	}
	if tok.kind == tokIdent && len(tok.text) > 0 && tok.text[0] == '%' {
		ts.advance()
		return tok.text[1:], nil
	}
	return "", nil
}

func opaqueStrKind(keyword string) types.ConstKind {
	switch keyword {
	case "Key":
		return types.CKey
	case "KeyHash":
		return types.CKeyHash
	case "Signature":
		return types.CSignature
	default:
		return types.CAddress
	}
}

func listConstKind(keyword string) types.ConstKind {
	switch keyword {
	case "Tuple":
		return types.CTuple
	case "List":
		return types.CList
	default:
		return types.CSet
	}
}
