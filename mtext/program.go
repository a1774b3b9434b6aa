package mtext

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/chazu/clc/instr"
	"github.com/chazu/clc/types"
)

// Program is the fully lowered artifact §4.6 hands to an emitter: a
// parameter type, a storage type, and the entrypoint's compiled code, with
// nothing left symbolic. Both concrete forms — stanza text and structured
// JSON — serialize exactly this triple.
type Program struct {
	Parameter *types.Type
	Storage   *types.Type
	Code      instr.Seq
}

// EncodeText renders p as the three-stanza form: `parameter T; storage T;
// code { ... };`, one stanza per line, matching how a disassembled contract
// is laid out for a human to read.
func EncodeText(p *Program) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "parameter %s;\n", TypeText(p.Parameter))
	fmt.Fprintf(&sb, "storage %s;\n", TypeText(p.Storage))
	fmt.Fprintf(&sb, "code %s;\n", BlockText(p.Code))
	return sb.String()
}

// DecodeText parses the three-stanza form back into a Program. The three
// stanzas may appear in any order and may repeat unrecognized keywords
// only by failing outright — the grammar has no room for anything besides
// exactly one parameter, one storage, and one code stanza.
func DecodeText(src string) (*Program, error) {
	ts := newTokenStream(src)
	p := &Program{}
	seen := map[string]bool{}
	for {
		tok, err := ts.peekTok()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokEOF {
			break
		}
		kw, err := ts.expect(tokIdent, "'parameter', 'storage', or 'code'")
		if err != nil {
			return nil, err
		}
		switch kw.text {
		case "parameter":
			t, err := parseType(ts)
			if err != nil {
				return nil, err
			}
			p.Parameter = t
		case "storage":
			t, err := parseType(ts)
			if err != nil {
				return nil, err
			}
			p.Storage = t
		case "code":
			body, err := parseBlock(ts)
			if err != nil {
				return nil, err
			}
			p.Code = body
		default:
			return nil, fmt.Errorf("mtext: unknown stanza %q at %d", kw.text, kw.pos)
		}
		if seen[kw.text] {
			return nil, fmt.Errorf("mtext: duplicate %q stanza at %d", kw.text, kw.pos)
		}
		seen[kw.text] = true
		if _, err := ts.expect(tokSemi, "';'"); err != nil {
			return nil, err
		}
	}
	for _, want := range []string{"parameter", "storage", "code"} {
		if !seen[want] {
			return nil, fmt.Errorf("mtext: missing %q stanza", want)
		}
	}
	return p, nil
}

// programJSON is the on-the-wire shape of the structured JSON form: a
// three-field object mirroring the three-stanza text form, each field a
// node tree of the same shape InstrJSON/typeJSON/constJSON produce.
type programJSON struct {
	Parameter any `json:"parameter"`
	Storage   any `json:"storage"`
	Code      any `json:"code"`
}

// EncodeJSON renders p as the structured JSON form.
func EncodeJSON(p *Program) ([]byte, error) {
	doc := programJSON{
		Parameter: typeJSON(p.Parameter),
		Storage:   typeJSON(p.Storage),
		Code:      instrSeqJSON(p.Code),
	}
	return json.MarshalIndent(doc, "", "  ")
}

// DecodeJSON parses the structured JSON form back into a Program.
func DecodeJSON(data []byte) (*Program, error) {
	var doc struct {
		Parameter any `json:"parameter"`
		Storage   any `json:"storage"`
		Code      any `json:"code"`
	}
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("mtext: malformed program JSON: %w", err)
	}
	param, err := typeFromJSON(doc.Parameter)
	if err != nil {
		return nil, err
	}
	storage, err := typeFromJSON(doc.Storage)
	if err != nil {
		return nil, err
	}
	codeArr, ok := doc.Code.([]any)
	if !ok {
		return nil, fmt.Errorf("mtext: \"code\" must be an instruction array")
	}
	code, err := instrSeqFromJSON(codeArr)
	if err != nil {
		return nil, err
	}
	return &Program{Parameter: param, Storage: storage, Code: code}, nil
}
