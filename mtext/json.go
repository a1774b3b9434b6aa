package mtext

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/chazu/clc/instr"
	"github.com/chazu/clc/types"
)

// The structured JSON form mirrors the text form node for node: every
// construct is either {"prim": NAME, "args": [...], "annots": [...]} or,
// for a leaf literal, one of {"int": "N"}, {"string": S}, {"bytes": HEX} —
// the same shape §4.6 specifies for the external assembly's JSON
// representation. args holds a mix of nested nodes and, for a block
// operand, a bare JSON array of instruction nodes.

func typeJSON(t *types.Type) any {
	if t == nil {
		return map[string]any{"prim": "unit"}
	}
	switch t.Kind {
	case types.KTuple:
		args := make([]any, len(t.Elems))
		for i, e := range t.Elems {
			args[i] = typeJSON(e)
		}
		return map[string]any{"prim": "pair", "args": args}
	case types.KOption:
		return map[string]any{"prim": "option", "args": []any{typeJSON(t.Elem)}}
	case types.KOr:
		return map[string]any{"prim": "or", "args": []any{typeJSON(t.Elems[0]), typeJSON(t.Elems[1])}}
	case types.KList:
		return map[string]any{"prim": "list", "args": []any{typeJSON(t.Elem)}}
	case types.KSet:
		return map[string]any{"prim": "set", "args": []any{typeJSON(t.Elem)}}
	case types.KMap:
		return map[string]any{"prim": "map", "args": []any{typeJSON(t.Key), typeJSON(t.Value)}}
	case types.KBigMap:
		return map[string]any{"prim": "bigmap", "args": []any{typeJSON(t.Key), typeJSON(t.Value)}}
	case types.KContract:
		return map[string]any{"prim": "contract", "args": []any{typeJSON(t.Elem)}}
	case types.KLambda:
		return map[string]any{"prim": "lambda", "args": []any{typeJSON(t.Arg), typeJSON(t.Res)}}
	case types.KClosure:
		return map[string]any{"prim": "closure", "args": []any{typeJSON(t.Arg), typeJSON(t.Res), typeJSON(t.Env)}}
	case types.KRecord:
		return map[string]any{"prim": "record", "annots": []any{t.Name}}
	case types.KVariant:
		return map[string]any{"prim": "variant", "annots": []any{t.Name}}
	default:
		if name, ok := groundTypeKeyword(t.Kind); ok {
			return map[string]any{"prim": name}
		}
		return map[string]any{"prim": "unit"}
	}
}

func typeFromJSON(v any) (*types.Type, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("mtext: expected a type node, got %T", v)
	}
	prim, _ := obj["prim"].(string)
	args, _ := obj["args"].([]any)
	if t, ok := groundTypeText[prim]; ok {
		return t, nil
	}
	arg := func(i int) (*types.Type, error) {
		if i >= len(args) {
			return nil, fmt.Errorf("mtext: type %q missing argument %d", prim, i)
		}
		return typeFromJSON(args[i])
	}
	switch prim {
	case "option":
		e, err := arg(0)
		return types.Option(e), err
	case "list":
		e, err := arg(0)
		return types.List(e), err
	case "set":
		e, err := arg(0)
		return types.Set(e), err
	case "contract":
		e, err := arg(0)
		return types.Contract(e), err
	case "map", "bigmap":
		k, err := arg(0)
		if err != nil {
			return nil, err
		}
		val, err := arg(1)
		if err != nil {
			return nil, err
		}
		if prim == "map" {
			return types.Map(k, val), nil
		}
		return types.BigMap(k, val), nil
	case "or":
		l, err := arg(0)
		if err != nil {
			return nil, err
		}
		r, err := arg(1)
		return types.Or(l, r), err
	case "lambda":
		a, err := arg(0)
		if err != nil {
			return nil, err
		}
		r, err := arg(1)
		return types.Lambda(a, r), err
	case "closure":
		a, err := arg(0)
		if err != nil {
			return nil, err
		}
		r, err := arg(1)
		if err != nil {
			return nil, err
		}
		e, err := arg(2)
		return types.Closure(a, r, e), err
	case "pair":
		elems := make([]*types.Type, len(args))
		for i := range args {
			var err error
			elems[i], err = arg(i)
			if err != nil {
				return nil, err
			}
		}
		return types.Tuple(elems...), nil
	case "record":
		return types.Record(firstAnnot(obj)), nil
	case "variant":
		return types.Variant(firstAnnot(obj)), nil
	default:
		return nil, fmt.Errorf("mtext: unknown type prim %q", prim)
	}
}

func firstAnnot(obj map[string]any) string {
	annots, _ := obj["annots"].([]any)
	if len(annots) == 0 {
		return ""
	}
	s, _ := annots[0].(string)
	return s
}

func constJSON(c *types.Const) any {
	if c == nil {
		return map[string]any{"prim": "Unit"}
	}
	switch c.Kind {
	case types.CUnit:
		return map[string]any{"prim": "Unit"}
	case types.CBool:
		if c.Bool {
			return map[string]any{"prim": "True"}
		}
		return map[string]any{"prim": "False"}
	case types.CInt:
		return map[string]any{"int": fmt.Sprintf("%d", c.Int)}
	case types.CString:
		return map[string]any{"string": c.Str}
	case types.CBytes:
		return map[string]any{"bytes": hex.EncodeToString(c.Bytes)}
	case types.CTimestamp:
		return map[string]any{"prim": "Timestamp", "int": fmt.Sprintf("%d", c.Int)}
	case types.CKey:
		return map[string]any{"prim": "Key", "string": c.Str}
	case types.CKeyHash:
		return map[string]any{"prim": "KeyHash", "string": c.Str}
	case types.CSignature:
		return map[string]any{"prim": "Signature", "string": c.Str}
	case types.CAddress:
		return map[string]any{"prim": "Address", "string": c.Str}
	case types.CNone:
		return map[string]any{"prim": "None"}
	case types.CSome:
		return map[string]any{"prim": "Some", "args": []any{constJSON(c.Inner)}}
	case types.CLeft:
		return leftRightJSON("Left", c)
	case types.CRight:
		return leftRightJSON("Right", c)
	case types.CTuple:
		return constListJSON("Tuple", c.Elems)
	case types.CList:
		return constListJSON("List", c.Elems)
	case types.CSet:
		return constListJSON("Set", c.Elems)
	case types.CMap:
		args := make([]any, len(c.Entries))
		for i, e := range c.Entries {
			args[i] = map[string]any{"prim": "Elt", "args": []any{constJSON(e.Key), constJSON(e.Value)}}
		}
		return map[string]any{"prim": "Map", "args": args}
	case types.CBigMap:
		return map[string]any{"prim": "BigMap"}
	case types.CRecord:
		args := make([]any, len(c.Fields))
		annots := make([]any, len(c.Fields))
		for i, f := range c.Fields {
			args[i] = constJSON(f.Value)
			annots[i] = "%" + f.Name
		}
		return map[string]any{"prim": "Record", "args": args, "annots": annots}
	case types.COperation:
		return map[string]any{"prim": "Operation"}
	default:
		return map[string]any{"prim": "Unit"}
	}
}

func leftRightJSON(prim string, c *types.Const) any {
	node := map[string]any{"prim": prim, "args": []any{constJSON(c.Inner)}}
	if c.Field != "" {
		node["annots"] = []any{"%" + c.Field}
	}
	return node
}

func constListJSON(prim string, elems []*types.Const) any {
	args := make([]any, len(elems))
	for i, e := range elems {
		args[i] = constJSON(e)
	}
	return map[string]any{"prim": prim, "args": args}
}

func constFromJSON(v any) (*types.Const, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("mtext: expected a constant node, got %T", v)
	}
	if s, ok := obj["int"].(string); ok && obj["prim"] == nil {
		return &types.Const{Kind: types.CInt, Int: parseJSONInt(s)}, nil
	}
	if s, ok := obj["string"].(string); ok && obj["prim"] == nil {
		return types.String_(s), nil
	}
	if s, ok := obj["bytes"].(string); ok && obj["prim"] == nil {
		raw, err := hex.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("mtext: bad byte literal %q: %w", s, err)
		}
		return types.Bytes_(raw), nil
	}
	prim, _ := obj["prim"].(string)
	args, _ := obj["args"].([]any)
	switch prim {
	case "Unit":
		return types.Unit_(), nil
	case "True":
		return types.Bool_(true), nil
	case "False":
		return types.Bool_(false), nil
	case "None":
		return types.None_(), nil
	case "Timestamp":
		return &types.Const{Kind: types.CTimestamp, Int: parseJSONInt(obj["int"].(string))}, nil
	case "Key", "KeyHash", "Signature", "Address":
		return &types.Const{Kind: opaqueStrKind(prim), Str: obj["string"].(string)}, nil
	case "Some":
		inner, err := constFromJSON(args[0])
		return types.Some_(inner), err
	case "Left", "Right":
		inner, err := constFromJSON(args[0])
		if err != nil {
			return nil, err
		}
		label := firstAnnotLabel(obj)
		if prim == "Left" {
			return types.Left_(label, inner), nil
		}
		return types.Right_(label, inner), nil
	case "Tuple", "List", "Set":
		elems := make([]*types.Const, len(args))
		for i, a := range args {
			var err error
			elems[i], err = constFromJSON(a)
			if err != nil {
				return nil, err
			}
		}
		return &types.Const{Kind: listConstKind(prim), Elems: elems}, nil
	case "Map":
		entries := make([]types.MapEntry, len(args))
		for i, a := range args {
			elt, ok := a.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("mtext: expected an Elt node")
			}
			eltArgs, _ := elt["args"].([]any)
			k, err := constFromJSON(eltArgs[0])
			if err != nil {
				return nil, err
			}
			val, err := constFromJSON(eltArgs[1])
			if err != nil {
				return nil, err
			}
			entries[i] = types.MapEntry{Key: k, Value: val}
		}
		return &types.Const{Kind: types.CMap, Entries: entries}, nil
	case "BigMap":
		return &types.Const{Kind: types.CBigMap}, nil
	case "Record":
		annots, _ := obj["annots"].([]any)
		fields := make([]types.RecordField, len(args))
		for i, a := range args {
			val, err := constFromJSON(a)
			if err != nil {
				return nil, err
			}
			name := ""
			if i < len(annots) {
				if s, ok := annots[i].(string); ok && len(s) > 0 {
					name = s[1:]
				}
			}
			fields[i] = types.RecordField{Name: name, Value: val}
		}
		return &types.Const{Kind: types.CRecord, Fields: fields}, nil
	case "Operation":
		return &types.Const{Kind: types.COperation}, nil
	default:
		return nil, fmt.Errorf("mtext: unknown constant prim %q", prim)
	}
}

func firstAnnotLabel(obj map[string]any) string {
	s := firstAnnot(obj)
	if len(s) > 0 && s[0] == '%' {
		return s[1:]
	}
	return s
}

// instrJSON renders one instruction as a JSON node, plain-integer operands
// under "int", type/const/block operands under "args" in struct field
// order, and RENAME's annotation folded into the wrapped instruction's own
// "annots" the way real-world assembly JSON attaches annotations to the
// instruction they modify rather than a synthetic wrapper node.
func instrJSON(ins instr.Instr) any {
	switch n := ins.(type) {
	case instr.Drop:
		return intPrim("DROP", n.N)
	case instr.Dup:
		return intPrim("DUP", n.N)
	case instr.Dig:
		return intPrim("DIG", n.N)
	case instr.Dug:
		return intPrim("DUG", n.N)
	case instr.Push:
		return map[string]any{"prim": "PUSH", "args": []any{typeJSON(n.Ty), constJSON(n.Val)}}
	case instr.GetN:
		return intPrim("GET_N", n.Index)
	case instr.UpdateN:
		return intPrim("UPDATE_N", n.Index)
	case instr.PairN:
		return intPrim("PAIR_N", n.N)
	case instr.NoneOf:
		return map[string]any{"prim": "NONE", "args": []any{typeJSON(n.Ty)}}
	case instr.LeftOf:
		return map[string]any{"prim": "LEFT", "args": []any{typeJSON(n.Ty)}}
	case instr.RightOf:
		return map[string]any{"prim": "RIGHT", "args": []any{typeJSON(n.Ty)}}
	case instr.NilOf:
		return map[string]any{"prim": "NIL", "args": []any{typeJSON(n.Ty)}}
	case instr.EmptySetOf:
		return map[string]any{"prim": "EMPTY_SET", "args": []any{typeJSON(n.Ty)}}
	case instr.EmptyMapOf:
		return map[string]any{"prim": "EMPTY_MAP", "args": []any{typeJSON(n.K), typeJSON(n.V)}}
	case instr.EmptyBigMapOf:
		return map[string]any{"prim": "EMPTY_BIG_MAP", "args": []any{typeJSON(n.K), typeJSON(n.V)}}
	case instr.If:
		return map[string]any{"prim": "IF", "args": []any{instrSeqJSON(n.Then), instrSeqJSON(n.Else)}}
	case instr.IfNone:
		return map[string]any{"prim": "IF_NONE", "args": []any{instrSeqJSON(n.NoneBranch), instrSeqJSON(n.SomeBranch)}}
	case instr.IfLeft:
		return map[string]any{"prim": "IF_LEFT", "args": []any{instrSeqJSON(n.LeftBranch), instrSeqJSON(n.RightBranch)}}
	case instr.IfCons:
		return map[string]any{"prim": "IF_CONS", "args": []any{instrSeqJSON(n.ConsBranch), instrSeqJSON(n.NilBranch)}}
	case instr.Loop:
		return map[string]any{"prim": "LOOP", "args": []any{instrSeqJSON(n.Body)}}
	case instr.LoopLeft:
		return map[string]any{"prim": "LOOP_LEFT", "args": []any{instrSeqJSON(n.Body)}}
	case instr.Dip:
		return map[string]any{"prim": "DIP", "int": fmt.Sprintf("%d", n.N), "args": []any{instrSeqJSON(n.Body)}}
	case instr.Iter:
		return map[string]any{"prim": "ITER", "args": []any{instrSeqJSON(n.Body)}}
	case instr.MapOp:
		return map[string]any{"prim": "MAP", "args": []any{instrSeqJSON(n.Body)}}
	case instr.Lambda:
		return map[string]any{"prim": "LAMBDA", "args": []any{typeJSON(n.Arg), typeJSON(n.Res), instrSeqJSON(n.Body)}}
	case instr.CreateContractOp:
		return map[string]any{"prim": "CREATE_CONTRACT", "args": []any{typeJSON(n.ParamTy), typeJSON(n.StorageTy), instrSeqJSON(n.Body)}}
	case instr.ContractOpt:
		return map[string]any{"prim": "CONTRACT", "args": []any{typeJSON(n.Of)}}
	case instr.UnpackOf:
		return map[string]any{"prim": "UNPACK", "args": []any{typeJSON(n.Of)}}
	case instr.Rename:
		wrapped, ok := instrJSON(n.Inner).(map[string]any)
		if !ok {
			return map[string]any{"prim": "RENAME", "annots": []any{n.Annotation}}
		}
		wrapped["annots"] = []any{n.Annotation}
		return wrapped
	default:
		if name, ok := nullaryName[ins]; ok {
			return map[string]any{"prim": name}
		}
		return map[string]any{"prim": "FAILWITH"}
	}
}

func intPrim(prim string, n int) any {
	return map[string]any{"prim": prim, "int": fmt.Sprintf("%d", n)}
}

func instrSeqJSON(seq instr.Seq) []any {
	out := make([]any, len(seq))
	for i, ins := range seq {
		out[i] = instrJSON(ins)
	}
	return out
}

func instrFromJSON(v any) (instr.Instr, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("mtext: expected an instruction node, got %T", v)
	}
	prim, _ := obj["prim"].(string)
	if ins, ok := nullary[prim]; ok {
		return ins, nil
	}
	args, _ := obj["args"].([]any)
	intOperand := func() (int, error) {
		s, ok := obj["int"].(string)
		if !ok {
			return 0, fmt.Errorf("mtext: %q missing int operand", prim)
		}
		return int(parseJSONInt(s)), nil
	}
	block := func(i int) (instr.Seq, error) {
		if i >= len(args) {
			return nil, fmt.Errorf("mtext: %q missing block argument %d", prim, i)
		}
		arr, ok := args[i].([]any)
		if !ok {
			return nil, fmt.Errorf("mtext: %q argument %d is not a block", prim, i)
		}
		return instrSeqFromJSON(arr)
	}
	typeArg := func(i int) (*types.Type, error) {
		if i >= len(args) {
			return nil, fmt.Errorf("mtext: %q missing type argument %d", prim, i)
		}
		return typeFromJSON(args[i])
	}
	switch prim {
	case "DROP":
		n, err := intOperand()
		return instr.Drop{N: n}, err
	case "DUP":
		n, err := intOperand()
		return instr.Dup{N: n}, err
	case "DIG":
		n, err := intOperand()
		return instr.Dig{N: n}, err
	case "DUG":
		n, err := intOperand()
		return instr.Dug{N: n}, err
	case "PUSH":
		ty, err := typeArg(0)
		if err != nil {
			return nil, err
		}
		val, err := constFromJSON(args[1])
		return instr.Push{Ty: ty, Val: val}, err
	case "GET_N":
		n, err := intOperand()
		return instr.GetN{Index: n}, err
	case "UPDATE_N":
		n, err := intOperand()
		return instr.UpdateN{Index: n}, err
	case "PAIR_N":
		n, err := intOperand()
		return instr.PairN{N: n}, err
	case "NONE":
		ty, err := typeArg(0)
		return instr.NoneOf{Ty: ty}, err
	case "LEFT":
		ty, err := typeArg(0)
		return instr.LeftOf{Ty: ty}, err
	case "RIGHT":
		ty, err := typeArg(0)
		return instr.RightOf{Ty: ty}, err
	case "NIL":
		ty, err := typeArg(0)
		return instr.NilOf{Ty: ty}, err
	case "EMPTY_SET":
		ty, err := typeArg(0)
		return instr.EmptySetOf{Ty: ty}, err
	case "EMPTY_MAP":
		k, err := typeArg(0)
		if err != nil {
			return nil, err
		}
		val, err := typeArg(1)
		return instr.EmptyMapOf{K: k, V: val}, err
	case "EMPTY_BIG_MAP":
		k, err := typeArg(0)
		if err != nil {
			return nil, err
		}
		val, err := typeArg(1)
		return instr.EmptyBigMapOf{K: k, V: val}, err
	case "IF":
		then, err := block(0)
		if err != nil {
			return nil, err
		}
		els, err := block(1)
		return instr.If{Then: then, Else: els}, err
	case "IF_NONE":
		none, err := block(0)
		if err != nil {
			return nil, err
		}
		some, err := block(1)
		return instr.IfNone{NoneBranch: none, SomeBranch: some}, err
	case "IF_LEFT":
		left, err := block(0)
		if err != nil {
			return nil, err
		}
		right, err := block(1)
		return instr.IfLeft{LeftBranch: left, RightBranch: right}, err
	case "IF_CONS":
		cons, err := block(0)
		if err != nil {
			return nil, err
		}
		nilB, err := block(1)
		return instr.IfCons{ConsBranch: cons, NilBranch: nilB}, err
	case "LOOP":
		body, err := block(0)
		return instr.Loop{Body: body}, err
	case "LOOP_LEFT":
		body, err := block(0)
		return instr.LoopLeft{Body: body}, err
	case "DIP":
		n, err := intOperand()
		if err != nil {
			return nil, err
		}
		body, err := block(0)
		return instr.Dip{N: n, Body: body}, err
	case "ITER":
		body, err := block(0)
		return instr.Iter{Body: body}, err
	case "MAP":
		body, err := block(0)
		return instr.MapOp{Body: body}, err
	case "LAMBDA":
		arg, err := typeArg(0)
		if err != nil {
			return nil, err
		}
		res, err := typeArg(1)
		if err != nil {
			return nil, err
		}
		body, err := block(2)
		return instr.Lambda{Arg: arg, Res: res, Body: body}, err
	case "CREATE_CONTRACT":
		paramTy, err := typeArg(0)
		if err != nil {
			return nil, err
		}
		storageTy, err := typeArg(1)
		if err != nil {
			return nil, err
		}
		body, err := block(2)
		return instr.CreateContractOp{ParamTy: paramTy, StorageTy: storageTy, Body: body}, err
	case "CONTRACT":
		ty, err := typeArg(0)
		return instr.ContractOpt{Of: ty}, err
	case "UNPACK":
		ty, err := typeArg(0)
		return instr.UnpackOf{Of: ty}, err
	default:
		return nil, fmt.Errorf("mtext: unknown instruction prim %q", prim)
	}
}

// wrapAnnotation re-derives a RENAME wrapper from a node's own "annots"
// field, since encoding folded RENAME's annotation directly onto the
// instruction it modifies instead of keeping a synthetic wrapper node.
func wrapAnnotation(obj map[string]any, ins instr.Instr, err error) (instr.Instr, error) {
	if err != nil {
		return nil, err
	}
	annots, _ := obj["annots"].([]any)
	if len(annots) == 0 {
		return ins, nil
	}
	s, _ := annots[0].(string)
	if s == "" {
		return ins, nil
	}
	return instr.Rename{Annotation: s, Inner: ins}, nil
}

func instrSeqFromJSON(v []any) (instr.Seq, error) {
	seq := make(instr.Seq, len(v))
	for i, node := range v {
		obj, ok := node.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("mtext: expected an instruction node in a block, got %T", node)
		}
		ins, err := instrFromJSON(node)
		ins, err = wrapAnnotation(obj, ins, err)
		if err != nil {
			return nil, err
		}
		seq[i] = ins
	}
	return seq, nil
}

func parseJSONInt(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
