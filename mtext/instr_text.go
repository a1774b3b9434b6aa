package mtext

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chazu/clc/instr"
)

// nullary lists every instruction with no operand at all: its mnemonic is
// the whole instruction. Keeping this as one table instead of ~40 near-
// identical switch cases is what lets both directions of the codec stay a
// single lookup instead of duplicated boilerplate.
var nullary = map[string]instr.Instr{
	"SWAP": instr.Swap{}, "PAIR": instr.Pair{}, "UNPAIR": instr.Unpair{},
	"SOME": instr.Some{}, "CONS": instr.Cons{}, "SIZE": instr.SizeOf{},
	"MEM": instr.Mem{}, "GET": instr.Get{}, "UPDATE": instr.Update{},
	"CONCAT": instr.Concat{}, "ADD": instr.Add{}, "SUB": instr.Sub{},
	"MUL": instr.Mul{}, "EDIV": instr.EDiv{}, "NEG": instr.Neg{},
	"ABS": instr.Abs{}, "ISNAT": instr.IsNat{}, "INT": instr.IntOf{},
	"NOT": instr.Not{}, "AND": instr.And{}, "OR": instr.Or{}, "XOR": instr.Xor{},
	"COMPARE": instr.Compare{}, "EQ": instr.Eq{}, "NEQ": instr.Neq{},
	"LT": instr.Lt{}, "LE": instr.Le{}, "GT": instr.Gt{}, "GE": instr.Ge{},
	"EXEC": instr.Exec{}, "APPLY": instr.ApplyOp{}, "FAILWITH": instr.Failwith{},
	"TRANSFER_TOKENS": instr.TransferTokens{}, "SET_DELEGATE": instr.SetDelegate{},
	"IMPLICIT_ACCOUNT": instr.ImplicitAccount{}, "ADDRESS": instr.AddressOf{},
	"SELF": instr.Self{}, "SENDER": instr.Sender{}, "SOURCE": instr.Source{},
	"AMOUNT": instr.Amount{}, "BALANCE": instr.Balance{}, "NOW": instr.Now{},
	"LEVEL": instr.Level{}, "CHAIN_ID": instr.ChainID{},
	"SHA256": instr.Sha256{}, "SHA512": instr.Sha512{}, "SHA3": instr.Sha3{},
	"KECCAK": instr.Keccak{}, "BLAKE2B": instr.Blake2b{}, "HASH_KEY": instr.HashKey{},
	"CHECK_SIGNATURE": instr.CheckSignature{}, "PACK": instr.PackOp{},
}

var nullaryName = reverseNullary()

func reverseNullary() map[instr.Instr]string {
	out := map[instr.Instr]string{}
	for name, ins := range nullary {
		out[ins] = name
	}
	return out
}

// InstrText renders one instruction. Operand order in the text mirrors the
// struct field order: N-like integers first, type operands next, blocks
// last — the same order a real Michelson disassembler lays mnemonics out
// in, which is what makes the grammar predictable enough to hand-parse.
func InstrText(ins instr.Instr) string {
	switch n := ins.(type) {
	case instr.Drop:
		return fmt.Sprintf("DROP %d", n.N)
	case instr.Dup:
		return fmt.Sprintf("DUP %d", n.N)
	case instr.Dig:
		return fmt.Sprintf("DIG %d", n.N)
	case instr.Dug:
		return fmt.Sprintf("DUG %d", n.N)
	case instr.Push:
		return fmt.Sprintf("PUSH %s %s", typeArgText(n.Ty), ConstText(n.Val))
	case instr.GetN:
		return fmt.Sprintf("GET_N %d", n.Index)
	case instr.UpdateN:
		return fmt.Sprintf("UPDATE_N %d", n.Index)
	case instr.PairN:
		return fmt.Sprintf("PAIR_N %d", n.N)
	case instr.NoneOf:
		return "NONE " + typeArgText(n.Ty)
	case instr.LeftOf:
		return "LEFT " + typeArgText(n.Ty)
	case instr.RightOf:
		return "RIGHT " + typeArgText(n.Ty)
	case instr.NilOf:
		return "NIL " + typeArgText(n.Ty)
	case instr.EmptySetOf:
		return "EMPTY_SET " + typeArgText(n.Ty)
	case instr.EmptyMapOf:
		return "EMPTY_MAP " + typeArgText(n.K) + " " + typeArgText(n.V)
	case instr.EmptyBigMapOf:
		return "EMPTY_BIG_MAP " + typeArgText(n.K) + " " + typeArgText(n.V)
	case instr.If:
		return "IF " + BlockText(n.Then) + " " + BlockText(n.Else)
	case instr.IfNone:
		return "IF_NONE " + BlockText(n.NoneBranch) + " " + BlockText(n.SomeBranch)
	case instr.IfLeft:
		return "IF_LEFT " + BlockText(n.LeftBranch) + " " + BlockText(n.RightBranch)
	case instr.IfCons:
		return "IF_CONS " + BlockText(n.ConsBranch) + " " + BlockText(n.NilBranch)
	case instr.Loop:
		return "LOOP " + BlockText(n.Body)
	case instr.LoopLeft:
		return "LOOP_LEFT " + BlockText(n.Body)
	case instr.Dip:
		return fmt.Sprintf("DIP %d %s", n.N, BlockText(n.Body))
	case instr.Iter:
		return "ITER " + BlockText(n.Body)
	case instr.MapOp:
		return "MAP " + BlockText(n.Body)
	case instr.Lambda:
		return fmt.Sprintf("LAMBDA %s %s %s", typeArgText(n.Arg), typeArgText(n.Res), BlockText(n.Body))
	case instr.CreateContractOp:
		return fmt.Sprintf("CREATE_CONTRACT %s %s %s", typeArgText(n.ParamTy), typeArgText(n.StorageTy), BlockText(n.Body))
	case instr.ContractOpt:
		return "CONTRACT " + typeArgText(n.Of)
	case instr.UnpackOf:
		return "UNPACK " + typeArgText(n.Of)
	case instr.Rename:
		return fmt.Sprintf("RENAME %s { %s }", strconv.Quote(n.Annotation), InstrText(n.Inner))
	default:
		// Only comparable (operand-free) instructions reach the map lookup;
		// indexing it with a block-carrying one would panic.
		if name, ok := nullaryName[ins]; ok {
			return name
		}
		return "FAILWITH" // unreachable for a closed Instr set; kept total rather than panicking
	}
}

// InstrSeqText renders a sequence as semicolon-separated instructions with
// no enclosing braces, so callers can reuse it for both a bare code stanza
// and a nested block.
func InstrSeqText(seq instr.Seq) string {
	parts := make([]string, len(seq))
	for i, ins := range seq {
		parts[i] = InstrText(ins)
	}
	return strings.Join(parts, " ; ")
}

// BlockText wraps a sequence in braces, M's block delimiter for every
// structured control construct's operand.
func BlockText(seq instr.Seq) string {
	if len(seq) == 0 {
		return "{}"
	}
	return "{ " + InstrSeqText(seq) + " }"
}

// ParseInstrSeq parses src as a bare, brace-free semicolon-separated
// instruction list — the form the top-level `code` stanza's body takes.
func ParseInstrSeq(src string) (instr.Seq, error) {
	ts := newTokenStream(src)
	seq, err := parseInstrList(ts, tokEOF)
	if err != nil {
		return nil, err
	}
	return seq, nil
}

// parseInstrList reads instructions separated by ';' until it sees stop
// (either tokEOF for a bare list or tokRBrace for a block's contents),
// tolerating both a trailing separator and none.
func parseInstrList(ts *tokenStream, stop tokKind) (instr.Seq, error) {
	seq := instr.Seq{}
	for {
		tok, err := ts.peekTok()
		if err != nil {
			return nil, err
		}
		if tok.kind == stop {
			return seq, nil
		}
		ins, err := parseInstr(ts)
		if err != nil {
			return nil, err
		}
		seq = append(seq, ins)
		tok, err = ts.peekTok()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokSemi {
			ts.advance()
			continue
		}
		if tok.kind == stop {
			return seq, nil
		}
		return nil, fmt.Errorf("mtext: expected ';' between instructions at %d", tok.pos)
	}
}

func parseBlock(ts *tokenStream) (instr.Seq, error) {
	if _, err := ts.expect(tokLBrace, "'{'"); err != nil {
		return nil, err
	}
	seq, err := parseInstrList(ts, tokRBrace)
	if err != nil {
		return nil, err
	}
	if _, err := ts.expect(tokRBrace, "'}'"); err != nil {
		return nil, err
	}
	return seq, nil
}

func parseNumber(ts *tokenStream) (int, error) {
	tok, err := ts.expect(tokNumber, "an integer")
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(tok.text)
}

func parseInstr(ts *tokenStream) (instr.Instr, error) {
	tok, err := ts.expect(tokIdent, "an instruction mnemonic")
	if err != nil {
		return nil, err
	}
	if ins, ok := nullary[tok.text]; ok {
		return ins, nil
	}
	switch tok.text {
	case "DROP":
		n, err := parseNumber(ts)
		return instr.Drop{N: n}, err
	case "DUP":
		n, err := parseNumber(ts)
		return instr.Dup{N: n}, err
	case "DIG":
		n, err := parseNumber(ts)
		return instr.Dig{N: n}, err
	case "DUG":
		n, err := parseNumber(ts)
		return instr.Dug{N: n}, err
	case "PUSH":
		ty, err := parseType(ts)
		if err != nil {
			return nil, err
		}
		val, err := parseConst(ts)
		if err != nil {
			return nil, err
		}
		return instr.Push{Ty: ty, Val: val}, nil
	case "GET_N":
		n, err := parseNumber(ts)
		return instr.GetN{Index: n}, err
	case "UPDATE_N":
		n, err := parseNumber(ts)
		return instr.UpdateN{Index: n}, err
	case "PAIR_N":
		n, err := parseNumber(ts)
		return instr.PairN{N: n}, err
	case "NONE":
		ty, err := parseType(ts)
		return instr.NoneOf{Ty: ty}, err
	case "LEFT":
		ty, err := parseType(ts)
		return instr.LeftOf{Ty: ty}, err
	case "RIGHT":
		ty, err := parseType(ts)
		return instr.RightOf{Ty: ty}, err
	case "NIL":
		ty, err := parseType(ts)
		return instr.NilOf{Ty: ty}, err
	case "EMPTY_SET":
		ty, err := parseType(ts)
		return instr.EmptySetOf{Ty: ty}, err
	case "EMPTY_MAP":
		k, err := parseType(ts)
		if err != nil {
			return nil, err
		}
		v, err := parseType(ts)
		return instr.EmptyMapOf{K: k, V: v}, err
	case "EMPTY_BIG_MAP":
		k, err := parseType(ts)
		if err != nil {
			return nil, err
		}
		v, err := parseType(ts)
		return instr.EmptyBigMapOf{K: k, V: v}, err
	case "IF":
		then, err := parseBlock(ts)
		if err != nil {
			return nil, err
		}
		els, err := parseBlock(ts)
		return instr.If{Then: then, Else: els}, err
	case "IF_NONE":
		none, err := parseBlock(ts)
		if err != nil {
			return nil, err
		}
		some, err := parseBlock(ts)
		return instr.IfNone{NoneBranch: none, SomeBranch: some}, err
	case "IF_LEFT":
		left, err := parseBlock(ts)
		if err != nil {
			return nil, err
		}
		right, err := parseBlock(ts)
		return instr.IfLeft{LeftBranch: left, RightBranch: right}, err
	case "IF_CONS":
		cons, err := parseBlock(ts)
		if err != nil {
			return nil, err
		}
		nilB, err := parseBlock(ts)
		return instr.IfCons{ConsBranch: cons, NilBranch: nilB}, err
	case "LOOP":
		body, err := parseBlock(ts)
		return instr.Loop{Body: body}, err
	case "LOOP_LEFT":
		body, err := parseBlock(ts)
		return instr.LoopLeft{Body: body}, err
	case "DIP":
		n, err := parseNumber(ts)
		if err != nil {
			return nil, err
		}
		body, err := parseBlock(ts)
		return instr.Dip{N: n, Body: body}, err
	case "ITER":
		body, err := parseBlock(ts)
		return instr.Iter{Body: body}, err
	case "MAP":
		body, err := parseBlock(ts)
		return instr.MapOp{Body: body}, err
	case "LAMBDA":
		arg, err := parseType(ts)
		if err != nil {
			return nil, err
		}
		res, err := parseType(ts)
		if err != nil {
			return nil, err
		}
		body, err := parseBlock(ts)
		return instr.Lambda{Arg: arg, Res: res, Body: body}, err
	case "CREATE_CONTRACT":
		paramTy, err := parseType(ts)
		if err != nil {
			return nil, err
		}
		storageTy, err := parseType(ts)
		if err != nil {
			return nil, err
		}
		body, err := parseBlock(ts)
		return instr.CreateContractOp{ParamTy: paramTy, StorageTy: storageTy, Body: body}, err
	case "CONTRACT":
		ty, err := parseType(ts)
		return instr.ContractOpt{Of: ty}, err
	case "UNPACK":
		ty, err := parseType(ts)
		return instr.UnpackOf{Of: ty}, err
	case "RENAME":
		annotTok, err := ts.expect(tokString, "an annotation string")
		if err != nil {
			return nil, err
		}
		if _, err := ts.expect(tokLBrace, "'{'"); err != nil {
			return nil, err
		}
		inner, err := parseInstr(ts)
		if err != nil {
			return nil, err
		}
		if _, err := ts.expect(tokRBrace, "'}'"); err != nil {
			return nil, err
		}
		return instr.Rename{Annotation: annotTok.text, Inner: inner}, nil
	default:
		return nil, fmt.Errorf("mtext: unknown instruction mnemonic %q", tok.text)
	}
}
