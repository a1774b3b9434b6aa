package printer

import (
	"fmt"
	"strings"

	"github.com/chazu/clc/ir"
	"github.com/chazu/clc/surfaceast"
)

// PrintContract untypes c and renders it directly, the one entry point the
// CLI's decompile command needs for the file.tz.liq artifact.
func PrintContract(c *ir.Contract) string {
	return Print(Untype(c))
}

// Print renders p as a minimal, uniformly-indented S-expression-flavored
// surface syntax: `(kind field ... (child) ...)`, one child per line past
// the first, two-space nesting. It is not the language's real grammar
// (§10.6) — the goal is a readable file.tz.liq, not a re-parseable one.
func Print(p *surfaceast.Program) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "(contract %s\n", p.ContractName)
	fmt.Fprintf(&sb, "  (storage %s)\n", printType(p.StorageType))
	for _, td := range p.TypeDecls {
		printTypeDecl(&sb, td, 1)
	}
	for _, g := range p.Globals {
		fmt.Fprintf(&sb, "  (let %s\n", g.Name)
		printNode(&sb, g.Value, 2)
		sb.WriteString("  )\n")
	}
	for _, e := range p.Entries {
		fmt.Fprintf(&sb, "  (entry %s (%s : %s) %s\n", e.Name, e.ParamName, printType(e.ParamType), e.StorageName)
		printNode(&sb, e.Body, 2)
		sb.WriteString("  )\n")
	}
	sb.WriteString(")\n")
	return sb.String()
}

func indent(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
}

func printTypeDecl(sb *strings.Builder, td surfaceast.TypeDeclNode, depth int) {
	indent(sb, depth)
	fmt.Fprintf(sb, "(%s %s", td.Kind, td.Name)
	for _, f := range td.Fields {
		fmt.Fprintf(sb, " (%s %s)", f.Name, printType(f.Type))
	}
	sb.WriteString(")\n")
}

func printType(t *surfaceast.TypeExpr) string {
	if t == nil {
		return "_"
	}
	switch {
	case len(t.Elems) > 0:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = printType(e)
		}
		return fmt.Sprintf("(%s %s)", t.Kind, strings.Join(parts, " "))
	case t.Elem != nil:
		return fmt.Sprintf("(%s %s)", t.Kind, printType(t.Elem))
	case t.Key != nil || t.Value != nil:
		return fmt.Sprintf("(%s %s %s)", t.Kind, printType(t.Key), printType(t.Value))
	case t.Arg != nil || t.Res != nil:
		return fmt.Sprintf("(lambda %s %s)", printType(t.Arg), printType(t.Res))
	case t.Name != "":
		return fmt.Sprintf("%s:%s", t.Kind, t.Name)
	default:
		return t.Kind
	}
}

func printConst(c *surfaceast.ConstLit) string {
	if c == nil {
		return "()"
	}
	switch c.Kind {
	case "bool":
		return fmt.Sprintf("%t", c.Bool)
	case "int":
		return fmt.Sprintf("%d", c.Int)
	case "string":
		return fmt.Sprintf("%q", c.Str)
	case "bytes":
		return "0x" + c.Bytes
	case "unit":
		return "unit"
	case "none":
		return "none"
	default:
		if len(c.Elems) > 0 {
			parts := make([]string, len(c.Elems))
			for i, e := range c.Elems {
				parts[i] = printConst(e)
			}
			return fmt.Sprintf("(%s %s)", c.Kind, strings.Join(parts, " "))
		}
		return c.Kind
	}
}

// printNode renders one Node and every child at depth, one line per node
// (children on their own indented lines when there's more than a bare
// leaf's worth of content).
func printNode(sb *strings.Builder, n *surfaceast.Node, depth int) {
	indent(sb, depth)
	if n == nil {
		sb.WriteString("()\n")
		return
	}
	switch n.Kind {
	case surfaceast.KVar:
		fmt.Fprintf(sb, "%s\n", n.Name)
		return
	case surfaceast.KConst:
		fmt.Fprintf(sb, "%s\n", printConst(n.Const))
		return
	}

	head := headline(n)
	sb.WriteString(head)
	sb.WriteString("\n")
	for _, c := range []*surfaceast.Node{n.A, n.B, n.C, n.D} {
		if c != nil {
			printNode(sb, c, depth+1)
		}
	}
	for _, a := range n.Args {
		printNode(sb, a, depth+1)
	}
	for _, cs := range n.Cases {
		indent(sb, depth+1)
		label := cs.Ctor
		if cs.Wildcard {
			label = "_"
		}
		fmt.Fprintf(sb, "(case %s %s\n", label, cs.Var)
		printNode(sb, cs.Body, depth+2)
		indent(sb, depth+1)
		sb.WriteString(")\n")
	}
	indent(sb, depth)
	sb.WriteString(")\n")
}

// headline renders a node's opening `(kind ...)` line without its
// children — the identifying keyword plus whatever scalar fields that
// kind carries (bound names, primitive names, labels).
func headline(n *surfaceast.Node) string {
	switch n.Kind {
	case surfaceast.KLet:
		return fmt.Sprintf("(let %s", n.Name)
	case surfaceast.KSeq:
		return "(seq"
	case surfaceast.KIf:
		return "(if"
	case surfaceast.KLambda:
		rec := ""
		if n.Recursive {
			rec = " rec"
		}
		return fmt.Sprintf("(lambda%s %s : %s", rec, n.Name, printType(n.Type))
	case surfaceast.KApply:
		return fmt.Sprintf("(apply %s", n.Prim)
	case surfaceast.KMatchOption:
		return fmt.Sprintf("(match_option some=%s", n.Name)
	case surfaceast.KMatchNat:
		return fmt.Sprintf("(match_nat plus=%s minus=%s", n.Name, n.Name2)
	case surfaceast.KMatchList:
		return fmt.Sprintf("(match_list head=%s tail=%s", n.Name, n.Name2)
	case surfaceast.KMatchVariant:
		return fmt.Sprintf("(match_variant %s", n.Name)
	case surfaceast.KLoop:
		return fmt.Sprintf("(loop %s", n.Name)
	case surfaceast.KLoopLeft:
		return fmt.Sprintf("(loop_left %s", n.Name)
	case surfaceast.KFold:
		return fmt.Sprintf("(fold[%s] %s %s", n.FoldKind, n.Name2, n.Name)
	case surfaceast.KMap:
		return fmt.Sprintf("(map[%s] %s", n.FoldKind, n.Name)
	case surfaceast.KMapFold:
		return fmt.Sprintf("(map_fold[%s] %s %s", n.FoldKind, n.Name2, n.Name)
	case surfaceast.KRecordConstruct:
		return fmt.Sprintf("(record %s", n.Name)
	case surfaceast.KProject:
		return fmt.Sprintf("(project %s.%s", n.Name, n.Name2)
	case surfaceast.KSetField:
		return fmt.Sprintf("(set_field %s.%s", n.Name, n.Name2)
	case surfaceast.KTransfer:
		return "(transfer"
	case surfaceast.KFailwith:
		return "(failwith"
	case surfaceast.KCreateContract:
		return fmt.Sprintf("(create_contract (%s %s) storage=%s", n.Name, n.Name2, printType(n.Type))
	case surfaceast.KContractAt:
		return fmt.Sprintf("(contract_at %s", printType(n.Type))
	case surfaceast.KUnpack:
		return fmt.Sprintf("(unpack %s", printType(n.Type))
	default:
		return fmt.Sprintf("(%s", n.Kind)
	}
}
