//nolint:errcheck // IR nodes are checked by construction; Kind implies the Data payload type.
package ir

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DumpOptions configures IR dumping.
type DumpOptions struct {
	Positions bool
}

// Printer is used to dump IR to an indented text format.
type Printer struct {
	w      io.Writer
	indent int
	opts   DumpOptions
	err    error
}

// NewPrinter creates a new IR printer.
func NewPrinter(w io.Writer, opts DumpOptions) *Printer {
	return &Printer{w: w, opts: opts}
}

// Dump writes the tree rooted at n with positions, one node per line.
func Dump(w io.Writer, n *Node) error {
	return NewPrinter(w, DumpOptions{Positions: true}).Print(n)
}

// Print writes a subtree.
func (p *Printer) Print(n *Node) error {
	p.printNode(n)
	return p.err
}

func (p *Printer) printNode(n *Node) {
	if n == nil || p.err != nil {
		return
	}
	line := describe(n)
	if p.opts.Positions && n.Pos.Known() {
		line += " @" + n.Pos.String()
	}
	p.printf("%s%s\n", strings.Repeat("  ", p.indent), line)
	p.indent++
	for _, c := range n.Children {
		p.printNode(c)
	}
	p.indent--
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

// Sprint renders n as a compact single line, e.g.
//
//	Element(div guard=cond){For(x in items){Element(span){Expression(x)}}}
func Sprint(n *Node) string {
	var sb strings.Builder
	sprint(&sb, n)
	return sb.String()
}

// SprintAll renders a node list the way Sprint renders children.
func SprintAll(nodes []*Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = Sprint(n)
	}
	return strings.Join(parts, "; ")
}

func sprint(sb *strings.Builder, n *Node) {
	if n == nil {
		sb.WriteString("<nil>")
		return
	}
	sb.WriteString(describe(n))
	if len(n.Children) == 0 {
		return
	}
	sb.WriteByte('{')
	for i, c := range n.Children {
		if i > 0 {
			sb.WriteString("; ")
		}
		sprint(sb, c)
	}
	sb.WriteByte('}')
}

func describe(n *Node) string {
	switch n.Kind {
	case KindRoot:
		return "Root"
	case KindElement:
		el := n.Element()
		parts := []string{el.Tag}
		if el.Guard != "" {
			parts = append(parts, "guard="+el.Guard)
		}
		for _, a := range el.Attrs {
			parts = append(parts, a.Name+"="+strconv.Quote(AttrString(a)))
		}
		if el.DynAttrs != "" {
			parts = append(parts, "attrs="+el.DynAttrs)
		}
		return "Element(" + strings.Join(parts, " ") + ")"
	case KindText:
		d := n.Data.(*TextData)
		if d.Translatable {
			return "Text(" + strconv.Quote(d.Value) + " translatable)"
		}
		return "Text(" + strconv.Quote(d.Value) + ")"
	case KindEscapedText:
		return "EscapedText(" + strconv.Quote(n.Data.(*EscapedTextData).Value) + ")"
	case KindExpression:
		return "Expression(" + n.Data.(*ExprData).Source + ")"
	case KindComment:
		return "Comment(" + strconv.Quote(n.Data.(*CommentData).Text) + ")"
	case KindCode:
		return "Code(" + n.Data.(*CodeData).Source + ")"
	case KindIf, KindUnless:
		return n.Kind.String() + "(" + n.Data.(*CondData).Test + ")"
	case KindFor:
		return "For(" + n.Data.(*ForData).Each + ")"
	case KindDefine:
		return "Define(" + n.Data.(*DefineData).Signature + ")"
	case KindImport:
		d := n.Data.(*ImportData)
		return "Import(" + d.Href + " as " + d.Alias + ")"
	case KindBlock:
		return "Block(" + n.Data.(*BlockData).Name + ")"
	case KindExtends:
		return "Extends(" + n.Data.(*ExtendsData).Href + ")"
	case KindWith:
		return "With(" + n.Data.(*WithData).Bindings + ")"
	default:
		panic(fmt.Sprintf("ir: unhandled node kind %d", n.Kind))
	}
}

// AttrString renders attribute fragments back into template notation:
// expressions as ${...} and translatable text as _(...).
func AttrString(a Attr) string {
	var sb strings.Builder
	for _, part := range a.Value {
		switch part.Kind {
		case KindExpression:
			sb.WriteString("${" + part.Data.(*ExprData).Source + "}")
		case KindText, KindEscapedText:
			if part.Translatable() {
				sb.WriteString("_(" + part.Text() + ")")
			} else {
				sb.WriteString(part.Text())
			}
		default:
			sb.WriteString(describe(part))
		}
	}
	return sb.String()
}
