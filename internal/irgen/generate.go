// Package irgen turns a parsed markup document into the IR tree.
//
// Each element goes through directive resolution, then strip/content/
// replace handling, then element emission; the resulting node chain is
// spliced into the parent. Text is split into literal and expression
// fragments. Generation is synchronous and does not modify the source tree.
package irgen

import (
	"context"
	"fmt"
	"strings"

	"tonnikala/internal/diag"
	"tonnikala/internal/directive"
	"tonnikala/internal/expr"
	"tonnikala/internal/ir"
	"tonnikala/internal/markup"
	"tonnikala/internal/trace"
)

// SyntaxError is the fatal error returned by Generate.
type SyntaxError = diag.SyntaxError

// Generator builds IR for one template path.
type Generator struct {
	opts     Options
	path     string
	resolver *directive.Resolver
	reporter diag.Reporter
}

// New returns a generator; path is reported in errors.
func New(opts Options, path string) *Generator {
	return &Generator{
		opts:     opts,
		path:     path,
		resolver: directive.NewResolver(opts.Syntax, path),
		reporter: diag.NopReporter{},
	}
}

// Options returns the generator's options.
func (g *Generator) Options() Options { return g.opts }

// SetReporter routes warnings (unknown control tags and attributes) to r.
// Warnings never change the generated tree.
func (g *Generator) SetReporter(r diag.Reporter) {
	if r == nil {
		r = diag.NopReporter{}
	}
	g.reporter = r
}

func (g *Generator) warn(el *markup.Node, msg string) {
	d := diag.New(diag.SevWarning, diag.SynUnknownDirective, el.Span, msg)
	d.Path = g.path
	d.Pos = el.Pos
	g.reporter.Report(d)
}

// Generate builds the Root node for doc. Node-level trace points are
// emitted to the tracer in ctx.
func (g *Generator) Generate(ctx context.Context, doc *markup.Document) (*ir.Node, error) {
	b := builder{g: g, ctx: ctx}
	root := ir.NewRoot()
	if err := b.children(doc.Children, root, state{translatable: g.opts.Translatable}); err != nil {
		return nil, err
	}
	return root, nil
}

type builder struct {
	g   *Generator
	ctx context.Context
}

func (b *builder) children(nodes []*markup.Node, parent *ir.Node, st state) error {
	for _, n := range nodes {
		out, err := b.node(n, st)
		if err != nil {
			return err
		}
		parent.AppendAll(out...)
	}
	return nil
}

func (b *builder) node(n *markup.Node, st state) ([]*ir.Node, error) {
	switch n.Kind {
	case markup.KindElement:
		return b.element(n, st)
	case markup.KindText:
		return expr.Scan(n.Pos, n.Data, expr.Options{CDATA: st.cdata, Translatable: st.translatable}), nil
	case markup.KindComment:
		return []*ir.Node{ir.NewEscapedText(n.Pos, "<!--"+n.Data+"-->")}, nil
	case markup.KindProcInst:
		if n.Target == "xml" {
			return []*ir.Node{ir.NewEscapedText(n.Pos, "<?xml "+strings.TrimSpace(n.Data)+"?>")}, nil
		}
		return []*ir.Node{ir.NewCode(n.Pos, strings.TrimSpace(n.Data))}, nil
	case markup.KindDoctype:
		return []*ir.Node{ir.NewEscapedText(n.Pos, n.Data)}, nil
	default:
		return nil, diag.NewSyntaxError(diag.SynUnhandledNode, b.g.path, n.Span, n.Pos,
			fmt.Sprintf("unhandled node type %s at line %d", n.Kind, n.Pos.Line))
	}
}

func (b *builder) element(el *markup.Node, st state) ([]*ir.Node, error) {
	trace.Point(b.ctx, trace.ScopeNode, "element", el.Tag)

	res := b.g.resolver
	syntax := res.Syntax()
	attrs := el.Attrs.Clone()
	if local, ok := syntax.Local(el.Tag); ok && !directive.IsControlTag(local) {
		b.g.warn(el, fmt.Sprintf("unknown control tag <%s> is emitted as a literal element", el.Tag))
	}

	chain, err := res.Resolve(el, &attrs)
	if err != nil {
		return nil, err
	}
	emit := !chain.TagForm
	top, bottom := chain.Top, chain.Bottom

	guard, stripped := res.TakeControl(&attrs, "strip")
	if stripped && strings.TrimSpace(guard) == "" {
		guard = "1"
	}

	var content *ir.Node
	if v, ok := res.TakeControl(&attrs, "content"); ok && v != "" {
		content = ir.NewExpression(el.Pos, v)
	}

	var (
		replace    string
		hasReplace bool
	)
	if syntax.Is(el.Tag, "replace") {
		if replace, err = res.Mandatory(el, &attrs, "value"); err != nil {
			return nil, err
		}
		hasReplace = true
	} else {
		replace, hasReplace = res.TakeControl(&attrs, "replace")
	}

	inner := st.enter(el, &attrs)
	withChildren := true
	var node *ir.Node
	if hasReplace {
		node = ir.NewExpression(el.Pos, replace)
		withChildren = false
		emit = false
	}
	if emit {
		node = ir.NewElement(el.Pos, el.Tag, guard)
		b.attributes(node.Element(), el, &attrs, inner)
	}

	if top == nil {
		top = node
	}
	if node != nil {
		if bottom != nil {
			bottom.Append(node)
		}
		bottom = node
	}

	if withChildren {
		if content != nil {
			bottom.Children = []*ir.Node{content}
		} else if err := b.children(el.Children, bottom, inner); err != nil {
			return nil, err
		}
	}
	return []*ir.Node{top}, nil
}

// attributes fills the element's static attributes from what is left of
// the working set and its dynamic attributes from the attrs control.
func (b *builder) attributes(data *ir.ElementData, el *markup.Node, attrs *markup.Attrs, st state) {
	syntax := b.g.resolver.Syntax()
	if dyn, ok := b.g.resolver.TakeControl(attrs, "attrs"); ok {
		data.DynAttrs = dyn
	}
	ns := syntax.NamespaceAttr()
	for _, a := range attrs.Items() {
		if ns != "" && a.Name == ns {
			continue
		}
		if _, ok := syntax.Local(a.Name); ok {
			b.g.warn(el, fmt.Sprintf("unknown control attribute %s on <%s> is emitted as a literal attribute", a.Name, el.Tag))
		}
		value := expr.Scan(el.Pos, a.Value, expr.Options{Translatable: st.attrTranslatable(a.Name)})
		data.Attrs = append(data.Attrs, ir.Attr{Name: a.Name, Value: value})
	}
}
