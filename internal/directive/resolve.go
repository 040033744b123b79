// Package directive recognises the control directives written on a markup
// element and builds the chain of IR directive nodes for it.
//
// Tag-form directives are checked first; at most one can match since an
// element has one tag. Attribute-form directives follow in fixed order:
// block, if, for, def, with, vars. Directives discovered earlier enclose
// the ones discovered later.
package directive

import (
	"fmt"

	"tonnikala/internal/diag"
	"tonnikala/internal/ir"
	"tonnikala/internal/markup"
)

type tagDirective struct {
	local string
	kind  ir.Kind
	attrs []string // mandatory, in constructor order
}

// порядок важен: он задаёт вложенность
var tagDirectives = []tagDirective{
	{"extends", ir.KindExtends, []string{"href"}},
	{"block", ir.KindBlock, []string{"name"}},
	{"if", ir.KindIf, []string{"test"}},
	{"for", ir.KindFor, []string{"each"}},
	{"def", ir.KindDefine, []string{"function"}},
	{"import", ir.KindImport, []string{"href", "alias"}},
	{"with", ir.KindWith, []string{"vars"}},
	{"vars", ir.KindWith, []string{"names"}},
}

type attrDirective struct {
	local string
	kind  ir.Kind
}

var attrDirectives = []attrDirective{
	{"block", ir.KindBlock},
	{"if", ir.KindIf},
	{"for", ir.KindFor},
	{"def", ir.KindDefine},
	{"with", ir.KindWith},
	{"vars", ir.KindWith},
}

// Chain is a linked run of directive nodes: Top is the outermost and
// Bottom the innermost, where element content is attached.
// Both are nil when no directive applied.
type Chain struct {
	Top    *ir.Node
	Bottom *ir.Node
}

// Empty reports whether no directive applied.
func (c Chain) Empty() bool { return c.Top == nil }

// Result is the outcome of resolving one element.
type Result struct {
	Chain
	// TagForm is set when the element's own tag was a control tag;
	// such an element is never emitted as a literal Element.
	TagForm bool
}

// Resolver recognises directives for one document.
type Resolver struct {
	syntax Syntax
	path   string
}

// NewResolver returns a resolver for the given syntax; path is used in errors.
func NewResolver(syntax Syntax, path string) *Resolver {
	return &Resolver{syntax: syntax, path: path}
}

// Syntax returns the control syntax in use.
func (r *Resolver) Syntax() Syntax { return r.syntax }

// Resolve inspects el and consumes every recognised directive attribute from
// attrs, the caller's working copy of el.Attrs.
func (r *Resolver) Resolve(el *markup.Node, attrs *markup.Attrs) (Result, error) {
	var stack []*ir.Node
	var res Result

	for _, td := range tagDirectives {
		if !r.syntax.Is(el.Tag, td.local) {
			continue
		}
		args := make([]string, len(td.attrs))
		for i, name := range td.attrs {
			v, err := r.Mandatory(el, attrs, name)
			if err != nil {
				return Result{}, err
			}
			args[i] = v
		}
		stack = append(stack, newDirective(td.kind, el, args...))
		res.TagForm = true
		break
	}

	for _, ad := range attrDirectives {
		if v, ok := r.TakeControl(attrs, ad.local); ok {
			stack = append(stack, newDirective(ad.kind, el, v))
		}
	}

	res.Chain = link(stack)
	return res, nil
}

// Mandatory removes and returns the plain attribute name, failing with a
// syntax error when the element lacks it.
func (r *Resolver) Mandatory(el *markup.Node, attrs *markup.Attrs, name string) (string, error) {
	v, ok := attrs.Remove(name)
	if !ok {
		return "", diag.NewSyntaxError(diag.SynMissingAttribute, r.path, el.Span, el.Pos,
			fmt.Sprintf("<%s> does not have the required attribute '%s'", el.Tag, name))
	}
	return v, nil
}

// TakeControl removes the control attribute local (with prefix) and returns its value.
func (r *Resolver) TakeControl(attrs *markup.Attrs, local string) (string, bool) {
	return attrs.Remove(r.syntax.Name(local))
}

// link nests every node into its predecessor.
func link(stack []*ir.Node) Chain {
	if len(stack) == 0 {
		return Chain{}
	}
	chain := Chain{Top: stack[0], Bottom: stack[len(stack)-1]}
	for len(stack) > 1 {
		last := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		stack[len(stack)-1].Append(last)
	}
	return chain
}

func newDirective(kind ir.Kind, el *markup.Node, args ...string) *ir.Node {
	pos := el.Pos
	switch kind {
	case ir.KindExtends:
		return ir.NewExtends(pos, args[0])
	case ir.KindBlock:
		return ir.NewBlock(pos, args[0])
	case ir.KindIf:
		return ir.NewIf(pos, args[0])
	case ir.KindFor:
		return ir.NewFor(pos, args[0])
	case ir.KindDefine:
		return ir.NewDefine(pos, args[0])
	case ir.KindImport:
		return ir.NewImport(pos, args[0], args[1])
	case ir.KindWith:
		return ir.NewWith(pos, args[0])
	default:
		panic(fmt.Sprintf("directive: %s is not a directive kind", kind))
	}
}
