//nolint:errcheck // IR nodes are checked by construction; Kind implies the Data payload type.
package ir

import (
	"fmt"

	"tonnikala/internal/source"
)

// Exported is a plain, serialisable mirror of a Node used by the json/yaml
// dumps and the msgpack disk cache.
type Exported struct {
	Kind         string         `json:"kind" yaml:"kind" msgpack:"k"`
	Line         uint32         `json:"line,omitempty" yaml:"line,omitempty" msgpack:"l,omitempty"`
	Col          uint32         `json:"col,omitempty" yaml:"col,omitempty" msgpack:"c,omitempty"`
	Tag          string         `json:"tag,omitempty" yaml:"tag,omitempty" msgpack:"tag,omitempty"`
	Guard        string         `json:"guard,omitempty" yaml:"guard,omitempty" msgpack:"guard,omitempty"`
	Attrs        []ExportedAttr `json:"attrs,omitempty" yaml:"attrs,omitempty" msgpack:"attrs,omitempty"`
	DynAttrs     string         `json:"dyn_attrs,omitempty" yaml:"dyn_attrs,omitempty" msgpack:"dyn,omitempty"`
	Text         string         `json:"text,omitempty" yaml:"text,omitempty" msgpack:"text,omitempty"`
	Translatable bool           `json:"translatable,omitempty" yaml:"translatable,omitempty" msgpack:"tr,omitempty"`
	Expr         string         `json:"expr,omitempty" yaml:"expr,omitempty" msgpack:"expr,omitempty"`
	Name         string         `json:"name,omitempty" yaml:"name,omitempty" msgpack:"name,omitempty"`
	Href         string         `json:"href,omitempty" yaml:"href,omitempty" msgpack:"href,omitempty"`
	Alias        string         `json:"alias,omitempty" yaml:"alias,omitempty" msgpack:"alias,omitempty"`
	Children     []*Exported    `json:"children,omitempty" yaml:"children,omitempty" msgpack:"ch,omitempty"`
}

// ExportedAttr mirrors Attr.
type ExportedAttr struct {
	Name  string      `json:"name" yaml:"name" msgpack:"n"`
	Value []*Exported `json:"value,omitempty" yaml:"value,omitempty" msgpack:"v,omitempty"`
}

// Export converts a subtree into its serialisable form.
func Export(n *Node) *Exported {
	if n == nil {
		return nil
	}
	e := &Exported{Kind: n.Kind.String(), Line: n.Pos.Line, Col: n.Pos.Col}
	switch n.Kind {
	case KindRoot:
	case KindElement:
		el := n.Element()
		e.Tag, e.Guard, e.DynAttrs = el.Tag, el.Guard, el.DynAttrs
		for _, a := range el.Attrs {
			e.Attrs = append(e.Attrs, ExportedAttr{Name: a.Name, Value: exportList(a.Value)})
		}
	case KindText:
		d := n.Data.(*TextData)
		e.Text, e.Translatable = d.Value, d.Translatable
	case KindEscapedText:
		e.Text = n.Data.(*EscapedTextData).Value
	case KindComment:
		e.Text = n.Data.(*CommentData).Text
	case KindExpression:
		e.Expr = n.Data.(*ExprData).Source
	case KindCode:
		e.Expr = n.Data.(*CodeData).Source
	case KindIf, KindUnless:
		e.Expr = n.Data.(*CondData).Test
	case KindFor:
		e.Expr = n.Data.(*ForData).Each
	case KindDefine:
		e.Expr = n.Data.(*DefineData).Signature
	case KindWith:
		e.Expr = n.Data.(*WithData).Bindings
	case KindImport:
		d := n.Data.(*ImportData)
		e.Href, e.Alias = d.Href, d.Alias
	case KindBlock:
		e.Name = n.Data.(*BlockData).Name
	case KindExtends:
		e.Href = n.Data.(*ExtendsData).Href
	default:
		panic(fmt.Sprintf("ir: unhandled node kind %d", n.Kind))
	}
	e.Children = exportList(n.Children)
	return e
}

func exportList(nodes []*Node) []*Exported {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]*Exported, len(nodes))
	for i, c := range nodes {
		out[i] = Export(c)
	}
	return out
}

// Import rebuilds a Node tree from its exported form.
func Import(e *Exported) (*Node, error) {
	if e == nil {
		return nil, nil
	}
	kind, ok := ParseKind(e.Kind)
	if !ok {
		return nil, fmt.Errorf("ir: unknown node kind %q", e.Kind)
	}
	pos := source.LineCol{Line: e.Line, Col: e.Col}
	var n *Node
	switch kind {
	case KindRoot:
		n = NewRoot()
	case KindElement:
		n = NewElement(pos, e.Tag, e.Guard)
		el := n.Element()
		el.DynAttrs = e.DynAttrs
		for _, a := range e.Attrs {
			value, err := importList(a.Value)
			if err != nil {
				return nil, fmt.Errorf("attribute %s: %w", a.Name, err)
			}
			el.Attrs = append(el.Attrs, Attr{Name: a.Name, Value: value})
		}
	case KindText:
		n = NewText(pos, e.Text)
		n.Data.(*TextData).Translatable = e.Translatable
	case KindEscapedText:
		n = NewEscapedText(pos, e.Text)
	case KindComment:
		n = NewComment(pos, e.Text)
	case KindExpression:
		n = NewExpression(pos, e.Expr)
	case KindCode:
		n = NewCode(pos, e.Expr)
	case KindIf:
		n = NewIf(pos, e.Expr)
	case KindUnless:
		n = NewUnless(pos, e.Expr)
	case KindFor:
		n = NewFor(pos, e.Expr)
	case KindDefine:
		n = NewDefine(pos, e.Expr)
	case KindWith:
		n = NewWith(pos, e.Expr)
	case KindImport:
		n = NewImport(pos, e.Href, e.Alias)
	case KindBlock:
		n = NewBlock(pos, e.Name)
	case KindExtends:
		n = NewExtends(pos, e.Href)
	default:
		return nil, fmt.Errorf("ir: unhandled node kind %s", kind)
	}
	n.Pos = pos
	children, err := importList(e.Children)
	if err != nil {
		return nil, err
	}
	n.Children = children
	return n, nil
}

func importList(list []*Exported) ([]*Node, error) {
	if len(list) == 0 {
		return nil, nil
	}
	out := make([]*Node, 0, len(list))
	for _, e := range list {
		n, err := Import(e)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
