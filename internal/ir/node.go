//nolint:errcheck // IR nodes are checked by construction; Kind implies the Data payload type.
package ir

import (
	"fmt"

	"tonnikala/internal/source"
)

// Node is a single IR tree node. Kind selects the variant and Data holds
// its payload; Children are in render order.
type Node struct {
	Kind     Kind
	Pos      source.LineCol
	Data     NodeData
	Children []*Node
}

// NodeData is the interface for kind-specific payloads.
type NodeData interface {
	nodeData()
}

// Attr is a static element attribute. Value holds the scanned
// literal/expression fragments of the attribute text.
type Attr struct {
	Name  string
	Value []*Node
}

// ElementData holds data for KindElement.
type ElementData struct {
	Tag      string
	Guard    string // strip guard, empty when absent
	Attrs    []Attr
	DynAttrs string // expression yielding extra attributes, empty when absent
}

func (*ElementData) nodeData() {}

// TextData holds data for KindText.
type TextData struct {
	Value        string
	Translatable bool
}

func (*TextData) nodeData() {}

// EscapedTextData holds data for KindEscapedText.
type EscapedTextData struct {
	Value string
}

func (*EscapedTextData) nodeData() {}

// ExprData holds data for KindExpression.
type ExprData struct {
	Source string
}

func (*ExprData) nodeData() {}

// CommentData holds data for KindComment.
type CommentData struct {
	Text string
}

func (*CommentData) nodeData() {}

// CodeData holds data for KindCode.
type CodeData struct {
	Source string
}

func (*CodeData) nodeData() {}

// CondData holds data for KindIf and KindUnless.
type CondData struct {
	Test string
}

func (*CondData) nodeData() {}

// ForData holds data for KindFor.
type ForData struct {
	Each string
}

func (*ForData) nodeData() {}

// DefineData holds data for KindDefine.
type DefineData struct {
	Signature string
}

func (*DefineData) nodeData() {}

// ImportData holds data for KindImport.
type ImportData struct {
	Href  string
	Alias string
}

func (*ImportData) nodeData() {}

// BlockData holds data for KindBlock.
type BlockData struct {
	Name string
}

func (*BlockData) nodeData() {}

// ExtendsData holds data for KindExtends.
type ExtendsData struct {
	Href string
}

func (*ExtendsData) nodeData() {}

// WithData holds data for KindWith.
type WithData struct {
	Bindings string
}

func (*WithData) nodeData() {}

// Append adds child as the last child of n.
func (n *Node) Append(child *Node) {
	n.Children = append(n.Children, child)
}

// AppendAll adds children in order.
func (n *Node) AppendAll(children ...*Node) {
	n.Children = append(n.Children, children...)
}

// Element returns the element payload. It panics for other kinds.
func (n *Node) Element() *ElementData {
	return n.Data.(*ElementData)
}

// Text returns the literal content of Text and EscapedText nodes.
func (n *Node) Text() string {
	switch n.Kind {
	case KindText:
		return n.Data.(*TextData).Value
	case KindEscapedText:
		return n.Data.(*EscapedTextData).Value
	default:
		panic(fmt.Sprintf("ir: Text() on %s node", n.Kind))
	}
}

// Translatable reports whether n is a Text node marked for localization.
func (n *Node) Translatable() bool {
	if n.Kind != KindText {
		return false
	}
	return n.Data.(*TextData).Translatable
}

// NewRoot creates an empty tree root.
func NewRoot() *Node {
	return &Node{Kind: KindRoot}
}

// NewElement creates a literal element node.
func NewElement(pos source.LineCol, tag, guard string) *Node {
	return &Node{Kind: KindElement, Pos: pos, Data: &ElementData{Tag: tag, Guard: guard}}
}

func NewText(pos source.LineCol, value string) *Node {
	return &Node{Kind: KindText, Pos: pos, Data: &TextData{Value: value}}
}

// NewTranslatableText creates a text node eligible for localization.
func NewTranslatableText(pos source.LineCol, value string) *Node {
	return &Node{Kind: KindText, Pos: pos, Data: &TextData{Value: value, Translatable: true}}
}

func NewEscapedText(pos source.LineCol, markup string) *Node {
	return &Node{Kind: KindEscapedText, Pos: pos, Data: &EscapedTextData{Value: markup}}
}

func NewExpression(pos source.LineCol, src string) *Node {
	return &Node{Kind: KindExpression, Pos: pos, Data: &ExprData{Source: src}}
}

func NewComment(pos source.LineCol, text string) *Node {
	return &Node{Kind: KindComment, Pos: pos, Data: &CommentData{Text: text}}
}

func NewCode(pos source.LineCol, src string) *Node {
	return &Node{Kind: KindCode, Pos: pos, Data: &CodeData{Source: src}}
}

func NewIf(pos source.LineCol, test string) *Node {
	return &Node{Kind: KindIf, Pos: pos, Data: &CondData{Test: test}}
}

func NewUnless(pos source.LineCol, test string) *Node {
	return &Node{Kind: KindUnless, Pos: pos, Data: &CondData{Test: test}}
}

func NewFor(pos source.LineCol, each string) *Node {
	return &Node{Kind: KindFor, Pos: pos, Data: &ForData{Each: each}}
}

func NewDefine(pos source.LineCol, signature string) *Node {
	return &Node{Kind: KindDefine, Pos: pos, Data: &DefineData{Signature: signature}}
}

func NewImport(pos source.LineCol, href, alias string) *Node {
	return &Node{Kind: KindImport, Pos: pos, Data: &ImportData{Href: href, Alias: alias}}
}

func NewBlock(pos source.LineCol, name string) *Node {
	return &Node{Kind: KindBlock, Pos: pos, Data: &BlockData{Name: name}}
}

func NewExtends(pos source.LineCol, href string) *Node {
	return &Node{Kind: KindExtends, Pos: pos, Data: &ExtendsData{Href: href}}
}

func NewWith(pos source.LineCol, bindings string) *Node {
	return &Node{Kind: KindWith, Pos: pos, Data: &WithData{Bindings: bindings}}
}

// Walk visits n and its descendants depth-first in render order.
// Returning false from fn skips the children of that node.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// Count returns the number of nodes in the subtree rooted at n.
func Count(n *Node) int {
	total := 0
	Walk(n, func(*Node) bool {
		total++
		return true
	})
	return total
}
