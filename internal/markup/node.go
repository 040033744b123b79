// Package markup parses template text into the attributed source tree the
// IR generator consumes: elements with ordered attributes, text, comments,
// processing instructions and doctype declarations, each with a position.
//
// The tree is read-only once Parse returns.
package markup

import (
	"tonnikala/internal/source"
)

// Kind enumerates source node kinds.
type Kind uint8

const (
	KindElement Kind = iota + 1
	KindText
	KindComment
	KindProcInst
	KindDoctype
)

func (k Kind) String() string {
	switch k {
	case KindElement:
		return "element"
	case KindText:
		return "text"
	case KindComment:
		return "comment"
	case KindProcInst:
		return "processing-instruction"
	case KindDoctype:
		return "doctype"
	default:
		return "unknown"
	}
}

// Attr is a single name/value attribute in source order.
type Attr struct {
	Name  string
	Value string
}

// Attrs is an ordered attribute mapping.
type Attrs struct {
	list []Attr
}

// NewAttrs builds an attribute set from pairs in order. Later duplicates
// overwrite earlier values in place.
func NewAttrs(attrs ...Attr) Attrs {
	var a Attrs
	for _, at := range attrs {
		a.Set(at.Name, at.Value)
	}
	return a
}

func (a *Attrs) index(name string) int {
	for i := range a.list {
		if a.list[i].Name == name {
			return i
		}
	}
	return -1
}

// Len returns the number of attributes.
func (a *Attrs) Len() int { return len(a.list) }

// Has reports whether name is present.
func (a *Attrs) Has(name string) bool { return a.index(name) >= 0 }

// Get returns the value of name.
func (a *Attrs) Get(name string) (string, bool) {
	if i := a.index(name); i >= 0 {
		return a.list[i].Value, true
	}
	return "", false
}

// Set replaces the value of name or appends it.
func (a *Attrs) Set(name, value string) {
	if i := a.index(name); i >= 0 {
		a.list[i].Value = value
		return
	}
	a.list = append(a.list, Attr{Name: name, Value: value})
}

// Remove deletes name and returns its value.
func (a *Attrs) Remove(name string) (string, bool) {
	i := a.index(name)
	if i < 0 {
		return "", false
	}
	v := a.list[i].Value
	a.list = append(a.list[:i:i], a.list[i+1:]...)
	return v, true
}

// Items returns the attributes in order. The slice must not be modified.
func (a *Attrs) Items() []Attr { return a.list }

// Clone returns an independent copy.
func (a *Attrs) Clone() Attrs {
	return Attrs{list: append([]Attr(nil), a.list...)}
}

// Node is a source tree node.
type Node struct {
	Kind     Kind
	Span     source.Span
	Pos      source.LineCol
	Tag      string // element name including its prefix, e.g. "py:if"
	Attrs    Attrs
	Children []*Node
	Data     string // text, comment body, instruction body or doctype markup
	Target   string // processing instruction target
}

// Document is a parsed template.
type Document struct {
	File     source.FileID
	Path     string
	Children []*Node
}
