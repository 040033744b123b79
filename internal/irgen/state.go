package irgen

import (
	"strings"

	"tonnikala/internal/markup"
)

// state is the generator state inherited by a subtree. It is a value:
// entering an element derives a new one and the parent's is left as is.
type state struct {
	translatable bool
	cdata        bool
}

// translatableAttrs are the attributes whose literal values are localized.
var translatableAttrs = map[string]bool{
	"title":       true,
	"alt":         true,
	"placeholder": true,
}

func (s state) attrTranslatable(name string) bool {
	return s.translatable && translatableAttrs[name]
}

// enter derives the state for el: script and style bodies are raw text and
// never translated; an HTML translate attribute overrides translation.
func (s state) enter(el *markup.Node, attrs *markup.Attrs) state {
	switch localName(el.Tag) {
	case "script", "style":
		s.cdata = true
		s.translatable = false
	}
	if v, ok := attrs.Get("translate"); ok {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "no":
			s.translatable = false
		case "yes":
			s.translatable = true
		}
	}
	return s
}

func localName(tag string) string {
	if i := strings.LastIndexByte(tag, ':'); i >= 0 {
		tag = tag[i+1:]
	}
	return strings.ToLower(tag)
}
