package directive

import "strings"

// DefaultPrefix is the control prefix of the tonnikala syntax.
const DefaultPrefix = "py"

// Syntax names control tags and attributes relative to a prefix.
// The zero value has no prefix: control names are the bare local names.
type Syntax struct {
	Prefix string
}

// NewSyntax accepts the prefix with or without its trailing colon.
func NewSyntax(prefix string) Syntax {
	return Syntax{Prefix: strings.TrimSuffix(strings.TrimSpace(prefix), ":")}
}

// Name returns the qualified control name for local, e.g. "py:if".
func (s Syntax) Name(local string) string {
	if s.Prefix == "" {
		return local
	}
	return s.Prefix + ":" + local
}

// Is reports whether name is the control name local.
func (s Syntax) Is(name, local string) bool {
	return name == s.Name(local)
}

// NamespaceAttr is the xmlns declaration that binds the prefix, if any.
func (s Syntax) NamespaceAttr() string {
	if s.Prefix == "" {
		return ""
	}
	return "xmlns:" + s.Prefix
}

// Local returns the local part of name when it carries the control prefix.
func (s Syntax) Local(name string) (string, bool) {
	if s.Prefix == "" {
		return "", false
	}
	return strings.CutPrefix(name, s.Prefix+":")
}

var (
	controlTags  = map[string]bool{"replace": true}
	controlAttrs = map[string]bool{"strip": true, "content": true, "replace": true, "attrs": true}
)

func init() {
	for _, d := range tagDirectives {
		controlTags[d.local] = true
	}
	for _, d := range attrDirectives {
		controlAttrs[d.local] = true
	}
}

// IsControlTag reports whether local names a tag-form control.
func IsControlTag(local string) bool { return controlTags[local] }

// IsControlAttr reports whether local names an attribute-form control.
func IsControlAttr(local string) bool { return controlAttrs[local] }
