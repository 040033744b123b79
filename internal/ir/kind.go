package ir

// Kind enumerates IR node variants.
type Kind uint8

const (
	// KindRoot is the tree entry point.
	KindRoot Kind = iota
	// KindElement is a literal output element.
	KindElement
	// KindText is verbatim text, escaped on output.
	KindText
	// KindEscapedText is markup emitted without re-escaping.
	KindEscapedText
	// KindExpression is a value evaluated and inserted at render time.
	KindExpression
	// KindComment is a verbatim comment.
	KindComment
	// KindCode is an opaque statement passed through to the backend.
	KindCode
	// KindIf is conditional inclusion.
	KindIf
	// KindUnless is negated conditional inclusion.
	KindUnless
	// KindFor is a loop.
	KindFor
	// KindDefine is a named, callable sub-template.
	KindDefine
	// KindImport references an external template under an alias.
	KindImport
	// KindBlock is a named overridable region.
	KindBlock
	// KindExtends references the parent template.
	KindExtends
	// KindWith introduces scoped variable bindings.
	KindWith

	kindCount
)

// String returns a human-readable name for the node kind.
func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "Root"
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindEscapedText:
		return "EscapedText"
	case KindExpression:
		return "Expression"
	case KindComment:
		return "Comment"
	case KindCode:
		return "Code"
	case KindIf:
		return "If"
	case KindUnless:
		return "Unless"
	case KindFor:
		return "For"
	case KindDefine:
		return "Define"
	case KindImport:
		return "Import"
	case KindBlock:
		return "Block"
	case KindExtends:
		return "Extends"
	case KindWith:
		return "With"
	default:
		return "Unknown"
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	for k := KindRoot; k < kindCount; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// IsDirective reports whether the kind is a control construct rather than output.
func (k Kind) IsDirective() bool {
	switch k {
	case KindIf, KindUnless, KindFor, KindDefine, KindImport, KindBlock, KindExtends, KindWith:
		return true
	default:
		return false
	}
}

// IsOutput reports whether nodes of this kind produce visible output by themselves.
func (k Kind) IsOutput() bool {
	switch k {
	case KindElement, KindText, KindEscapedText, KindExpression, KindCode, KindComment:
		return true
	default:
		return false
	}
}

// IsText reports whether the kind is a literal text run.
func (k Kind) IsText() bool {
	return k == KindText || k == KindEscapedText
}
