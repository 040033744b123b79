package diag

import (
	"fmt"

	"tonnikala/internal/source"
)

// SyntaxError is the single fatal error kind produced while turning a
// template into IR. Code tells the cases apart (missing attribute,
// unhandled node, malformed markup).
type SyntaxError struct {
	Code Code
	Path string
	Span source.Span
	Pos  source.LineCol // Line is 0 when no position is available
	Msg  string
}

// NewSyntaxError constructs a SyntaxError anchored at pos.
func NewSyntaxError(code Code, path string, span source.Span, pos source.LineCol, msg string) *SyntaxError {
	return &SyntaxError{Code: code, Path: path, Span: span, Pos: pos, Msg: msg}
}

func (e *SyntaxError) Error() string {
	path := e.Path
	if path == "" {
		path = "<string>"
	}
	return fmt.Sprintf("%s:%d: %s: %s", path, e.Pos.Line, e.Code.ID(), e.Msg)
}

// Line returns the 1-based line of the error, or 0 when unknown.
func (e *SyntaxError) Line() uint32 {
	return e.Pos.Line
}

// Diagnostic converts the error into an error-severity Diagnostic.
func (e *SyntaxError) Diagnostic() Diagnostic {
	d := NewError(e.Code, e.Span, e.Msg)
	d.Path = e.Path
	d.Pos = e.Pos
	return d
}
