package diag

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FormatShort renders diagnostics one per line as
// "<severity> <ID> <path>:<line>:<col> <message>", in bag order.
// It is used by the CLI short output and by golden tests.
func FormatShort(items []Diagnostic) string {
	var b strings.Builder
	for i, d := range items {
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s",
			d.Severity.Short(), d.Code.ID(), normalizePath(d.Path), d.Pos.Line, d.Pos.Col, sanitizeMessage(d.Message))
		if i < len(items)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func normalizePath(path string) string {
	if path == "" {
		return "<string>"
	}
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
