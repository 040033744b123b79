// Package expr splits template text into literal and expression fragments.
//
// Recognised forms:
//
//	${expr}    braces balanced, quoted strings may contain braces
//	$name.path a bare dotted name
//	{{expr}}
//	$$         a literal dollar sign
//
// The expression language itself is opaque here; fragments are passed on
// as source text. An unterminated ${ or {{ is kept as literal text.
package expr

import (
	"strings"
	"unicode"

	"tonnikala/internal/ir"
	"tonnikala/internal/source"
)

// Options controls how literal fragments are emitted.
type Options struct {
	// CDATA emits literals as EscapedText (script/style bodies).
	CDATA bool
	// Translatable marks the non-blank core of a literal-only text for localization.
	Translatable bool
}

// Scan splits text into IR fragments positioned at pos.
func Scan(pos source.LineCol, text string, opts Options) []*ir.Node {
	s := scanner{pos: pos, opts: opts}
	s.run(text)
	if opts.Translatable && !opts.CDATA && s.exprs == 0 {
		return translatable(pos, text)
	}
	return s.out
}

type scanner struct {
	pos   source.LineCol
	opts  Options
	lit   strings.Builder
	out   []*ir.Node
	exprs int
}

func (s *scanner) run(text string) {
	i := 0
	for i < len(text) {
		c := text[i]
		switch {
		case c == '$' && i+1 < len(text):
			next := text[i+1]
			if next == '$' {
				s.lit.WriteByte('$')
				i += 2
				continue
			}
			if next == '{' {
				if end := matchBrace(text, i+2); end >= 0 {
					s.expr(text[i+2 : end])
					i = end + 1
					continue
				}
			}
			if isNameStart(next) {
				end := scanName(text, i+1)
				s.expr(text[i+1 : end])
				i = end
				continue
			}
		case c == '{' && strings.HasPrefix(text[i:], "{{"):
			if end := strings.Index(text[i+2:], "}}"); end >= 0 {
				s.expr(text[i+2 : i+2+end])
				i += 2 + end + 2
				continue
			}
		}
		s.lit.WriteByte(c)
		i++
	}
	s.flush()
}

func (s *scanner) expr(src string) {
	s.flush()
	s.out = append(s.out, ir.NewExpression(s.pos, strings.TrimSpace(src)))
	s.exprs++
}

func (s *scanner) flush() {
	if s.lit.Len() == 0 {
		return
	}
	if s.opts.CDATA {
		s.out = append(s.out, ir.NewEscapedText(s.pos, s.lit.String()))
	} else {
		s.out = append(s.out, ir.NewText(s.pos, s.lit.String()))
	}
	s.lit.Reset()
}

// translatable splits a literal-only text into leading whitespace, the
// translatable core and trailing whitespace. "$$" escapes are resolved first.
func translatable(pos source.LineCol, text string) []*ir.Node {
	text = strings.ReplaceAll(text, "$$", "$")
	core := strings.TrimSpace(text)
	if core == "" {
		if text == "" {
			return nil
		}
		return []*ir.Node{ir.NewText(pos, text)}
	}
	lead := text[:len(text)-len(strings.TrimLeftFunc(text, unicode.IsSpace))]
	trail := text[len(strings.TrimRightFunc(text, unicode.IsSpace)):]

	out := make([]*ir.Node, 0, 3)
	if lead != "" {
		out = append(out, ir.NewText(pos, lead))
	}
	out = append(out, ir.NewTranslatableText(pos, core))
	if trail != "" {
		out = append(out, ir.NewText(pos, trail))
	}
	return out
}

// matchBrace returns the index of the brace closing the one opened just
// before start, or -1.
func matchBrace(text string, start int) int {
	depth := 1
	var quote byte
	for i := start; i < len(text); i++ {
		c := text[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9')
}

// scanName scans a dotted name starting at start; a trailing dot is not part of it.
func scanName(text string, start int) int {
	i := start
	for i < len(text) {
		if isNameChar(text[i]) {
			i++
			continue
		}
		if text[i] == '.' && i+1 < len(text) && isNameStart(text[i+1]) {
			i++
			continue
		}
		break
	}
	return i
}
