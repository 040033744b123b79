// Package diagfmt renders diagnostic bags for people (Pretty) and tools (JSON).
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"tonnikala/internal/diag"
	"tonnikala/internal/source"
)

type palette struct {
	err, warn, info, code, path, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:   color.New(color.FgRed, color.Bold),
		warn:  color.New(color.FgYellow, color.Bold),
		info:  color.New(color.FgCyan),
		code:  color.New(color.Faint),
		path:  color.New(color.Bold),
		caret: color.New(color.FgGreen, color.Bold),
		note:  color.New(color.FgBlue),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.path, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждой диагностики печатает:
//
//	<path>:<line>:<col>: <SEV> [<CODE>]: <message>
//	   3 | <source line>
//	     |    ^~~~
//
// fs may be nil; the source line is then omitted.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		if err := prettyOne(w, d, fs, opts, p); err != nil {
			return err
		}
	}
	return nil
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) error {
	f := lookupFile(fs, d)
	pos := position(d, f)

	var loc strings.Builder
	loc.WriteString(formatPath(diagPath(d, f), opts.PathMode, opts.BaseDir))
	if pos.Known() {
		fmt.Fprintf(&loc, ":%d:%d", pos.Line, pos.Col)
	}
	if _, err := fmt.Fprintf(w, "%s: %s %s: %s\n",
		p.path.Sprint(loc.String()),
		p.severity(d.Severity).Sprint(d.Severity.String()),
		p.code.Sprint("["+d.Code.ID()+"]"),
		d.Message); err != nil {
		return err
	}

	if !opts.NoSource && f != nil && pos.Known() {
		if err := writeSnippet(w, f, pos, d.Primary, p); err != nil {
			return err
		}
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			if _, err := fmt.Fprintf(w, "  %s %s\n", p.note.Sprint("note:"), n.Msg); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeSnippet(w io.Writer, f *source.File, pos source.LineCol, span source.Span, p palette) error {
	line := f.GetLine(pos.Line)
	gutter := fmt.Sprintf("%d", pos.Line)
	blank := strings.Repeat(" ", len(gutter))

	col := min(max(int(pos.Col)-1, 0), len(line))
	// колонка в байтах, отступ в экранных ячейках; табы сохраняем
	var pad strings.Builder
	for _, r := range line[:col] {
		if r == '\t' {
			pad.WriteByte('\t')
			continue
		}
		pad.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}

	width := 1
	if span.In(f.ID) {
		end := col + int(span.Len())
		if end > len(line) {
			end = len(line)
		}
		if cells := runewidth.StringWidth(line[col:end]); cells > 1 {
			width = cells
		}
	}
	marker := "^" + strings.Repeat("~", width-1)

	_, err := fmt.Fprintf(w, " %s | %s\n %s | %s%s\n", gutter, line, blank, pad.String(), p.caret.Sprint(marker))
	return err
}

func lookupFile(fs *source.FileSet, d diag.Diagnostic) *source.File {
	if fs == nil {
		return nil
	}
	if d.Path != "" {
		if id, ok := fs.GetLatest(d.Path); ok {
			return fs.Get(id)
		}
		return nil
	}
	return fs.Get(d.Primary.File)
}

func diagPath(d diag.Diagnostic, f *source.File) string {
	if d.Path != "" {
		return d.Path
	}
	if f != nil {
		return f.Path
	}
	return "<unknown>"
}

func position(d diag.Diagnostic, f *source.File) source.LineCol {
	if d.Pos.Known() || f == nil || d.Primary.File != f.ID {
		return d.Pos
	}
	return f.Position(d.Primary.Start)
}
