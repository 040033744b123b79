package diagfmt_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tonnikala/internal/diag"
	"tonnikala/internal/diagfmt"
	"tonnikala/internal/source"
)

func fixture() (*source.FileSet, *diag.Bag) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("page.tk", []byte("<ul>\n  <py:for>x</py:for>\n</ul>\n"))
	f := fs.Get(id)

	span := source.Span{File: id, Start: 7, End: 15}
	err := diag.NewSyntaxError(diag.SynMissingAttribute, f.Path, span, f.Position(span.Start),
		"<py:for> does not have the required attribute 'each'")
	bag := diag.NewBag(10)
	bag.Add(err.Diagnostic().WithNote(source.Span{}, "add each=\"x in xs\""))

	missing := diag.NewError(diag.IOFileNotFound, source.Span{}, "template not found")
	missing.Path = "<string>"
	bag.Add(missing)
	return fs, bag
}

func TestPretty(t *testing.T) {
	fs, bag := fixture()
	var buf bytes.Buffer
	if err := diagfmt.Pretty(&buf, bag, fs, diagfmt.PrettyOpts{ShowNotes: true}); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"page.tk:2:3: ERROR [SYN2001]: <py:for> does not have the required attribute 'each'",
		" 2 |   <py:for>x</py:for>",
		"   |   ^~~~~~~~",
		`  note: add each="x in xs"`,
		"<string>: ERROR [IO4001]: template not found",
		"",
	}, "\n")
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("Pretty (-want +got):\n%s", diff)
	}
}

func TestPrettyWideRunes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("wide.tk", []byte("<p>日本<py:if>x</py:if></p>"))
	f := fs.Get(id)
	start := uint32(strings.Index(string(f.Content), "<py:if>"))
	span := source.Span{File: id, Start: start, End: start + 7}
	bag := diag.NewBag(1)
	bag.Add(diag.NewSyntaxError(diag.SynMissingAttribute, "wide.tk", span, f.Position(start), "missing").Diagnostic())

	var buf bytes.Buffer
	if err := diagfmt.Pretty(&buf, bag, fs, diagfmt.PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(buf.String(), "\n")
	// "<p>" is 3 cells, each CJK rune 2 cells
	if want := "   | " + strings.Repeat(" ", 7) + "^~~~~~~"; lines[2] != want {
		t.Errorf("caret line = %q, want %q", lines[2], want)
	}
}

func TestPrettyColor(t *testing.T) {
	fs, bag := fixture()
	var buf bytes.Buffer
	if err := diagfmt.Pretty(&buf, bag, fs, diagfmt.PrettyOpts{Color: true, NoSource: true}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Error("expected ANSI escapes with Color")
	}
	if strings.Contains(buf.String(), " | ") {
		t.Error("NoSource should omit the snippet")
	}
}

func TestJSON(t *testing.T) {
	fs, bag := fixture()
	var buf bytes.Buffer
	if err := diagfmt.JSON(&buf, bag, fs, diagfmt.JSONOpts{IncludePositions: true, IncludeNotes: true, Max: 1}); err != nil {
		t.Fatal(err)
	}
	var out diagfmt.DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 2 || len(out.Diagnostics) != 1 {
		t.Fatalf("count=%d len=%d", out.Count, len(out.Diagnostics))
	}
	want := diagfmt.DiagnosticJSON{
		Severity: "ERROR",
		Code:     "SYN2001",
		Title:    "Missing mandatory attribute",
		Message:  "<py:for> does not have the required attribute 'each'",
		Location: diagfmt.LocationJSON{File: "page.tk", StartByte: 7, EndByte: 15, Line: 2, Col: 3},
		Notes:    []diagfmt.NoteJSON{{Message: `add each="x in xs"`}},
	}
	if diff := cmp.Diff(want, out.Diagnostics[0]); diff != "" {
		t.Errorf("JSON (-want +got):\n%s", diff)
	}
}
