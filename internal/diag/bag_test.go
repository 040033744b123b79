package diag

import (
	"errors"
	"fmt"
	"testing"

	"tonnikala/internal/source"
)

func TestBagLimitSortDedup(t *testing.T) {
	b := NewBag(4)
	mk := func(path string, line uint32, code Code, msg string) Diagnostic {
		d := NewError(code, source.Span{}, msg)
		d.Path = path
		d.Pos = source.LineCol{Line: line, Col: 1}
		return d
	}
	b.Add(mk("b.tk", 3, SynUnhandledNode, "x"))
	b.Add(mk("a.tk", 9, SynMissingAttribute, "y"))
	b.Add(mk("a.tk", 2, SynMissingAttribute, "z"))
	b.Add(mk("a.tk", 2, SynMissingAttribute, "z"))
	if b.Add(mk("c.tk", 1, SynMalformedMarkup, "over")) {
		t.Error("expected Add to refuse beyond the limit")
	}

	b.Sort()
	b.Dedup()

	want := "error SYN2001 a.tk:2:1 z\nerror SYN2001 a.tk:9:1 y\nerror SYN2002 b.tk:3:1 x"
	if got := FormatShort(b.Items()); got != want {
		t.Errorf("FormatShort:\n got %q\nwant %q", got, want)
	}
	if !b.HasErrors() || !b.HasWarnings() {
		t.Error("expected errors to count as warnings too")
	}
}

func TestSyntaxError(t *testing.T) {
	var err error = NewSyntaxError(SynMissingAttribute, "page.tk", source.Span{File: 1, Start: 4, End: 9},
		source.LineCol{Line: 7, Col: 3}, "<py:for> does not have the required attribute 'each'")
	wrapped := fmt.Errorf("compile: %w", err)

	var se *SyntaxError
	if !errors.As(wrapped, &se) {
		t.Fatal("errors.As failed")
	}
	if se.Line() != 7 || se.Code != SynMissingAttribute {
		t.Errorf("unexpected error %+v", se)
	}
	if got, want := se.Error(), "page.tk:7: SYN2001: <py:for> does not have the required attribute 'each'"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	d := se.Diagnostic()
	if d.Severity != SevError || d.Pos.Line != 7 || d.Path != "page.tk" {
		t.Errorf("unexpected diagnostic %+v", d)
	}
}

func TestCodeIDs(t *testing.T) {
	tests := map[Code]string{
		SynMissingAttribute: "SYN2001",
		IOFileNotFound:      "IO4001",
		PrjInvalidConfig:    "PRJ5001",
		Code(42):            "E0000",
	}
	for code, want := range tests {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %s, want %s", code, got, want)
		}
	}
	if Code(9999).Title() != "Unknown error" {
		t.Error("unknown code should fall back to the generic title")
	}
}

func TestSeverityLabels(t *testing.T) {
	tests := []struct {
		sev         Severity
		long, short string
	}{
		{SevInfo, "INFO", "info"},
		{SevWarning, "WARNING", "warning"},
		{SevError, "ERROR", "error"},
		{Severity(7), "UNKNOWN", "unknown"},
	}
	for _, tt := range tests {
		if got := tt.sev.String(); got != tt.long {
			t.Errorf("String() = %q, want %q", got, tt.long)
		}
		if got := tt.sev.Short(); got != tt.short {
			t.Errorf("Short() = %q, want %q", got, tt.short)
		}
	}
}
