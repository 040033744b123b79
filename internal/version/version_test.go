package version

import (
	"strings"
	"testing"
)

func TestColored(t *testing.T) {
	if got := Colored(false); got != Version {
		t.Fatalf("Colored(false) = %q, want %q", got, Version)
	}
	got := Colored(true)
	if !strings.Contains(got, "\x1b[") {
		t.Fatalf("expected ANSI escapes, got %q", got)
	}
	if !strings.HasSuffix(got, "-dev") {
		t.Errorf("suffix lost: %q", got)
	}
}

func TestColoredOddVersion(t *testing.T) {
	old := Version
	defer func() { Version = old }()
	Version = "nightly"
	if got := Colored(true); got != "nightly" {
		t.Errorf("Colored = %q", got)
	}
}
