package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"tonnikala/internal/driver"
	"tonnikala/internal/ir"
	"tonnikala/internal/source"
)

// newTestRoot builds a root command with the global flags and one child.
func newTestRoot(child *cobra.Command) *cobra.Command {
	root := &cobra.Command{Use: "tonnikala"}
	root.PersistentFlags().String("color", "off", "")
	root.PersistentFlags().Bool("quiet", false, "")
	root.PersistentFlags().Bool("timings", false, "")
	root.PersistentFlags().Int("max-diagnostics", 100, "")
	root.PersistentFlags().String("syntax", "", "")
	root.PersistentFlags().String("prefix", "", "")
	root.AddCommand(child)
	return root
}

func TestResolveSetupFlagsOverrideManifest(t *testing.T) {
	dir := t.TempDir()
	manifest := "[compiler]\nsyntax = \"js\"\n\n[loader]\npaths = [\"shared\"]\n"
	if err := os.WriteFile(filepath.Join(dir, "tonnikala.toml"), []byte(manifest), 0o600); err != nil {
		t.Fatal(err)
	}
	child := &cobra.Command{Use: "x"}
	root := newTestRoot(child)
	if err := root.PersistentFlags().Set("prefix", "tk"); err != nil {
		t.Fatal(err)
	}

	setup, err := resolveSetup(child, dir)
	if err != nil {
		t.Fatal(err)
	}
	if setup.opts.Gen.Syntax.Prefix != "tk" || setup.opts.Gen.Translatable {
		t.Errorf("options = %+v", setup.opts.Gen)
	}
	paths := setup.searchPaths(filepath.Join(dir, "page.tk"))
	if len(paths) != 2 || paths[0] != dir || paths[1] != filepath.Join(setup.manifest.Root, "shared") {
		t.Errorf("searchPaths = %v", paths)
	}

	if err := root.PersistentFlags().Set("syntax", "tonnikala"); err != nil {
		t.Fatal(err)
	}
	setup, err = resolveSetup(child, dir)
	if err != nil {
		t.Fatal(err)
	}
	if !setup.opts.Gen.Translatable || setup.opts.Gen.Syntax.Prefix != "tk" {
		t.Errorf("options after --syntax = %+v", setup.opts.Gen)
	}
}

func sampleResults(t *testing.T) []*driver.Result {
	t.Helper()
	opts := driver.Options{}
	opts.Gen.Syntax.Prefix = "py"
	res, err := driver.CompileString(t.Context(), source.NewFileSet(), "a.tk", `<p py:if="x">${x}</p>`, opts)
	if err != nil {
		t.Fatal(err)
	}
	return []*driver.Result{res}
}

func TestWriteTrees(t *testing.T) {
	results := sampleResults(t)

	var buf bytes.Buffer
	if err := writeTrees(&buf, "tree", results); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "a.tk: Root{If(x){Element(p){Expression(x)}}}\n" {
		t.Errorf("tree = %q", got)
	}

	buf.Reset()
	if err := writeTrees(&buf, "json", results); err != nil {
		t.Fatal(err)
	}
	var payload []treePayload
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	root, err := ir.Import(payload[0].Tree)
	if err != nil {
		t.Fatal(err)
	}
	if ir.Sprint(root) != ir.Sprint(results[0].Root) {
		t.Errorf("json round trip = %s", ir.Sprint(root))
	}

	buf.Reset()
	if err := writeTrees(&buf, "yaml", results); err != nil {
		t.Fatal(err)
	}
	var doc treePayload
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Path != "a.tk" || doc.Tree.Kind != "Root" {
		t.Errorf("yaml = %+v", doc)
	}

	buf.Reset()
	if err := writeTrees(&buf, "pretty", results); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "  If(x) @1:1\n") {
		t.Errorf("pretty:\n%s", buf.String())
	}
}

func TestVersionJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := renderVersionJSON(&buf, true); err != nil {
		t.Fatal(err)
	}
	var p versionPayload
	if err := json.Unmarshal(buf.Bytes(), &p); err != nil {
		t.Fatal(err)
	}
	if p.Tool != "tonnikala" || p.Version == "" || p.GitCommit == "" {
		t.Errorf("payload = %+v", p)
	}
}
