package driver_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tonnikala/internal/diag"
	"tonnikala/internal/driver"
	"tonnikala/internal/ir"
	"tonnikala/internal/irgen"
	"tonnikala/internal/observ"
	"tonnikala/internal/source"
	"tonnikala/internal/testkit"
	"tonnikala/internal/trace"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
}

func plainOptions() driver.Options {
	gen := irgen.DefaultOptions()
	gen.Translatable = false
	return driver.Options{Gen: gen}
}

func TestCompileStringRunsPasses(t *testing.T) {
	opts := plainOptions()
	opts.Timer = observ.NewTimer()
	res, err := driver.CompileString(context.Background(), source.NewFileSet(), "inline.tk",
		"<p><py:with vars=\"\">a</py:with>b${c}<py:if test=\"x\"></py:if></p>", opts)
	if err != nil {
		t.Fatal(err)
	}
	want := `Root{Element(p){Text("ab"); Expression(c)}}`
	if got := ir.Sprint(res.Root); got != want {
		t.Errorf("\n got %s\nwant %s", got, want)
	}
	if res.File == nil || res.File.Flags&source.FileVirtual == 0 {
		t.Error("expected a virtual file in the result")
	}

	var names []string
	for _, p := range opts.Timer.Report().Phases {
		names = append(names, p.Name)
	}
	if diff := cmp.Diff([]string{"parse", "generate", "flatten", "merge"}, names); diff != "" {
		t.Errorf("phases (-want +got):\n%s", diff)
	}
}

func TestCompileMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.tk")
	res, err := driver.Compile(context.Background(), source.NewFileSet(), path, plainOptions())
	if err == nil || res.OK() {
		t.Fatal("expected an error")
	}
	d := driver.Diagnose(path, err)
	if d.Code != diag.IOFileNotFound || d.Path != path {
		t.Errorf("diagnostic = %+v", d)
	}
}

func TestCompileSyntaxErrorDiagnostic(t *testing.T) {
	_, err := driver.CompileString(context.Background(), source.NewFileSet(), "bad.tk",
		"<ul>\n  <py:for>x</py:for>\n</ul>", plainOptions())
	var serr *irgen.SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("expected SyntaxError, got %v", err)
	}
	d := driver.Diagnose("bad.tk", err)
	if d.Code != diag.SynMissingAttribute || d.Pos.Line != 2 || d.Pos.Col != 3 {
		t.Errorf("diagnostic = %+v", d)
	}
}

func TestCompileDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.tk"), `<b py:if="x">${x}</b>`)
	writeFile(t, filepath.Join(dir, "a.html"), `<a href="/">home</a>`)
	writeFile(t, filepath.Join(dir, "sub", "c.tk"), `<py:if>oops</py:if>`)
	writeFile(t, filepath.Join(dir, "notes.txt"), `ignored`)

	ring := trace.NewRingTracer(256, trace.LevelPhase)
	ctx := trace.WithTracer(context.Background(), ring)
	opts := plainOptions()
	opts.Jobs = 2
	results, err := driver.CompileDir(ctx, source.NewFileSet(), dir, opts)
	if err != nil {
		t.Fatal(err)
	}

	var got []string
	for _, r := range results {
		rel, _ := filepath.Rel(dir, r.Path) //nolint:errcheck
		got = append(got, filepath.ToSlash(rel))
	}
	if diff := cmp.Diff([]string{"a.html", "b.tk", "sub/c.tk"}, got); diff != "" {
		t.Fatalf("order (-want +got):\n%s", diff)
	}
	if !results[0].OK() || !results[1].OK() || results[2].OK() {
		t.Fatalf("unexpected outcomes: %v %v %v", results[0].Err, results[1].Err, results[2].Err)
	}
	if got := ir.Sprint(results[1].Root); got != `Root{If(x){Element(b){Expression(x)}}}` {
		t.Errorf("b.tk = %s", got)
	}
	for _, r := range results[:2] {
		if err := testkit.CheckTreeInvariants(r.Root, r.File); err != nil {
			t.Errorf("%s: %v", r.Path, err)
		}
	}

	bag := driver.Bag(results, 0)
	if bag.Len() != 1 || !strings.Contains(bag.Items()[0].Message, "'test'") {
		t.Errorf("bag = %s", diag.FormatShort(bag.Items()))
	}

	var passes int
	for _, ev := range ring.Snapshot() {
		if ev.Kind == trace.KindSpanBegin && ev.Scope == trace.ScopePass {
			passes++
		}
	}
	if passes == 0 {
		t.Error("expected pass spans in the trace")
	}
}

func TestCompileDirCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.tk"), `<a/>`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := driver.CompileDir(ctx, source.NewFileSet(), dir, plainOptions()); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestCompileDirEmpty(t *testing.T) {
	results, err := driver.CompileDir(context.Background(), source.NewFileSet(), t.TempDir(), plainOptions())
	if err != nil || len(results) != 0 {
		t.Fatalf("got %v, %v", results, err)
	}
}

type recordSink struct {
	mu     sync.Mutex
	events []driver.Event
}

func (s *recordSink) OnEvent(ev driver.Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
}

func TestCompileReportsProgress(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.tk")
	bad := filepath.Join(dir, "bad.tk")
	writeFile(t, good, `<p>ok</p>`)
	writeFile(t, bad, `<py:block>x</py:block>`)

	sink := &recordSink{}
	opts := plainOptions()
	opts.Progress = sink
	if _, err := driver.CompileDir(context.Background(), source.NewFileSet(), dir, opts); err != nil {
		t.Fatal(err)
	}

	last := map[string]driver.Event{}
	stages := map[string][]driver.Stage{}
	for _, ev := range sink.events {
		last[ev.File] = ev
		if ev.Status == driver.StatusWorking {
			stages[ev.File] = append(stages[ev.File], ev.Stage)
		}
	}
	want := []driver.Stage{driver.StageLoad, driver.StageParse, driver.StageGenerate, driver.StageFlatten, driver.StageMerge}
	if diff := cmp.Diff(want, stages[good]); diff != "" {
		t.Errorf("good stages (-want +got):\n%s", diff)
	}
	if ev := last[good]; ev.Status != driver.StatusDone {
		t.Errorf("good final event = %+v", ev)
	}
	if ev := last[bad]; ev.Status != driver.StatusError || ev.Stage != driver.StageGenerate || ev.Err == nil {
		t.Errorf("bad final event = %+v", ev)
	}
}

func TestCompileSampleTemplates(t *testing.T) {
	dir := filepath.Join("..", "..", "testdata", "templates")
	results, err := driver.CompileDir(context.Background(), source.NewFileSet(), dir, driver.Options{Gen: irgen.DefaultOptions()})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for _, r := range results {
		if !r.OK() {
			t.Errorf("%s: %v", r.Path, r.Err)
			continue
		}
		if err := testkit.CheckTreeInvariants(r.Root, r.File); err != nil {
			t.Errorf("%s: %v", r.Path, err)
		}
	}
}

func TestWarningsReachBag(t *testing.T) {
	res, err := driver.CompileString(context.Background(), source.NewFileSet(), "warn.tk",
		`<p py:iff="x">a</p>`, plainOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Code != diag.SynUnknownDirective {
		t.Fatalf("warnings = %+v", res.Warnings)
	}
	bag := driver.Bag([]*driver.Result{res}, 0)
	if bag.Len() != 1 || bag.HasErrors() || !bag.HasWarnings() {
		t.Errorf("bag = %s", diag.FormatShort(bag.Items()))
	}
}
