package driver

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"tonnikala/internal/diag"
	"tonnikala/internal/ir"
	"tonnikala/internal/irgen"
	"tonnikala/internal/markup"
	"tonnikala/internal/observ"
	"tonnikala/internal/source"
	"tonnikala/internal/trace"
)

// Options configure a compilation run.
type Options struct {
	Gen irgen.Options
	// Timer collects phase timings when non-nil.
	Timer *observ.Timer
	// Jobs bounds CompileDir parallelism; <= 0 means GOMAXPROCS.
	Jobs int
	// MaxDiagnostics caps Result.Bag; <= 0 means unlimited.
	MaxDiagnostics int
	// Progress receives per-template stage events when non-nil.
	Progress ProgressSink
}

// maxWarnings caps the warnings kept per template.
const maxWarnings = 256

// Result of compiling one template. Root is nil when Err is set.
type Result struct {
	Path     string
	FileID   source.FileID
	File     *source.File
	Root     *ir.Node
	Warnings []diag.Diagnostic
	Err      error
}

// OK reports whether compilation succeeded.
func (r *Result) OK() bool { return r.Err == nil }

// Compile loads path into fs and compiles it. The returned Result is never
// nil; its Err equals the returned error.
func Compile(ctx context.Context, fs *source.FileSet, path string, opts Options) (*Result, error) {
	res := &Result{Path: path}
	var id source.FileID
	err := phase(ctx, opts, path, StageLoad, func() (err error) {
		id, err = fs.Load(path)
		return err
	})
	if err != nil {
		res.Err = fmt.Errorf("load %s: %w", path, err)
		return res, res.Err
	}
	return compileLoaded(ctx, fs, id, opts, res)
}

// CompileString compiles in-memory template text registered in fs under name.
func CompileString(ctx context.Context, fs *source.FileSet, name, text string, opts Options) (*Result, error) {
	id := fs.AddVirtual(name, []byte(text))
	return compileLoaded(ctx, fs, id, opts, &Result{Path: name})
}

func compileLoaded(ctx context.Context, fs *source.FileSet, id source.FileID, opts Options, res *Result) (*Result, error) {
	res.FileID = id
	res.File = fs.Get(id)
	root, warnings, err := CompileFile(ctx, res.File, opts)
	res.Warnings = warnings
	if err != nil {
		res.Err = err
		return res, err
	}
	res.Root = root
	return res, nil
}

// CompileFile runs parse, generate, flatten and merge over a loaded file.
// Warnings are returned even when compilation fails.
func CompileFile(ctx context.Context, f *source.File, opts Options) (*ir.Node, []diag.Diagnostic, error) {
	ctx, span := trace.Start(ctx, trace.ScopeTemplate, "template:"+f.Path)
	defer span.End("")
	started := time.Now()
	warnings := diag.NewBag(maxWarnings)

	var doc *markup.Document
	err := phase(ctx, opts, f.Path, StageParse, func() (err error) {
		doc, err = markup.Parse(f)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	var root *ir.Node
	err = phase(ctx, opts, f.Path, StageGenerate, func() (err error) {
		gen := irgen.New(opts.Gen, f.Path)
		gen.SetReporter(diag.BagReporter{Bag: warnings})
		root, err = gen.Generate(ctx, doc)
		return err
	})
	if err != nil {
		return nil, warnings.Items(), err
	}

	_ = phase(ctx, opts, f.Path, StageFlatten, func() error { //nolint:errcheck
		ir.Flatten(root)
		return nil
	})
	_ = phase(ctx, opts, f.Path, StageMerge, func() error { //nolint:errcheck
		ir.MergeText(root)
		return nil
	})
	span.WithExtra("nodes", strconv.Itoa(ir.Count(root)))
	emit(opts.Progress, Event{File: f.Path, Stage: StageMerge, Status: StatusDone, Elapsed: time.Since(started)})
	return root, warnings.Items(), nil
}

func phase(ctx context.Context, opts Options, path string, stage Stage, fn func() error) error {
	name := string(stage)
	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, name, trace.CurrentSpan(ctx).ID())
	emit(opts.Progress, Event{File: path, Stage: stage, Status: StatusWorking})
	done := opts.Timer.Start(name)
	err := fn()
	done()
	if err != nil {
		span.End(err.Error())
		emit(opts.Progress, Event{File: path, Stage: stage, Status: StatusError, Err: err})
		return err
	}
	span.End(path)
	return nil
}
