package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"tonnikala/internal/source"
	"tonnikala/internal/trace"
)

// TemplateExts are the file extensions CompileDir picks up.
var TemplateExts = []string{".tk", ".html"}

// ListTemplates возвращает отсортированный список шаблонов в директории.
func ListTemplates(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isTemplate(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// детерминированный порядок
	sort.Strings(files)
	return files, nil
}

func isTemplate(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range TemplateExts {
		if ext == e {
			return true
		}
	}
	return false
}

// CompileDir compiles every template under dir in parallel. Results are in
// path order; a failing template sets its Result.Err and does not stop the
// others. The returned error is for walk failures and cancellation only.
func CompileDir(ctx context.Context, fileSet *source.FileSet, dir string, opts Options) ([]*Result, error) {
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "compile-dir")
	defer span.End(dir)

	files, err := ListTemplates(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]*Result, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// per-template failures live in the Result
			results[i], _ = Compile(gctx, fileSet, path, opts) //nolint:errcheck
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	span.WithExtra("templates", strconv.Itoa(len(files)))
	return results, nil
}
