package driver

import (
	"errors"
	"io/fs"

	"tonnikala/internal/diag"
	"tonnikala/internal/source"
)

// Diagnose converts a compile error into a diagnostic. Syntax errors keep
// their code and position; missing files map to IO4001 and other load
// failures to IO4002.
func Diagnose(path string, err error) diag.Diagnostic {
	var serr *diag.SyntaxError
	if errors.As(err, &serr) {
		d := serr.Diagnostic()
		if d.Path == "" {
			d.Path = path
		}
		return d
	}
	code := diag.IOReadFailed
	if errors.Is(err, fs.ErrNotExist) {
		code = diag.IOFileNotFound
	}
	d := diag.NewError(code, source.Span{}, err.Error())
	d.Path = path
	return d
}

// Bag collects the errors and warnings of a set of results, sorted.
// maxDiagnostics <= 0 keeps all of them.
func Bag(results []*Result, maxDiagnostics int) *diag.Bag {
	if maxDiagnostics <= 0 {
		n := 0
		for _, r := range results {
			if r != nil {
				n += len(r.Warnings) + 1
			}
		}
		maxDiagnostics = n
	}
	bag := diag.NewBag(maxDiagnostics)
	for _, r := range results {
		if r == nil {
			continue
		}
		if r.Err != nil {
			bag.Add(Diagnose(r.Path, r.Err))
		}
		for _, w := range r.Warnings {
			bag.Add(w)
		}
	}
	bag.Sort()
	bag.Dedup()
	return bag
}
