// Package loader resolves template names to files and keeps compiled trees.
//
// The cache permits duplicate compilation: two concurrent loads of the same
// name may both compile, and the last one to finish is kept. Compiled
// templates are never mutated after they are stored.
package loader

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"tonnikala/internal/diag"
	"tonnikala/internal/driver"
	"tonnikala/internal/ir"
	"tonnikala/internal/project"
	"tonnikala/internal/source"
	"tonnikala/internal/trace"
)

// ErrNotFound is returned when a name resolves to no file on the search
// paths. It matches fs.ErrNotExist.
var ErrNotFound = fmt.Errorf("template not found: %w", fs.ErrNotExist)

// Template is a compiled template. Treat it as read-only.
type Template struct {
	Name string
	Path string
	Root *ir.Node
	// Warnings of the compilation; empty for disk cache hits.
	Warnings []diag.Diagnostic
	// FromDisk is set when Root came from the disk cache.
	FromDisk bool
}

// Loader compiles template text.
type Loader struct {
	opts  driver.Options
	files *source.FileSet
	disk  *DiskCache
}

// New returns a loader. files may be nil.
func New(opts driver.Options, files *source.FileSet) *Loader {
	if files == nil {
		files = source.NewFileSet()
	}
	return &Loader{opts: opts, files: files}
}

// SetDiskCache enables the on-disk cache; nil disables it.
func (l *Loader) SetDiskCache(c *DiskCache) { l.disk = c }

// Files returns the file set templates are registered in.
func (l *Loader) Files() *source.FileSet { return l.files }

// LoadString compiles text; name is used in errors and defaults to "<string>".
func (l *Loader) LoadString(ctx context.Context, name, text string) (*Template, error) {
	if name == "" {
		name = "<string>"
	}
	id := l.files.AddVirtual(name, []byte(text))
	return l.compile(ctx, name, l.files.Get(id))
}

func (l *Loader) compile(ctx context.Context, name string, f *source.File) (*Template, error) {
	key := Key(project.Digest(f.Hash), l.opts.Gen.Fingerprint())
	if l.disk != nil {
		var payload DiskPayload
		hit, err := l.disk.Get(key, &payload)
		if err == nil && hit {
			if root, err := ir.Import(payload.Tree); err == nil && root != nil {
				trace.Point(ctx, trace.ScopeTemplate, "disk-cache-hit", f.Path)
				return &Template{Name: name, Path: f.Path, Root: root, FromDisk: true}, nil
			}
		}
	}

	root, warnings, err := driver.CompileFile(ctx, f, l.opts)
	if err != nil {
		return nil, err
	}
	if l.disk != nil {
		payload := &DiskPayload{Path: f.Path, ContentHash: project.Digest(f.Hash), Options: l.opts.Gen.Fingerprint(), Tree: ir.Export(root)}
		if err := l.disk.Put(key, payload); err != nil {
			trace.Point(ctx, trace.ScopeTemplate, "disk-cache-error", err.Error())
		}
	}
	return &Template{Name: name, Path: f.Path, Root: root, Warnings: warnings}, nil
}

// FileLoader loads templates by name from a list of search paths.
type FileLoader struct {
	*Loader

	mu    sync.RWMutex
	paths []string
	cache map[string]*Template
}

// NewFileLoader returns a loader searching paths in order.
func NewFileLoader(opts driver.Options, files *source.FileSet, paths ...string) *FileLoader {
	return &FileLoader{
		Loader: New(opts, files),
		paths:  append([]string(nil), paths...),
		cache:  make(map[string]*Template),
	}
}

// AddPath appends search paths.
func (l *FileLoader) AddPath(paths ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.paths = append(l.paths, paths...)
}

// Paths returns a copy of the search paths.
func (l *FileLoader) Paths() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string(nil), l.paths...)
}

// Resolve returns the absolute path of the first search path containing name.
func (l *FileLoader) Resolve(name string) (string, error) {
	for _, dir := range l.Paths() {
		path, err := filepath.Abs(filepath.Join(dir, filepath.FromSlash(name)))
		if err != nil {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%s: %w", name, ErrNotFound)
}

// Load returns the cached template for name or resolves and compiles it.
func (l *FileLoader) Load(ctx context.Context, name string) (*Template, error) {
	l.mu.RLock()
	tmpl, ok := l.cache[name]
	l.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	path, err := l.Resolve(name)
	if err != nil {
		return nil, err
	}
	id, err := l.files.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	tmpl, err = l.compile(ctx, name, l.files.Get(id))
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.cache[name] = tmpl
	l.mu.Unlock()
	return tmpl, nil
}

// Forget drops name from the in-memory cache.
func (l *FileLoader) Forget(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.cache, name)
}
