package loader_test

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"tonnikala/internal/driver"
	"tonnikala/internal/ir"
	"tonnikala/internal/irgen"
	"tonnikala/internal/loader"
	"tonnikala/internal/project"
)

func options() driver.Options {
	return driver.Options{Gen: irgen.DefaultOptions()}
}

func write(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadString(t *testing.T) {
	l := loader.New(options(), nil)
	tmpl, err := l.LoadString(context.Background(), "", `<p title="Hi">${name}</p>`)
	if err != nil {
		t.Fatal(err)
	}
	if tmpl.Name != "<string>" {
		t.Errorf("Name = %q", tmpl.Name)
	}
	want := `Root{Element(p title="_(Hi)"){Expression(name)}}`
	if got := ir.Sprint(tmpl.Root); got != want {
		t.Errorf("\n got %s\nwant %s", got, want)
	}
}

func TestFileLoaderResolveOrder(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	write(t, second, "page.tk", `<b>second</b>`)
	l := loader.NewFileLoader(options(), nil, first)
	l.AddPath(second)

	path, err := l.Resolve("page.tk")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(path) != second {
		t.Errorf("resolved %s, want it under %s", path, second)
	}

	write(t, first, "page.tk", `<b>first</b>`)
	if path, _ = l.Resolve("page.tk"); filepath.Dir(path) != first { //nolint:errcheck
		t.Errorf("earlier search path should win, got %s", path)
	}
}

func TestFileLoaderNotFound(t *testing.T) {
	l := loader.NewFileLoader(options(), nil, t.TempDir())
	_, err := l.Load(context.Background(), "missing.tk")
	if !errors.Is(err, loader.ErrNotFound) || !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	var serr *irgen.SyntaxError
	if errors.As(err, &serr) {
		t.Fatal("not-found must not be a syntax error")
	}
}

func TestFileLoaderCachesByName(t *testing.T) {
	dir := t.TempDir()
	path := write(t, dir, "page.tk", `<i>one</i>`)
	l := loader.NewFileLoader(options(), nil, dir)

	a, err := l.Load(context.Background(), "page.tk")
	if err != nil {
		t.Fatal(err)
	}
	write(t, dir, "page.tk", `<i>two</i>`)
	b, err := l.Load(context.Background(), "page.tk")
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("second load should come from the cache")
	}
	if a.Path != path {
		t.Errorf("Path = %s, want %s", a.Path, path)
	}

	l.Forget("page.tk")
	c, err := l.Load(context.Background(), "page.tk")
	if err != nil {
		t.Fatal(err)
	}
	if got := ir.Sprint(c.Root); got != `Root{Element(i){Text("two" translatable)}}` {
		t.Errorf("reloaded = %s", got)
	}
}

func TestFileLoaderConcurrent(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "page.tk", `<ul py:for="x in xs"><li>${x}</li></ul>`)
	l := loader.NewFileLoader(options(), nil, dir)

	var wg sync.WaitGroup
	out := make([]string, 8)
	for i := range out {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tmpl, err := l.Load(context.Background(), "page.tk")
			if err != nil {
				t.Error(err)
				return
			}
			out[i] = ir.Sprint(tmpl.Root)
		}()
	}
	wg.Wait()
	for _, s := range out {
		if s != out[0] {
			t.Fatalf("concurrent loads differ: %q vs %q", s, out[0])
		}
	}
}

func TestDiskCache(t *testing.T) {
	cacheDir := t.TempDir()
	cache, err := loader.OpenDiskCache(cacheDir, "tonnikala")
	if err != nil {
		t.Fatal(err)
	}
	src := `<a href="${url}" py:if="url">link</a>`

	l := loader.New(options(), nil)
	l.SetDiskCache(cache)
	first, err := l.LoadString(context.Background(), "a.tk", src)
	if err != nil {
		t.Fatal(err)
	}
	if first.FromDisk {
		t.Fatal("first load cannot come from disk")
	}

	other := loader.New(options(), nil)
	other.SetDiskCache(cache)
	second, err := other.LoadString(context.Background(), "a.tk", src)
	if err != nil {
		t.Fatal(err)
	}
	if !second.FromDisk {
		t.Fatal("second load should hit the disk cache")
	}
	if ir.Sprint(first.Root) != ir.Sprint(second.Root) {
		t.Errorf("cached tree differs:\n%s\n%s", ir.Sprint(first.Root), ir.Sprint(second.Root))
	}

	// a different option set is a different key
	js, err := irgen.Preset(irgen.SyntaxJS)
	if err != nil {
		t.Fatal(err)
	}
	third := loader.New(driver.Options{Gen: js}, nil)
	third.SetDiskCache(cache)
	tmpl, err := third.LoadString(context.Background(), "a.tk", src)
	if err != nil {
		t.Fatal(err)
	}
	if tmpl.FromDisk {
		t.Error("options must be part of the cache key")
	}

	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	var payload loader.DiskPayload
	key := loader.Key(project.Sum([]byte(src)), irgen.DefaultOptions().Fingerprint())
	if hit, err := cache.Get(key, &payload); err != nil || hit {
		t.Errorf("after DropAll: hit=%v err=%v", hit, err)
	}
}
