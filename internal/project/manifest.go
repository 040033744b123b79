// Package project loads tonnikala.toml, the per-project compiler settings.
//
//	[compiler]
//	syntax = "tonnikala"   # or "js"
//	control_prefix = "py"  # overrides the preset prefix
//	translatable = true    # overrides the preset flag
//
//	[loader]
//	paths = ["templates", "shared"]
//	cache_dir = ".tkcache"
//	disk_cache = true
package project

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"tonnikala/internal/irgen"
)

// Manifest is a decoded tonnikala.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the file layout.
type Config struct {
	Compiler CompilerConfig `toml:"compiler"`
	Loader   LoaderConfig   `toml:"loader"`
}

type CompilerConfig struct {
	Syntax        string `toml:"syntax"`
	ControlPrefix string `toml:"control_prefix"`
	Translatable  *bool  `toml:"translatable"`
}

type LoaderConfig struct {
	Paths     []string `toml:"paths"`
	CacheDir  string   `toml:"cache_dir"`
	DiskCache bool     `toml:"disk_cache"`
}

// LoadManifest finds and decodes the manifest above startDir.
// ok is false when there is none.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

// LoadConfig decodes one tonnikala.toml.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undec := meta.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("compiler", "syntax") {
		if _, err := irgen.Preset(cfg.Compiler.Syntax); err != nil {
			return Config{}, fmt.Errorf("%s: [compiler].syntax: %w", path, err)
		}
	}
	if meta.IsDefined("compiler", "control_prefix") && strings.TrimSpace(cfg.Compiler.ControlPrefix) == "" {
		return Config{}, fmt.Errorf("%s: [compiler].control_prefix must not be empty", path)
	}
	return cfg, nil
}

// Options resolves the compiler section into generator options.
func (c Config) Options() (irgen.Options, error) {
	opts, err := irgen.Preset(c.Compiler.Syntax)
	if err != nil {
		return irgen.Options{}, err
	}
	if c.Compiler.ControlPrefix != "" {
		opts = opts.WithPrefix(c.Compiler.ControlPrefix)
	}
	if c.Compiler.Translatable != nil {
		opts.Translatable = *c.Compiler.Translatable
	}
	return opts, nil
}

// SearchPaths returns the loader paths made absolute against the manifest root.
func (m *Manifest) SearchPaths() []string {
	out := make([]string, 0, len(m.Config.Loader.Paths))
	for _, p := range m.Config.Loader.Paths {
		p = filepath.FromSlash(p)
		if !filepath.IsAbs(p) {
			p = filepath.Join(m.Root, p)
		}
		out = append(out, p)
	}
	return out
}

// CacheDir returns the disk cache directory, "" for the user cache default.
func (m *Manifest) CacheDir() string {
	dir := m.Config.Loader.CacheDir
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(m.Root, filepath.FromSlash(dir))
}
