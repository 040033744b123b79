package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"tonnikala/internal/diag"
	"tonnikala/internal/driver"
	"tonnikala/internal/observ"
	"tonnikala/internal/project"
)

// compileSetup is everything a command needs to run the pipeline.
type compileSetup struct {
	opts     driver.Options
	manifest *project.Manifest // nil without tonnikala.toml
	timings  bool
	progress bool
}

// resolveSetup merges tonnikala.toml found above target with the CLI flags.
// Flags win over the file.
func resolveSetup(cmd *cobra.Command, target string) (*compileSetup, error) {
	flags := cmd.Root().PersistentFlags()

	startDir := target
	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		startDir = filepath.Dir(target)
	}
	manifest, _, err := project.LoadManifest(startDir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", diag.PrjInvalidConfig.ID(), err)
	}

	var cfg project.Config
	if manifest != nil {
		cfg = manifest.Config
	}
	if flags.Changed("syntax") {
		syntax, err := flags.GetString("syntax")
		if err != nil {
			return nil, fmt.Errorf("failed to get syntax flag: %w", err)
		}
		cfg.Compiler.Syntax = syntax
		// a preset from the command line brings its own prefix and flag
		cfg.Compiler.ControlPrefix = ""
		cfg.Compiler.Translatable = nil
	}
	gen, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	if flags.Changed("prefix") {
		prefix, err := flags.GetString("prefix")
		if err != nil {
			return nil, fmt.Errorf("failed to get prefix flag: %w", err)
		}
		gen = gen.WithPrefix(prefix)
	}

	maxDiagnostics, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	timings, err := flags.GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}

	setup := &compileSetup{
		opts:     driver.Options{Gen: gen, MaxDiagnostics: maxDiagnostics},
		manifest: manifest,
		timings:  timings,
	}
	if timings {
		setup.opts.Timer = observ.NewTimer()
	}
	return setup, nil
}

// searchPaths returns the loader search paths for a single template:
// its own directory first, then the manifest paths.
func (s *compileSetup) searchPaths(file string) []string {
	paths := []string{filepath.Dir(file)}
	if s.manifest != nil {
		paths = append(paths, s.manifest.SearchPaths()...)
	}
	return paths
}
