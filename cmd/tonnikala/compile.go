package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"tonnikala/internal/diag"
	"tonnikala/internal/diagfmt"
	"tonnikala/internal/driver"
	"tonnikala/internal/loader"
	"tonnikala/internal/source"
	"tonnikala/internal/trace"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] <file|directory>",
	Short: "Compile templates and print their IR",
	Long:  `Compile a template, or every *.tk/*.html template in a directory, and print the resulting IR tree`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCompile,
}

func init() {
	compileCmd.Flags().String("format", "pretty", "IR output format (pretty|tree|json|yaml)")
	compileCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	compileCmd.Flags().Bool("disk-cache", false, "reuse compiled trees from the disk cache (single file only)")
	compileCmd.Flags().StringP("output", "o", "", "write IR to a file instead of stdout")
	compileCmd.Flags().Bool("progress", false, "show interactive progress for directories (stderr must be a terminal)")
}

func runCompile(cmd *cobra.Command, args []string) error {
	target := args[0]
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	if !validTreeFormat(format) {
		return fmt.Errorf("unknown format %q (expected pretty|tree|json|yaml)", format)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	diskCache, err := cmd.Flags().GetBool("disk-cache")
	if err != nil {
		return fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	progress, err := cmd.Flags().GetBool("progress")
	if err != nil {
		return fmt.Errorf("failed to get progress flag: %w", err)
	}

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	defer dumpTraceOnPanic()

	setup, err := resolveSetup(cmd, target)
	if err != nil {
		return err
	}
	setup.opts.Jobs = jobs
	if setup.manifest != nil && setup.manifest.Config.Loader.DiskCache {
		diskCache = true
	}

	fs := source.NewFileSet()
	setup.progress = progress && isTerminal(os.Stderr)
	results, err := compileTarget(cmd.Context(), fs, target, setup, diskCache)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", output, err)
		}
		defer f.Close() //nolint:errcheck
		out = f
	}
	var ok []*driver.Result
	for _, r := range results {
		if r.OK() {
			ok = append(ok, r)
		}
	}
	if err := writeTrees(out, format, ok); err != nil {
		return err
	}
	return finish(cmd, fs, setup, results)
}

// compileTarget compiles one file through the loader, or a whole directory.
func compileTarget(ctx context.Context, fs *source.FileSet, target string, setup *compileSetup, useDisk bool) ([]*driver.Result, error) {
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "compile")
	defer span.End(target)

	// a missing target falls through to the loader, which reports it
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		if setup.progress {
			return compileDirWithUI(ctx, fs, target, setup.opts)
		}
		return driver.CompileDir(ctx, fs, target, setup.opts)
	}

	fl := loader.NewFileLoader(setup.opts, fs, setup.searchPaths(target)...)
	if useDisk {
		dir := ""
		if setup.manifest != nil {
			dir = setup.manifest.CacheDir()
		}
		cache, err := loader.OpenDiskCache(dir, "tonnikala")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", diag.IOCacheFailed.ID(), err)
		}
		fl.SetDiskCache(cache)
	}
	res := &driver.Result{Path: target}
	tmpl, err := fl.Load(ctx, filepath.Base(target))
	if err != nil {
		res.Err = err
		return []*driver.Result{res}, nil
	}
	res.Path = tmpl.Path
	res.Root = tmpl.Root
	res.Warnings = tmpl.Warnings
	return []*driver.Result{res}, nil
}

// finish prints diagnostics and timings; it returns errFailed when any
// template failed.
func finish(cmd *cobra.Command, fs *source.FileSet, setup *compileSetup, results []*driver.Result) error {
	bag := driver.Bag(results, setup.opts.MaxDiagnostics)
	if bag.Len() > 0 {
		useColor, err := colorEnabled(cmd, os.Stderr)
		if err != nil {
			return err
		}
		if err := diagfmt.Pretty(cmd.ErrOrStderr(), bag, fs, diagfmt.PrettyOpts{Color: useColor, ShowNotes: true}); err != nil {
			return err
		}
	}
	printTimings(cmd, setup, len(results))
	if bag.HasErrors() {
		return errFailed
	}
	return nil
}

func printTimings(cmd *cobra.Command, setup *compileSetup, templates int) {
	if !setup.timings {
		return
	}
	setup.opts.Timer.Note("generate", fmt.Sprintf("%d template(s)", templates))
	fmt.Fprint(cmd.ErrOrStderr(), setup.opts.Timer.Summary())
}
