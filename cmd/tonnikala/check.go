package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tonnikala/internal/diag"
	"tonnikala/internal/diagfmt"
	"tonnikala/internal/driver"
	"tonnikala/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file|directory>",
	Short: "Report template errors without printing IR",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "diagnostics format (pretty|json|short)")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output (same as --path-mode=absolute)")
	checkCmd.Flags().String("path-mode", "auto", "file path display (auto|absolute|relative|basename)")
	checkCmd.Flags().Bool("no-source", false, "omit source lines and carets in pretty output")
}

func runCheck(cmd *cobra.Command, args []string) error {
	target := args[0]
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	pathModeStr, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	pathMode, ok := diagfmt.ParsePathMode(pathModeStr)
	if !ok {
		return fmt.Errorf("invalid path mode %q (expected auto|absolute|relative|basename)", pathModeStr)
	}
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	noSource, err := cmd.Flags().GetBool("no-source")
	if err != nil {
		return fmt.Errorf("failed to get no-source flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
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

	fs := source.NewFileSet()
	results, err := compileTarget(cmd.Context(), fs, target, setup, false)
	if err != nil {
		return err
	}
	bag := driver.Bag(results, setup.opts.MaxDiagnostics)
	baseDir := ""
	if setup.manifest != nil {
		baseDir = setup.manifest.Root
	}

	out := cmd.OutOrStdout()
	switch strings.ToLower(format) {
	case "pretty":
		useColor, err := colorEnabled(cmd, os.Stdout)
		if err != nil {
			return err
		}
		if err := diagfmt.Pretty(out, bag, fs, diagfmt.PrettyOpts{
			Color:     useColor,
			PathMode:  pathMode,
			BaseDir:   baseDir,
			ShowNotes: true,
			NoSource:  noSource,
		}); err != nil {
			return err
		}
		if !quiet && !bag.HasErrors() {
			fmt.Fprintf(out, "%d template(s) ok\n", len(results))
		}
	case "json":
		if err := diagfmt.JSON(out, bag, fs, diagfmt.JSONOpts{IncludePositions: true, PathMode: pathMode, BaseDir: baseDir, IncludeNotes: true}); err != nil {
			return err
		}
	case "short":
		if bag.Len() > 0 {
			fmt.Fprintln(out, diag.FormatShort(bag.Items()))
		}
	default:
		return fmt.Errorf("unknown format %q (expected pretty|json|short)", format)
	}

	printTimings(cmd, setup, len(results))
	if bag.HasErrors() {
		return errFailed
	}
	return nil
}
