package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tonnikala/internal/loader"
	"tonnikala/internal/project"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the compiled tree disk cache",
}

var cacheDirCmd = &cobra.Command{
	Use:   "dir",
	Short: "Print the cache directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cache, err := openProjectCache()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), cache.Dir())
		return nil
	},
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove every cached tree",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cache, err := openProjectCache()
		if err != nil {
			return err
		}
		if err := cache.DropAll(); err != nil {
			return fmt.Errorf("failed to clean %s: %w", cache.Dir(), err)
		}
		quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
		if err != nil {
			return fmt.Errorf("failed to get quiet flag: %w", err)
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "cleaned %s\n", cache.Dir())
		}
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheDirCmd, cacheCleanCmd)
}

// openProjectCache opens the cache configured by tonnikala.toml above the
// working directory, or the user cache directory.
func openProjectCache() (*loader.DiskCache, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	manifest, _, err := project.LoadManifest(wd)
	if err != nil {
		return nil, err
	}
	dir := ""
	if manifest != nil {
		dir = manifest.CacheDir()
	}
	return loader.OpenDiskCache(dir, "tonnikala")
}
