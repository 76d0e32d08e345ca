package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jamesainslie/studytime/pkg/studytime/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the extraction cache",
	Long: `Commands for managing the extraction cache.

The cache stores page counts and video durations so unchanged files are not
opened again on later scans. An entry is reused only while the file keeps the
same size and modification time. Cache data is stored in the XDG cache
directory (typically ~/.cache/studytime/extract).`,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear cached data",
	Long: `Removes cached page counts and durations. The next scan opens every file again.
Use --metric to clear only page counts or only durations.`,
	RunE: runCacheClear,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	Long:  `Displays the cache location, its size on disk and the number of cached entries.`,
	RunE:  runCacheStats,
}

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show cache location",
	Long:  `Prints the path to the cache directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), cfg.Cache.Path)
	},
}

var cacheMetric string

func init() {
	cacheClearCmd.Flags().StringVar(&cacheMetric, "metric", "", "clear only one metric (pages or duration)")

	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cachePathCmd)
	rootCmd.AddCommand(cacheCmd)
}

// runCacheClear removes cached entries.
func runCacheClear(cmd *cobra.Command, args []string) error {
	cachePath := cfg.Cache.Path

	if _, err := os.Stat(cachePath); os.IsNotExist(err) {
		printInfo("Cache is already empty.")
		return nil
	}

	c, err := cache.Open(cachePath)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer c.Close()

	switch cacheMetric {
	case "":
		err = c.ClearAll()
	case string(cache.MetricPages), string(cache.MetricDuration):
		err = c.Clear(cache.Metric(cacheMetric))
	default:
		return fmt.Errorf("unknown metric %q (want %s or %s)", cacheMetric, cache.MetricPages, cache.MetricDuration)
	}
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	printInfo("Cache cleared.")
	return nil
}

// runCacheStats prints cache location, size and entry counts.
func runCacheStats(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cachePath := cfg.Cache.Path

	info, err := os.Stat(cachePath)
	if os.IsNotExist(err) {
		fmt.Fprintln(out, "Cache: empty (no cache directory)")
		fmt.Fprintf(out, "Cache location: %s\n", cachePath)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat cache: %w", err)
	}

	var size int64
	var fileCount int
	err = filepath.WalkDir(cachePath, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if fi, err := d.Info(); err == nil {
			size += fi.Size()
			fileCount++
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to calculate cache size: %w", err)
	}

	c, err := cache.Open(cachePath)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer c.Close()

	stats, err := c.Stats()
	if err != nil {
		return fmt.Errorf("failed to count cache entries: %w", err)
	}

	fmt.Fprintf(out, "Cache location: %s\n", cachePath)
	fmt.Fprintf(out, "Cache size: %s in %d files\n", humanize.Bytes(uint64(size)), fileCount)
	fmt.Fprintf(out, "Page counts: %s\n", humanize.Comma(int64(stats.Pages)))
	fmt.Fprintf(out, "Durations: %s\n", humanize.Comma(int64(stats.Durations)))
	fmt.Fprintf(out, "Last modified: %s\n", info.ModTime().Format("2006-01-02 15:04:05"))

	return nil
}
