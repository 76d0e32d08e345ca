package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/studytime/pkg/studytime/config"
	"github.com/jamesainslie/studytime/pkg/studytime/estimate"
	"github.com/jamesainslie/studytime/pkg/studytime/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View past estimations",
	Long: `View the history of study time estimations.

Every scan is recorded with the paths it covered and the totals it found,
so earlier estimates can be compared or shown again.`,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a past estimation",
	Long: `Display a recorded estimation using the current pacing and output format.
The id may be abbreviated to any unique prefix.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistoryShow,
}

var historyCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean up old history entries",
	Long:  `Remove history entries older than the retention period.`,
	RunE:  runHistoryClean,
}

var (
	historyLimit int
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "maximum number of entries to show")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyCleanCmd)
	rootCmd.AddCommand(historyCmd)
}

// getManifest returns the history manifest at the configured path.
func getManifest() (*history.Manifest, error) {
	dir := config.DefaultHistoryPath()
	if cfg != nil && cfg.History.Path != "" {
		dir = cfg.History.Path
	}
	return history.New(dir)
}

// runHistory lists recent estimations.
func runHistory(cmd *cobra.Command, args []string) error {
	m, err := getManifest()
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}

	entries, err := m.List(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if len(entries) == 0 {
		printInfo("No history entries found.")
		printInfo("Run 'studytime [paths...]' to estimate a course.")
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n%-8s  %-16s  %-8s  %-10s  %s\n", "ID", "DATE", "PAGES", "VIDEO", "PATHS")
	fmt.Fprintln(out, strings.Repeat("-", 80))

	for _, entry := range entries {
		video, err := estimate.HumanDuration(entry.Result.VideoSeconds.Float64())
		if err != nil {
			video = "?"
		}
		fmt.Fprintf(out, "%-8s  %-16s  %-8s  %-10s  %s\n",
			truncateString(entry.ID, 8),
			entry.Timestamp.Local().Format("2006-01-02 15:04"),
			entry.Result.PDFPages.String(),
			truncateString(video, 10),
			truncateString(strings.Join(entry.Paths, ", "), 30),
		)
	}

	fmt.Fprintln(out, strings.Repeat("-", 80))
	fmt.Fprintf(out, "\nShowing %d entries. Use --limit to see more.\n", len(entries))
	fmt.Fprintln(out, "Use 'studytime history show <id>' for details on a specific entry.")

	return nil
}

// runHistoryShow renders a recorded estimation.
func runHistoryShow(cmd *cobra.Command, args []string) error {
	m, err := getManifest()
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}

	entry, err := m.Get(args[0])
	if err != nil {
		return fmt.Errorf("failed to get entry: %w", err)
	}

	f, err := formatter(cfg)
	if err != nil {
		return err
	}

	printInfo("Estimation %s from %s", entry.ID, entry.Timestamp.Local().Format("2006-01-02 15:04:05 MST"))
	return render(cmd.OutOrStdout(), f, entry.Report(), cfg.Pacing, false)
}

// runHistoryClean removes old history entries.
func runHistoryClean(cmd *cobra.Command, args []string) error {
	m, err := getManifest()
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}

	retentionDays := cfg.History.RetentionDays
	if retentionDays <= 0 {
		retentionDays = config.DefaultRetentionDays
	}

	printInfo("Cleaning history entries older than %d days...", retentionDays)

	removed, err := m.Cleanup(retentionDays)
	if err != nil {
		return fmt.Errorf("failed to clean history: %w", err)
	}

	printInfo("Removed %d entries.", removed)
	return nil
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
