package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/studytime/pkg/studytime/prefs"
	"github.com/jamesainslie/studytime/pkg/studytime/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Re-estimate whenever study material changes",
	Long: `Estimate the given paths once, then watch every directory below them and
print a fresh estimate after documents or videos are added, changed or removed.

Changes are collected until the filesystem has been quiet for the debounce
period. Press Ctrl+C to stop.`,
	Args: cobra.ArbitraryArgs,
	RunE: runWatch,
}

var watchDebounce time.Duration

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "quiet period before re-estimating")
	rootCmd.AddCommand(watchCmd)
}

// runWatch scans once and then re-scans on every debounced change until
// interrupted.
func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := prefs.NewFileStore(prefs.DefaultPath())
	paths := resolvePaths(args, store)

	f, err := formatter(cfg)
	if err != nil {
		return err
	}

	sc := newScanner(cfg)
	defer sc.Close()

	out := cmd.OutOrStdout()
	scan := func(watching bool) {
		report := sc.Report(paths)
		if err := render(out, f, report, cfg.Pacing, watching); err != nil {
			printError("%v", err)
			return
		}
		recordHistory(cfg, report)
	}

	scan(false)
	if err := prefs.RememberPaths(store, paths); err != nil {
		printVerbose("Failed to remember last directory: %v", err)
	}

	w, err := watcher.New(sc.classifier.IsRelevant, watchDebounce)
	if err != nil {
		return err
	}
	defer w.Close()

	for _, p := range paths {
		if err := w.Watch(p); err != nil {
			printError("cannot watch %s: %v", p, err)
		}
	}
	printInfo("Watching %d directories. Press Ctrl+C to stop.", w.WatchedCount())

	w.Run(ctx, func() { scan(true) })
	return nil
}
