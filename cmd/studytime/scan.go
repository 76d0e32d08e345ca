package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/studytime/pkg/studytime/assembler"
	"github.com/jamesainslie/studytime/pkg/studytime/cache"
	"github.com/jamesainslie/studytime/pkg/studytime/config"
	"github.com/jamesainslie/studytime/pkg/studytime/estimate"
	"github.com/jamesainslie/studytime/pkg/studytime/extract"
	"github.com/jamesainslie/studytime/pkg/studytime/history"
	"github.com/jamesainslie/studytime/pkg/studytime/logging"
	"github.com/jamesainslie/studytime/pkg/studytime/media"
	"github.com/jamesainslie/studytime/pkg/studytime/output"
	"github.com/jamesainslie/studytime/pkg/studytime/prefs"
	"github.com/jamesainslie/studytime/pkg/studytime/tuner"
	"github.com/jamesainslie/studytime/pkg/studytime/types"
	"github.com/jamesainslie/studytime/pkg/studytime/walker"
)

// scanner bundles an assembler with the resources it holds open.
type scanner struct {
	*assembler.Assembler
	classifier *media.Classifier
	cache      *cache.Cache
}

// newScanner wires extraction, caching and worker sizing from c.
// An unusable cache is logged and skipped; the scan itself never needs it.
func newScanner(c *config.Config) *scanner {
	log := logging.Get("cli")

	resources, err := tuner.Detect()
	if err != nil {
		log.Warn("resource detection incomplete", "error", err)
	}
	sizing := tuner.CalculateWithOverrides(resources, c.Workers)
	log.Debug("worker sizing",
		"cpus", resources.CPUCores,
		"open_file_limit", resources.OpenFileLimit,
		"workers", sizing.Workers,
		"walk_workers", sizing.WalkWorkers,
	)

	var pages extract.PageCounter = extract.NewPDFPageCounter()
	var durations extract.DurationProbe = extract.NewFFProbe(c.Probe.FFProbePath, c.Probe.Timeout)

	var store *cache.Cache
	if c.Cache.Enabled {
		store, err = cache.Open(c.Cache.Path)
		if err != nil {
			log.Warn("extraction cache unavailable", "path", c.Cache.Path, "error", err)
			store = nil
		} else {
			pages = extract.NewCachedPageCounter(pages, store)
			durations = extract.NewCachedDurationProbe(durations, store)
		}
	}

	classifier := media.NewClassifier(c.Extensions.Video, c.Extensions.Document)
	asm := assembler.New(assembler.Options{
		Classifier: classifier,
		Pages:      pages,
		Durations:  durations,
		Workers:    sizing.Workers,
		Walk: walker.Options{
			Exclude:    c.Exclude,
			Follow:     c.FollowSymlinks,
			NumWorkers: sizing.WalkWorkers,
		},
	})

	return &scanner{Assembler: asm, classifier: classifier, cache: store}
}

// Close releases the extraction cache.
func (s *scanner) Close() error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Close()
}

// resolvePaths returns args, or the remembered start directory when args
// is empty.
func resolvePaths(args []string, store prefs.Store) []string {
	if len(args) > 0 {
		return args
	}
	dir := prefs.StartDir(store)
	printVerbose("No paths given, scanning %s", dir)
	return []string{dir}
}

// formatter returns the configured output formatter. The template format
// uses the --template text when one was given.
func formatter(c *config.Config) (output.Formatter, error) {
	if c.Output == "template" {
		if tmpl := v.GetString("template"); tmpl != "" {
			return output.NewTemplateFormatter(tmpl), nil
		}
	}
	return output.Get(c.Output)
}

// render analyzes report and writes it to w.
func render(w io.Writer, f output.Formatter, report types.Report, pacing types.Pacing, watching bool) error {
	analysis, err := estimate.Analyze(report.Result, pacing)
	if err != nil {
		return fmt.Errorf("analyzing result: %w", err)
	}

	result := output.NewResult(report, analysis)
	result.Watching = watching

	var buf bytes.Buffer
	if err := f.Format(&buf, result); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}
	_, err = buf.WriteTo(w)
	return err
}

// recordHistory stores report in the history when enabled. Failures are
// logged; the estimate has already been printed.
func recordHistory(c *config.Config, report types.Report) {
	if !c.History.Enabled {
		return
	}
	log := logging.Get("cli")

	m, err := history.New(c.History.Path)
	if err != nil {
		log.Warn("history unavailable", "path", c.History.Path, "error", err)
		return
	}
	entry, err := m.Record(report)
	if err != nil {
		log.Warn("failed to record history", "error", err)
		return
	}
	printVerbose("Recorded history entry %s", entry.ID)
}

// runScan estimates the study time of the given paths.
func runScan(cmd *cobra.Command, args []string) error {
	store := prefs.NewFileStore(prefs.DefaultPath())
	paths := resolvePaths(args, store)

	f, err := formatter(cfg)
	if err != nil {
		return err
	}

	sc := newScanner(cfg)
	defer sc.Close()

	report := sc.Report(paths)
	printVerbose("Scanned %d path(s) in %s", len(paths), report.Elapsed)

	if err := render(cmd.OutOrStdout(), f, report, cfg.Pacing, false); err != nil {
		return err
	}

	recordHistory(cfg, report)

	if err := prefs.RememberPaths(store, paths); err != nil {
		logging.Get("cli").Warn("failed to remember last directory", "error", err)
	}
	return nil
}
