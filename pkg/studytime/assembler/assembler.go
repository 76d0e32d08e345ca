// Package assembler builds the aggregate result record for a scan by running
// the aggregator once per metric.
package assembler

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/jamesainslie/studytime/pkg/studytime/aggregator"
	"github.com/jamesainslie/studytime/pkg/studytime/extract"
	"github.com/jamesainslie/studytime/pkg/studytime/logging"
	"github.com/jamesainslie/studytime/pkg/studytime/media"
	"github.com/jamesainslie/studytime/pkg/studytime/types"
	"github.com/jamesainslie/studytime/pkg/studytime/walker"
)

// Options configures an Assembler.
type Options struct {
	// Classifier decides which files are documents and videos.
	// Nil uses media.Default().
	Classifier *media.Classifier

	// Pages counts PDF pages. Required.
	Pages extract.PageCounter

	// Durations probes media durations in milliseconds. Required.
	Durations extract.DurationProbe

	// Workers bounds concurrent tasks per metric (0 = auto).
	Workers int

	// Walk configures directory traversal.
	Walk walker.Options
}

// Assembler produces result records.
type Assembler struct {
	classifier *media.Classifier
	pages      extract.PageCounter
	durations  extract.DurationProbe
	agg        *aggregator.Aggregator
	walkOpts   walker.Options
	log        *logging.Logger

	mu       sync.Mutex
	listErrs []types.ScanError
	seen     map[string]struct{}
}

// New creates an Assembler.
func New(opts Options) *Assembler {
	classifier := opts.Classifier
	if classifier == nil {
		classifier = media.Default()
	}
	return &Assembler{
		classifier: classifier,
		pages:      opts.Pages,
		durations:  opts.Durations,
		agg:        aggregator.New(aggregator.Options{Workers: opts.Workers}),
		walkOpts:   opts.Walk,
		log:        logging.Get("assembler"),
		seen:       make(map[string]struct{}),
	}
}

// Assemble scans paths and returns the aggregate result record.
//
// The four metrics are computed by independent aggregator runs. Durations
// are summed in milliseconds and converted to seconds here, once.
func (a *Assembler) Assemble(paths []string) types.Result {
	docs := a.agg.Run(paths, types.KindCount, a.countWorker(a.classifier.IsDocument))
	videos := a.agg.Run(paths, types.KindCount, a.countWorker(a.classifier.IsVideo))
	pages := a.agg.Run(paths, types.KindMeasurement, a.pagesWorker)
	millis := a.agg.Run(paths, types.KindMeasurement, a.durationWorker)

	return types.Result{
		PDFPages:     pages.Total,
		PDFError:     pages.Failed,
		PDFDocuments: docs.Total.Int64(),
		VideoSeconds: types.Normalize(millis.Total.Float64() / 1000),
		VideoError:   millis.Failed,
		Videos:       videos.Total.Int64(),
	}
}

// Report runs Assemble and records the paths, the elapsed time and any
// listing errors met along the way. Calls to Report must not overlap.
func (a *Assembler) Report(paths []string) types.Report {
	a.mu.Lock()
	a.listErrs = nil
	a.seen = make(map[string]struct{})
	a.mu.Unlock()

	start := time.Now()
	result := a.Assemble(paths)
	elapsed := time.Since(start)

	a.log.Info("scan complete",
		"paths", len(paths),
		"documents", result.PDFDocuments,
		"videos", result.Videos,
		"elapsed", elapsed)

	a.mu.Lock()
	listErrs := a.listErrs
	a.mu.Unlock()

	return types.Report{
		Paths:         paths,
		Result:        result,
		Elapsed:       elapsed,
		ListingErrors: listErrs,
	}
}

// each calls fn for every file under root that matches. A file root is
// visited when it matches; a root that cannot be stat'ed visits nothing.
func (a *Assembler) each(root string, match walker.Predicate, fn func(path string)) {
	info, err := os.Stat(root)
	if err != nil {
		a.recordListing([]types.ScanError{{Path: root, Error: err.Error()}})
		return
	}
	if !info.IsDir() {
		if match(root) {
			fn(root)
		}
		return
	}

	w := walker.New(a.walkOpts)
	for path := range w.FindMatching(root, match) {
		fn(path)
	}
	a.recordListing(w.Errors())
}

// recordListing keeps one entry per path; every metric walks the same
// trees and would otherwise report each failure four times.
func (a *Assembler) recordListing(errs []types.ScanError) {
	if len(errs) == 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, e := range errs {
		if _, ok := a.seen[e.Path]; ok {
			continue
		}
		a.seen[e.Path] = struct{}{}
		a.listErrs = append(a.listErrs, e)
	}
}

func (a *Assembler) countWorker(match walker.Predicate) aggregator.Worker {
	return func(root string) types.Partial {
		n := 0
		a.each(root, match, func(string) { n++ })
		return types.Count(float64(n))
	}
}

func (a *Assembler) pagesWorker(root string) types.Partial {
	var total float64
	failed := false
	a.each(root, a.classifier.IsDocument, func(path string) {
		n, err := countPages(a.pages, path)
		if err != nil {
			a.log.Warn("skipping unreadable document", "path", path, "error", err)
			failed = true
			return
		}
		total += float64(n)
	})
	return types.Measurement(total, failed)
}

func (a *Assembler) durationWorker(root string) types.Partial {
	var total float64
	failed := false
	a.each(root, a.classifier.IsVideo, func(path string) {
		ms, err := probeDuration(a.durations, path)
		if err != nil {
			a.log.Warn("skipping unreadable video", "path", path, "error", err)
			failed = true
			return
		}
		total += ms
	})
	return types.Measurement(total, failed)
}

// countPages calls pc, turning a panic into an extraction error for that
// file so the rest of the root is still summed.
func countPages(pc extract.PageCounter, path string) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: panic: %v", extract.ErrExtraction, path, r)
		}
	}()
	return pc.CountPages(path)
}

// probeDuration is countPages for durations.
func probeDuration(dp extract.DurationProbe, path string) (ms float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: panic: %v", extract.ErrExtraction, path, r)
		}
	}()
	return dp.ProbeDuration(path)
}
