// Package aggregator fans a per-path worker out over a list of root paths and
// merges the partial results into one aggregate.
//
// Tasks share nothing. Each writes its partial result into its own slot of a
// result slice, and the merge runs on the caller's goroutine once every task
// has finished. A run cannot be cancelled.
package aggregator

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/jamesainslie/studytime/pkg/studytime/logging"
	"github.com/jamesainslie/studytime/pkg/studytime/types"
)

// Worker computes one metric for one root path.
type Worker func(path string) types.Partial

// Options configures an Aggregator.
type Options struct {
	// Workers bounds the number of tasks running at once.
	// Zero or negative uses runtime.NumCPU().
	Workers int
}

// Aggregator runs workers concurrently over root paths.
type Aggregator struct {
	workers int
	log     *logging.Logger
}

// New creates an Aggregator.
func New(opts Options) *Aggregator {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Aggregator{
		workers: workers,
		log:     logging.Get("aggregator"),
	}
}

// Workers returns the concurrency limit.
func (a *Aggregator) Workers() int {
	return a.workers
}

// Run expands paths, launches one task per entry and blocks until all of
// them complete. Totals are best effort: a task that reports a failure still
// contributes its value, and the failure only sets the aggregate's flag.
//
// kind is the shape every task of this run produces; it is also the shape
// of the stand-in result for a task that panics.
func (a *Aggregator) Run(paths []string, kind types.Kind, worker Worker) types.Aggregate {
	entries := Expand(paths)
	results := make([]types.Partial, len(entries))

	var g errgroup.Group
	g.SetLimit(a.workers)
	for i, path := range entries {
		g.Go(func() error {
			results[i] = a.runTask(path, kind, worker)
			return nil
		})
	}
	_ = g.Wait() // tasks never return errors

	agg := Merge(results)
	a.log.Debug("aggregation finished",
		"tasks", agg.Tasks,
		"total", agg.Total.String(),
		"failed", agg.Failed)
	return agg
}

// runTask invokes worker, turning a panic into an empty partial of the
// run's kind so one bad path cannot take the whole scan down. Only a
// measurement can carry the failure; a count just loses the task.
func (a *Aggregator) runTask(path string, kind types.Kind, worker Worker) (p types.Partial) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("task panicked", "path", path, "kind", kind.String(), "panic", fmt.Sprint(r))
			if kind == types.KindMeasurement {
				p = types.Measurement(0, true)
			} else {
				p = types.Count(0)
			}
		}
	}()
	return worker(path)
}

// Merge folds partial results: values are summed and error flags are ORed.
// The aggregate is a measurement if any partial is one.
func Merge(parts []types.Partial) types.Aggregate {
	var (
		sum    float64
		failed bool
		kind   = types.KindCount
	)
	for _, p := range parts {
		sum += p.Value
		if p.Kind == types.KindMeasurement {
			kind = types.KindMeasurement
			failed = failed || p.Failed
		}
	}

	return types.Aggregate{
		Kind:   kind,
		Total:  types.Normalize(sum),
		Failed: failed,
		Tasks:  len(parts),
	}
}

// Expand applies the single directory expansion rule.
//
// When paths holds exactly one directory, it is replaced by its immediate
// children so the directory's contents are processed in parallel. An empty
// or unreadable directory is kept as the only entry. Two or more paths are
// never expanded.
func Expand(paths []string) []string {
	if len(paths) != 1 {
		return paths
	}

	root := paths[0]
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return paths
	}

	children, err := os.ReadDir(root)
	if err != nil {
		logging.Get("aggregator").Debug("listing root failed, scanning it as one task",
			"path", root, "error", err)
		return paths
	}
	if len(children) == 0 {
		return paths
	}

	out := make([]string, 0, len(children))
	for _, c := range children {
		out = append(out, filepath.Join(root, c.Name()))
	}
	return out
}
