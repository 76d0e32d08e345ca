// Package output provides formatters for displaying studytime estimates
// in various output formats (pretty, plain, json, yaml, markdown, template).
//
// The package uses a registry pattern to allow registration of multiple
// formatter implementations that can be selected at runtime.
//
// Basic usage:
//
//	formatter, err := output.Get("pretty")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	var buf bytes.Buffer
//	if err := formatter.Format(&buf, output.NewResult(report, analysis)); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(buf.String())
package output

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jamesainslie/studytime/pkg/studytime/estimate"
	"github.com/jamesainslie/studytime/pkg/studytime/types"
)

// Result contains the complete output data for formatting.
type Result struct {
	// Paths are the root paths that were scanned.
	Paths []string

	// Record is the aggregate result record.
	Record types.Result

	// Analysis holds the study estimates derived from Record.
	Analysis estimate.Analysis

	// Elapsed is the time taken to assemble Record.
	Elapsed time.Duration

	// ListingErrors are paths that could not be listed.
	ListingErrors []types.ScanError

	// Watching is set when the output is a re-scan in watch mode.
	Watching bool
}

// NewResult combines a scan report and its analysis.
func NewResult(report types.Report, analysis estimate.Analysis) *Result {
	return &Result{
		Paths:         report.Paths,
		Record:        report.Result,
		Analysis:      analysis,
		Elapsed:       report.Elapsed,
		ListingErrors: report.ListingErrors,
	}
}

// Warnings returns the advisory sentences for skipped files followed by
// one line per unlistable path.
func (r *Result) Warnings() []string {
	var out []string
	for _, s := range r.Analysis.Sections {
		if s.Warning != "" {
			out = append(out, s.Warning)
		}
	}
	for _, e := range r.ListingErrors {
		out = append(out, fmt.Sprintf("could not list %s: %s", e.Path, e.Error))
	}
	return out
}

// Formatter is the interface that all output formatters must implement.
type Formatter interface {
	// Format writes the formatted output to the buffer.
	// It returns an error if formatting fails.
	Format(w *bytes.Buffer, r *Result) error
}

// FormatterFactory is a function that creates a new Formatter instance.
type FormatterFactory func() Formatter

// Registry manages formatter registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates a new formatter registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]FormatterFactory),
	}
}

// Register adds a formatter factory to the registry.
// It will replace any existing formatter with the same name.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter instance by name.
// It returns an error if the formatter is not found.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown formatter: %s", name)
	}
	return factory(), nil
}

// Available returns a sorted list of all registered formatter names.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter factory to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a new formatter instance from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available returns all formatter names from the default registry.
func Available() []string {
	return DefaultRegistry.Available()
}

// formatElapsed formats a scan duration in a compact way.
func formatElapsed(d time.Duration) string {
	sec := d.Seconds()
	if sec < 1 {
		return fmt.Sprintf("%.0fms", sec*1000)
	}
	if sec < 60 {
		return fmt.Sprintf("%.1fs", sec)
	}
	minutes := int(sec) / 60
	seconds := int(sec) % 60
	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
