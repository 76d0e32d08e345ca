// Package extract provides the per-file measurement primitives used by a
// scan: PDF page counts and media durations.
//
// Every failure returned by an extractor wraps ErrExtraction. Callers never
// distinguish an unreadable file from a malformed one.
package extract

import (
	"errors"
	"fmt"
)

// ErrExtraction is wrapped by every extraction failure.
var ErrExtraction = errors.New("extraction failed")

// Metric names for Error.
const (
	MetricPages    = "pages"
	MetricDuration = "duration"
)

// Error describes a single file that could not be measured.
type Error struct {
	Path   string
	Metric string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: reading %s of %s: %v", ErrExtraction, e.Metric, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports ErrExtraction as matching any *Error.
func (e *Error) Is(target error) bool {
	return target == ErrExtraction
}

func newError(metric, path string, err error) error {
	return &Error{Path: path, Metric: metric, Err: err}
}

// PageCounter returns the number of pages of a document.
type PageCounter interface {
	CountPages(path string) (int, error)
}

// DurationProbe returns the playing time of a media file in milliseconds.
type DurationProbe interface {
	ProbeDuration(path string) (float64, error)
}

// PageCounterFunc adapts a function to PageCounter.
type PageCounterFunc func(path string) (int, error)

// CountPages calls f(path).
func (f PageCounterFunc) CountPages(path string) (int, error) { return f(path) }

// DurationProbeFunc adapts a function to DurationProbe.
type DurationProbeFunc func(path string) (float64, error)

// ProbeDuration calls f(path).
func (f DurationProbeFunc) ProbeDuration(path string) (float64, error) { return f(path) }
