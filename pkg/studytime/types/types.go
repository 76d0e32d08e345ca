// Package types provides core data types for the studytime estimator.
// It includes the aggregate result record produced by a scan, the per-task
// partial results merged by the aggregator, and the normalized numeric total
// used for user-facing counts.
package types

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// Kind tags the shape of a partial result.
// All tasks of one aggregator run share the same worker and thus the same kind.
type Kind int

const (
	// KindCount is a bare numeric total with no error channel (file counts).
	KindCount Kind = iota

	// KindMeasurement is a numeric total paired with an error flag
	// (extraction-based metrics such as pages and durations).
	KindMeasurement
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindCount:
		return "count"
	case KindMeasurement:
		return "measurement"
	default:
		return "unknown"
	}
}

// Partial is the output of one scan task.
// It is produced by exactly one task and consumed exactly once by the merge.
type Partial struct {
	Kind   Kind
	Value  float64
	Failed bool
}

// Count returns a partial result without an error channel.
func Count(n float64) Partial {
	return Partial{Kind: KindCount, Value: n}
}

// Measurement returns a partial result carrying an error flag.
// A failed measurement still contributes its value: partial successes count.
func Measurement(v float64, failed bool) Partial {
	return Partial{Kind: KindMeasurement, Value: v, Failed: failed}
}

// Total is a merged numeric total.
// Whole values are reported as integers ("3", never "3.0") while
// fractional values keep their decimals.
type Total struct {
	value float64
}

// Normalize wraps a raw sum into a Total.
func Normalize(v float64) Total {
	return Total{value: v}
}

// IsWhole reports whether the total is mathematically an integer.
func (t Total) IsWhole() bool {
	return t.value == math.Trunc(t.value) && !math.IsInf(t.value, 0)
}

// Int64 returns the total truncated to an integer.
func (t Total) Int64() int64 {
	return int64(t.value)
}

// Float64 returns the raw total.
func (t Total) Float64() float64 {
	return t.value
}

// IsZero reports whether nothing was accumulated.
func (t Total) IsZero() bool {
	return t.value == 0
}

// String formats the total, dropping the fractional part of whole values.
func (t Total) String() string {
	if t.IsWhole() {
		return strconv.FormatInt(t.Int64(), 10)
	}
	return strconv.FormatFloat(t.value, 'f', -1, 64)
}

// MarshalJSON emits whole totals as JSON integers.
func (t Total) MarshalJSON() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalJSON accepts any JSON number.
func (t *Total) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	t.value = v
	return nil
}

// MarshalYAML emits whole totals as YAML integers.
func (t Total) MarshalYAML() (interface{}, error) {
	if t.IsWhole() {
		return t.Int64(), nil
	}
	return t.value, nil
}

// Aggregate is the merged output of one aggregator run.
type Aggregate struct {
	// Kind is KindMeasurement when any task produced a measurement.
	Kind Kind

	// Total is the sum over every task's contribution.
	Total Total

	// Failed is the OR of every task's error flag.
	// It is always false for KindCount.
	Failed bool

	// Tasks is the number of tasks that were launched.
	Tasks int
}

// Result is the aggregate result record for one scan request.
// Field names are part of the contract with the formatting layer.
type Result struct {
	// PDFPages is the total number of pages across readable PDF files.
	PDFPages Total `json:"pdf_pages" yaml:"pdf_pages"`

	// PDFError is true if at least one PDF could not be read.
	PDFError bool `json:"pdf_error" yaml:"pdf_error"`

	// PDFDocuments is the number of PDF files found.
	PDFDocuments int64 `json:"pdf_documents" yaml:"pdf_documents"`

	// VideoSeconds is the total duration of readable videos, in seconds.
	VideoSeconds Total `json:"video_seconds" yaml:"video_seconds"`

	// VideoError is true if at least one video could not be probed.
	VideoError bool `json:"video_error" yaml:"video_error"`

	// Videos is the number of video files found.
	Videos int64 `json:"videos" yaml:"videos"`
}

// Empty reports whether the scan found nothing to study.
func (r Result) Empty() bool {
	return r.PDFDocuments == 0 && r.Videos == 0
}

// Report wraps a result with metadata about the scan that produced it.
type Report struct {
	// Paths are the root path entries submitted for the scan.
	Paths []string `json:"paths" yaml:"paths"`

	// Result is the aggregate result record.
	Result Result `json:"result" yaml:"result"`

	// Elapsed is the wall time spent assembling the result.
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`

	// ListingErrors are paths that could not be listed. They are
	// diagnostics only and never set an error flag.
	ListingErrors []ScanError `json:"listing_errors,omitempty" yaml:"listing_errors,omitempty"`
}

// ScanError represents an error encountered while listing the filesystem.
// Listing errors are reported for diagnostics only; they never set a
// metric's error flag.
type ScanError struct {
	// Path is the file or directory path where the error occurred.
	Path string `json:"path" yaml:"path"`

	// Error is the error message describing what went wrong.
	Error string `json:"error" yaml:"error"`
}
