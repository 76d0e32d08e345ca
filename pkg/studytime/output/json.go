package output

import (
	"bytes"
	"encoding/json"

	"github.com/jamesainslie/studytime/pkg/studytime/estimate"
	"github.com/jamesainslie/studytime/pkg/studytime/types"
)

// document is the structure shared by the JSON and YAML formatters.
type document struct {
	Paths    []string          `json:"paths" yaml:"paths"`
	Result   types.Result      `json:"result" yaml:"result"`
	Analysis estimate.Analysis `json:"analysis" yaml:"analysis"`
	Meta     meta              `json:"meta" yaml:"meta"`
}

type meta struct {
	Elapsed       string            `json:"elapsed" yaml:"elapsed"`
	ListingErrors []types.ScanError `json:"listing_errors,omitempty" yaml:"listing_errors,omitempty"`
	Warnings      []string          `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

func buildDocument(r *Result) document {
	paths := r.Paths
	if paths == nil {
		paths = []string{}
	}
	return document{
		Paths:    paths,
		Result:   r.Record,
		Analysis: r.Analysis,
		Meta: meta{
			Elapsed:       r.Elapsed.String(),
			ListingErrors: r.ListingErrors,
			Warnings:      r.Warnings(),
		},
	}
}

// JSONFormatter formats output as a single indented JSON object.
type JSONFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, r *Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildDocument(r))
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

// Ensure JSONFormatter implements Formatter.
var _ Formatter = (*JSONFormatter)(nil)
