// Package config provides configuration management for studytime.
package config

import "time"

// Default configuration values for studytime.
const (
	// DefaultWorkers of zero sizes the worker pool from the machine.
	DefaultWorkers = 0

	// DefaultSecondsPerPage is the reading time for one PDF page.
	DefaultSecondsPerPage = 120

	// DefaultVideoSpeed is the playback speed multiplier.
	DefaultVideoSpeed = 1.5

	// DefaultHoursPerDay is the daily study budget.
	DefaultHoursPerDay = 4

	// DefaultRetentionDays is the number of days history entries are kept.
	DefaultRetentionDays = 90

	// DefaultProbeTimeout bounds one ffprobe run.
	DefaultProbeTimeout = 30 * time.Second

	// DefaultOutput is the default output format.
	DefaultOutput = "pretty"
)

// DefaultVideoExtensions are the video suffixes recognized out of the box.
var DefaultVideoExtensions = []string{"mp4", "flv", "mov", "avi", "mkv"}

// DefaultDocumentExtensions are the document suffixes recognized out of the box.
var DefaultDocumentExtensions = []string{"pdf"}

// DefaultExclusions are skipped while walking directories.
var DefaultExclusions = []string{".git", "node_modules"}
