// Package tuner sizes the scan worker pool from the detected CPU count and
// the process's open file limit.
package tuner

// SystemResources contains detected system resources.
type SystemResources struct {
	// CPUCores is the number of logical CPU cores available.
	CPUCores int

	// OpenFileLimit is the soft limit on open file descriptors.
	OpenFileLimit uint64
}
