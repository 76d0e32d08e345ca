//go:build !unix

package tuner

import (
	"runtime"
)

// defaultOpenFileLimit is assumed where no rlimit exists.
const defaultOpenFileLimit = 512

// Detect detects the CPU count. The open file limit is a fixed default on
// platforms without rlimits.
func Detect() (SystemResources, error) {
	return SystemResources{
		CPUCores:      runtime.NumCPU(),
		OpenFileLimit: defaultOpenFileLimit,
	}, nil
}
