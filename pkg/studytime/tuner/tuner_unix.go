//go:build unix

package tuner

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// Detect detects the CPU count and the soft open file limit.
// The CPU count is still returned when the limit cannot be read.
func Detect() (SystemResources, error) {
	resources := SystemResources{
		CPUCores: runtime.NumCPU(),
	}

	var rl unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rl); err != nil {
		return resources, fmt.Errorf("getrlimit RLIMIT_NOFILE: %w", err)
	}
	resources.OpenFileLimit = uint64(rl.Cur)

	return resources, nil
}
