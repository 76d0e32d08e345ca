package tuner

// Worker configuration limits.
const (
	// maxWorkers is the maximum number of concurrent scan tasks.
	maxWorkers = 64

	// minWorkers is the minimum number of concurrent scan tasks.
	minWorkers = 2

	// fdsPerTask estimates descriptors held by one task: an open directory
	// per walk worker, the file being measured and the ffprobe pipes.
	fdsPerTask = 8

	// reservedFDs are left for logging, the cache and the runtime.
	reservedFDs = 64

	// maxWalkWorkers caps fastwalk workers inside one task.
	maxWalkWorkers = 8
)

// OptimalConfig contains tuned worker configuration.
type OptimalConfig struct {
	// Workers bounds concurrent aggregator tasks per metric.
	Workers int

	// WalkWorkers is the fastwalk worker count for one task's walk.
	WalkWorkers int
}

// Calculate returns a configuration for the detected resources.
//
// Tasks are I/O bound (PDF parsing reads files, duration probing waits on a
// subprocess), so Workers starts at twice the CPU count. It is then capped
// so that every task can hold fdsPerTask descriptors within the open file
// limit. Many tasks already run side by side, so each walk gets a share of
// the CPUs rather than all of them.
func Calculate(resources SystemResources) OptimalConfig {
	cpus := max(resources.CPUCores, 1)

	workers := cpus * 2
	workers = min(workers, maxWorkers)
	workers = min(workers, fdBound(resources.OpenFileLimit))
	workers = max(workers, minWorkers)

	walkWorkers := max(cpus/workers, 2)
	walkWorkers = min(walkWorkers, maxWalkWorkers)

	return OptimalConfig{
		Workers:     workers,
		WalkWorkers: walkWorkers,
	}
}

// CalculateWithOverrides applies a user worker override to the optimal
// config. A positive override replaces Workers, still capped at maxWorkers.
func CalculateWithOverrides(resources SystemResources, workerOverride int) OptimalConfig {
	config := Calculate(resources)

	if workerOverride > 0 {
		config.Workers = min(workerOverride, maxWorkers)
	}

	return config
}

// fdBound returns how many tasks fit in the open file limit.
// An unknown limit (0) does not constrain.
func fdBound(limit uint64) int {
	if limit == 0 {
		return maxWorkers
	}
	if limit <= reservedFDs+fdsPerTask {
		return minWorkers
	}
	n := (limit - reservedFDs) / fdsPerTask
	if n > maxWorkers {
		return maxWorkers
	}
	return int(n)
}
