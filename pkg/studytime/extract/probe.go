package extract

import (
	"context"
	"errors"
	"sync"
	"time"

	"gopkg.in/vansante/go-ffprobe.v2"
)

// DefaultProbeTimeout bounds a single ffprobe invocation.
const DefaultProbeTimeout = 30 * time.Second

var setBinPath sync.Mutex

// FFProbe reads media durations by running ffprobe.
type FFProbe struct {
	timeout time.Duration
}

// NewFFProbe creates a probe. A zero timeout uses DefaultProbeTimeout.
// binPath overrides the ffprobe executable; empty resolves it from PATH.
func NewFFProbe(binPath string, timeout time.Duration) *FFProbe {
	if binPath != "" {
		setBinPath.Lock()
		ffprobe.SetFFProbeBinPath(binPath)
		setBinPath.Unlock()
	}
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &FFProbe{timeout: timeout}
}

// ProbeDuration returns the duration of the media file at path in
// milliseconds. A probe that exceeds the timeout fails that file only.
func (p *FFProbe) ProbeDuration(path string) (float64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	data, err := ffprobe.ProbeURL(ctx, path)
	if err != nil {
		return 0, newError(MetricDuration, path, err)
	}
	if data == nil || data.Format == nil {
		return 0, newError(MetricDuration, path, errors.New("no format information"))
	}

	seconds := data.Format.DurationSeconds
	if seconds < 0 {
		return 0, newError(MetricDuration, path, errors.New("negative duration"))
	}
	return seconds * 1000, nil
}
