package estimate

import (
	"errors"
	"fmt"
	"math"
)

// ErrNegativeDuration means a computed study time came out negative.
// It points at a defect upstream and is never clamped to zero.
var ErrNegativeDuration = errors.New("negative duration")

// HumanDuration renders seconds the way a student reads a time estimate:
// "45 second(s)", "12 minute(s)" or "3 hour(s) and 20 minute(s)".
// Partial units are truncated.
func HumanDuration(seconds float64) (string, error) {
	if seconds < 0 || math.IsNaN(seconds) {
		return "", fmt.Errorf("%w: %v seconds", ErrNegativeDuration, seconds)
	}

	switch {
	case seconds < 60:
		return fmt.Sprintf("%d second(s)", int64(seconds)), nil
	case seconds < 3600:
		return fmt.Sprintf("%d minute(s)", int64(seconds/60)), nil
	default:
		hours := int64(seconds / 3600)
		minutes := int64((seconds - float64(hours)*3600) / 60)
		return fmt.Sprintf("%d hour(s) and %d minute(s)", hours, minutes), nil
	}
}
