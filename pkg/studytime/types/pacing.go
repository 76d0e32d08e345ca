package types

import (
	"errors"
	"fmt"
)

// ErrInvalidPacing is returned when a pacing value is not positive.
var ErrInvalidPacing = errors.New("invalid pacing")

// Pacing describes how fast the student works through the material.
type Pacing struct {
	// SecondsPerPage is the time spent reading one PDF page.
	SecondsPerPage float64 `json:"seconds_per_page" yaml:"seconds_per_page" mapstructure:"seconds_per_page"`

	// VideoSpeed is the playback speed multiplier (1.5 plays 90 minutes in 60).
	VideoSpeed float64 `json:"video_speed" yaml:"video_speed" mapstructure:"video_speed"`

	// HoursPerDay is the daily study budget.
	HoursPerDay float64 `json:"hours_per_day" yaml:"hours_per_day" mapstructure:"hours_per_day"`
}

// DefaultPacing returns two minutes per page, videos at 1.5x and four hours a day.
func DefaultPacing() Pacing {
	return Pacing{
		SecondsPerPage: 120,
		VideoSpeed:     1.5,
		HoursPerDay:    4,
	}
}

// Validate checks that every value is positive.
func (p Pacing) Validate() error {
	if p.SecondsPerPage <= 0 {
		return fmt.Errorf("%w: seconds per page must be positive, got %v", ErrInvalidPacing, p.SecondsPerPage)
	}
	if p.VideoSpeed <= 0 {
		return fmt.Errorf("%w: video speed must be positive, got %v", ErrInvalidPacing, p.VideoSpeed)
	}
	if p.HoursPerDay <= 0 || p.HoursPerDay > 24 {
		return fmt.Errorf("%w: hours per day must be in (0, 24], got %v", ErrInvalidPacing, p.HoursPerDay)
	}
	return nil
}
