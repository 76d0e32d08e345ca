package estimate

import (
	"errors"
	"testing"
)

func TestHumanDuration(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0 second(s)"},
		{45.7, "45 second(s)"},
		{59.99, "59 second(s)"},
		{60, "1 minute(s)"},
		{3599, "59 minute(s)"},
		{3600, "1 hour(s) and 0 minute(s)"},
		{4800, "1 hour(s) and 20 minute(s)"},
		{90061, "25 hour(s) and 1 minute(s)"},
	}

	for _, tt := range tests {
		got, err := HumanDuration(tt.seconds)
		if err != nil {
			t.Fatalf("HumanDuration(%v) error = %v", tt.seconds, err)
		}
		if got != tt.want {
			t.Errorf("HumanDuration(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestHumanDuration_Negative(t *testing.T) {
	_, err := HumanDuration(-1)
	if !errors.Is(err, ErrNegativeDuration) {
		t.Errorf("HumanDuration(-1) error = %v, want ErrNegativeDuration", err)
	}
}
