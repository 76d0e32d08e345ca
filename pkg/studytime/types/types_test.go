package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestTotal_String(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  string
	}{
		{name: "zero", value: 0, want: "0"},
		{name: "whole sum of floats", value: 1.0 + 1.0 + 1.0, want: "3"},
		{name: "large whole", value: 1800, want: "1800"},
		{name: "fractional", value: 1.5, want: "1.5"},
		{name: "fractional seconds", value: 1800.25, want: "1800.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.value).String())
		})
	}
}

func TestTotal_IsWhole(t *testing.T) {
	assert.True(t, Normalize(3.0).IsWhole())
	assert.False(t, Normalize(3.5).IsWhole())
	assert.True(t, Normalize(0).IsZero())
}

func TestTotal_MarshalJSON(t *testing.T) {
	r := Result{
		PDFPages:     Normalize(3.0),
		PDFDocuments: 3,
		VideoSeconds: Normalize(1.5),
		Videos:       1,
	}

	data, err := json.Marshal(r)
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"pdf_pages":3,`)
	assert.Contains(t, s, `"video_seconds":1.5,`)
	assert.NotContains(t, s, "3.0")
}

func TestTotal_UnmarshalJSON(t *testing.T) {
	var r Result
	err := json.Unmarshal([]byte(`{"pdf_pages":40,"video_seconds":1800.5}`), &r)
	require.NoError(t, err)

	assert.Equal(t, "40", r.PDFPages.String())
	assert.Equal(t, 1800.5, r.VideoSeconds.Float64())
}

func TestTotal_MarshalYAML(t *testing.T) {
	out, err := yaml.Marshal(Result{PDFPages: Normalize(40), VideoSeconds: Normalize(2.5)})
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "pdf_pages: 40\n")
	assert.Contains(t, s, "video_seconds: 2.5\n")
}

func TestPartialConstructors(t *testing.T) {
	c := Count(2)
	assert.Equal(t, KindCount, c.Kind)
	assert.False(t, c.Failed)

	m := Measurement(40, true)
	assert.Equal(t, KindMeasurement, m.Kind)
	assert.True(t, m.Failed)
	assert.Equal(t, 40.0, m.Value, "failed measurements keep their partial value")
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "count", KindCount.String())
	assert.Equal(t, "measurement", KindMeasurement.String())
	assert.Equal(t, "unknown", Kind(42).String())
}

func TestResult_Empty(t *testing.T) {
	assert.True(t, Result{}.Empty())
	assert.False(t, Result{Videos: 1}.Empty())
}

func TestPacing_Validate(t *testing.T) {
	assert.NoError(t, DefaultPacing().Validate())

	bad := []Pacing{
		{SecondsPerPage: 0, VideoSpeed: 1, HoursPerDay: 1},
		{SecondsPerPage: 60, VideoSpeed: -1, HoursPerDay: 1},
		{SecondsPerPage: 60, VideoSpeed: 1, HoursPerDay: 0},
		{SecondsPerPage: 60, VideoSpeed: 1, HoursPerDay: 25},
	}
	for _, p := range bad {
		assert.ErrorIs(t, p.Validate(), ErrInvalidPacing, "%+v", p)
	}
}
