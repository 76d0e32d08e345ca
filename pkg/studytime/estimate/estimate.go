// Package estimate turns a scan result into study time estimates.
//
// Analyze computes the numbers for the user's pacing plus two fixed
// alternatives (skimming and thorough study) and renders them as titled
// sections of sentences for the text formatters.
package estimate

import (
	"fmt"
	"math"
	"strconv"

	"github.com/jamesainslie/studytime/pkg/studytime/types"
)

// Advisory sentences shown when some files could not be read.
const (
	PDFSkippedAdvisory   = "It seems some PDF documents could not be opened correctly, they have been skipped."
	VideoSkippedAdvisory = "It seems some video files could not be opened correctly, they have been skipped."
)

// Pace is a fixed reading and playback speed.
type Pace struct {
	Name           string  `json:"name" yaml:"name"`
	SecondsPerPage float64 `json:"seconds_per_page" yaml:"seconds_per_page"`
	VideoSpeed     float64 `json:"video_speed" yaml:"video_speed"`
}

var (
	// Skim reads a page in 20 seconds and plays videos at 2x.
	Skim = Pace{Name: "skim", SecondsPerPage: 20, VideoSpeed: 2}

	// Thorough reads a page in 2 minutes and plays videos at 0.75x to
	// leave room for notes.
	Thorough = Pace{Name: "thorough", SecondsPerPage: 120, VideoSpeed: 0.75}
)

// Documents holds the PDF estimates.
type Documents struct {
	Pages           types.Total `json:"pages" yaml:"pages"`
	Count           int64       `json:"count" yaml:"count"`
	StudySeconds    float64     `json:"study_seconds" yaml:"study_seconds"`
	SkimSeconds     float64     `json:"skim_seconds" yaml:"skim_seconds"`
	ThoroughSeconds float64     `json:"thorough_seconds" yaml:"thorough_seconds"`
	Skipped         bool        `json:"skipped" yaml:"skipped"`
	Empty           bool        `json:"empty" yaml:"empty"`
}

// Videos holds the video estimates.
type Videos struct {
	Seconds         types.Total `json:"seconds" yaml:"seconds"`
	Count           int64       `json:"count" yaml:"count"`
	AtSpeedSeconds  float64     `json:"at_speed_seconds" yaml:"at_speed_seconds"`
	SkimSeconds     float64     `json:"skim_seconds" yaml:"skim_seconds"`
	ThoroughSeconds float64     `json:"thorough_seconds" yaml:"thorough_seconds"`
	Skipped         bool        `json:"skipped" yaml:"skipped"`
	Empty           bool        `json:"empty" yaml:"empty"`
}

// Combined holds the estimates for documents and videos together.
// It is only present when both were found.
type Combined struct {
	Present         bool    `json:"present" yaml:"present"`
	Seconds         float64 `json:"seconds" yaml:"seconds"`
	SkimSeconds     float64 `json:"skim_seconds" yaml:"skim_seconds"`
	ThoroughSeconds float64 `json:"thorough_seconds" yaml:"thorough_seconds"`
}

// Preparation is the number of study days needed at the daily budget.
type Preparation struct {
	Present      bool    `json:"present" yaml:"present"`
	StudySeconds float64 `json:"study_seconds" yaml:"study_seconds"`
	HoursPerDay  float64 `json:"hours_per_day" yaml:"hours_per_day"`
	Days         int64   `json:"days" yaml:"days"`
}

// Section is a titled block of sentences.
type Section struct {
	Title   string   `json:"title" yaml:"title"`
	Lines   []string `json:"lines" yaml:"lines"`
	Warning string   `json:"warning,omitempty" yaml:"warning,omitempty"`
}

// Analysis is the full estimate for one result.
type Analysis struct {
	Pacing      types.Pacing `json:"pacing" yaml:"pacing"`
	Documents   Documents    `json:"documents" yaml:"documents"`
	Videos      Videos       `json:"videos" yaml:"videos"`
	Total       Combined     `json:"total" yaml:"total"`
	Preparation Preparation  `json:"preparation" yaml:"preparation"`
	Sections    []Section    `json:"sections" yaml:"sections"`
}

// Analyze computes study estimates for r at pacing p.
// It fails with types.ErrInvalidPacing for a bad pacing and with
// ErrNegativeDuration if any estimate is negative.
func Analyze(r types.Result, p types.Pacing) (Analysis, error) {
	if err := p.Validate(); err != nil {
		return Analysis{}, err
	}

	pages := r.PDFPages.Float64()
	seconds := r.VideoSeconds.Float64()

	a := Analysis{
		Pacing: p,
		Documents: Documents{
			Pages:           r.PDFPages,
			Count:           r.PDFDocuments,
			StudySeconds:    pages * p.SecondsPerPage,
			SkimSeconds:     pages * Skim.SecondsPerPage,
			ThoroughSeconds: pages * Thorough.SecondsPerPage,
			Skipped:         r.PDFError,
			Empty:           r.PDFPages.IsZero(),
		},
		Videos: Videos{
			Seconds:         r.VideoSeconds,
			Count:           r.Videos,
			AtSpeedSeconds:  seconds / p.VideoSpeed,
			SkimSeconds:     seconds / Skim.VideoSpeed,
			ThoroughSeconds: seconds / Thorough.VideoSpeed,
			Skipped:         r.VideoError,
			Empty:           r.VideoSeconds.IsZero(),
		},
	}

	if !a.Documents.Empty && !a.Videos.Empty {
		a.Total = Combined{
			Present:         true,
			Seconds:         a.Documents.StudySeconds + a.Videos.AtSpeedSeconds,
			SkimSeconds:     a.Documents.SkimSeconds + a.Videos.SkimSeconds,
			ThoroughSeconds: a.Documents.ThoroughSeconds + a.Videos.ThoroughSeconds,
		}
	}

	study := a.Documents.StudySeconds + a.Videos.AtSpeedSeconds
	if study < 0 {
		return Analysis{}, fmt.Errorf("%w: study time %v seconds", ErrNegativeDuration, study)
	}
	if study > 0 {
		a.Preparation = Preparation{
			Present:      true,
			StudySeconds: study,
			HoursPerDay:  p.HoursPerDay,
			Days:         int64(math.Ceil(study / (p.HoursPerDay * 3600))),
		}
	}

	sections, err := a.render()
	if err != nil {
		return Analysis{}, err
	}
	a.Sections = sections
	return a, nil
}

func (a Analysis) render() ([]Section, error) {
	var (
		sections []Section
		w        writer
	)

	docs := Section{Title: "Documents"}
	if a.Documents.Empty {
		docs.Lines = []string{"It seems there are no PDFs to study in the given paths."}
	} else {
		docs.Lines = []string{
			fmt.Sprintf("There are %s PDF pages to study spanning %d files.", a.Documents.Pages, a.Documents.Count),
			fmt.Sprintf("At %s per page, it will take you %s to study these documents.",
				w.dur(a.Pacing.SecondsPerPage), w.dur(a.Documents.StudySeconds)),
			fmt.Sprintf("Skimming very quickly (%s per page) will take you %s.",
				w.dur(Skim.SecondsPerPage), w.dur(a.Documents.SkimSeconds)),
			fmt.Sprintf("Reading carefully (%s per page) will take you %s.",
				w.dur(Thorough.SecondsPerPage), w.dur(a.Documents.ThoroughSeconds)),
		}
	}
	if a.Documents.Skipped {
		docs.Warning = PDFSkippedAdvisory
	}
	sections = append(sections, docs)

	videos := Section{Title: "Videos"}
	if a.Videos.Empty {
		videos.Lines = []string{"It seems there are no video lectures to watch in the given paths."}
	} else {
		videos.Lines = []string{
			fmt.Sprintf("There are %s to watch divided between %d videos.",
				w.dur(a.Videos.Seconds.Float64()), a.Videos.Count),
			fmt.Sprintf("At %sx it will take you %s to finish.",
				speed(a.Pacing.VideoSpeed), w.dur(a.Videos.AtSpeedSeconds)),
			fmt.Sprintf("At %sx it will take you %s.",
				speed(Skim.VideoSpeed), w.dur(a.Videos.SkimSeconds)),
			fmt.Sprintf("Accounting for pauses to take notes (%sx), it will take you %s.",
				speed(Thorough.VideoSpeed), w.dur(a.Videos.ThoroughSeconds)),
		}
	}
	if a.Videos.Skipped {
		videos.Warning = VideoSkippedAdvisory
	}
	sections = append(sections, videos)

	if a.Total.Present {
		sections = append(sections, Section{
			Title: "Total",
			Lines: []string{
				fmt.Sprintf("In total, it will take you approximately %s to study everything in the given paths.",
					w.dur(a.Total.Seconds)),
				fmt.Sprintf("Going very fast (%s per page, watching videos at %sx) will take you %s.",
					w.dur(Skim.SecondsPerPage), speed(Skim.VideoSpeed), w.dur(a.Total.SkimSeconds)),
				fmt.Sprintf("Taking your time to master the subject (%s per page, watching videos at %sx) will take you %s.",
					w.dur(Thorough.SecondsPerPage), speed(Thorough.VideoSpeed), w.dur(a.Total.ThoroughSeconds)),
			},
		})
	}

	if a.Preparation.Present {
		sections = append(sections, Section{
			Title: "Preparation",
			Lines: []string{
				fmt.Sprintf("Studying %s hours a day, you need %d day(s) to prepare.",
					speed(a.Preparation.HoursPerDay), a.Preparation.Days),
			},
		})
	}

	if w.err != nil {
		return nil, w.err
	}
	return sections, nil
}

// writer formats durations and keeps the first error.
type writer struct {
	err error
}

func (w *writer) dur(seconds float64) string {
	s, err := HumanDuration(seconds)
	if err != nil && w.err == nil {
		w.err = err
	}
	return s
}

func speed(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
