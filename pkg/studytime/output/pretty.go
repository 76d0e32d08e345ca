package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// PrettyFormatter formats output with colors and styling using lipgloss.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *Result) error {
	w.WriteString(f.formatHeader(r))
	w.WriteString("\n")

	for _, s := range r.Analysis.Sections {
		if s.Title == "Preparation" {
			continue
		}
		w.WriteString(TitleStyle.Render(s.Title))
		w.WriteString("\n")
		for _, line := range s.Lines {
			w.WriteString("  " + line + "\n")
		}
		if s.Warning != "" {
			w.WriteString(WarningStyle.Render("  " + s.Warning))
			w.WriteString("\n")
		}
		w.WriteString("\n")
	}

	w.WriteString(f.formatFooter(r))
	w.WriteString("\n")

	if len(r.ListingErrors) > 0 {
		w.WriteString(WarningStyle.Bold(true).Render("Could not list:"))
		w.WriteString("\n")
		for _, e := range r.ListingErrors {
			w.WriteString(MutedStyle.Render(fmt.Sprintf("  %s: %s", e.Path, e.Error)))
			w.WriteString("\n")
		}
	}

	return nil
}

// formatHeader builds the header box with the scanned paths and counts.
func (f *PrettyFormatter) formatHeader(r *Result) string {
	var lines []string

	label := "Paths:"
	if r.Watching {
		label = "Watching:"
	}
	lines = append(lines, fmt.Sprintf("%s %s",
		LabelStyle.Render(label), ValueStyle.Render(strings.Join(r.Paths, ", "))))

	counts := []string{
		fmt.Sprintf("%s %s", LabelStyle.Render("PDFs:"),
			NumberStyle.Render(humanize.Comma(r.Record.PDFDocuments))),
		fmt.Sprintf("%s %s", LabelStyle.Render("Pages:"),
			NumberStyle.Render(formatTotal(r.Record.PDFPages.String()))),
		fmt.Sprintf("%s %s", LabelStyle.Render("Videos:"),
			NumberStyle.Render(humanize.Comma(r.Record.Videos))),
		fmt.Sprintf("%s %s", LabelStyle.Render("Scanned in"),
			ValueStyle.Render(formatElapsed(r.Elapsed))),
	}
	lines = append(lines, strings.Join(counts, "  "))

	return HeaderBox.Render(strings.Join(lines, "\n"))
}

// formatFooter builds the footer box with the preparation summary.
func (f *PrettyFormatter) formatFooter(r *Result) string {
	var parts []string

	for _, s := range r.Analysis.Sections {
		if s.Title == "Preparation" {
			parts = append(parts, SuccessStyle.Render(strings.Join(s.Lines, " ")))
		}
	}
	if len(parts) == 0 {
		parts = append(parts, MutedStyle.Render("Nothing to study"))
	}
	parts = append(parts, MutedStyle.Render("Use -o plain for unformatted output"))

	return FooterBox.Render(strings.Join(parts, "  "))
}

// formatTotal adds thousands separators to a normalized total.
func formatTotal(s string) string {
	whole, frac, found := strings.Cut(s, ".")
	var n int64
	if _, err := fmt.Sscan(whole, &n); err != nil {
		return s
	}
	out := humanize.Comma(n)
	if found {
		out += "." + frac
	}
	return out
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

// Ensure PrettyFormatter implements Formatter.
var _ Formatter = (*PrettyFormatter)(nil)
