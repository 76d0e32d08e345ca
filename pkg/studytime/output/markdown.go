package output

import (
	"bytes"
	"fmt"
)

// MarkdownFormatter formats output as a Markdown document with a summary
// table followed by one heading per section.
type MarkdownFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *MarkdownFormatter) Format(w *bytes.Buffer, r *Result) error {
	w.WriteString("# Study time estimate\n\n")

	if len(r.Paths) > 0 {
		for _, p := range r.Paths {
			fmt.Fprintf(w, "- `%s`\n", p)
		}
		w.WriteString("\n")
	}

	w.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(w, "| PDF documents | %d |\n", r.Record.PDFDocuments)
	fmt.Fprintf(w, "| PDF pages | %s |\n", r.Record.PDFPages)
	fmt.Fprintf(w, "| Videos | %d |\n", r.Record.Videos)
	fmt.Fprintf(w, "| Video seconds | %s |\n", r.Record.VideoSeconds)

	for _, s := range r.Analysis.Sections {
		fmt.Fprintf(w, "\n## %s\n\n", s.Title)
		for _, line := range s.Lines {
			fmt.Fprintf(w, "- %s\n", line)
		}
		if s.Warning != "" {
			fmt.Fprintf(w, "\n> **Warning:** %s\n", s.Warning)
		}
	}
	return nil
}

func init() {
	Register("markdown", func() Formatter {
		return &MarkdownFormatter{}
	})
}

// Ensure MarkdownFormatter implements Formatter.
var _ Formatter = (*MarkdownFormatter)(nil)
