package output

import (
	"bytes"
	"strconv"
	"text/tabwriter"
)

// PlainFormatter formats output as plain text suitable for piping.
// The record comes first as aligned key/value pairs, then the sections.
type PlainFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PlainFormatter) Format(w *bytes.Buffer, r *Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)

	rows := [][2]string{
		{"pdf_pages", r.Record.PDFPages.String()},
		{"pdf_error", boolString(r.Record.PDFError)},
		{"pdf_documents", int64String(r.Record.PDFDocuments)},
		{"video_seconds", r.Record.VideoSeconds.String()},
		{"video_error", boolString(r.Record.VideoError)},
		{"videos", int64String(r.Record.Videos)},
	}
	for _, row := range rows {
		if _, err := tw.Write([]byte(row[0] + "\t" + row[1] + "\n")); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, s := range r.Analysis.Sections {
		w.WriteString("\n" + s.Title + "\n")
		for _, line := range s.Lines {
			w.WriteString("  " + line + "\n")
		}
		if s.Warning != "" {
			w.WriteString("  " + s.Warning + "\n")
		}
	}
	return nil
}

func boolString(b bool) string {
	return strconv.FormatBool(b)
}

func int64String(n int64) string {
	return strconv.FormatInt(n, 10)
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

// Ensure PlainFormatter implements Formatter.
var _ Formatter = (*PlainFormatter)(nil)
