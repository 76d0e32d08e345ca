package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifier_IsVideo(t *testing.T) {
	c := Default()

	tests := []struct {
		path string
		want bool
	}{
		{"video.MP4", true},
		{"video.mp4", true},
		{"lecture.Mov", true},
		{"/a/b/clip.mkv", true},
		{"clip.FLV", true},
		{"clip.aVi", true},
		{"notes.pdf", false},
		{"mp4", false},
		{"archive.mp4.zip", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsVideo(tt.path))
		})
	}
}

func TestClassifier_IsDocument(t *testing.T) {
	c := Default()

	tests := []struct {
		path string
		want bool
	}{
		{"doc.PDF", true},
		{"doc.pdf", true},
		{"doc.Pdf", true},
		{"/exam/slides.pdf", true},
		{"doc.pdf.bak", false},
		{"video.mp4", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsDocument(tt.path))
		})
	}
}

func TestNewClassifier_NormalizesExtensions(t *testing.T) {
	c := NewClassifier([]string{"WEBM", " .M4V "}, []string{"epub"})

	assert.True(t, c.IsVideo("talk.webm"))
	assert.True(t, c.IsVideo("talk.m4v"))
	assert.False(t, c.IsVideo("talk.mp4"), "custom set replaces defaults")
	assert.True(t, c.IsDocument("book.EPUB"))
	assert.False(t, c.IsDocument("book.pdf"))
}

func TestClassifier_Classify(t *testing.T) {
	c := Default()

	assert.Equal(t, Document, c.Classify("a.pdf"))
	assert.Equal(t, Video, c.Classify("a.mov"))
	assert.Equal(t, None, c.Classify("a.txt"))
	assert.True(t, c.IsRelevant("a.avi"))
	assert.False(t, c.IsRelevant("README"))
}

func TestClassifier_Extensions(t *testing.T) {
	c := Default()

	assert.ElementsMatch(t, []string{".mp4", ".flv", ".mov", ".avi", ".mkv"}, c.VideoExtensions())
	assert.ElementsMatch(t, []string{".pdf"}, c.DocumentExtensions())
}

func TestCategory_String(t *testing.T) {
	assert.Equal(t, "document", Document.String())
	assert.Equal(t, "video", Video.String())
	assert.Equal(t, "none", None.String())
}
