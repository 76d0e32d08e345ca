// Package media classifies paths as study documents or video lectures
// by file extension.
package media

import (
	"path/filepath"
	"strings"
)

// Default extension sets.
var (
	// DefaultVideoExtensions are the video containers recognized by default.
	DefaultVideoExtensions = []string{".mp4", ".flv", ".mov", ".avi", ".mkv"}

	// DefaultDocumentExtensions are the document formats recognized by default.
	DefaultDocumentExtensions = []string{".pdf"}
)

// Category is the media category of a path.
type Category int

const (
	// None means the path is neither a document nor a video.
	None Category = iota
	// Document is a paged document (PDF).
	Document
	// Video is a timed media file.
	Video
)

// String returns the string representation of the category.
func (c Category) String() string {
	switch c {
	case Document:
		return "document"
	case Video:
		return "video"
	default:
		return "none"
	}
}

// Classifier decides whether a path is a document or a video.
// Matching is case-insensitive for both sets: the path's extension is
// lower-cased and looked up in lower-cased sets. It has no side effects
// and is safe for concurrent use.
type Classifier struct {
	video    map[string]struct{}
	document map[string]struct{}
}

// NewClassifier creates a classifier from extension lists.
// Extensions may be given with or without the leading dot and in any case.
// Empty lists fall back to the defaults.
func NewClassifier(videoExts, documentExts []string) *Classifier {
	if len(videoExts) == 0 {
		videoExts = DefaultVideoExtensions
	}
	if len(documentExts) == 0 {
		documentExts = DefaultDocumentExtensions
	}
	return &Classifier{
		video:    extensionSet(videoExts),
		document: extensionSet(documentExts),
	}
}

// Default returns a classifier over the default extension sets.
func Default() *Classifier {
	return NewClassifier(nil, nil)
}

// IsVideo reports whether the path has a video extension.
func (c *Classifier) IsVideo(path string) bool {
	_, ok := c.video[Ext(path)]
	return ok
}

// IsDocument reports whether the path has a document extension.
func (c *Classifier) IsDocument(path string) bool {
	_, ok := c.document[Ext(path)]
	return ok
}

// Classify returns the category of the path.
// Document wins if an extension is configured in both sets.
func (c *Classifier) Classify(path string) Category {
	switch {
	case c.IsDocument(path):
		return Document
	case c.IsVideo(path):
		return Video
	default:
		return None
	}
}

// IsRelevant reports whether the path is a document or a video.
func (c *Classifier) IsRelevant(path string) bool {
	return c.Classify(path) != None
}

// VideoExtensions returns the configured video extensions.
func (c *Classifier) VideoExtensions() []string {
	return keys(c.video)
}

// DocumentExtensions returns the configured document extensions.
func (c *Classifier) DocumentExtensions() []string {
	return keys(c.document)
}

// Ext returns the lower-cased extension of path including the dot.
func Ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// NormalizeExtension lower-cases ext and ensures a leading dot.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// extensionSet builds a lookup set from an extension list.
func extensionSet(exts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		if n := NormalizeExtension(ext); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
