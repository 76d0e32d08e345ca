package walker

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestTree creates a directory structure for testing.
//
//	root/
//	  a.pdf
//	  notes.txt
//	  week1/
//	    lecture.MP4
//	    slides.PDF
//	    deep/
//	      extra.pdf
//	  skip/
//	    hidden.pdf
func createTestTree(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	files := []string{
		"a.pdf",
		"notes.txt",
		filepath.Join("week1", "lecture.MP4"),
		filepath.Join("week1", "slides.PDF"),
		filepath.Join("week1", "deep", "extra.pdf"),
		filepath.Join("skip", "hidden.pdf"),
	}
	for _, f := range files {
		path := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}
	return root
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

func TestFindMatching_Recursive(t *testing.T) {
	root := createTestTree(t)
	w := New(Options{})

	got := w.Collect(root, isPDF)

	assert.ElementsMatch(t, []string{
		filepath.Join(root, "a.pdf"),
		filepath.Join(root, "week1", "slides.PDF"),
		filepath.Join(root, "week1", "deep", "extra.pdf"),
		filepath.Join(root, "skip", "hidden.pdf"),
	}, got)
	assert.Empty(t, w.Errors())
	assert.Equal(t, int64(6), w.FilesScanned())
}

func TestFindMatching_Exclude(t *testing.T) {
	root := createTestTree(t)
	w := New(Options{Exclude: []string{filepath.Join(root, "skip"), "deep"}})

	got := w.Collect(root, isPDF)

	assert.ElementsMatch(t, []string{
		filepath.Join(root, "a.pdf"),
		filepath.Join(root, "week1", "slides.PDF"),
	}, got)
}

func TestFindMatching_EmptyDir(t *testing.T) {
	w := New(Options{})

	got := w.Collect(t.TempDir(), func(string) bool { return true })

	assert.Empty(t, got)
}

func TestFindMatching_EarlyBreak(t *testing.T) {
	root := createTestTree(t)
	w := New(Options{})

	n := 0
	for range w.FindMatching(root, func(string) bool { return true }) {
		n++
		break
	}

	assert.Equal(t, 1, n)
}

func TestFindMatching_PanicInLoopStopsWalk(t *testing.T) {
	root := t.TempDir()
	for i := range 50 {
		name := filepath.Join(root, "doc"+strconv.Itoa(i)+".pdf")
		require.NoError(t, os.WriteFile(name, []byte("x"), 0o644))
	}

	before := runtime.NumGoroutine()
	w := New(Options{})

	func() {
		defer func() {
			assert.Equal(t, "corrupt file", recover())
		}()
		for range w.FindMatching(root, isPDF) {
			panic("corrupt file")
		}
	}()

	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before
	}, time.Second, 10*time.Millisecond, "walk goroutines still running")
}

func TestFindMatching_SingleUse(t *testing.T) {
	root := createTestTree(t)
	w := New(Options{})

	seq := w.FindMatching(root, isPDF)

	first := 0
	for range seq {
		first++
	}
	second := 0
	for range seq {
		second++
	}

	assert.Equal(t, 4, first)
	assert.Zero(t, second, "sequence must not restart")
}

func TestFindMatching_MissingRoot(t *testing.T) {
	w := New(Options{})

	got := w.Collect(filepath.Join(t.TempDir(), "missing"), isPDF)

	assert.Empty(t, got)
	assert.NotEmpty(t, w.Errors())
}

func TestFindMatching_UnreadableSubdirIsSkipped(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}

	root := createTestTree(t)
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.MkdirAll(locked, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(locked, "secret.pdf"), []byte("x"), 0o644))
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	w := New(Options{})
	got := w.Collect(root, isPDF)

	assert.Len(t, got, 4, "the rest of the tree is still walked")
	assert.NotEmpty(t, w.Errors())
}

func TestMatchesExclusionPattern(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		pattern string
		want    bool
	}{
		{"empty pattern", "/a/b", "", false},
		{"exact", "/a/b", "/a/b", true},
		{"prefix dir", "/a/b/c.pdf", "/a/b", true},
		{"prefix not boundary", "/a/bc/c.pdf", "/a/b", false},
		{"basename glob", "/a/b/.git", ".git", true},
		{"extension glob", "/a/b/c.tmp", "*.tmp", true},
		{"no match", "/a/b/c.pdf", "*.tmp", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchesExclusionPattern(tt.path, tt.pattern))
		})
	}
}
