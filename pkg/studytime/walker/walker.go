// Package walker recursively discovers files under a directory using
// fastwalk. Entries that cannot be read are recorded and skipped; they never
// abort the walk.
package walker

import (
	"errors"
	"io/fs"
	"iter"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"
	"github.com/jamesainslie/studytime/pkg/studytime/logging"
	"github.com/jamesainslie/studytime/pkg/studytime/types"
)

// Options configures the walker behavior.
type Options struct {
	// Exclude contains glob patterns for paths to skip.
	// Patterns are matched against the base name and the full path;
	// a pattern equal to a directory path prunes that subtree.
	Exclude []string

	// Follow makes the walk descend into symlinked directories and
	// report symlinked files.
	Follow bool

	// NumWorkers is the fastwalk worker count (0 uses fastwalk's default).
	NumWorkers int
}

// Walker enumerates files matching a predicate.
// It is safe for concurrent use; errors from concurrent walks are collected
// in one list.
type Walker struct {
	opts Options

	dirsScanned  atomic.Int64
	filesScanned atomic.Int64

	errors   []types.ScanError
	errorsMu sync.Mutex
}

// New creates a new Walker with the given options.
func New(opts Options) *Walker {
	return &Walker{
		opts:   opts,
		errors: make([]types.ScanError, 0),
	}
}

// Predicate decides whether a file path belongs in the sequence.
type Predicate func(path string) bool

// FindMatching returns every file under root for which match holds.
//
// The sequence is lazy and single-use: the walk starts when iteration starts
// and a second iteration yields nothing. Order is unspecified. Leaving the
// loop early, by break or panic, stops the walk before control returns.
func (w *Walker) FindMatching(root string, match Predicate) iter.Seq[string] {
	var used atomic.Bool

	return func(yield func(string) bool) {
		if used.Swap(true) {
			return
		}

		paths := make(chan string)
		done := make(chan struct{})
		walkDone := make(chan struct{})

		go func() {
			defer close(walkDone)
			defer close(paths)

			conf := fastwalk.Config{
				Follow:     w.opts.Follow,
				NumWorkers: w.opts.NumWorkers,
			}
			err := fastwalk.Walk(&conf, root, w.walkCallback(match, paths, done))
			if err != nil && !errors.Is(err, fastwalk.ErrSkipFiles) {
				w.addError(root, err)
			}
		}()

		// Runs on break, normal end and a panic in the loop body alike, so
		// the walk goroutine never stays blocked on a send.
		defer func() {
			close(done)
			for range paths {
			}
			<-walkDone
		}()

		for p := range paths {
			if !yield(p) {
				return
			}
		}
	}
}

// Collect walks root and returns every matching path.
func (w *Walker) Collect(root string, match Predicate) []string {
	var out []string
	for p := range w.FindMatching(root, match) {
		out = append(out, p)
	}
	return out
}

// walkCallback returns the callback function for fastwalk.Walk.
func (w *Walker) walkCallback(match Predicate, paths chan<- string, done <-chan struct{}) fs.WalkDirFunc {
	return func(path string, d fs.DirEntry, err error) error {
		select {
		case <-done:
			return fastwalk.ErrSkipFiles
		default:
		}

		// Unreadable entries are skipped, the rest of the tree is still walked.
		if err != nil {
			w.addError(path, err)
			return nil
		}

		if w.isExcluded(path) {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			w.dirsScanned.Add(1)
			return nil
		}

		if !w.isFile(path, d) {
			return nil
		}
		w.filesScanned.Add(1)

		if !match(path) {
			return nil
		}

		select {
		case paths <- path:
			return nil
		case <-done:
			return fastwalk.ErrSkipFiles
		}
	}
}

// isFile reports whether the entry is a regular file, resolving symlinks
// when Follow is set.
func (w *Walker) isFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if !w.opts.Follow || d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := fastwalk.StatDirEntry(path, d)
	if err != nil {
		w.addError(path, err)
		return false
	}
	return info.Mode().IsRegular()
}

// addError adds an error to the error list thread-safely.
func (w *Walker) addError(path string, err error) {
	logging.Get("walker").Debug("skipping unreadable entry", "path", path, "error", err)

	w.errorsMu.Lock()
	w.errors = append(w.errors, types.ScanError{
		Path:  path,
		Error: err.Error(),
	})
	w.errorsMu.Unlock()
}

// Errors returns a copy of the listing errors recorded so far.
func (w *Walker) Errors() []types.ScanError {
	w.errorsMu.Lock()
	defer w.errorsMu.Unlock()

	out := make([]types.ScanError, len(w.errors))
	copy(out, w.errors)
	return out
}

// DirsScanned returns the number of directories visited.
func (w *Walker) DirsScanned() int64 {
	return w.dirsScanned.Load()
}

// FilesScanned returns the number of files visited, matching or not.
func (w *Walker) FilesScanned() int64 {
	return w.filesScanned.Load()
}

// isExcluded checks if a path matches any exclusion pattern.
func (w *Walker) isExcluded(path string) bool {
	for _, pattern := range w.opts.Exclude {
		if matchesExclusionPattern(path, pattern) {
			return true
		}
	}
	return false
}

// matchesExclusionPattern checks if a path matches a single exclusion pattern.
func matchesExclusionPattern(path, pattern string) bool {
	if pattern == "" {
		return false
	}

	if path == pattern {
		return true
	}
	if len(path) > len(pattern) && path[:len(pattern)+1] == pattern+string(filepath.Separator) {
		return true
	}

	if matched, err := filepath.Match(pattern, filepath.Base(path)); err == nil && matched {
		return true
	}

	if matched, err := filepath.Match(pattern, path); err == nil && matched {
		return true
	}

	return false
}
