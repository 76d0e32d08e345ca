// Package watcher watches scan roots for changes to study material and
// reports them after a quiet period, so a burst of copies triggers one
// re-scan instead of hundreds.
package watcher

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/fsnotify/fsnotify"

	"github.com/jamesainslie/studytime/pkg/studytime/logging"
)

// DefaultDebounce is the quiet period before changes are reported.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches directory trees for relevant file changes.
type Watcher struct {
	watcher  *fsnotify.Watcher
	relevant func(path string) bool
	debounce time.Duration

	// paths maps each watched directory to whether every event in it
	// counts (true) or only events on file roots (false).
	paths  map[string]bool
	files  map[string]bool
	mu     sync.Mutex
	closed bool
}

// New creates a Watcher. relevant decides which file events count;
// directory creation and removal always count. A non-positive debounce uses
// DefaultDebounce.
func New(relevant func(path string) bool, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		watcher:  fsw,
		relevant: relevant,
		debounce: debounce,
		paths:    make(map[string]bool),
		files:    make(map[string]bool),
	}, nil
}

// Watch starts watching root. A directory is watched with every
// subdirectory. A file is watched through its parent directory, but only
// events on the file itself count. Symlinks are not followed.
func (w *Watcher) Watch(root string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	info, err := os.Lstat(absRoot)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		w.mu.Lock()
		w.files[absRoot] = true
		w.mu.Unlock()
		return w.addWatch(filepath.Dir(absRoot), false)
	}

	return w.addTree(absRoot)
}

// addTree adds watches for dir and every directory below it. Only a
// failure to watch dir itself is returned.
func (w *Watcher) addTree(dir string) error {
	if err := w.addWatch(dir, true); err != nil {
		return err
	}

	conf := fastwalk.Config{Follow: false}
	return fastwalk.Walk(&conf, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() || path == dir {
			return nil //nolint:nilerr // unreadable entries are not watched
		}
		_ = w.addWatch(path, true)
		return nil
	})
}

// addWatch adds a single directory to the watch list. tree marks a
// directory whose every event counts; it upgrades an existing file-root
// watch.
func (w *Watcher) addWatch(path string, tree bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return errors.New("watcher closed")
	}
	if whole, ok := w.paths[path]; ok {
		w.paths[path] = whole || tree
		return nil
	}

	if err := w.watcher.Add(path); err != nil {
		logging.Get("watcher").Warn("failed to add watch", "path", path, "error", err)
		return err
	}
	w.paths[path] = tree
	return nil
}

// counts reports whether an event on path may change a scan: path lies in
// a watched tree, or it is a file root that could be scanned.
func (w *Watcher) counts(path string) bool {
	w.mu.Lock()
	inTree := w.paths[filepath.Dir(path)]
	fileRoot := w.files[path]
	w.mu.Unlock()

	if inTree {
		return true
	}
	return fileRoot && w.relevant(path)
}

// removeTree forgets path and every watched directory below it.
// It reports whether anything was being watched.
func (w *Watcher) removeTree(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	removed := false
	prefix := path + string(filepath.Separator)
	for p := range w.paths {
		if p == path || strings.HasPrefix(p, prefix) {
			_ = w.watcher.Remove(p)
			delete(w.paths, p)
			removed = true
		}
	}
	return removed
}

// WatchedCount returns the number of watched directories.
func (w *Watcher) WatchedCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.paths)
}

// Run processes events until ctx is cancelled. onChange is called on the
// Run goroutine once per burst of relevant events, after the debounce
// period has passed without new ones. Events arriving while onChange runs
// are queued and start the next burst.
func (w *Watcher) Run(ctx context.Context, onChange func()) {
	log := logging.Get("watcher")

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.handleEvent(event) {
				log.Debug("change detected", "path", event.Name, "op", event.Op.String())
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Error("watcher error", "error", err)

		case <-timer.C:
			onChange()
		}
	}
}

// handleEvent updates the watch list and reports whether the event may
// change a scan result.
func (w *Watcher) handleEvent(event fsnotify.Event) bool {
	switch {
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		if w.removeTree(event.Name) {
			return true
		}
		return w.counts(event.Name) && w.relevant(event.Name)

	case !w.counts(event.Name):
		return false

	case event.Op&fsnotify.Create != 0:
		info, err := os.Lstat(event.Name)
		if err == nil && info.IsDir() {
			_ = w.addTree(event.Name)
			return true
		}
		return w.relevant(event.Name)

	case event.Op&fsnotify.Write != 0:
		return w.relevant(event.Name)
	}
	return false
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	w.paths = make(map[string]bool)
	w.files = make(map[string]bool)
	return w.watcher.Close()
}
