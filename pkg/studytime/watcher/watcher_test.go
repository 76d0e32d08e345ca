package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// startWatcher watches roots and counts onChange calls.
func startWatcher(t *testing.T, roots ...string) (*Watcher, *atomic.Int32) {
	t.Helper()

	w, err := New(isPDF, 50*time.Millisecond)
	require.NoError(t, err)
	for _, root := range roots {
		require.NoError(t, w.Watch(root))
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	var calls atomic.Int32
	go func() {
		defer close(done)
		w.Run(ctx, func() { calls.Add(1) })
	}()

	t.Cleanup(func() {
		cancel()
		<-done
		_ = w.Close()
	})
	return w, &calls
}

func TestWatch_RegistersSubdirectories(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "c"), 0o755))

	w, err := New(isPDF, 0)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Watch(root))
	assert.Equal(t, 4, w.WatchedCount())
}

func TestWatch_FileRootWatchesParent(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "slides.pdf")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	w, err := New(isPDF, 0)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Watch(file))
	assert.Equal(t, 1, w.WatchedCount())
}

func TestWatch_MissingRoot(t *testing.T) {
	w, err := New(isPDF, 0)
	require.NoError(t, err)
	defer w.Close()

	assert.Error(t, w.Watch(filepath.Join(t.TempDir(), "missing")))
}

func TestRun_DebouncesBurst(t *testing.T) {
	root := t.TempDir()
	_, calls := startWatcher(t, root)

	for i := range 5 {
		name := filepath.Join(root, "doc"+string(rune('a'+i))+".pdf")
		require.NoError(t, os.WriteFile(name, []byte("x"), 0o644))
	}

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRun_IgnoresIrrelevantFiles(t *testing.T) {
	root := t.TempDir()
	_, calls := startWatcher(t, root)

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644))

	time.Sleep(300 * time.Millisecond)
	assert.Zero(t, calls.Load())
}

func TestRun_NewDirectoryIsWatched(t *testing.T) {
	root := t.TempDir()
	w, calls := startWatcher(t, root)

	sub := filepath.Join(root, "week2")
	require.NoError(t, os.Mkdir(sub, 0o755))
	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return w.WatchedCount() == 2 }, 2*time.Second, 10*time.Millisecond)

	before := calls.Load()
	require.NoError(t, os.WriteFile(filepath.Join(sub, "lecture.pdf"), []byte("x"), 0o644))
	assert.Eventually(t, func() bool { return calls.Load() > before }, 2*time.Second, 10*time.Millisecond)
}

func TestRun_FileRootIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "slides.pdf")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, calls := startWatcher(t, file)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.pdf"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "week3"), 0o755))
	time.Sleep(300 * time.Millisecond)
	assert.Zero(t, calls.Load(), "changes next to a file root must not trigger a scan")

	require.NoError(t, os.WriteFile(file, []byte("updated"), 0o644))
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestRun_FileRootInsideWatchedTree(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "slides.pdf")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	w, calls := startWatcher(t, file, dir)

	assert.Equal(t, 1, w.WatchedCount())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.pdf"), []byte("x"), 0o644))
	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestClose_Idempotent(t *testing.T) {
	w, err := New(isPDF, 0)
	require.NoError(t, err)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	assert.Error(t, w.Watch(t.TempDir()))
}
