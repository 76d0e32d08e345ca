package cache

import (
	"errors"
	"fmt"
	"os"

	"github.com/jamesainslie/studytime/pkg/studytime/logging"
)

// Cache remembers extraction results per file.
// A cached value is only returned while the file's size and mtime are
// unchanged since it was stored.
type Cache struct {
	store *Store
}

// Open opens or creates a cache at the given path.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	store, err := OpenStore(path)
	if err != nil {
		return nil, fmt.Errorf("opening cache store: %w", err)
	}

	return &Cache{store: store}, nil
}

// Close closes the cache.
func (c *Cache) Close() error {
	return c.store.Close()
}

// Lookup returns the cached value for path if the file still matches info.
// Stale entries are deleted.
func (c *Cache) Lookup(metric Metric, path string, info os.FileInfo) (float64, bool) {
	entry, err := c.store.Get(metric, path)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logging.Get("cache").Debug("cache read failed", "path", path, "error", err)
		}
		return 0, false
	}

	if entry.Size != info.Size() || entry.Mtime != info.ModTime().UnixNano() {
		if err := c.store.Delete(metric, path); err != nil {
			logging.Get("cache").Debug("dropping stale entry failed", "path", path, "error", err)
		}
		return 0, false
	}

	return entry.Value, true
}

// Put stores a successfully extracted value for path.
func (c *Cache) Put(metric Metric, path string, info os.FileInfo, value float64) error {
	return c.store.Put(metric, path, &CachedEntry{
		Size:  info.Size(),
		Mtime: info.ModTime().UnixNano(),
		Value: value,
	})
}

// Stats holds the number of cached entries per metric.
type Stats struct {
	Pages     int `json:"pages" yaml:"pages"`
	Durations int `json:"durations" yaml:"durations"`
}

// Stats counts cached entries.
func (c *Cache) Stats() (Stats, error) {
	pages, err := c.store.CountPrefix(MakeKeyPrefix(MetricPages))
	if err != nil {
		return Stats{}, err
	}
	durations, err := c.store.CountPrefix(MakeKeyPrefix(MetricDuration))
	if err != nil {
		return Stats{}, err
	}
	return Stats{Pages: pages, Durations: durations}, nil
}

// Clear removes all cached entries for a metric.
func (c *Cache) Clear(metric Metric) error {
	return c.store.DeletePrefix(MakeKeyPrefix(metric))
}

// ClearAll removes all cached entries.
func (c *Cache) ClearAll() error {
	return c.store.DeletePrefix(nil)
}
