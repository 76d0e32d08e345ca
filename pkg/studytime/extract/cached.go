package extract

import (
	"os"
	"path/filepath"

	"github.com/jamesainslie/studytime/pkg/studytime/cache"
	"github.com/jamesainslie/studytime/pkg/studytime/logging"
)

// cacheKey returns the absolute form of path so a relative path names the
// same file no matter the working directory it was given from.
func cacheKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// CachedPageCounter serves page counts from a cache while the file is
// unchanged. Failures are never cached.
type CachedPageCounter struct {
	next  PageCounter
	cache *cache.Cache
}

// NewCachedPageCounter wraps next with c.
func NewCachedPageCounter(next PageCounter, c *cache.Cache) *CachedPageCounter {
	return &CachedPageCounter{next: next, cache: c}
}

// CountPages returns the cached count or asks the wrapped counter.
func (c *CachedPageCounter) CountPages(path string) (int, error) {
	key := cacheKey(path)
	info, statErr := os.Stat(path)
	if statErr == nil {
		if v, ok := c.cache.Lookup(cache.MetricPages, key, info); ok {
			return int(v), nil
		}
	}

	n, err := c.next.CountPages(path)
	if err != nil {
		return 0, err
	}

	if statErr == nil {
		if err := c.cache.Put(cache.MetricPages, key, info, float64(n)); err != nil {
			logging.Get("cache").Debug("caching page count failed", "path", path, "error", err)
		}
	}
	return n, nil
}

// CachedDurationProbe serves durations from a cache while the file is
// unchanged. Failures are never cached.
type CachedDurationProbe struct {
	next  DurationProbe
	cache *cache.Cache
}

// NewCachedDurationProbe wraps next with c.
func NewCachedDurationProbe(next DurationProbe, c *cache.Cache) *CachedDurationProbe {
	return &CachedDurationProbe{next: next, cache: c}
}

// ProbeDuration returns the cached duration or asks the wrapped probe.
func (c *CachedDurationProbe) ProbeDuration(path string) (float64, error) {
	key := cacheKey(path)
	info, statErr := os.Stat(path)
	if statErr == nil {
		if v, ok := c.cache.Lookup(cache.MetricDuration, key, info); ok {
			return v, nil
		}
	}

	ms, err := c.next.ProbeDuration(path)
	if err != nil {
		return 0, err
	}

	if statErr == nil {
		if err := c.cache.Put(cache.MetricDuration, key, info, ms); err != nil {
			logging.Get("cache").Debug("caching duration failed", "path", path, "error", err)
		}
	}
	return ms, nil
}
