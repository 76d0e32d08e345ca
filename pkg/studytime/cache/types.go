package cache

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// CacheVersion is incremented when the cache format changes.
// It is part of every key so entries written by an older format are never read.
const CacheVersion = 1

// KeySeparator separates the metric from the file path in cache keys.
const KeySeparator = '\x00'

// Metric names the extraction a cached value belongs to.
type Metric string

const (
	// MetricPages is a PDF page count.
	MetricPages Metric = "pages"
	// MetricDuration is a media duration in milliseconds.
	MetricDuration Metric = "duration"
)

// CachedEntry is a cached extraction result for one file.
type CachedEntry struct {
	Size  int64   // File size in bytes when the value was extracted
	Mtime int64   // Modification time as UnixNano when the value was extracted
	Value float64 // Page count or duration in milliseconds
}

// Encode serializes the entry to bytes using gob.
func (e *CachedEntry) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(e); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode deserializes bytes into the entry using gob.
func (e *CachedEntry) Decode(data []byte) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(e)
}

// MakeKey creates a cache key.
// Format: v<version>:<metric>\x00<path>
func MakeKey(metric Metric, path string) []byte {
	return append(MakeKeyPrefix(metric), path...)
}

// MakeKeyPrefix returns the prefix shared by all keys of a metric.
func MakeKeyPrefix(metric Metric) []byte {
	return fmt.Appendf(nil, "v%d:%s%c", CacheVersion, metric, KeySeparator)
}

// ParseKey extracts the metric and path from a cache key.
func ParseKey(key []byte) (metric Metric, path string) {
	idx := bytes.IndexByte(key, KeySeparator)
	if idx == -1 {
		return "", string(key)
	}
	head := string(key[:idx])
	if colon := bytes.IndexByte(key[:idx], ':'); colon != -1 {
		head = string(key[colon+1 : idx])
	}
	return Metric(head), string(key[idx+1:])
}
