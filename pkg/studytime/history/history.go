// Package history records completed scans as JSON files so earlier
// estimates can be listed and shown again.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jamesainslie/studytime/pkg/studytime/logging"
	"github.com/jamesainslie/studytime/pkg/studytime/types"
)

// ErrNotFound is returned when no entry has the requested ID.
var ErrNotFound = errors.New("history entry not found")

// Entry is one recorded scan.
type Entry struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Paths     []string      `json:"paths"`
	Result    types.Result  `json:"result"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Report converts the entry back into a scan report.
func (e *Entry) Report() types.Report {
	return types.Report{
		Paths:   e.Paths,
		Result:  e.Result,
		Elapsed: e.Elapsed,
	}
}

// Manifest stores entries as one JSON file each in a directory.
type Manifest struct {
	dir string
	mu  sync.Mutex
}

// New creates a new Manifest with the given directory.
// The directory is not created until EnsureDir is called.
func New(dir string) (*Manifest, error) {
	if dir == "" {
		return nil, errors.New("history directory cannot be empty")
	}
	return &Manifest{dir: dir}, nil
}

// Dir returns the directory entries are stored in.
func (m *Manifest) Dir() string {
	return m.dir
}

// EnsureDir creates the history directory if it does not exist.
func (m *Manifest) EnsureDir() error {
	return os.MkdirAll(m.dir, 0o755)
}

// Record persists a report and returns the created entry.
func (m *Manifest) Record(report types.Report) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := &Entry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Paths:     report.Paths,
		Result:    report.Result,
		Elapsed:   report.Elapsed,
	}

	if err := m.writeEntry(entry); err != nil {
		return nil, fmt.Errorf("writing history entry: %w", err)
	}

	logging.Get("history").Debug("recorded scan", "id", entry.ID, "paths", len(entry.Paths))
	return entry, nil
}

// writeEntry writes an entry to a JSON file using a temp file and rename.
func (m *Manifest) writeEntry(entry *Entry) error {
	filePath := m.entryPath(entry.ID)

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling entry: %w", err)
	}

	tmpPath := filePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, filePath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}

func (m *Manifest) entryPath(id string) string {
	return filepath.Join(m.dir, id+".json")
}

// List returns entries newest first.
// If limit is 0 or negative, all entries are returned.
func (m *Manifest) List(limit int) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := m.readAll()
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Get retrieves an entry by ID. A unique ID prefix is accepted.
func (m *Manifest) Get(id string) (*Entry, error) {
	if id == "" {
		return nil, errors.New("entry ID cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if entry, err := m.readEntryFile(m.entryPath(id)); err == nil {
		return entry, nil
	}

	entries, err := m.readAll()
	if err != nil {
		return nil, err
	}

	var match *Entry
	for i := range entries {
		if !strings.HasPrefix(entries[i].ID, id) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("ambiguous entry ID prefix %q", id)
		}
		match = &entries[i]
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return match, nil
}

// Cleanup removes entries recorded more than retentionDays ago and
// returns how many were removed.
func (m *Manifest) Cleanup(retentionDays int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	files, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading history directory: %w", err)
	}

	removed := 0
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		filePath := filepath.Join(m.dir, f.Name())

		var recorded time.Time
		if entry, err := m.readEntryFile(filePath); err == nil {
			recorded = entry.Timestamp
		} else if info, err := f.Info(); err == nil {
			recorded = info.ModTime()
		} else {
			continue
		}

		if recorded.Before(cutoff) {
			if err := os.Remove(filePath); err != nil {
				logging.Get("history").Warn("removing old entry failed", "path", filePath, "error", err)
				continue
			}
			removed++
		}
	}

	return removed, nil
}

// readAll reads every parsable entry. Must be called with m.mu held.
func (m *Manifest) readAll() ([]Entry, error) {
	files, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("reading history directory: %w", err)
	}

	entries := []Entry{}
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		entry, err := m.readEntryFile(filepath.Join(m.dir, f.Name()))
		if err != nil {
			continue
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}

// readEntryFile reads and parses an entry from a JSON file.
func (m *Manifest) readEntryFile(filePath string) (*Entry, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("unmarshaling entry: %w", err)
	}
	return &entry, nil
}
