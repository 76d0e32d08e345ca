// Package prefs persists small user preferences, such as the last directory
// the user scanned, behind a narrow key-value interface.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned by Get for a key that was never set.
var ErrNotFound = errors.New("preference not set")

// KeyLastDir is the directory the most recent scan started from.
const KeyLastDir = "last_dir"

// Store reads and writes preferences.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// DefaultPath returns $XDG_CONFIG_HOME/studytime/prefs.yaml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "studytime", "prefs.yaml")
}

// FileStore keeps preferences in a yaml map on disk.
// Every Set rewrites the whole file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store backed by path. The file is created on the
// first Set.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

// Get returns the value for key.
func (s *FileStore) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return "", err
	}
	v, ok := values[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return v, nil
}

// Set stores value under key.
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	values[key] = value

	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("marshaling preferences: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating preferences directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing preferences: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("writing preferences: %w", err)
	}
	return nil
}

func (s *FileStore) load() (map[string]string, error) {
	values := make(map[string]string)

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading preferences: %w", err)
	}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parsing preferences %s: %w", s.path, err)
	}
	if values == nil {
		values = make(map[string]string)
	}
	return values, nil
}

// StartDir returns the directory to scan when the user gave no paths: the
// stored last directory if it still exists, otherwise the home directory.
func StartDir(s Store) string {
	if dir, err := s.Get(KeyLastDir); err == nil && dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return xdg.Home
}

// RememberPaths stores the parent directory of the first path as the last
// directory.
func RememberPaths(s Store, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	abs, err := filepath.Abs(paths[0])
	if err != nil {
		return fmt.Errorf("resolving %s: %w", paths[0], err)
	}
	return s.Set(KeyLastDir, filepath.Dir(abs))
}
