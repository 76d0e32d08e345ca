package history

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jamesainslie/studytime/pkg/studytime/types"
)

func newManifest(t *testing.T) *Manifest {
	t.Helper()
	m, err := New(filepath.Join(t.TempDir(), "history"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := m.EnsureDir(); err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}
	return m
}

func sampleReport() types.Report {
	return types.Report{
		Paths: []string{"/exam"},
		Result: types.Result{
			PDFPages:     types.Normalize(40),
			PDFDocuments: 1,
			VideoSeconds: types.Normalize(1800.5),
			VideoError:   true,
			Videos:       2,
		},
		Elapsed: 2 * time.Second,
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	if _, err := New(""); err == nil {
		t.Fatal("New(\"\") error = nil, want error")
	}
	if _, err := New(t.TempDir()); err != nil {
		t.Fatalf("New() error = %v", err)
	}
}

func TestManifest_RecordAndGet(t *testing.T) {
	t.Parallel()
	m := newManifest(t)

	entry, err := m.Record(sampleReport())
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if _, err := uuid.Parse(entry.ID); err != nil {
		t.Errorf("ID %q is not a uuid: %v", entry.ID, err)
	}

	got, err := m.Get(entry.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Result != entry.Result {
		t.Errorf("Result = %+v, want %+v", got.Result, entry.Result)
	}
	if got.Result.VideoSeconds.String() != "1800.5" {
		t.Errorf("VideoSeconds = %s", got.Result.VideoSeconds)
	}
	if got.Report().Elapsed != 2*time.Second {
		t.Errorf("Elapsed = %v", got.Report().Elapsed)
	}
}

func TestManifest_GetByPrefix(t *testing.T) {
	t.Parallel()
	m := newManifest(t)

	entry, err := m.Record(sampleReport())
	if err != nil {
		t.Fatal(err)
	}

	got, err := m.Get(entry.ID[:8])
	if err != nil {
		t.Fatalf("Get(prefix) error = %v", err)
	}
	if got.ID != entry.ID {
		t.Errorf("Get(prefix).ID = %s, want %s", got.ID, entry.ID)
	}
}

func TestManifest_GetNotFound(t *testing.T) {
	t.Parallel()
	m := newManifest(t)

	_, err := m.Get("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestManifest_ListNewestFirst(t *testing.T) {
	t.Parallel()
	m := newManifest(t)

	var ids []string
	for range 3 {
		e, err := m.Record(sampleReport())
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, e.ID)
		time.Sleep(5 * time.Millisecond)
	}

	entries, err := m.List(0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("List() returned %d entries, want 3", len(entries))
	}
	if entries[0].ID != ids[2] || entries[2].ID != ids[0] {
		t.Errorf("List() order = %v", []string{entries[0].ID, entries[1].ID, entries[2].ID})
	}

	limited, err := m.List(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 {
		t.Errorf("List(2) returned %d entries", len(limited))
	}
}

func TestManifest_ListMissingDir(t *testing.T) {
	t.Parallel()
	m, err := New(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatal(err)
	}

	entries, err := m.List(0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Errorf("List() = %v, want empty slice", entries)
	}
}

func TestManifest_ListSkipsCorruptFiles(t *testing.T) {
	t.Parallel()
	m := newManifest(t)

	if _, err := m.Record(sampleReport()); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(m.Dir(), "junk.json"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := m.List(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("List() returned %d entries, want 1", len(entries))
	}
}

func TestManifest_Cleanup(t *testing.T) {
	t.Parallel()
	m := newManifest(t)

	fresh, err := m.Record(sampleReport())
	if err != nil {
		t.Fatal(err)
	}

	old := Entry{ID: "old", Timestamp: time.Now().AddDate(0, 0, -100), Paths: []string{"/old"}}
	data, err := json.Marshal(old)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(m.Dir(), "old.json"), data, 0o644); err != nil {
		t.Fatal(err)
	}

	removed, err := m.Cleanup(90)
	if err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("Cleanup() removed %d, want 1", removed)
	}
	if _, err := m.Get(fresh.ID); err != nil {
		t.Errorf("fresh entry was removed: %v", err)
	}
	if _, err := m.Get("old"); !errors.Is(err, ErrNotFound) {
		t.Errorf("old entry still present: %v", err)
	}
}

func TestManifest_ConcurrentRecord(t *testing.T) {
	t.Parallel()
	m := newManifest(t)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.Record(sampleReport()); err != nil {
				t.Errorf("Record() error = %v", err)
			}
		}()
	}
	wg.Wait()

	entries, err := m.List(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 10 {
		t.Errorf("List() returned %d entries, want 10", len(entries))
	}
}
