package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Evilchuck666/WinJitsu/internal/platform"
)

// Entry is one window's saved pre-operation geometry.
type Entry struct {
	WindowID uint32    `json:"window_id"`
	X        int       `json:"x"`
	Y        int       `json:"y"`
	Width    int       `json:"width"`
	Height   int       `json:"height"`
	SavedAt  time.Time `json:"saved_at"`
}

// NewEntry builds an entry recording a window's current geometry.
func NewEntry(id platform.WindowID, bounds platform.Rect) Entry {
	return Entry{
		WindowID: uint32(id),
		X:        bounds.X,
		Y:        bounds.Y,
		Width:    bounds.Width,
		Height:   bounds.Height,
		SavedAt:  time.Now(),
	}
}

// Rect returns the saved geometry as a platform rectangle.
func (e Entry) Rect() platform.Rect {
	return platform.Rect{X: e.X, Y: e.Y, Width: e.Width, Height: e.Height}
}

// Store persists per-window saved geometry across invocations. Entries are
// replaced whole; a reader never observes a partially updated record.
type Store interface {
	// Get returns the entry for a window, or nil when none is saved.
	Get(id uint32) (*Entry, error)
	// Put saves or replaces a window's entry.
	Put(entry Entry) error
	// Delete removes a window's entry. Removing a missing entry is not an
	// error.
	Delete(id uint32) error
	// List returns all entries sorted by window id.
	List() ([]Entry, error)
	// Clear removes all entries.
	Clear() error
}

// FileStore keeps one JSON file per window id under a cache directory.
// Writes go to a temporary file in the same directory followed by a rename,
// so concurrent invocations see either the old record or the new one.
type FileStore struct {
	dir string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a store rooted at dir. The directory is created on
// first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// DefaultDir returns the default cache directory, ~/.cache/winjitsu on a
// stock XDG setup.
func DefaultDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve cache directory: %w", err)
	}
	return filepath.Join(cacheDir, "winjitsu"), nil
}

func (s *FileStore) entryPath(id uint32) string {
	return filepath.Join(s.dir, fmt.Sprintf("%d.json", id))
}

func (s *FileStore) Get(id uint32) (*Entry, error) {
	data, err := os.ReadFile(s.entryPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read saved state for window %d: %w", id, err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to parse saved state for window %d: %w", id, err)
	}
	return &entry, nil
}

func (s *FileStore) Put(entry Entry) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode saved state: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write saved state: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to chmod saved state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close saved state: %w", err)
	}

	if err := os.Rename(tmpPath, s.entryPath(entry.WindowID)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to store saved state for window %d: %w", entry.WindowID, err)
	}
	return nil
}

func (s *FileStore) Delete(id uint32) error {
	if err := os.Remove(s.entryPath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete saved state for window %d: %w", id, err)
	}
	return nil
}

func (s *FileStore) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list saved state: %w", err)
	}

	var out []Entry
	for _, dirEntry := range dirEntries {
		if dirEntry.IsDir() || !strings.HasSuffix(dirEntry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, dirEntry.Name()))
		if err != nil {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil {
			// Unparseable leftovers are skipped, not fatal.
			continue
		}
		out = append(out, entry)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].WindowID < out[j].WindowID })
	return out, nil
}

func (s *FileStore) Clear() error {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to clear saved state: %w", err)
	}

	for _, dirEntry := range dirEntries {
		name := dirEntry.Name()
		if dirEntry.IsDir() {
			continue
		}
		// Entries plus any abandoned temp files. Other files are left alone
		// since the directory may be user-configured.
		if !strings.HasSuffix(name, ".json") && !strings.HasPrefix(name, ".tmp-") {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", name, err)
		}
	}
	return nil
}

// MemStore is an in-memory Store for tests and dry runs.
type MemStore struct {
	mu      sync.Mutex
	entries map[uint32]Entry
}

var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{entries: make(map[uint32]Entry)}
}

func (s *MemStore) Get(id uint32) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (s *MemStore) Put(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.WindowID] = entry
	return nil
}

func (s *MemStore) Delete(id uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

func (s *MemStore) List() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, 0, len(s.entries))
	for _, entry := range s.entries {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WindowID < out[j].WindowID })
	return out, nil
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[uint32]Entry)
	return nil
}
