// Package bookmark persists named time ranges so a selection can be
// recalled across sessions. Bookmarks are the only navigator-adjacent
// state tln writes to disk; the navigator itself is never persisted.
package bookmark

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the default bookmark file location.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "tln", "bookmarks.yaml")
}

// Bookmark is one named time range.
type Bookmark struct {
	Name    string    `yaml:"name"`
	Start   time.Time `yaml:"start"`
	End     time.Time `yaml:"end"`
	Created time.Time `yaml:"created"`
	Note    string    `yaml:"note,omitempty"`
}

// Store holds bookmarks backed by a YAML file.
type Store struct {
	path string

	mu    sync.Mutex
	items map[string]Bookmark
}

// NewStore creates a store backed by the given file, loading any
// existing bookmarks. A missing file yields an empty store.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath()
	}
	s := &Store{path: path, items: make(map[string]Bookmark)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}

	var items []Bookmark
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing bookmarks: %w", err)
	}
	for _, b := range items {
		s.items[b.Name] = b
	}
	return s, nil
}

// Set adds or replaces a bookmark and saves the file.
func (s *Store) Set(b Bookmark) error {
	if b.Name == "" {
		return fmt.Errorf("bookmark name must not be empty")
	}
	if b.End.Before(b.Start) {
		return fmt.Errorf("bookmark %q: end before start", b.Name)
	}
	if b.Created.IsZero() {
		b.Created = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[b.Name] = b
	return s.saveLocked()
}

// Get returns a bookmark by name.
func (s *Store) Get(name string) (Bookmark, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.items[name]
	return b, ok
}

// Delete removes a bookmark and saves the file. Unknown names are a
// no-op.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[name]; !ok {
		return nil
	}
	delete(s.items, name)
	return s.saveLocked()
}

// List returns all bookmarks sorted by name.
func (s *Store) List() []Bookmark {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Bookmark, 0, len(s.items))
	for _, b := range s.items {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// saveLocked writes the bookmark file. Caller holds the mutex.
func (s *Store) saveLocked() error {
	items := make([]Bookmark, 0, len(s.items))
	for _, b := range s.items {
		items = append(items, b)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })

	data, err := yaml.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshaling bookmarks: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating bookmark directory: %w", err)
	}

	// Write-then-rename so a crash never truncates the file.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
