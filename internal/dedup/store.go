// Package dedup persists the identifiers of alerts that have already been
// posted, one identifier per line in a flat text file.
package dedup

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
)

// Set holds identifiers of alerts already posted.
type Set map[string]struct{}

// NewSet returns a set containing ids.
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Has reports whether id is in the set.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id into the set.
func (s Set) Add(id string) {
	s[id] = struct{}{}
}

// Sorted returns the identifiers in lexical order.
func (s Set) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// FileStore loads and saves a Set at a fixed path. It assumes a single
// writer; concurrent processes sharing a file will race on Save.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (f *FileStore) Path() string { return f.path }

// Load reads the set from disk. A missing file yields an empty set.
func (f *FileStore) Load() (Set, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewSet(), nil
		}
		return nil, fmt.Errorf("read dedup file: %w", err)
	}

	s := NewSet()
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		s.Add(line)
	}
	return s, nil
}

// Save overwrites the file with the set's identifiers joined by newlines.
// An interrupted write can leave the file truncated.
func (f *FileStore) Save(s Set) error {
	data := strings.Join(s.Sorted(), "\n")
	if err := os.WriteFile(f.path, []byte(data), 0o644); err != nil {
		return fmt.Errorf("write dedup file: %w", err)
	}
	return nil
}
