// Package recordfile implements an ordered record store backed by a single
// JSON file. A store holds one JSON array; Load and Save always read or
// replace the whole sequence, preserving element order.
package recordfile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/samber/oops"
)

// Store is a file-backed ordered record store.
type Store struct {
	path string
	mu   sync.RWMutex
}

// New creates a store at the given path. The parent directory is created if
// needed. If seed is non-nil and the file does not exist yet, the store is
// initialized with the seed sequence; with a nil seed it starts empty.
func New(path string, seed any) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, oops.With("path", path, "context", "failed to create store directory").Wrap(err)
	}

	s := &Store{path: path}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if seed == nil {
			seed = []any{}
		}
		if err := s.Save(seed); err != nil {
			return nil, oops.With("path", path, "context", "failed to initialize store").Wrap(err)
		}
	}

	return s, nil
}

// Load reads the whole sequence into v. A missing file is treated as an
// empty sequence and leaves v untouched.
func (s *Store) Load(v any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return oops.With("path", s.path, "context", "failed to read store").Wrap(err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return oops.With("path", s.path, "context", "failed to unmarshal store").Wrap(err)
	}

	return nil
}

// Save replaces the whole sequence with v.
func (s *Store) Save(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return oops.With("path", s.path, "context", "failed to marshal store").Wrap(err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return oops.With("path", s.path, "context", "failed to write store").Wrap(err)
	}

	return nil
}
