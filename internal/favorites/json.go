package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ray-u/bare-photos/internal/logging"
	"github.com/ray-u/bare-photos/internal/metrics"
)

type document struct {
	Paths []string `json:"paths"`
}

// JSONStore keeps favorites in a single JSON document of the form
// {"paths": [...]}, sorted naturally.
type JSONStore struct {
	path string
}

// NewJSONStore creates a store backed by the file at path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Path returns the backing file.
func (s *JSONStore) Path() string {
	return s.path
}

// Load reads the favorites file. A missing, unreadable or corrupt file
// yields an empty set so listings keep working.
func (s *JSONStore) Load(_ context.Context) (Set, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logging.Warn("favorites: cannot read %s: %v", s.path, err)
		}
		return Set{}, nil
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		logging.Warn("favorites: %s is corrupt, treating as empty: %v", s.path, err)
		return Set{}, nil
	}

	return NewSet(doc.Paths...), nil
}

// Save writes the set through a temporary file and renames it into place.
func (s *JSONStore) Save(_ context.Context, set Set) error {
	if err := s.save(set); err != nil {
		metrics.FavoritesSaveErrors.Inc()
		return err
	}
	metrics.FavoritesTotal.Set(float64(len(set)))
	return nil
}

func (s *JSONStore) save(set Set) error {
	data, err := json.MarshalIndent(document{Paths: set.Sorted()}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create favorites dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".favorites-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write favorites: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close favorites: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace favorites: %w", err)
	}
	return nil
}
