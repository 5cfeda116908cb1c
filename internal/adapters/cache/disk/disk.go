package disk

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/nulzo/model-sync-api/internal/core/ports"
)

// Store persists each key as one JSON document under the cache root.
// Reads never fail hard: a missing, unreadable or corrupt document is
// reported as ports.ErrCacheMiss so the caller falls back cleanly.
type Store struct {
	root string
}

func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Store{root: root}, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.root, key+".json")
}

func (s *Store) Get(_ context.Context, key string, dest interface{}) error {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return ports.ErrCacheMiss
	}
	if err := json.Unmarshal(data, dest); err != nil {
		// corrupt record == no record
		return ports.ErrCacheMiss
	}
	return nil
}

func (s *Store) Set(_ context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	// write-then-rename keeps each document an atomic whole
	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path(key))
}
