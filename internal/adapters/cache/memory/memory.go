package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/nulzo/model-sync-api/internal/core/ports"
)

// Store is an in-memory CacheStore. Nothing survives a restart, so it
// is only useful for tests and for explicitly cache-less deployments.
type Store struct {
	items map[string][]byte
	mu    sync.RWMutex
}

func NewStore() *Store {
	return &Store{
		items: make(map[string][]byte),
	}
}

func (s *Store) Get(_ context.Context, key string, dest interface{}) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, exists := s.items[key]
	if !exists {
		return ports.ErrCacheMiss
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return ports.ErrCacheMiss
	}
	return nil
}

func (s *Store) Set(_ context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = data
	return nil
}
