package services

import (
	"sync"

	"github.com/nulzo/model-sync-api/internal/core/domain"
	"github.com/nulzo/model-sync-api/internal/core/ports"
	"github.com/nulzo/model-sync-api/pkg/schema"
)

// PublishedRegistry is the single mutable registry slot shared by all
// in-flight dispatches. Replace swaps the whole snapshot; readers see
// either the old or the new registry, never a partial one.
type PublishedRegistry struct {
	mu      sync.RWMutex
	current schema.Registry
	index   map[string]int
}

func NewPublishedRegistry() ports.ModelRegistry {
	return &PublishedRegistry{
		index: make(map[string]int),
	}
}

func (r *PublishedRegistry) Replace(reg schema.Registry) {
	index := make(map[string]int, len(reg))
	for i, m := range reg {
		index[m.ID] = i
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = reg
	r.index = index
}

func (r *PublishedRegistry) Lookup(id string) (*schema.ModelRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i, ok := r.index[id]; ok {
		m := r.current[i]
		return &m, nil
	}
	return nil, domain.UnknownModelError(id)
}

func (r *PublishedRegistry) List() schema.Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(schema.Registry, len(r.current))
	copy(out, r.current)
	return out
}
