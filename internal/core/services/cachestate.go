package services

import (
	"context"

	"github.com/nulzo/model-sync-api/internal/core/ports"
	"github.com/nulzo/model-sync-api/internal/logger"
	"github.com/nulzo/model-sync-api/pkg/schema"
	"go.uber.org/zap"
)

// Cache keys. Each is an independent document; there is no
// transactional coupling between them.
const (
	cacheKeyModelIDs = "model-ids"
	cacheKeyRegistry = "registry"
	cacheKeyFreeIDs  = "free-ids"
)

// CacheState wraps the raw key-value store with the three typed records
// the sync engine persists. Reads surface "absent" as (zero, false);
// write failures are logged and swallowed so they never abort a publish.
type CacheState struct {
	store ports.CacheStore
}

func NewCacheState(store ports.CacheStore) *CacheState {
	return &CacheState{store: store}
}

func (c *CacheState) ModelIDs(ctx context.Context) ([]string, bool) {
	var ids []string
	if err := c.store.Get(ctx, cacheKeyModelIDs, &ids); err != nil || len(ids) == 0 {
		return nil, false
	}
	return ids, true
}

func (c *CacheState) SaveModelIDs(ctx context.Context, ids []string) {
	if err := c.store.Set(ctx, cacheKeyModelIDs, ids); err != nil {
		logger.Warn("failed to persist model id list", zap.Error(err))
	}
}

func (c *CacheState) Registry(ctx context.Context) (schema.Registry, bool) {
	var reg schema.Registry
	if err := c.store.Get(ctx, cacheKeyRegistry, &reg); err != nil || len(reg) == 0 {
		return nil, false
	}
	return reg, true
}

func (c *CacheState) SaveRegistry(ctx context.Context, reg schema.Registry) {
	if err := c.store.Set(ctx, cacheKeyRegistry, reg); err != nil {
		logger.Warn("failed to persist registry", zap.Error(err))
	}
}

func (c *CacheState) FreeIDs(ctx context.Context) ([]string, bool) {
	var ids []string
	if err := c.store.Get(ctx, cacheKeyFreeIDs, &ids); err != nil {
		return nil, false
	}
	return ids, true
}

func (c *CacheState) SaveFreeIDs(ctx context.Context, ids []string) {
	if err := c.store.Set(ctx, cacheKeyFreeIDs, ids); err != nil {
		logger.Warn("failed to persist free id snapshot", zap.Error(err))
	}
}
