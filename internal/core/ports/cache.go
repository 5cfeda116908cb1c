package ports

import (
	"context"
	"errors"
)

// ErrCacheMiss is returned by CacheStore.Get when a key is absent.
// Corrupt or unreadable records are reported as a miss too, so callers
// compose fallback chains without caring why the record is unusable.
var ErrCacheMiss = errors.New("cache miss")

// CacheStore is key-addressed durable storage. Each key is read and
// written as an atomic whole; there is no coupling between keys.
type CacheStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}) error
}
