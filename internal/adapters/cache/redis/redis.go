package redis

import (
	"context"
	"encoding/json"

	"github.com/nulzo/model-sync-api/internal/core/ports"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "model-sync:"

// Store is a redis-backed CacheStore for deployments where the local
// filesystem is not durable. Semantics match the disk store: any read
// problem is a miss, never an error.
type Store struct {
	client *redis.Client
}

func NewStore(addr, password string, db int) *Store {
	return &Store{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

func (s *Store) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		return ports.ErrCacheMiss
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return ports.ErrCacheMiss
	}
	return nil
}

func (s *Store) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	// records persist across sessions, no TTL
	return s.client.Set(ctx, keyPrefix+key, data, 0).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}
