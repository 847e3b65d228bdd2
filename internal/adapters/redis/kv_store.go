package redis

// Package redis provides the Redis-backed key/value persistence medium for
// session snapshots.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/givechain/givechain-ui-api/internal/ports"
)

// KVStore is a Redis-backed ports.KeyValueStore. Values are stored under a
// configurable key prefix and, when a TTL is set, expire server-side so stale
// snapshots do not outlive the sessions they describe.
type KVStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewKVStore creates a Redis key/value store with the default prefix and no
// expiry.
func NewKVStore(client redis.UniversalClient) *KVStore {
	return &KVStore{
		client: client,
		prefix: "kv:",
	}
}

// NewKVStoreWithOptions creates a Redis key/value store with a custom key
// prefix and TTL. A zero ttl means values never expire.
func NewKVStoreWithOptions(client redis.UniversalClient, prefix string, ttl time.Duration) *KVStore {
	return &KVStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (s *KVStore) GetItem(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ports.ErrItemNotFound
	}

	data, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ports.ErrItemNotFound
		}
		return "", fmt.Errorf("redis get: %w", err)
	}
	return data, nil
}

func (s *KVStore) SetItem(ctx context.Context, key, value string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	if err := s.client.Set(ctx, s.prefix+key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *KVStore) RemoveItem(ctx context.Context, key string) error {
	if key == "" {
		return nil // Nothing to remove
	}
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

var _ ports.KeyValueStore = (*KVStore)(nil)
