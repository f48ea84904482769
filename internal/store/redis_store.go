package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/amos-ugbedah/Jason-E-Commerce/internal/domain"
)

// RedisStore keeps the cart snapshot as a JSON value under a single key.
// No TTL is set: the cart must survive restarts until explicitly cleared.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultKey
	}
	return &RedisStore{
		client: client,
		key:    key,
	}
}

func (r *RedisStore) Load(ctx context.Context) (*domain.CartSnapshot, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var snap domain.CartSnapshot
	if err2 := json.Unmarshal(data, &snap); err2 != nil {
		// Corrupt data is treated as absent, not as a failure.
		return nil, ErrSnapshotNotFound
	}

	return &snap, nil
}

func (r *RedisStore) Save(ctx context.Context, snap domain.CartSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal cart snapshot failed: %w", err)
	}

	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}
