package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisKey = "pkceflow:meta"
	defaultTTL      = time.Hour
)

// redisBackend stores the flow record as a JSON document under a single key
// with a TTL, making it the durable tier for server-side deployments where
// the flow must survive a process restart between redirect and callback.
type redisBackend struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRedis(client *redis.Client, key string, ttl time.Duration) *redisBackend {
	if key == "" {
		key = defaultRedisKey
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &redisBackend{client: client, key: key, ttl: ttl}
}

func (r *redisBackend) Get(ctx context.Context) (map[string]string, error) {
	b, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read flow state from redis: %w", err)
	}
	var record map[string]string
	if err := json.Unmarshal(b, &record); err != nil {
		return nil, fmt.Errorf("failed to decode flow state record: %w", err)
	}
	return record, nil
}

func (r *redisBackend) Set(ctx context.Context, record map[string]string) error {
	b, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode flow state record: %w", err)
	}
	if err := r.client.Set(ctx, r.key, b, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write flow state to redis: %w", err)
	}
	return nil
}

func (r *redisBackend) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to clear flow state in redis: %w", err)
	}
	return nil
}
