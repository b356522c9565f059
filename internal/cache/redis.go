package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	atserrors "atscore/internal/errors"
	"atscore/internal/types"

	"github.com/redis/go-redis/v9"
)

// redisStore is the part of the go-redis client the backend uses
type redisStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// RedisBackend stores results as JSON so several processes share one cache
type RedisBackend struct {
	client redisStore
	closer func() error
	prefix string
	ttl    time.Duration
}

var _ Backend = (*RedisBackend)(nil)

// NewRedisBackend connects to redisURL and pings it. A zero ttl keeps
// entries until Redis evicts them.
func NewRedisBackend(ctx context.Context, redisURL, prefix string, ttl time.Duration) (*RedisBackend, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, atserrors.NewConfigError(atserrors.ErrCodeInvalidConfig, "failed to parse redis url", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, atserrors.NewNetworkError(atserrors.ErrCodeCacheBackend, "failed to connect to redis", err)
	}

	return &RedisBackend{client: client, closer: client.Close, prefix: prefix, ttl: ttl}, nil
}

func (r *RedisBackend) Get(ctx context.Context, key string) (*types.AnalysisResult, bool, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var result types.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false, fmt.Errorf("decode cached analysis: %w", err)
	}
	return &result, true, nil
}

func (r *RedisBackend) Put(ctx context.Context, key string, value *types.AnalysisResult) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	if err := r.client.Set(ctx, r.prefix+key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *RedisBackend) Name() string { return "redis" }

// Close releases the connection pool
func (r *RedisBackend) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer()
}
