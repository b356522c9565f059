package cache

import (
	"context"
	"fmt"

	"atscore/internal/config"
	"atscore/internal/errors"
	"atscore/internal/observability"
)

// Open builds the cache described by cfg. It returns a nil cache when
// caching is disabled. The close func is always safe to call.
func Open(ctx context.Context, cfg config.CacheConfig, metrics *observability.Metrics, logger *errors.Logger) (*Cache, func() error, error) {
	noop := func() error { return nil }
	if !cfg.Enabled {
		logger.Debug("Analysis cache disabled")
		return nil, noop, nil
	}

	switch cfg.Backend {
	case "memory", "":
		backend, err := NewMemoryBackend(cfg.MaxEntries)
		if err != nil {
			return nil, noop, err
		}
		logger.Debug("Analysis cache ready", "backend", "memory", "max_entries", cfg.MaxEntries)
		return New(backend, metrics, logger), noop, nil
	case "redis":
		backend, err := NewRedisBackend(ctx, cfg.RedisURL, cfg.KeyPrefix, cfg.TTL)
		if err != nil {
			return nil, noop, err
		}
		logger.Debug("Analysis cache ready", "backend", "redis", "prefix", cfg.KeyPrefix, "ttl", cfg.TTL)
		return New(backend, metrics, logger), backend.Close, nil
	default:
		return nil, noop, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("unsupported cache backend: %s", cfg.Backend), nil)
	}
}
