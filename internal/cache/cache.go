// Package cache stores finished analyses by fingerprint. Values are deep
// copied on the way in and out.
package cache

import (
	"context"

	"atscore/internal/errors"
	"atscore/internal/observability"
	"atscore/internal/types"

	"golang.org/x/sync/singleflight"
)

// Backend is a key/value store for analysis results. A miss is
// (nil, false, nil).
type Backend interface {
	Get(ctx context.Context, key string) (*types.AnalysisResult, bool, error)
	Put(ctx context.Context, key string, value *types.AnalysisResult) error
	Name() string
}

// ComputeFunc produces a result on a miss. store=false keeps the result
// out of the cache.
type ComputeFunc func(ctx context.Context) (result *types.AnalysisResult, store bool, err error)

// Cache fronts a Backend and collapses concurrent work for one key. A nil
// *Cache never stores anything.
type Cache struct {
	backend Backend
	group   singleflight.Group
	metrics *observability.Metrics
	logger  *errors.Logger
}

type flightResult struct {
	result *types.AnalysisResult
	hit    bool
}

// New creates a cache over backend
func New(backend Backend, metrics *observability.Metrics, logger *errors.Logger) *Cache {
	return &Cache{backend: backend, metrics: metrics, logger: logger}
}

// Get returns a copy of the stored value. Backend errors count as a miss.
func (c *Cache) Get(ctx context.Context, key string) (*types.AnalysisResult, bool) {
	if c == nil || c.backend == nil {
		return nil, false
	}

	v, ok, err := c.backend.Get(ctx, key)
	if err != nil {
		c.logger.LogError(err, "Cache lookup failed, treating as miss", "backend", c.backend.Name())
		ok = false
	}
	c.metrics.RecordCacheLookup(ctx, c.backend.Name(), ok)
	if !ok {
		return nil, false
	}
	return v.Clone(), true
}

// Put stores a copy of value. Last writer wins.
func (c *Cache) Put(ctx context.Context, key string, value *types.AnalysisResult) {
	if c == nil || c.backend == nil || value == nil {
		return
	}
	if err := c.backend.Put(ctx, key, value.Clone()); err != nil {
		c.logger.LogError(err, "Cache store failed", "backend", c.backend.Name())
	}
}

// GetOrCompute returns the cached value for key or runs compute once for
// all concurrent callers with the same key. cached reports a cache hit.
func (c *Cache) GetOrCompute(ctx context.Context, key string, compute ComputeFunc) (*types.AnalysisResult, bool, error) {
	if c == nil || c.backend == nil {
		result, _, err := compute(ctx)
		return result, false, err
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if hit, ok := c.Get(ctx, key); ok {
			return flightResult{result: hit, hit: true}, nil
		}

		result, store, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		if store {
			c.Put(ctx, key, result)
		}
		return flightResult{result: result}, nil
	})
	if err != nil {
		return nil, false, err
	}

	fr := v.(flightResult)
	// every caller gets its own copy of the shared value
	return fr.result.Clone(), fr.hit, nil
}

// BackendName names the configured backend, "none" when disabled
func (c *Cache) BackendName() string {
	if c == nil || c.backend == nil {
		return "none"
	}
	return c.backend.Name()
}
