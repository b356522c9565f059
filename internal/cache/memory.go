package cache

import (
	"context"
	"fmt"

	"atscore/internal/types"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMaxEntries bounds the memory backend when no size is configured
const DefaultMaxEntries = 1000

// MemoryBackend is a bounded in-process LRU
type MemoryBackend struct {
	entries *lru.Cache[string, *types.AnalysisResult]
}

var _ Backend = (*MemoryBackend)(nil)

// NewMemoryBackend creates an LRU holding at most maxEntries results
func NewMemoryBackend(maxEntries int) (*MemoryBackend, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	entries, err := lru.New[string, *types.AnalysisResult](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}
	return &MemoryBackend{entries: entries}, nil
}

func (m *MemoryBackend) Get(_ context.Context, key string) (*types.AnalysisResult, bool, error) {
	v, ok := m.entries.Get(key)
	if !ok {
		return nil, false, nil
	}
	return v.Clone(), true, nil
}

func (m *MemoryBackend) Put(_ context.Context, key string, value *types.AnalysisResult) error {
	m.entries.Add(key, value.Clone())
	return nil
}

func (m *MemoryBackend) Name() string { return "memory" }

// Len returns the number of stored entries
func (m *MemoryBackend) Len() int { return m.entries.Len() }
