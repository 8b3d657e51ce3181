package memory

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/dgraph-io/ristretto"

	"github.com/agentloop/agentloop/core"
)

// CachedStoreOptions configures a CachedStore.
type CachedStoreOptions struct {
	// NumCounters sizes the cache's frequency sketch (ristretto guidance:
	// ten times the expected number of cached queries).
	NumCounters int64
	// MaxCost bounds total cached result cost (one entry = one cost unit
	// per result).
	MaxCost int64
}

// CachedStore decorates a MemoryStore with a ristretto-backed query cache.
// Repeated queries with identical text and limit are served from the cache;
// Add and Clear bump an internal generation counter embedded in every cache
// key, so a mutated store never serves stale rankings.
//
// Safe for concurrent use: the cache handle is held behind an atomic pointer
// so Cleanup can race with in-flight queries.
type CachedStore struct {
	inner      core.MemoryStore
	cache      atomic.Pointer[ristretto.Cache]
	generation atomic.Uint64
	hits       atomic.Uint64
}

var _ core.MemoryStore = (*CachedStore)(nil)

// NewCachedStore wraps inner with a query cache.
func NewCachedStore(inner core.MemoryStore, optFns ...func(o *CachedStoreOptions)) (*CachedStore, error) {
	opts := CachedStoreOptions{
		NumCounters: 10_000,
		MaxCost:     100_000,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: opts.NumCounters,
		MaxCost:     opts.MaxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create query cache: %w", err)
	}

	s := &CachedStore{inner: inner}
	s.cache.Store(cache)

	return s, nil
}

// Add delegates to the inner store and invalidates cached queries.
func (s *CachedStore) Add(ctx context.Context, content core.MemoryContent) error {
	if err := s.inner.Add(ctx, content); err != nil {
		return err
	}

	s.generation.Add(1)

	return nil
}

// Query serves cached results when the store has not changed since they were
// computed, otherwise delegates to the inner store and caches the outcome.
func (s *CachedStore) Query(ctx context.Context, text string, optFns ...func(o *core.MemoryQueryOptions)) ([]core.MemoryContent, error) {
	opts := core.MemoryQueryOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}

	cache := s.cache.Load()
	if cache == nil { // after Cleanup, pass through
		return s.inner.Query(ctx, text, optFns...)
	}

	key := fmt.Sprintf("%d|%d|%s", s.generation.Load(), opts.Limit, text)

	if cached, ok := cache.Get(key); ok {
		if results, ok := cached.([]core.MemoryContent); ok {
			s.hits.Add(1)
			snapshot := make([]core.MemoryContent, len(results))
			copy(snapshot, results)
			return snapshot, nil
		}
	}

	results, err := s.inner.Query(ctx, text, optFns...)
	if err != nil {
		return nil, err
	}

	cost := int64(len(results))
	if cost == 0 {
		cost = 1
	}
	cache.Set(key, results, cost)

	return results, nil
}

// Transform delegates to the inner store.
func (s *CachedStore) Transform(buf *core.Buffer, results []core.MemoryContent) error {
	return s.inner.Transform(buf, results)
}

// Clear empties the inner store and invalidates cached queries.
func (s *CachedStore) Clear(ctx context.Context) error {
	if err := s.inner.Clear(ctx); err != nil {
		return err
	}

	s.generation.Add(1)
	if cache := s.cache.Load(); cache != nil {
		cache.Clear()
	}

	return nil
}

// Cleanup closes the cache and releases the inner store's resources.
// Idempotent: repeated calls only re-run the inner cleanup. Queries that
// loaded the handle before the swap finish against the closed cache, whose
// Get and Set degrade to misses.
func (s *CachedStore) Cleanup(ctx context.Context) error {
	if cache := s.cache.Swap(nil); cache != nil {
		cache.Close()
	}

	return s.inner.Cleanup(ctx)
}

// Hits reports how many queries were served from the cache.
func (s *CachedStore) Hits() uint64 { return s.hits.Load() }

// Wait blocks until pending cache writes are applied. Mainly useful in tests
// and benchmarks; production callers never need it.
func (s *CachedStore) Wait() {
	if cache := s.cache.Load(); cache != nil {
		cache.Wait()
	}
}
