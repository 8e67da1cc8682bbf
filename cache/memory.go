package cache

import (
	"context"
	"time"

	"github.com/maypok86/otter/v2"
	"github.com/maypok86/otter/v2/stats"
)

// memoryEntry pairs a cached value with its own deadline, allowing per-entry
// TTLs finer than the cache-wide expiry.
type memoryEntry[T any] struct {
	value    T
	deadline time.Time
}

// Memory is an in-process cache implementation using otter.
// The generic type T represents the record type being cached.
type Memory[T any] struct {
	cache   *otter.Cache[string, memoryEntry[T]]
	counter *stats.Counter
	now     func() time.Time
}

// NewMemory creates a new in-memory cache. maxTTL caps how long any entry
// may live regardless of its own TTL; maxSize bounds the entry count.
func NewMemory[T any](maxTTL time.Duration, maxSize int) (*Memory[T], error) {
	counter := stats.NewCounter()
	cache := otter.Must(&otter.Options[string, memoryEntry[T]]{
		MaximumSize:      maxSize,
		StatsRecorder:    counter,
		ExpiryCalculator: otter.ExpiryCreating[string, memoryEntry[T]](maxTTL),
	})

	return &Memory[T]{
		cache:   cache,
		counter: counter,
		now:     time.Now,
	}, nil
}

// Get retrieves a record from the cache. Entries past their own deadline are
// dropped and reported as a miss.
func (m *Memory[T]) Get(ctx context.Context, key string) (T, bool, error) {
	var zero T

	entry, ok := m.cache.GetEntry(key)
	if !ok {
		return zero, false, nil
	}

	if !m.now().Before(entry.Value.deadline) {
		m.cache.Invalidate(key)
		return zero, false, nil
	}

	return entry.Value.value, true, nil
}

// Set stores a record with the given TTL.
func (m *Memory[T]) Set(ctx context.Context, key string, value T, ttl time.Duration) error {
	m.cache.Set(key, memoryEntry[T]{
		value:    value,
		deadline: m.now().Add(ttl),
	})
	return nil
}

// Invalidate removes a record from the cache.
func (m *Memory[T]) Invalidate(ctx context.Context, key string) error {
	m.cache.Invalidate(key)
	return nil
}

// Close releases cache resources. The otter cache has no background state to
// tear down.
func (m *Memory[T]) Close() error {
	return nil
}
