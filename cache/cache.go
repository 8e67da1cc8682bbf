package cache

import (
	"context"
	"time"
)

// TokenCache defines the contract for token caching implementations.
// The generic type T represents the record type being cached.
//
// Implementations are best-effort collaborators: callers are expected to
// treat any error as a miss and carry on, so a failing cache degrades
// behavior (more token refreshes) but never correctness.
type TokenCache[T any] interface {
	// Get retrieves a record from the cache.
	// Returns the record, whether it was found, and any error.
	Get(ctx context.Context, key string) (T, bool, error)

	// Set stores a record with a per-entry TTL. For token records the TTL
	// is the token's remaining validity, so entries disappear no later
	// than the token they hold.
	Set(ctx context.Context, key string, value T, ttl time.Duration) error

	// Invalidate removes a record from the cache.
	Invalidate(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}
