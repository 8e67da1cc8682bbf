package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/valkey-io/valkey-go"
)

// Distributed implements TokenCache using Valkey with server-assisted
// client-side caching. The generic type T represents the record type
// being cached.
type Distributed[T any] struct {
	client valkey.Client

	// clientTTL bounds how long a read may be served from the local
	// client-side cache before revalidating against the server.
	clientTTL time.Duration

	strategy EncryptionStrategy
}

// NewDistributed creates a new Valkey-backed cache. The clientTTL parameter
// controls the client-side caching window for reads. The strategy parameter
// controls encryption of cached values; nil defaults to NoEncryptionStrategy.
func NewDistributed[T any](valkeyClient valkey.Client, clientTTL time.Duration, strategy EncryptionStrategy) (*Distributed[T], error) {
	if strategy == nil {
		strategy = &NoEncryptionStrategy{}
	}
	return &Distributed[T]{
		client:    valkeyClient,
		clientTTL: clientTTL,
		strategy:  strategy,
	}, nil
}

// Get retrieves a record from the cache using server-assisted client-side
// caching. Returns the record, whether it was found, and any error.
// Decryption failures are returned as errors; the corrupted entry is
// invalidated on a best-effort basis.
func (d *Distributed[T]) Get(ctx context.Context, key string) (T, bool, error) {
	var zero T

	storageKey := d.strategy.StorageKey(key)

	// DoCache enables client-side caching with server tracking.
	cmd := d.client.B().Get().Key(storageKey).Cache()
	result := d.client.DoCache(ctx, cmd, d.clientTTL)

	if err := result.Error(); err != nil {
		// Key not found is not an error in our semantics
		if valkey.IsValkeyNil(err) {
			return zero, false, nil
		}
		return zero, false, fmt.Errorf("failed to get cached value: %w", err)
	}

	val, err := result.ToString()
	if err != nil {
		return zero, false, fmt.Errorf("failed to convert cached value to string: %w", err)
	}

	data, err := d.strategy.DecryptValue(val, key)
	if err != nil {
		// Best-effort invalidation of the corrupted entry.
		_ = d.client.Do(ctx, d.client.B().Del().Key(storageKey).Build()).Error()

		return zero, false, fmt.Errorf("cache decryption failure for key %q: %w", key, err)
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return zero, false, fmt.Errorf("failed to unmarshal cached value: %w", err)
	}

	return value, true, nil
}

// Set stores a record with the given TTL. The record is JSON-serialized
// before storage.
func (d *Distributed[T]) Set(ctx context.Context, key string, value T, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	encrypted, err := d.strategy.EncryptValue(data, key)
	if err != nil {
		return fmt.Errorf("failed to encrypt value: %w", err)
	}

	seconds := int64(ttl.Seconds())
	if seconds < 1 {
		// Sub-second TTLs round up rather than persisting forever.
		seconds = 1
	}

	cmd := d.client.B().Set().Key(d.strategy.StorageKey(key)).Value(encrypted).ExSeconds(seconds).Build()
	if err := d.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to set cached value: %w", err)
	}
	return nil
}

// Invalidate removes a record from the cache.
func (d *Distributed[T]) Invalidate(ctx context.Context, key string) error {
	cmd := d.client.B().Del().Key(d.strategy.StorageKey(key)).Build()
	if err := d.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to invalidate cached value: %w", err)
	}
	return nil
}

// Close releases resources associated with the cache client and encryption
// strategy.
func (d *Distributed[T]) Close() error {
	if err := d.strategy.Close(); err != nil {
		log.Warn().Err(err).Msg("error closing encryption strategy")
	}
	d.client.Close()
	return nil
}
