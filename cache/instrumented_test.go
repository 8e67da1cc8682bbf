package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCache is a scriptable TokenCache for decorator tests.
type stubCache struct {
	value  cacheTestDummy
	found  bool
	err    error
	closed bool
}

func (s *stubCache) Get(context.Context, string) (cacheTestDummy, bool, error) {
	return s.value, s.found, s.err
}

func (s *stubCache) Set(context.Context, string, cacheTestDummy, time.Duration) error {
	return s.err
}

func (s *stubCache) Invalidate(context.Context, string) error {
	return s.err
}

func (s *stubCache) Close() error {
	s.closed = true
	return nil
}

func TestInstrumented_PassesThroughValues(t *testing.T) {
	ctx := context.Background()
	stub := &stubCache{value: cacheTestDummy{Data: "hit"}, found: true}
	instrumented := NewInstrumented[cacheTestDummy](stub, "test")

	value, found, err := instrumented.Get(ctx, "key")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "hit", value.Data)

	assert.NoError(t, instrumented.Set(ctx, "key", cacheTestDummy{Data: "x"}, time.Minute))
	assert.NoError(t, instrumented.Invalidate(ctx, "key"))
}

func TestInstrumented_PassesThroughErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	stub := &stubCache{err: boom}
	instrumented := NewInstrumented[cacheTestDummy](stub, "test")

	_, _, err := instrumented.Get(ctx, "key")
	assert.ErrorIs(t, err, boom)

	assert.ErrorIs(t, instrumented.Set(ctx, "key", cacheTestDummy{}, time.Minute), boom)
	assert.ErrorIs(t, instrumented.Invalidate(ctx, "key"), boom)
}

func TestInstrumented_ClosePropagates(t *testing.T) {
	stub := &stubCache{}
	instrumented := NewInstrumented[cacheTestDummy](stub, "test")

	require.NoError(t, instrumented.Close())
	assert.True(t, stub.closed)
}
