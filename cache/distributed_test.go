package cache

import (
	"testing"
	"time"

	"github.com/partnerlink/partnerlink-go/cache/encryption"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDistributed_DefaultsToNoEncryption(t *testing.T) {
	cache, err := NewDistributed[cacheTestDummy](nil, 5*time.Minute, nil)
	require.NoError(t, err)
	require.NotNil(t, cache)
	assert.IsType(t, &NoEncryptionStrategy{}, cache.strategy)
}

func TestNewDistributed_WithStrategy(t *testing.T) {
	aead, err := encryption.NewTestAEAD()
	require.NoError(t, err)

	cache, err := NewDistributed[cacheTestDummy](nil, 5*time.Minute, NewTinkEncryptionStrategy(aead))
	require.NoError(t, err)
	require.NotNil(t, cache)
	assert.IsType(t, &TinkEncryptionStrategy{}, cache.strategy)
}
