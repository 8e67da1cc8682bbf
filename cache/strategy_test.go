package cache

import (
	"testing"

	"github.com/partnerlink/partnerlink-go/cache/encryption"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoEncryptionStrategy_PassThrough(t *testing.T) {
	s := &NoEncryptionStrategy{}

	value, err := s.EncryptValue([]byte(`{"data":"x"}`), "key-1")
	require.NoError(t, err)
	assert.Equal(t, `{"data":"x"}`, value)

	decrypted, err := s.DecryptValue(value, "key-1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"data":"x"}`), decrypted)

	assert.Equal(t, "key-1", s.StorageKey("key-1"))
	assert.NoError(t, s.Close())
}

func TestTinkEncryptionStrategy_RoundTrip(t *testing.T) {
	aead, err := encryption.NewTestAEAD()
	require.NoError(t, err)
	s := NewTinkEncryptionStrategy(aead)

	plaintext := []byte(`{"access_token":"tok","expires_at":1234}`)

	value, err := s.EncryptValue(plaintext, "cache-key")
	require.NoError(t, err)
	assert.NotContains(t, value, "tok", "ciphertext must not leak the token")
	assert.Contains(t, value, "pl-enc:", "encrypted values carry the marker prefix")

	decrypted, err := s.DecryptValue(value, "cache-key")
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestTinkEncryptionStrategy_KeyBindsCiphertext(t *testing.T) {
	aead, err := encryption.NewTestAEAD()
	require.NoError(t, err)
	s := NewTinkEncryptionStrategy(aead)

	value, err := s.EncryptValue([]byte("secret"), "key-a")
	require.NoError(t, err)

	// decrypting under a different cache key must fail: the key is AAD
	_, err = s.DecryptValue(value, "key-b")
	assert.Error(t, err)
}

func TestTinkEncryptionStrategy_RejectsUnmarkedValue(t *testing.T) {
	aead, err := encryption.NewTestAEAD()
	require.NoError(t, err)
	s := NewTinkEncryptionStrategy(aead)

	_, err = s.DecryptValue(`{"data":"plaintext entry"}`, "key-a")
	assert.ErrorContains(t, err, "pl-enc:")
}

func TestTinkEncryptionStrategy_StorageKey(t *testing.T) {
	aead, err := encryption.NewTestAEAD()
	require.NoError(t, err)
	s := NewTinkEncryptionStrategy(aead)

	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{name: "simple key", key: "test-key", expected: "enc:test-key"},
		{name: "key with colons", key: "partnerlink:oauth2:token:abc", expected: "enc:partnerlink:oauth2:token:abc"},
		{name: "empty key", key: "", expected: "enc:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, s.StorageKey(tt.key))
		})
	}
}
