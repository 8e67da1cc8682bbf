package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToken_Valid(t *testing.T) {
	now := time.Unix(1000, 0)

	tests := []struct {
		name  string
		token Token
		want  bool
	}{
		{name: "zero token", token: Token{}, want: false},
		{name: "valid", token: Token{AccessToken: "t", ExpiresAt: 1001}, want: true},
		{name: "expires now", token: Token{AccessToken: "t", ExpiresAt: 1000}, want: false},
		{name: "expired", token: Token{AccessToken: "t", ExpiresAt: 999}, want: false},
		{name: "expiry without token", token: Token{ExpiresAt: 2000}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.token.Valid(now))
		})
	}
}

func TestToken_TTL(t *testing.T) {
	now := time.Unix(1000, 0)

	tok := Token{AccessToken: "t", ExpiresAt: 1070}
	assert.Equal(t, 70*time.Second, tok.TTL(now))

	expired := Token{AccessToken: "t", ExpiresAt: 900}
	assert.Equal(t, time.Duration(0), expired.TTL(now), "TTL floors at zero")
}

func TestCredentials_CacheKey(t *testing.T) {
	creds := Credentials{
		ClientID:     "client-1",
		ClientSecret: "secret",
		TokenURL:     "https://auth.example/token",
		Scope:        "catalog:read",
		Version:      "v1",
	}

	key := creds.CacheKey("partnerlink")

	assert.True(t, strings.HasPrefix(key, "partnerlink:oauth2:token:"))
	digest := strings.TrimPrefix(key, "partnerlink:oauth2:token:")
	assert.Len(t, digest, 64, "sha256 hex digest")

	// deterministic across instances
	assert.Equal(t, key, creds.CacheKey("partnerlink"))

	// the secret does not participate in the fingerprint
	rotated := creds
	rotated.ClientSecret = "other-secret"
	assert.Equal(t, key, rotated.CacheKey("partnerlink"))

	// version, scope and endpoint all do
	v2 := creds
	v2.Version = "v2"
	assert.NotEqual(t, key, v2.CacheKey("partnerlink"))

	scoped := creds
	scoped.Scope = "catalog:write"
	assert.NotEqual(t, key, scoped.CacheKey("partnerlink"))

	endpoint := creds
	endpoint.TokenURL = "https://auth2.example/token"
	assert.NotEqual(t, key, endpoint.CacheKey("partnerlink"))
}
