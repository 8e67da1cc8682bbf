package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

// GrantClientCredentials is the only grant the PartnerLink authorization
// server issues machine tokens for.
const GrantClientCredentials = "client_credentials"

// Credentials identifies an OAuth2 client to the PartnerLink authorization
// server. The value is immutable for the lifetime of the Manager that holds
// it.
type Credentials struct {
	ClientID     string
	ClientSecret string

	// TokenURL is the token issuance endpoint.
	TokenURL string

	// Scope is an optional authorization scope string, passed through to the
	// token request verbatim.
	Scope string

	// Version tags the credential set (e.g. a region or rotation marker). It
	// participates only in cache key derivation, so that rotated credentials
	// never collide with entries written by the previous set.
	Version string
}

// Validate checks that the credentials are sufficient for a token request.
func (c Credentials) Validate() error {
	if c.ClientID == "" {
		return errors.New("client ID must be configured")
	}
	if c.ClientSecret == "" {
		return errors.New("client secret must be configured")
	}
	if c.TokenURL == "" {
		return errors.New("token URL must be configured")
	}
	return nil
}

// CacheKey derives the shared-cache slot for this credential set. The digest
// is stable across processes, so every manager configured with the same
// credentials converges on the same entry. The "|" separator does not occur
// in any of the constituent fields.
func (c Credentials) CacheKey(prefix string) string {
	fingerprint := strings.Join(
		[]string{c.ClientID, c.Version, c.TokenURL, c.Scope}, "|",
	)
	digest := sha256.Sum256([]byte(fingerprint))

	return fmt.Sprintf("%s:oauth2:token:%s", prefix, hex.EncodeToString(digest[:]))
}

// Token is a bearer token with its absolute expiry. The zero value means "no
// token held": AccessToken and ExpiresAt are always set together. The JSON
// tags define the shared-cache wire format.
type Token struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"` // seconds since epoch
}

// Valid reports whether the token is usable at the given instant. A token is
// usable strictly before its expiry.
func (t Token) Valid(now time.Time) bool {
	return t.AccessToken != "" && now.Unix() < t.ExpiresAt
}

// Expiry returns the absolute expiry time. Zero-value tokens report the epoch.
func (t Token) Expiry() time.Time {
	return time.Unix(t.ExpiresAt, 0)
}

// TTL returns the remaining validity window, floored at zero.
func (t Token) TTL(now time.Time) time.Duration {
	remaining := time.Duration(t.ExpiresAt-now.Unix()) * time.Second
	if remaining < 0 {
		return 0
	}
	return remaining
}
