package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/partnerlink/partnerlink-go/cache"
	"github.com/rs/zerolog/log"
)

const (
	// safetyBuffer is subtracted from the issuer's expiry so a token never
	// expires between a validity check and its use on the wire.
	safetyBuffer = 30 * time.Second

	// defaultExpiresIn applies when the token response omits expires_in.
	defaultExpiresIn = 3600 * time.Second

	// defaultCachePrefix namespaces shared-cache entries.
	defaultCachePrefix = "partnerlink"

	// maxResponseBytes bounds reads of the token endpoint response body.
	maxResponseBytes = 1 << 20 // 1 MB
)

// Manager owns the OAuth2 client-credentials token lifecycle: acquisition,
// expiry tracking and refresh. It holds a single in-process token slot and,
// when configured, mirrors it through an external shared cache so that
// multiple processes with the same credentials converge on one token.
//
// The shared cache is best-effort only: any failure there is logged and
// swallowed, degrading the manager to in-process operation. The in-process
// slot is guarded by a mutex, so a Manager may be shared across goroutines;
// distinct processes racing past an expired shared entry may still each
// refresh, which the authorization server tolerates.
type Manager struct {
	creds      Credentials
	httpClient *http.Client

	shared   cache.TokenCache[Token]
	cacheKey string

	mu    sync.RWMutex
	token Token

	// now is a test seam; production managers use time.Now.
	now func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithHTTPClient sets the HTTP client used for token requests. The default
// is http.DefaultClient.
func WithHTTPClient(client *http.Client) Option {
	return func(m *Manager) {
		m.httpClient = client
	}
}

// WithSharedCache attaches an external shared cache. A nil cache leaves the
// manager in-process only. The prefix namespaces the cache key; empty selects
// the default.
func WithSharedCache(shared cache.TokenCache[Token], prefix string) Option {
	return func(m *Manager) {
		m.shared = shared
		if prefix == "" {
			prefix = defaultCachePrefix
		}
		m.cacheKey = m.creds.CacheKey(prefix)
	}
}

// WithClock overrides the manager's time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a token lifecycle manager for the given credentials.
func NewManager(creds Credentials, opts ...Option) (*Manager, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	m := &Manager{
		creds:      creds,
		httpClient: http.DefaultClient,
		cacheKey:   creds.CacheKey(defaultCachePrefix),
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// GetToken returns a bearer token guaranteed to be usable at the moment of
// return. Resolution order: the shared cache (re-synchronizing the in-process
// slot across instances), then the in-process slot (re-mirrored to the shared
// cache on a hit), then a refresh against the token endpoint.
//
// A refresh failure is returned as-is; there is no internal retry. Every
// failure leaves the manager empty, so the next call starts clean.
func (m *Manager) GetToken(ctx context.Context) (string, error) {
	if tok, ok := m.sharedGet(ctx); ok {
		m.mu.Lock()
		m.token = tok
		m.mu.Unlock()
		return tok.AccessToken, nil
	}

	m.mu.RLock()
	tok := m.token
	m.mu.RUnlock()

	if tok.Valid(m.now()) {
		// Re-mirror so instances that lost the shared entry pick this
		// token up instead of refreshing.
		m.sharedPut(ctx, tok)
		return tok.AccessToken, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// another goroutine may have refreshed while we waited for the lock
	if m.token.Valid(m.now()) {
		return m.token.AccessToken, nil
	}

	tok, err := m.refresh(ctx)
	if err != nil {
		m.token = Token{}
		m.sharedForget(ctx)
		return "", err
	}

	m.token = tok
	return tok.AccessToken, nil
}

// IsTokenValid reports whether the in-process slot holds a currently valid
// token. It is a pure read: no cache interaction, no side effects.
func (m *Manager) IsTokenValid() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token.Valid(m.now())
}

// Invalidate clears the in-process slot and, best-effort, the shared cache
// entry. The next GetToken performs a full resolution.
func (m *Manager) Invalidate(ctx context.Context) {
	m.mu.Lock()
	m.token = Token{}
	m.mu.Unlock()

	m.sharedForget(ctx)
}

// Status is a point-in-time diagnostic snapshot of the manager. It is for
// observability only; correctness decisions are never based on it.
type Status struct {
	HasToken         bool
	Valid            bool
	ExpiresAt        time.Time
	RemainingSeconds int64
	SharedCache      bool
}

// Status reports the manager's current state without side effects.
func (m *Manager) Status() Status {
	m.mu.RLock()
	tok := m.token
	m.mu.RUnlock()

	now := m.now()
	remaining := int64(tok.TTL(now).Seconds())

	return Status{
		HasToken:         tok.AccessToken != "",
		Valid:            tok.Valid(now),
		ExpiresAt:        tok.Expiry(),
		RemainingSeconds: remaining,
		SharedCache:      m.shared != nil,
	}
}

// tokenResponse is the token endpoint's success payload. Fields beyond these
// two are ignored.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// refresh performs a client-credentials token request. On success the new
// token is mirrored to the shared cache (best-effort) and returned. The
// caller owns the in-process slot update.
func (m *Manager) refresh(ctx context.Context) (Token, error) {
	form := url.Values{}
	form.Set("grant_type", GrantClientCredentials)
	form.Set("client_id", m.creds.ClientID)
	form.Set("client_secret", m.creds.ClientSecret)
	if m.creds.Scope != "" {
		form.Set("scope", m.creds.Scope)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, m.creds.TokenURL, strings.NewReader(form.Encode()),
	)
	if err != nil {
		return Token{}, &TransportError{Endpoint: m.creds.TokenURL, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return Token{}, &TransportError{Endpoint: m.creds.TokenURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Token{}, &TransportError{Endpoint: m.creds.TokenURL, Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return Token{}, &ServerError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var payload tokenResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return Token{}, &MalformedResponseError{Reason: "undecodable body: " + err.Error()}
	}
	if payload.AccessToken == "" {
		return Token{}, &MalformedResponseError{Reason: "access_token field missing"}
	}

	expiresIn := time.Duration(payload.ExpiresIn) * time.Second
	if payload.ExpiresIn == 0 {
		expiresIn = defaultExpiresIn
	}

	now := m.now()
	tok := Token{
		AccessToken: payload.AccessToken,
		ExpiresAt:   now.Add(expiresIn - safetyBuffer).Unix(),
	}

	// A lifetime at or under the safety buffer yields a token that is
	// already expired by our accounting; it must never be handed out.
	if !tok.Valid(now) {
		return Token{}, &MalformedResponseError{
			Reason: fmt.Sprintf("token lifetime %ds does not outlive the %ds safety buffer",
				payload.ExpiresIn, int64(safetyBuffer.Seconds())),
		}
	}

	log.Debug().
		Time("expiry", tok.Expiry()).
		Msg("obtained new access token")

	m.sharedPut(ctx, tok)

	return tok, nil
}

// sharedGet reads the shared-cache entry for this credential set. A missing,
// expired or unreadable entry is reported as a miss; cache failures never
// surface to the caller.
func (m *Manager) sharedGet(ctx context.Context) (Token, bool) {
	if m.shared == nil {
		return Token{}, false
	}

	tok, found, err := m.shared.Get(ctx, m.cacheKey)
	if err != nil {
		log.Debug().Err(err).Msg("shared token cache read failed, continuing without it")
		return Token{}, false
	}
	if !found || !tok.Valid(m.now()) {
		return Token{}, false
	}

	return tok, true
}

// sharedPut mirrors a token to the shared cache with a TTL equal to its
// remaining validity. Best-effort: failures are logged and swallowed.
func (m *Manager) sharedPut(ctx context.Context, tok Token) {
	if m.shared == nil {
		return
	}

	ttl := tok.TTL(m.now())
	if ttl <= 0 {
		return
	}

	if err := m.shared.Set(ctx, m.cacheKey, tok, ttl); err != nil {
		log.Debug().Err(err).Msg("shared token cache write failed, continuing without it")
	}
}

// sharedForget deletes this credential set's shared-cache entry. Best-effort.
func (m *Manager) sharedForget(ctx context.Context) {
	if m.shared == nil {
		return
	}

	if err := m.shared.Invalidate(ctx, m.cacheKey); err != nil {
		log.Debug().Err(err).Msg("shared token cache delete failed, continuing without it")
	}
}
