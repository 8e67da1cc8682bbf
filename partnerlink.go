// Package partnerlink is the Go SDK for the PartnerLink commerce REST API.
// It wires the OAuth2 token lifecycle manager, the tiered token cache and the
// authenticated transport into service clients for the catalog, feed and
// report operations.
package partnerlink

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/partnerlink/partnerlink-go/auth"
	"github.com/partnerlink/partnerlink-go/cache"
	"github.com/partnerlink/partnerlink-go/catalog"
	"github.com/partnerlink/partnerlink-go/config"
	"github.com/partnerlink/partnerlink-go/feeds"
	"github.com/partnerlink/partnerlink-go/reports"
	"github.com/partnerlink/partnerlink-go/rest"
	"github.com/partnerlink/partnerlink-go/transport"
)

// tokenCacheMaxTTL bounds shared-cache entry lifetime. Tokens live at most an
// hour, so nothing useful outlasts this.
const tokenCacheMaxTTL = time.Hour

// Client is the top-level SDK entry point. Service clients share one
// authenticated HTTP client; callers attach nothing themselves.
type Client struct {
	Catalog *catalog.Client
	Feeds   *feeds.Client
	Reports *reports.Client

	manager    *auth.Manager
	tokenCache cache.TokenCache[auth.Token]
}

// Option adjusts client construction.
type Option func(*options)

type options struct {
	httpClient *http.Client
	tokenCache cache.TokenCache[auth.Token]
	ownsCache  bool
}

// WithHTTPClient replaces the transport used for API calls. The bearer layer
// is still applied on top of the supplied client's transport.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithTokenCache supplies an externally owned shared token cache, bypassing
// the cache configuration. The caller keeps ownership: Close does not close
// a cache supplied this way.
func WithTokenCache(c cache.TokenCache[auth.Token]) Option {
	return func(o *options) {
		o.tokenCache = c
		o.ownsCache = false
	}
}

// New builds an SDK client from configuration: token cache (per the cache
// config), token lifecycle manager, authenticated transport, and the three
// service clients.
func New(ctx context.Context, cfg config.Config, opts ...Option) (*Client, error) {
	o := &options{ownsCache: true}
	for _, opt := range opts {
		opt(o)
	}

	tokenCache := o.tokenCache
	if tokenCache == nil {
		var err error
		tokenCache, err = cache.NewFromConfig[auth.Token](ctx, cfg.Cache, tokenCacheMaxTTL)
		if err != nil {
			return nil, fmt.Errorf("token cache configuration failed: %w", err)
		}
	}

	creds := auth.Credentials{
		ClientID:     cfg.Auth.ClientID,
		ClientSecret: cfg.Auth.ClientSecret,
		TokenURL:     cfg.Auth.TokenURL,
		Scope:        cfg.Auth.Scope,
		Version:      cfg.Auth.CredentialVersion,
	}

	manager, err := auth.NewManager(creds,
		auth.WithSharedCache(tokenCache, cfg.Cache.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("token manager configuration failed: %w", err)
	}

	base := transport.Base(cfg.Client)
	if o.httpClient != nil && o.httpClient.Transport != nil {
		base = o.httpClient.Transport
	}
	httpClient := &http.Client{
		Transport: transport.Bearer(manager, base),
	}

	api, err := rest.New(cfg.Client.Endpoint, httpClient, cfg.Client.Marketplace, cfg.Client.PartnerTag)
	if err != nil {
		return nil, fmt.Errorf("rest client configuration failed: %w", err)
	}

	c := &Client{
		Catalog: catalog.New(api),
		Feeds:   feeds.New(api),
		Reports: reports.New(api),
		manager: manager,
	}
	if o.ownsCache {
		c.tokenCache = tokenCache
	}

	return c, nil
}

// Token returns a valid bearer token, refreshing if needed. Most callers
// never need this: the service clients authenticate themselves.
func (c *Client) Token(ctx context.Context) (string, error) {
	return c.manager.GetToken(ctx)
}

// AuthStatus is a diagnostic snapshot of the token lifecycle manager.
func (c *Client) AuthStatus() auth.Status {
	return c.manager.Status()
}

// InvalidateToken discards the cached token, forcing the next call to
// acquire a fresh one.
func (c *Client) InvalidateToken(ctx context.Context) {
	c.manager.Invalidate(ctx)
}

// Close releases resources owned by the client, currently the token cache
// when the client created it.
func (c *Client) Close() error {
	if c.tokenCache != nil {
		return c.tokenCache.Close()
	}
	return nil
}
