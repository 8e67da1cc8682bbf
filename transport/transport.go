// Package transport assembles the outgoing HTTP plumbing for API calls:
// a pooled base transport, bearer-token injection, and optional
// OpenTelemetry instrumentation.
package transport

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/partnerlink/partnerlink-go/config"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// TokenProvider supplies bearer tokens for outgoing requests. This is the
// sole surface the transport consumes from the token lifecycle manager.
type TokenProvider interface {
	GetToken(ctx context.Context) (string, error)
}

// Base returns a pooled transport tuned from the client configuration.
func Base(cfg config.ClientConfig) http.RoundTripper {
	transport := cleanhttp.DefaultPooledTransport()
	transport.MaxIdleConns = cfg.OutgoingHTTPMaxIdleConns
	transport.MaxConnsPerHost = cfg.OutgoingHTTPMaxConnsPerHost

	var rt http.RoundTripper = transport
	if cfg.HTTPTelemetryEnabled {
		rt = otelhttp.NewTransport(rt)
	}

	return rt
}

// Bearer wraps a RoundTripper so every request carries a bearer token from
// the provider. A request whose token cannot be obtained is not sent: there
// is no unauthenticated fallback.
func Bearer(provider TokenProvider, wrapped http.RoundTripper) http.RoundTripper {
	if wrapped == nil {
		wrapped = http.DefaultTransport
	}

	return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		token, err := provider.GetToken(req.Context())
		if err != nil {
			return nil, fmt.Errorf("bearer token unavailable: %w", err)
		}

		// Per-request clone: RoundTrippers must not mutate the original.
		authed := req.Clone(req.Context())
		authed.Header.Set("Authorization", "Bearer "+token)

		return wrapped.RoundTrip(authed)
	})
}

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
