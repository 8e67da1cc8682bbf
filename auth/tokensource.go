package auth

import (
	"context"

	"golang.org/x/oauth2"
)

// managerTokenSource adapts a Manager to oauth2.TokenSource.
type managerTokenSource struct {
	ctx     context.Context
	manager *Manager
}

// TokenSource adapts the manager to oauth2.TokenSource for libraries built
// around that interface. The manager already caches and refreshes, so the
// source is intentionally not wrapped in oauth2.ReuseTokenSource: an outer
// reuse layer would hold onto tokens past an Invalidate call.
func TokenSource(ctx context.Context, m *Manager) oauth2.TokenSource {
	return &managerTokenSource{ctx: ctx, manager: m}
}

func (s *managerTokenSource) Token() (*oauth2.Token, error) {
	access, err := s.manager.GetToken(s.ctx)
	if err != nil {
		return nil, err
	}

	return &oauth2.Token{
		AccessToken: access,
		TokenType:   "Bearer",
		Expiry:      s.manager.Status().ExpiresAt,
	}, nil
}
