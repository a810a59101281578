// Package oauth implements the token provider using the OAuth2
// client-credentials grant.
package oauth

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Config holds the client-credentials settings for the token endpoint.
type Config struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
}

// Provider obtains bearer tokens per scope. One oauth2.TokenSource is kept
// per scope so tokens are cached and refreshed transparently across calls.
type Provider struct {
	cfg     Config
	baseCtx context.Context

	mu      sync.Mutex
	sources map[string]oauth2.TokenSource
}

type Option func(*Provider)

// WithHTTPClient routes token requests through a custom client (for testing).
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) {
		p.baseCtx = context.WithValue(p.baseCtx, oauth2.HTTPClient, client)
	}
}

func NewProvider(cfg Config, opts ...Option) *Provider {
	p := &Provider{
		cfg:     cfg,
		baseCtx: context.Background(),
		sources: make(map[string]oauth2.TokenSource),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// TokenForScope returns a bearer token valid for the named scope. The token
// source is long-lived by design; ctx only bounds this invocation's wait.
func (p *Provider) TokenForScope(ctx context.Context, scope string) (string, error) {
	tok, err := p.sourceFor(scope).Token()
	if err != nil {
		return "", fmt.Errorf("token for scope %q: %w", scope, err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

func (p *Provider) sourceFor(scope string) oauth2.TokenSource {
	p.mu.Lock()
	defer p.mu.Unlock()
	if src, ok := p.sources[scope]; ok {
		return src
	}
	cc := clientcredentials.Config{
		ClientID:     p.cfg.ClientID,
		ClientSecret: p.cfg.ClientSecret,
		TokenURL:     p.cfg.TokenURL,
		Scopes:       []string{scope},
	}
	src := cc.TokenSource(p.baseCtx)
	p.sources[scope] = src
	return src
}
