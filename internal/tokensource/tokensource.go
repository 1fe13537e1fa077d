package tokensource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// Option configures a Provider.
type Option func(*providerConfig)

// providerConfig holds configuration for New.
type providerConfig struct {
	baseTransport http.RoundTripper
	endpoint      oauth2.Endpoint
	revokeURL     string
}

// WithTransport sets a custom base transport for token and revocation requests.
// If not provided, http.DefaultTransport is used.
func WithTransport(transport http.RoundTripper) Option {
	return func(c *providerConfig) {
		c.baseTransport = transport
	}
}

// WithEndpoint overrides the authorization, token and revocation endpoints.
func WithEndpoint(endpoint oauth2.Endpoint, revokeURL string) Option {
	return func(c *providerConfig) {
		c.endpoint = endpoint
		c.revokeURL = revokeURL
	}
}

// Provider builds OAuth2 configurations for the Google authorization server and
// carries the HTTP client used for every call to it.
type Provider struct {
	endpoint   oauth2.Endpoint
	revokeURL  string
	httpClient *http.Client
}

// New creates a Provider for the Google endpoints.
func New(opts ...Option) *Provider {
	cfg := &providerConfig{
		baseTransport: http.DefaultTransport,
		endpoint:      Endpoint,
		revokeURL:     RevokeURL,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Provider{
		endpoint:  cfg.endpoint,
		revokeURL: cfg.revokeURL,
		httpClient: &http.Client{
			// Bounds token refresh, which oauth2 performs outside any caller deadline
			Timeout:   30 * time.Second,
			Transport: cfg.baseTransport,
		},
	}
}

// Config returns the oauth2 configuration for the installed-application flow with
// the fixed read-only scope and the out-of-band redirect.
func (p *Provider) Config(clientID, clientSecret string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     p.endpoint,
		RedirectURL:  RedirectURL,
		Scopes:       []string{Scope},
	}
}

// Context returns ctx carrying the provider's HTTP client.
// The oauth2 package picks up custom HTTP clients via the oauth2.HTTPClient key.
func (p *Provider) Context(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
}

// revokeError is the error payload returned by the revocation endpoint.
type revokeError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// Revoke asks the authorization server to invalidate token.
func (p *Provider) Revoke(ctx context.Context, token string) error {
	form := url.Values{"token": {token}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.revokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("creating revoke request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("contacting revocation endpoint: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusOK {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	var payload revokeError
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		if payload.ErrorDescription != "" {
			return fmt.Errorf("revocation rejected: %s (%s)", payload.ErrorDescription, payload.Error)
		}
		return fmt.Errorf("revocation rejected: %s", payload.Error)
	}
	return fmt.Errorf("revocation rejected: %s", resp.Status)
}
