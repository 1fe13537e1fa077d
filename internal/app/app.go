package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/api/option"

	"github.com/florianilch/gsc-cli/internal/auth"
	"github.com/florianilch/gsc-cli/internal/credential"
	"github.com/florianilch/gsc-cli/internal/preferences"
	"github.com/florianilch/gsc-cli/internal/searchconsole"
	"github.com/florianilch/gsc-cli/internal/tokensource"
	"github.com/florianilch/gsc-cli/internal/tokenstore"
	"github.com/florianilch/gsc-cli/internal/transport"
)

// Version is the CLI release, also sent in the User-Agent of outbound requests.
const Version = "1.0.0"

// Option configures an App.
type Option func(*App)

// WithProvider replaces the Google OAuth provider.
func WithProvider(provider *tokensource.Provider) Option {
	return func(a *App) {
		a.provider = provider
	}
}

// WithSessionOptions passes options through to the auth session.
func WithSessionOptions(opts ...auth.Option) Option {
	return func(a *App) {
		a.sessionOpts = append(a.sessionOpts, opts...)
	}
}

// WithAPIOptions passes options through to the Search Console client.
func WithAPIOptions(opts ...option.ClientOption) Option {
	return func(a *App) {
		a.apiOpts = append(a.apiOpts, opts...)
	}
}

// App wires the credential store, the auth session and the API client for one
// CLI invocation.
type App struct {
	cfg         *Config
	store       tokenstore.Store
	session     *auth.Session
	provider    *tokensource.Provider
	preferences *preferences.File

	sessionOpts []auth.Option
	apiOpts     []option.ClientOption
}

// New creates a new App instance. No I/O is performed.
func New(cfg *Config, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	a := &App{cfg: cfg}
	for _, opt := range opts {
		opt(a)
	}

	if a.provider == nil {
		a.provider = tokensource.New(tokensource.WithTransport(transport.New("gsc-cli/" + Version)))
	}

	store, err := cfg.Auth.NewTokenStore()
	if err != nil {
		return nil, fmt.Errorf("failed to create token store: %w", err)
	}
	a.store = store

	session, err := auth.NewSession(store, a.provider, a.sessionOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth session: %w", err)
	}
	a.session = session

	prefs, err := preferences.NewFile(cfg.PreferencesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open preferences: %w", err)
	}
	a.preferences = prefs

	return a, nil
}

// Config returns the configuration the App was built from.
func (a *App) Config() *Config {
	return a.cfg
}

// Preferences returns the preferences file.
func (a *App) Preferences() *preferences.File {
	return a.preferences
}

// Authorize returns an authenticated client, prompting the user when no usable
// credential is stored.
func (a *App) Authorize(ctx context.Context) (*auth.Client, error) {
	return a.session.AcquireClient(ctx, a.cfg.Auth.ClientID, a.cfg.Auth.ClientSecret)
}

// SearchConsole returns an API client backed by an authorized session.
func (a *App) SearchConsole(ctx context.Context) (*searchconsole.Client, error) {
	client, err := a.Authorize(ctx)
	if err != nil {
		return nil, err
	}
	return searchconsole.New(ctx, client.HTTPClient(), a.apiOpts...)
}

// Revoke invalidates and deletes the stored credential.
func (a *App) Revoke(ctx context.Context) (auth.RevokeOutcome, error) {
	return a.session.Revoke(ctx)
}

// CredentialStatus describes the stored credential without exposing secrets.
type CredentialStatus struct {
	Storage          TokenStorageType `json:"storage"`
	Location         string           `json:"location"`
	Stored           bool             `json:"stored"`
	Corrupt          bool             `json:"corrupt,omitempty"`
	HasAccessToken   bool             `json:"hasAccessToken"`
	HasRefreshToken  bool             `json:"hasRefreshToken"`
	Expiry           *time.Time       `json:"expiry,omitempty"`
	Expired          bool             `json:"expired"`
	Scope            string           `json:"scope,omitempty"`
	ClientConfigured bool             `json:"clientConfigured"`
}

// Status inspects the stored credential. It never contacts the authorization server.
func (a *App) Status(ctx context.Context) (*CredentialStatus, error) {
	status := &CredentialStatus{
		Storage:          a.cfg.Auth.Storage,
		Location:         a.cfg.Auth.Location(),
		ClientConfigured: a.cfg.Auth.ClientID != "" && a.cfg.Auth.ClientSecret != "",
	}

	cred, err := a.store.Load(ctx)
	switch {
	case errors.Is(err, credential.ErrCorruptCredential):
		slog.DebugContext(ctx, "stored credential is unreadable", "error", err)
		status.Stored = true
		status.Corrupt = true
		return status, nil
	case err != nil:
		return nil, err
	case cred == nil:
		return status, nil
	}

	status.Stored = true
	status.HasAccessToken = cred.AccessToken != ""
	status.HasRefreshToken = cred.RefreshToken != ""
	status.Scope = cred.Scope
	if !cred.Expiry.IsZero() {
		expiry := cred.Expiry
		status.Expiry = &expiry
		status.Expired = time.Now().After(expiry)
	}
	return status, nil
}
