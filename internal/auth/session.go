package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2"

	"github.com/florianilch/gsc-cli/internal/credential"
	"github.com/florianilch/gsc-cli/internal/tokensource"
	"github.com/florianilch/gsc-cli/internal/tokenstore"
)

// Option configures a Session.
type Option func(*Session)

// WithPrompter sets how the authorization code is obtained.
// Defaults to a TerminalPrompter on stdin.
func WithPrompter(prompter CodePrompter) Option {
	return func(s *Session) {
		s.prompter = prompter
	}
}

// WithBrowserOpener sets how the authorization URL is opened. A nil opener only
// prints the URL. Defaults to OpenBrowser.
func WithBrowserOpener(open BrowserOpener) Option {
	return func(s *Session) {
		s.openBrowser = open
	}
}

// WithOutput sets where user-facing instructions are written. Defaults to stderr.
func WithOutput(w io.Writer) Option {
	return func(s *Session) {
		s.out = w
	}
}

// Session produces authenticated clients from the stored credential, running the
// interactive authorization flow only when no usable credential exists.
type Session struct {
	store    tokenstore.Store
	provider *tokensource.Provider

	prompter    CodePrompter
	openBrowser BrowserOpener
	out         io.Writer
}

// NewSession creates a Session. A nil provider uses the Google endpoints.
func NewSession(store tokenstore.Store, provider *tokensource.Provider, opts ...Option) (*Session, error) {
	if store == nil {
		return nil, fmt.Errorf("missing token store")
	}
	if provider == nil {
		provider = tokensource.New()
	}

	s := &Session{
		store:       store,
		provider:    provider,
		prompter:    NewTerminalPrompter(os.Stdin, os.Stderr),
		openBrowser: OpenBrowser,
		out:         os.Stderr,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.prompter == nil {
		return nil, fmt.Errorf("missing code prompter")
	}
	if s.out == nil {
		s.out = io.Discard
	}

	return s, nil
}

// Client is an authenticated handle for one CLI invocation. Requests made through
// HTTPClient are signed and the access token is refreshed transparently.
type Client struct {
	source     oauth2.TokenSource
	httpClient *http.Client
}

// HTTPClient returns the signed HTTP client.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// Token returns a valid token, refreshing it if expired.
func (c *Client) Token() (*oauth2.Token, error) {
	return c.source.Token()
}

// AcquireClient returns a client for the stored credential if the authorization
// server still accepts it, and runs the interactive authorization flow otherwise.
func (s *Session) AcquireClient(ctx context.Context, clientID, clientSecret string) (*Client, error) {
	clientID = strings.TrimSpace(clientID)
	clientSecret = strings.TrimSpace(clientSecret)
	if clientID == "" || clientSecret == "" {
		return nil, credential.NewError(credential.KindMissingConfiguration,
			"missing CLIENT_ID or CLIENT_SECRET: set them in the environment or a .env file", nil)
	}

	cfg := s.provider.Config(clientID, clientSecret)
	ctx = s.provider.Context(ctx)

	client, err := s.cachedClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if client != nil {
		return client, nil
	}

	return s.authorize(ctx, cfg)
}

// cachedClient returns nil without error when the stored credential is absent,
// unreadable or rejected; all three lead to re-authorization.
func (s *Session) cachedClient(ctx context.Context, cfg *oauth2.Config) (*Client, error) {
	cred, err := s.store.Load(ctx)
	switch {
	case errors.Is(err, credential.ErrCorruptCredential):
		slog.InfoContext(ctx, "stored credential is unreadable, requesting new authorization", "error", err)
		return nil, nil
	case err != nil:
		return nil, err
	case cred == nil:
		return nil, nil
	}

	client, err := s.newClient(ctx, cfg, *cred)
	if err != nil {
		return nil, err
	}

	// Liveness check: refreshes the access token if it has expired
	if _, err := client.Token(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		slog.InfoContext(ctx, "stored token is invalid, requesting new authorization", "error", err)
		return nil, nil
	}

	slog.DebugContext(ctx, "using stored credential")
	return client, nil
}

func (s *Session) authorize(ctx context.Context, cfg *oauth2.Config) (*Client, error) {
	authURL := cfg.AuthCodeURL("", oauth2.AccessTypeOffline)

	if s.openBrowser == nil {
		s.printf("Visit this URL to authorize access to Google Search Console:\n%s\n\n", authURL)
	} else {
		s.printf("Opening browser for Google OAuth authorization...\n")
		s.printf("If the browser doesn't open automatically, visit this URL:\n%s\n\n", authURL)
		if err := s.openBrowser(authURL); err != nil {
			slog.DebugContext(ctx, "failed to open browser", "error", err)
			s.printf("Failed to open browser automatically. Please open the URL manually.\n\n")
		}
	}

	code, err := s.prompter.PromptCode(ctx)
	if err != nil {
		return nil, err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, credential.NewError(credential.KindMissingAuthorizationCode, "authorization code is required", nil)
	}

	// One-time codes cannot be reused, so a failed exchange is final
	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, credential.NewError(credential.KindTokenExchange,
			"failed to exchange authorization code", serverMessage(err))
	}

	cred := credential.FromToken(tok)
	if err := s.store.Save(ctx, cred); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "authorization successful, credential stored")

	return s.newClient(ctx, cfg, cred)
}

func (s *Session) newClient(ctx context.Context, cfg *oauth2.Config, cred credential.Credential) (*Client, error) {
	source := cfg.TokenSource(ctx, cred.Token())

	if !tokenstore.IsReadOnly(s.store) {
		persistent, err := NewPersistentTokenSource(source, s.store, cred)
		if err != nil {
			return nil, err
		}
		source = persistent
	}

	return &Client{
		source:     source,
		httpClient: oauth2.NewClient(ctx, source),
	}, nil
}

func (s *Session) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}

// RevokeOutcome describes what Revoke accomplished.
type RevokeOutcome int

const (
	// RevokeNothingStored: no credential was stored.
	RevokeNothingStored RevokeOutcome = iota
	// RevokeLocalOnly: the local credential was removed but the server was not
	// notified (no access token, or the call failed).
	RevokeLocalOnly
	// RevokeComplete: the server invalidated the token and the local credential was removed.
	RevokeComplete
)

// Revoke notifies the authorization server and deletes the stored credential.
// Failing to reach the server does not prevent local deletion.
func (s *Session) Revoke(ctx context.Context) (RevokeOutcome, error) {
	cred, err := s.store.Load(ctx)
	switch {
	case errors.Is(err, credential.ErrCorruptCredential):
		slog.WarnContext(ctx, "stored credential is unreadable, removing it without revocation", "error", err)
		cred = nil
	case err != nil:
		return RevokeNothingStored, err
	case cred == nil:
		return RevokeNothingStored, nil
	}

	outcome := RevokeLocalOnly
	if cred != nil && cred.AccessToken != "" {
		if err := s.provider.Revoke(ctx, cred.AccessToken); err != nil {
			slog.WarnContext(ctx, "failed to revoke token with authorization server", "error", err)
		} else {
			outcome = RevokeComplete
		}
	}

	if err := s.store.Clear(ctx); err != nil {
		return outcome, err
	}
	return outcome, nil
}

// exchangeFailure surfaces the authorization server's own error description.
type exchangeFailure struct {
	msg string
	err error
}

func (e *exchangeFailure) Error() string { return e.msg }
func (e *exchangeFailure) Unwrap() error { return e.err }

func serverMessage(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.ErrorDescription != "" {
		return &exchangeFailure{msg: retrieveErr.ErrorDescription, err: err}
	}
	return err
}
