package auth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/oauth2"

	"github.com/florianilch/gsc-cli/internal/credential"
	"github.com/florianilch/gsc-cli/internal/tokenstore"
)

// PersistentTokenSource wraps an oauth2.TokenSource and writes every newly issued
// access token back to the store, so a refresh survives the process.
type PersistentTokenSource struct {
	source oauth2.TokenSource
	store  tokenstore.Store

	lastAccessToken atomic.Pointer[string]
	writeMu         sync.Mutex
}

// Compile-time check to ensure PersistentTokenSource implements oauth2.TokenSource
var _ oauth2.TokenSource = (*PersistentTokenSource)(nil)

// NewPersistentTokenSource creates a PersistentTokenSource. initial is the
// credential already held by the store and is not written back.
func NewPersistentTokenSource(source oauth2.TokenSource, store tokenstore.Store, initial credential.Credential) (*PersistentTokenSource, error) {
	if source == nil {
		return nil, fmt.Errorf("missing token source")
	}
	if store == nil {
		return nil, fmt.Errorf("missing token store")
	}

	p := &PersistentTokenSource{
		source: source,
		store:  store,
	}
	p.lastAccessToken.Store(&initial.AccessToken)

	return p, nil
}

// Token returns a valid token, refreshing if necessary and persisting refreshed tokens.
func (p *PersistentTokenSource) Token() (*oauth2.Token, error) {
	freshToken, err := p.source.Token()
	if err != nil {
		return nil, fmt.Errorf("getting token from token source: %w", err)
	}

	// Hot path: lock-free atomic read
	last := ""
	if lastPtr := p.lastAccessToken.Load(); lastPtr != nil {
		last = *lastPtr
	}

	if freshToken.AccessToken != "" && freshToken.AccessToken != last {
		p.writeMu.Lock()
		// oauth2.TokenSource has no context parameter (legacy interface)
		ctx := context.Background()
		if err := p.store.Save(ctx, credential.FromToken(freshToken)); err != nil {
			// The access token is still usable for this run, the next run refreshes again
			slog.ErrorContext(ctx, "failed to persist refreshed credential", "error", err)
		} else {
			// Update only on success so the next call retries the write
			accessToken := freshToken.AccessToken
			p.lastAccessToken.Store(&accessToken)
		}
		p.writeMu.Unlock()
	}

	return freshToken, nil
}
