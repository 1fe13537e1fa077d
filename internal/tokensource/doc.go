// Package tokensource holds the Google OAuth2 specifics used by the auth session:
// endpoints, the fixed read-only Search Console scope, the out-of-band redirect
// sentinel, and the token revocation call.
//
// # Provider
//
// Use New for the production Google endpoints:
//
//	p := tokensource.New()
//	cfg := p.Config(clientID, clientSecret)
//	url := cfg.AuthCodeURL("", oauth2.AccessTypeOffline)
//
// # Custom Base Transport
//
// Configure a custom base transport for token requests (e.g., for proxies or tests):
//
//	p := tokensource.New(
//		tokensource.WithTransport(customTransport),
//		tokensource.WithEndpoint(testEndpoint, testRevokeURL),
//	)
package tokensource
