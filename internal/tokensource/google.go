package tokensource

import (
	"golang.org/x/oauth2/google"
)

const (
	// Scope is the only scope ever requested: read-only Search Console access.
	Scope = "https://www.googleapis.com/auth/webmasters.readonly"

	// RedirectURL is the out-of-band sentinel. The user copies the code from the
	// browser instead of a local callback receiving it.
	RedirectURL = "urn:ietf:wg:oauth:2.0:oob"

	// RevokeURL is Google's token revocation endpoint.
	RevokeURL = "https://oauth2.googleapis.com/revoke"
)

// Endpoint defines the OAuth2 endpoints for Google accounts.
var Endpoint = google.Endpoint
