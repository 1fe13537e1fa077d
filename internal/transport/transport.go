// Package transport provides the HTTP transport shared by all outbound calls to
// Google: the token endpoint, the revocation endpoint and the Search Console API.
package transport

import (
	"log/slog"
	"net/http"
	"time"
)

// LoggingTransport is an http.RoundTripper that identifies the CLI and logs each
// request at debug level. Headers, query strings and bodies are never logged;
// they carry tokens and authorization codes.
type LoggingTransport struct {
	Base      http.RoundTripper
	UserAgent string
}

// Compile-time check that LoggingTransport implements http.RoundTripper.
var _ http.RoundTripper = (*LoggingTransport)(nil)

// New creates a LoggingTransport over http.DefaultTransport.
func New(userAgent string) *LoggingTransport {
	return &LoggingTransport{Base: http.DefaultTransport, UserAgent: userAgent}
}

// RoundTrip implements http.RoundTripper interface.
func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	// RoundTrippers must not modify the caller's request
	if t.UserAgent != "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.UserAgent)
	}

	start := time.Now()
	resp, err := base.RoundTrip(req)
	attrs := []any{
		"method", req.Method,
		"host", req.URL.Host,
		"path", req.URL.Path,
		"duration", time.Since(start),
	}
	if err != nil {
		slog.DebugContext(req.Context(), "request failed", append(attrs, "error", err)...)
		return nil, err
	}

	slog.DebugContext(req.Context(), "request completed", append(attrs, "status", resp.StatusCode)...)
	return resp, nil
}
