package tokensource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/oauth2"
)

func TestConfigAuthCodeURL(t *testing.T) {
	cfg := New().Config("client-id", "client-secret")

	raw := cfg.AuthCodeURL("", oauth2.AccessTypeOffline)
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("invalid auth URL %q: %v", raw, err)
	}
	if !strings.HasPrefix(raw, Endpoint.AuthURL) {
		t.Errorf("auth URL %q does not use Google endpoint", raw)
	}

	q := u.Query()
	checks := map[string]string{
		"client_id":     "client-id",
		"scope":         Scope,
		"redirect_uri":  RedirectURL,
		"access_type":   "offline",
		"response_type": "code",
	}
	for key, want := range checks {
		if got := q.Get(key); got != want {
			t.Errorf("query %s = %q, want %q", key, got, want)
		}
	}
	if q.Has("state") {
		t.Errorf("unexpected state parameter in %q", raw)
	}
}

func TestContextCarriesHTTPClient(t *testing.T) {
	p := New()
	ctx := p.Context(context.Background())

	client, ok := ctx.Value(oauth2.HTTPClient).(*http.Client)
	if !ok || client != p.httpClient {
		t.Fatalf("context does not carry provider HTTP client")
	}
}

func TestRevoke(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantErr    bool
		errContain string
	}{
		{name: "success", status: http.StatusOK, body: "{}"},
		{
			name:       "rejected with description",
			status:     http.StatusBadRequest,
			body:       `{"error":"invalid_token","error_description":"Token expired or revoked"}`,
			wantErr:    true,
			errContain: "Token expired or revoked",
		},
		{
			name:       "rejected without body",
			status:     http.StatusInternalServerError,
			body:       "",
			wantErr:    true,
			errContain: "500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotToken string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("method = %s, want POST", r.Method)
				}
				if err := r.ParseForm(); err != nil {
					t.Errorf("ParseForm() error = %v", err)
				}
				gotToken = r.PostFormValue("token")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p := New(WithEndpoint(Endpoint, srv.URL))
			err := p.Revoke(context.Background(), "access-token")

			if gotToken != "access-token" {
				t.Errorf("server received token %q", gotToken)
			}
			if (err != nil) != tt.wantErr {
				t.Fatalf("Revoke() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errContain) {
				t.Errorf("Revoke() error = %q, want it to contain %q", err, tt.errContain)
			}
		})
	}
}

func TestRevokeNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	revokeURL := srv.URL
	srv.Close()

	p := New(WithEndpoint(Endpoint, revokeURL))
	if err := p.Revoke(context.Background(), "token"); err == nil {
		t.Fatal("expected error when revocation endpoint is unreachable")
	}
}
