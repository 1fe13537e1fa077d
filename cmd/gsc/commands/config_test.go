package commands

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/florianilch/gsc-cli/internal/app"
)

func environ(vars ...string) func() []string {
	return func() []string { return vars }
}

func writeTOML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gsc.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigFileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := writeTOML(t, `
log_level = "debug"
log_format = "json"
preferences_file = "`+filepath.Join(dir, "prefs.json")+`"

[auth]
client_id = "file-id"
client_secret = "file-secret"
storage = "file"
file = "`+filepath.Join(dir, "token.json")+`"
`)

	tests := []struct {
		name             string
		environ          []string
		wantClientID     string
		wantClientSecret string
		wantFormat       app.LogFormat
	}{
		{
			name:             "file only",
			wantClientID:     "file-id",
			wantClientSecret: "file-secret",
			wantFormat:       app.LogFormatJSON,
		},
		{
			name:             "client variables override file",
			environ:          []string{"CLIENT_ID=env-id", "CLIENT_SECRET=env-secret", "CLIENT_UNRELATED=x"},
			wantClientID:     "env-id",
			wantClientSecret: "env-secret",
			wantFormat:       app.LogFormatJSON,
		},
		{
			name:             "prefixed variables override client variables",
			environ:          []string{"CLIENT_ID=env-id", "GSC_AUTH__CLIENT_ID=gsc-id", "GSC_LOG_FORMAT=text"},
			wantClientID:     "gsc-id",
			wantClientSecret: "file-secret",
			wantFormat:       app.LogFormatText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := loadConfig(path, nil, environ(tt.environ...))
			if err != nil {
				t.Fatalf("loadConfig() error = %v", err)
			}
			if cfg.Auth.ClientID != tt.wantClientID {
				t.Errorf("ClientID = %q, want %q", cfg.Auth.ClientID, tt.wantClientID)
			}
			if cfg.Auth.ClientSecret != tt.wantClientSecret {
				t.Errorf("ClientSecret = %q, want %q", cfg.Auth.ClientSecret, tt.wantClientSecret)
			}
			if cfg.LogFormat != tt.wantFormat {
				t.Errorf("LogFormat = %q, want %q", cfg.LogFormat, tt.wantFormat)
			}
			if cfg.LogLevel != slog.LevelDebug {
				t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
			}
			if cfg.Auth.File != filepath.Join(dir, "token.json") {
				t.Errorf("Auth.File = %q", cfg.Auth.File)
			}
		})
	}
}

func TestLoadConfigFlagsTakePrecedence(t *testing.T) {
	dir := t.TempDir()
	tokenPath := filepath.Join(dir, "flag-token.json")

	var cfg *app.Config
	cmd := &cli.Command{
		Name: "gsc",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-format", Value: "text"},
			&cli.StringFlag{Name: "auth--storage", Value: "file"},
			&cli.StringFlag{Name: "auth--file"},
			&cli.StringFlag{Name: "preferences-file"},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			var err error
			cfg, err = loadConfig("", cmd, environ(
				"GSC_LOG_FORMAT=otlp",
				"GSC_AUTH__FILE=/from/env.json",
			))
			return err
		},
	}

	err := cmd.Run(context.Background(), []string{"gsc",
		"--log-format", "json",
		"--auth--file", tokenPath,
		"--preferences-file", filepath.Join(dir, "prefs.json"),
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if cfg.LogFormat != app.LogFormatJSON {
		t.Errorf("LogFormat = %q, want json", cfg.LogFormat)
	}
	if cfg.Auth.File != tokenPath {
		t.Errorf("Auth.File = %q, want %q", cfg.Auth.File, tokenPath)
	}
	// Unset flags keep earlier sources and defaults
	if cfg.Auth.Storage != app.TokenStorageTypeFile {
		t.Errorf("Auth.Storage = %q, want file", cfg.Auth.Storage)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		environ []string
	}{
		{name: "missing file", path: filepath.Join(t.TempDir(), "missing.toml")},
		{name: "malformed file", path: writeTOML(t, "log_level = [")},
		{name: "unknown storage", environ: []string{"GSC_AUTH__STORAGE=s3"}},
		{name: "unknown log format", environ: []string{"GSC_LOG_FORMAT=xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := append([]string{"GSC_PREFERENCES_FILE=" + filepath.Join(t.TempDir(), "p.json"),
				"GSC_AUTH__FILE=" + filepath.Join(t.TempDir(), "t.json")}, tt.environ...)
			if _, err := loadConfig(tt.path, nil, environ(env...)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestExtractAndTransformFlags(t *testing.T) {
	var got map[string]any
	cmd := &cli.Command{
		Name: "gsc",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "warn"},
			&cli.StringFlag{Name: "auth--keyring-user"},
			&cli.StringFlag{Name: "auth--storage", Value: "file"},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			got = extractAndTransformFlags(cmd)
			return nil
		},
	}

	if err := cmd.Run(context.Background(), []string{"gsc", "--log-level", "debug", "--auth--keyring-user", "alice"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got["log_level"] != "debug" {
		t.Errorf("log_level = %v, want debug", got["log_level"])
	}
	if got["auth.keyring_user"] != "alice" {
		t.Errorf("auth.keyring_user = %v, want alice", got["auth.keyring_user"])
	}
	if _, ok := got["auth.storage"]; ok {
		t.Error("unset flag auth.storage must not be extracted")
	}
}
