package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"path/filepath"

	"github.com/go-playground/validator/v10"

	"github.com/florianilch/gsc-cli/internal/preferences"
	"github.com/florianilch/gsc-cli/internal/tokenstore"
)

// LogFormat represents the logging output format.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
	LogFormatOTLP LogFormat = "otlp"
)

// TokenStorageType represents the different storage types supported for the credential.
type TokenStorageType string

const (
	TokenStorageTypeFile    TokenStorageType = "file"
	TokenStorageTypeEnv     TokenStorageType = "env"
	TokenStorageTypeKeyring TokenStorageType = "keyring"
)

// Default configuration values
const (
	DefaultConfigLogFormat   = LogFormatText
	DefaultConfigAuthStorage = TokenStorageTypeFile
	DefaultConfigAuthEnvKey  = "GSC_REFRESH_TOKEN"
	DefaultConfigDirName     = ".gsc-cli"
	DefaultConfigTokenFile   = "token.json"

	// KeyringService names the keyring entry holding the credential.
	KeyringService = "gsc-cli"
)

// AuthConfig holds the OAuth client registration and describes where the
// credential is stored.
type AuthConfig struct {
	// Client registration; absence is reported when a client is first needed
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`

	Storage TokenStorageType `json:"storage" validate:"required,oneof=file env keyring"`

	// Storage-specific settings (only the one matching Storage is used)
	File        string `json:"file,omitempty"`         // For file storage: path to the credential file
	EnvKey      string `json:"env_key,omitempty"`      // For env storage: variable holding a refresh token
	KeyringUser string `json:"keyring_user,omitempty"` // For keyring storage: user identifier
}

// NewTokenStore creates the credential store described by the configuration.
func (a *AuthConfig) NewTokenStore() (tokenstore.Store, error) {
	switch a.Storage {
	case TokenStorageTypeFile:
		return tokenstore.NewFileStore(a.File)
	case TokenStorageTypeEnv:
		return tokenstore.NewEnvStore(a.EnvKey)
	case TokenStorageTypeKeyring:
		return tokenstore.NewKeyringStore(KeyringService, a.KeyringUser)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", a.Storage)
	}
}

// Location describes where the credential lives, for display.
func (a *AuthConfig) Location() string {
	switch a.Storage {
	case TokenStorageTypeFile:
		return a.File
	case TokenStorageTypeEnv:
		return "$" + a.EnvKey
	case TokenStorageTypeKeyring:
		return KeyringService + "/" + a.KeyringUser
	default:
		return ""
	}
}

// Config holds the application's configuration.
type Config struct {
	// LogLevel for logging output (defaults to Info if unset).
	LogLevel  slog.Level `json:"log_level"`
	LogFormat LogFormat  `json:"log_format" validate:"oneof=text json otlp"`
	Auth      AuthConfig `json:"auth"`

	// PreferencesFile holds query and output defaults.
	PreferencesFile string `json:"preferences_file"`
}

// Default creates a new Config with default values applied.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := cfg.ApplyDefaults(); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}
	return cfg, nil
}

// ApplyDefaults fills unset config fields with sensible defaults.
func (c *Config) ApplyDefaults() error {
	if c.LogFormat == "" {
		c.LogFormat = DefaultConfigLogFormat
	}
	if c.Auth.Storage == "" {
		c.Auth.Storage = DefaultConfigAuthStorage
	}
	if c.PreferencesFile == "" {
		path, err := preferences.DefaultPath()
		if err != nil {
			return fmt.Errorf("preferences_file required (auto-detect failed: %w)", err)
		}
		c.PreferencesFile = path
	}

	// Dynamic defaults based on storage type
	switch c.Auth.Storage {
	case TokenStorageTypeFile:
		if c.Auth.File == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("auth.file required (auto-detect failed: %w)", err)
			}
			c.Auth.File = filepath.Join(home, DefaultConfigDirName, DefaultConfigTokenFile)
		}
	case TokenStorageTypeKeyring:
		if c.Auth.KeyringUser == "" {
			currentUser, err := user.Current()
			if err != nil {
				return fmt.Errorf("auth.keyring_user required (auto-detect failed: %w)", err)
			}
			c.Auth.KeyringUser = currentUser.Username
		}
	case TokenStorageTypeEnv:
		if c.Auth.EnvKey == "" {
			c.Auth.EnvKey = DefaultConfigAuthEnvKey
		}
	}

	return nil
}

// Validate validates the configuration using struct tags and enum values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	switch c.Auth.Storage {
	case TokenStorageTypeFile:
		if c.Auth.File == "" {
			return errors.New("file path required for file storage")
		}
	case TokenStorageTypeEnv:
		if c.Auth.EnvKey == "" {
			return errors.New("env_key required for env storage")
		}
	case TokenStorageTypeKeyring:
		if c.Auth.KeyringUser == "" {
			return errors.New("keyring_user required for keyring storage")
		}
	}

	if c.PreferencesFile == "" {
		return errors.New("preferences_file required")
	}

	return nil
}
