package tokenstore

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/florianilch/gsc-cli/internal/credential"
)

// EnvStore provides read-only access to a refresh token held in an environment
// variable. The access token is obtained by refreshing on first use.
type EnvStore struct {
	envKey string
}

// Compile-time check to ensure EnvStore implements Store
var _ Store = (*EnvStore)(nil)

// NewEnvStore creates an EnvStore for the given environment variable.
// Returns error if the variable name is empty or not set in the environment.
func NewEnvStore(envKey string) (*EnvStore, error) {
	if envKey == "" {
		return nil, fmt.Errorf("environment key cannot be empty")
	}

	if _, exists := os.LookupEnv(envKey); !exists {
		return nil, fmt.Errorf("environment variable %s not set", envKey)
	}

	return &EnvStore{
		envKey: envKey,
	}, nil
}

// Load returns a credential holding only the refresh token, or nil if the variable is empty.
func (e *EnvStore) Load(ctx context.Context) (*credential.Credential, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	token := strings.TrimSpace(os.Getenv(e.envKey))
	if token == "" {
		return nil, nil
	}
	return &credential.Credential{RefreshToken: token}, nil
}

// ReadOnly always reports true.
func (e *EnvStore) ReadOnly() bool {
	return true
}

// Save is not supported for environment variables (they are read-only).
func (e *EnvStore) Save(ctx context.Context, _ credential.Credential) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return credential.NewError(credential.KindPersistence,
		fmt.Sprintf("environment variable %s is read-only", e.envKey), nil)
}

// Clear is not supported for environment variables (they are read-only).
func (e *EnvStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return credential.NewError(credential.KindPersistence,
		fmt.Sprintf("environment variable %s is read-only, unset it to forget the token", e.envKey), nil)
}
