package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/florianilch/gsc-cli/internal/credential"
)

// KeyringStore provides OS-native secure credential storage.
// Uses macOS Keychain, Windows Credential Manager, or Linux Secret Service.
// The credential is stored as a JSON document.
type KeyringStore struct {
	service string
	user    string
}

// Compile-time check to ensure KeyringStore implements Store
var _ Store = (*KeyringStore)(nil)

// NewKeyringStore creates a KeyringStore using the given service and user identifiers.
func NewKeyringStore(service, user string) (*KeyringStore, error) {
	if service == "" {
		return nil, fmt.Errorf("service cannot be empty")
	}
	if user == "" {
		return nil, fmt.Errorf("user cannot be empty")
	}

	return &KeyringStore{
		service: service,
		user:    user,
	}, nil
}

// Load returns the credential from the system keyring, or nil if none is stored.
func (k *KeyringStore) Load(ctx context.Context) (*credential.Credential, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	secret, err := keyring.Get(k.service, k.user)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, credential.NewError(credential.KindCorruptCredential,
			fmt.Sprintf("reading keyring for service %s, user %s", k.service, k.user), err)
	}

	var cred credential.Credential
	if err := json.Unmarshal([]byte(secret), &cred); err != nil {
		return nil, credential.NewError(credential.KindCorruptCredential, "parsing keyring credential", err)
	}
	if cred.Empty() {
		return nil, credential.NewError(credential.KindCorruptCredential,
			fmt.Sprintf("empty credential in keyring for service %s, user %s", k.service, k.user), nil)
	}

	return &cred, nil
}

// Save writes the credential to the system keyring, overwriting any existing value.
func (k *KeyringStore) Save(ctx context.Context, cred credential.Credential) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(cred)
	if err != nil {
		return credential.NewError(credential.KindPersistence, "encoding credential", err)
	}

	if err := keyring.Set(k.service, k.user, string(data)); err != nil {
		return credential.NewError(credential.KindPersistence, "writing keyring", err)
	}
	return nil
}

// Clear deletes the credential from the system keyring.
func (k *KeyringStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := keyring.Delete(k.service, k.user); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return credential.NewError(credential.KindPersistence, "deleting keyring entry", err)
	}
	return nil
}
