package tokenstore

import (
	"context"

	"github.com/florianilch/gsc-cli/internal/credential"
)

// Store reads, writes and deletes the persisted credential.
type Store interface {
	// Load returns the stored credential, or nil if none is stored. An unreadable
	// record fails with a credential.KindCorruptCredential error.
	Load(ctx context.Context) (*credential.Credential, error)

	// Save replaces the stored credential. Fails with a credential.KindPersistence
	// error if the backend is read-only or the write fails.
	Save(ctx context.Context, cred credential.Credential) error

	// Clear removes the stored credential. Removing an absent credential is not an error.
	Clear(ctx context.Context) error
}

// IsReadOnly reports whether s declares itself read-only (see EnvStore).
func IsReadOnly(s Store) bool {
	ro, ok := s.(interface{ ReadOnly() bool })
	return ok && ro.ReadOnly()
}
