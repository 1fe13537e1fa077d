package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/florianilch/gsc-cli/internal/credential"
)

// FileStore stores the credential as a JSON file with owner-only permissions.
// Writes use temp file + rename for crash safety.
type FileStore struct {
	filePath string
}

// Compile-time check to ensure FileStore implements Store
var _ Store = (*FileStore)(nil)

// NewFileStore creates a FileStore for the given path. No I/O is performed;
// parent directories are created on the first Save.
func NewFileStore(filePath string) (*FileStore, error) {
	if filePath == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}

	return &FileStore{
		filePath: filePath,
	}, nil
}

// Path returns the location of the credential file.
func (f *FileStore) Path() string {
	return f.filePath
}

// Load reads the credential file. Returns nil if the file doesn't exist.
func (f *FileStore) Load(ctx context.Context) (*credential.Credential, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, credential.NewError(credential.KindCorruptCredential, "reading "+f.filePath, err)
	}

	if info, err := os.Stat(f.filePath); err == nil && info.Mode().Perm() != 0600 {
		slog.WarnContext(ctx, "insecure permissions on credential file",
			"path", f.filePath,
			"mode", fmt.Sprintf("%04o", info.Mode().Perm()),
		)
	}

	var cred credential.Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, credential.NewError(credential.KindCorruptCredential, "parsing "+f.filePath, err)
	}
	if cred.Empty() {
		return nil, credential.NewError(credential.KindCorruptCredential, "no tokens in "+f.filePath, nil)
	}

	return &cred, nil
}

// Save atomically writes the credential, creating parent directories with 0700
// permissions. The file ends up with 0600 permissions (owner read/write only).
func (f *FileStore) Save(ctx context.Context, cred credential.Credential) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := f.write(ctx, cred); err != nil {
		return credential.NewError(credential.KindPersistence, "saving credential to "+f.filePath, err)
	}
	return nil
}

func (f *FileStore) write(ctx context.Context, cred credential.Credential) error {
	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.filePath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	// Temp file in the same directory so the rename stays on one filesystem
	tempFile, err := os.CreateTemp(dir, "*.tmp")
	if err != nil {
		return err
	}
	tempName := tempFile.Name()
	defer func() { _ = os.Remove(tempName) }()
	defer func() { _ = tempFile.Close() }()

	if _, err := tempFile.Write(append(data, '\n')); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := tempFile.Close(); err != nil {
		return err
	}

	if err := os.Rename(tempName, f.filePath); err != nil {
		return err
	}

	// 0600 = rw-------
	return os.Chmod(f.filePath, 0600)
}

// Clear deletes the credential file. A missing file is not an error.
func (f *FileStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(f.filePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return credential.NewError(credential.KindPersistence, "removing "+f.filePath, err)
	}
	return nil
}
