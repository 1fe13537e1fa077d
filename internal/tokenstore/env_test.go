package tokenstore

import (
	"context"
	"errors"
	"testing"

	"github.com/florianilch/gsc-cli/internal/credential"
)

func TestNewEnvStore(t *testing.T) {
	if _, err := NewEnvStore(""); err == nil {
		t.Error("expected error for empty key")
	}
	if _, err := NewEnvStore("GSC_TEST_UNSET_VARIABLE_X"); err == nil {
		t.Error("expected error for unset variable")
	}
}

func TestEnvStore(t *testing.T) {
	t.Setenv("GSC_TEST_REFRESH_TOKEN", "  1//refresh  ")
	ctx := context.Background()

	store, err := NewEnvStore("GSC_TEST_REFRESH_TOKEN")
	if err != nil {
		t.Fatalf("NewEnvStore() error = %v", err)
	}

	cred, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cred == nil || cred.RefreshToken != "1//refresh" || cred.AccessToken != "" {
		t.Errorf("Load() = %+v, want refresh token only", cred)
	}

	if err := store.Save(ctx, credential.Credential{AccessToken: "A"}); !errors.Is(err, credential.ErrPersistence) {
		t.Errorf("Save() error = %v, want persistence error", err)
	}
	if err := store.Clear(ctx); !errors.Is(err, credential.ErrPersistence) {
		t.Errorf("Clear() error = %v, want persistence error", err)
	}
}

func TestEnvStoreEmptyValue(t *testing.T) {
	t.Setenv("GSC_TEST_REFRESH_TOKEN", "")

	store, err := NewEnvStore("GSC_TEST_REFRESH_TOKEN")
	if err != nil {
		t.Fatalf("NewEnvStore() error = %v", err)
	}
	cred, err := store.Load(context.Background())
	if err != nil || cred != nil {
		t.Errorf("Load() = %+v, %v; want nil, nil", cred, err)
	}
}

func TestIsReadOnly(t *testing.T) {
	t.Setenv("GSC_TEST_REFRESH_TOKEN", "x")
	env, err := NewEnvStore("GSC_TEST_REFRESH_TOKEN")
	if err != nil {
		t.Fatal(err)
	}
	file, err := NewFileStore(t.TempDir() + "/token.json")
	if err != nil {
		t.Fatal(err)
	}

	if !IsReadOnly(env) {
		t.Error("EnvStore should be read-only")
	}
	if IsReadOnly(file) {
		t.Error("FileStore should be writable")
	}
}
