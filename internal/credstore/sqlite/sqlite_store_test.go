package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"quiz-client/internal/credstore"
)

func newTestSQLiteStore(t *testing.T) (*SQLiteStore, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "profile.db")
	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
		_ = os.Remove(path)
		_ = os.Remove(path + "-journal")
	})
	return store, path
}

func TestSQLiteStoreItemLifecycle(t *testing.T) {
	store, _ := newTestSQLiteStore(t)
	ctx := context.Background()

	if _, ok, err := store.GetItem(ctx, "missing"); err != nil || ok {
		t.Fatalf("GetItem missing = (%t, %v), want (false, nil)", ok, err)
	}

	if err := store.SetItem(ctx, "k", "v1"); err != nil {
		t.Fatalf("SetItem failed: %v", err)
	}
	if err := store.SetItem(ctx, "k", "v2"); err != nil {
		t.Fatalf("SetItem overwrite failed: %v", err)
	}

	value, ok, err := store.GetItem(ctx, "k")
	if err != nil || !ok || value != "v2" {
		t.Fatalf("GetItem = (%q, %t, %v), want (v2, true, nil)", value, ok, err)
	}

	if err := store.RemoveItem(ctx, "k"); err != nil {
		t.Fatalf("RemoveItem failed: %v", err)
	}
	if err := store.RemoveItem(ctx, "k"); err != nil {
		t.Fatalf("RemoveItem on missing key failed: %v", err)
	}
	if _, ok, _ := store.GetItem(ctx, "k"); ok {
		t.Fatalf("expected key to be removed")
	}
}

func TestSQLiteStorePersistsCredentialsAcrossReopen(t *testing.T) {
	store, path := newTestSQLiteStore(t)
	ctx := context.Background()

	creds := credstore.NewKVStore(store)
	if err := creds.Save(ctx, credstore.Credentials{Username: "bob", Password: "secret"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	got, err := credstore.NewKVStore(reopened).Load(ctx)
	if err != nil {
		t.Fatalf("Load after reopen failed: %v", err)
	}
	if got.Username != "bob" || got.Password != "secret" {
		t.Fatalf("unexpected credentials after reopen: %+v", got)
	}

	if err := credstore.NewKVStore(reopened).Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := credstore.NewKVStore(reopened).Load(ctx); !errors.Is(err, credstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after Clear, got %v", err)
	}
}
