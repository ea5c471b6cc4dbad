package credstore

import (
	"context"
	"errors"
	"testing"
)

func TestKVStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	store := NewKVStore(kv)

	if _, err := store.Load(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty profile, got %v", err)
	}

	if err := store.Save(ctx, Credentials{Username: "alice", Password: "pw"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	raw, ok, _ := kv.GetItem(ctx, StorageKey)
	if !ok || raw != `{"username":"alice","password":"pw"}` {
		t.Fatalf("stored entry = (%q, %t)", raw, ok)
	}

	creds, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if creds.Username != "alice" || creds.Password != "pw" {
		t.Fatalf("unexpected credentials: %+v", creds)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("second Clear failed: %v", err)
	}
	if _, err := store.Load(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after clear, got %v", err)
	}
}

func TestKVStoreMalformedEntries(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{"{not json", `{"username":"alice"}`, `{"username":"  ","password":"x"}`, `[]`} {
		kv := NewMemoryKV()
		_ = kv.SetItem(ctx, StorageKey, raw)

		_, err := NewKVStore(kv).Load(ctx)
		if !errors.Is(err, ErrMalformed) {
			t.Fatalf("Load(%q) error = %v, want ErrMalformed", raw, err)
		}
	}
}
