package logger

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizeKVsRedactsCredentialKeys(t *testing.T) {
	got := sanitizeKVs([]interface{}{"username", "alice", "password", "hunter2", "Authorization", "Basic abc", "dangling"})
	want := []interface{}{"username", "alice", "password", "[REDACTED]", "Authorization", "[REDACTED]", "dangling"}

	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d (%v)", len(got), len(want), got)
	}
	for idx := range want {
		if got[idx] != want[idx] {
			t.Fatalf("kv[%d] = %v, want %v", idx, got[idx], want[idx])
		}
	}
}

func TestLoggerWritesRedactedFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := &Logger{SugaredLogger: zap.New(core).Sugar()}

	log.With("email", "a@b.c").Info("login", "username", "alice", "password", "pw")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["password"] != "[REDACTED]" || fields["email"] != "[REDACTED]" {
		t.Fatalf("expected redacted fields, got %v", fields)
	}
	if fields["username"] != "alice" {
		t.Fatalf("username = %v, want alice", fields["username"])
	}
}

func TestNewQuietWithoutFileIsNop(t *testing.T) {
	log, err := New(Options{Quiet: true})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	log.Info("dropped")
}

func TestNewWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.log")
	log, err := New(Options{Mode: "prod", File: path, Quiet: true})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	log.Info("written", "k", "v")
	log.Sync()
}
