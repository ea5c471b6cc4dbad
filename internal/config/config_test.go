package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load(nil, io.Discard)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.API.BaseURL != defaultBaseURL {
		t.Fatalf("base url = %q, want %q", cfg.API.BaseURL, defaultBaseURL)
	}
	if cfg.API.Timeout != defaultTimeout {
		t.Fatalf("timeout = %v, want %v", cfg.API.Timeout, defaultTimeout)
	}
	if cfg.Profile.Path != defaultProfilePath {
		t.Fatalf("profile = %q, want %q", cfg.Profile.Path, defaultProfilePath)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)
	content := "api:\n  base_url: http://file.example:9000/\n  timeout: 12s\nprofile:\n  path: from-file.db\n"
	if err := os.WriteFile(filepath.Join(dir, "quiz-client.yaml"), []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("QUIZ_PROFILE_PATH", "from-env.db")

	cfg, err := Load(nil, io.Discard)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.API.BaseURL != "http://file.example:9000" {
		t.Fatalf("base url = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 12*time.Second {
		t.Fatalf("timeout = %v", cfg.API.Timeout)
	}
	if cfg.Profile.Path != "from-env.db" {
		t.Fatalf("profile = %q, want from-env.db", cfg.Profile.Path)
	}
}

func TestLoadFlagsWin(t *testing.T) {
	chdirTemp(t)
	t.Setenv("QUIZ_API_BASE_URL", "http://env.example")

	cfg, err := Load([]string{"-server", "http://flag.example", "-timeout", "45s", "-profile", "memory"}, io.Discard)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.API.BaseURL != "http://flag.example" {
		t.Fatalf("base url = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 45*time.Second {
		t.Fatalf("timeout = %v", cfg.API.Timeout)
	}
	if cfg.Profile.Path != "memory" {
		t.Fatalf("profile = %q", cfg.Profile.Path)
	}
}

func TestLoadMissingExplicitConfigFails(t *testing.T) {
	chdirTemp(t)
	if _, err := Load([]string{"-config", "nope.yaml"}, io.Discard); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}
