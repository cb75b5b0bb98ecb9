package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	wantDB, err := expandPath(defaultDBPath)
	if err != nil {
		t.Fatalf("expandPath(defaultDBPath) returned error: %v", err)
	}
	if cfg.DBPath != wantDB {
		t.Fatalf("DBPath = %q, want %q", cfg.DBPath, wantDB)
	}
	if !strings.HasPrefix(cfg.GuestWishlistPath, home) {
		t.Fatalf("GuestWishlistPath = %q, want it under HOME %q", cfg.GuestWishlistPath, home)
	}
	if !strings.HasSuffix(cfg.LogPath, filepath.FromSlash("/onlypets.log")) {
		t.Fatalf("LogPath = %q, want it to end with /onlypets.log", cfg.LogPath)
	}
	if cfg.LogLevel != defaultLogLevel {
		t.Fatalf("LogLevel = %q, want %q", cfg.LogLevel, defaultLogLevel)
	}
	if cfg.DispatchPolicy != "drop" {
		t.Fatalf("DispatchPolicy = %q, want drop", cfg.DispatchPolicy)
	}
	if !cfg.SeedSampleData {
		t.Fatalf("SeedSampleData = false, want true")
	}
	if cfg.FeaturedCount != defaultFeaturedCount {
		t.Fatalf("FeaturedCount = %d, want %d", cfg.FeaturedCount, defaultFeaturedCount)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
db_path = "  ~/pets/store.db  "
log_level = " DEBUG "
dispatch_policy = "queue"
seed_sample_data = false
featured_count = 6
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.DBPath != filepath.Join(home, "pets/store.db") {
		t.Fatalf("DBPath = %q, want %q", cfg.DBPath, filepath.Join(home, "pets/store.db"))
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.DispatchPolicy != "queue" {
		t.Fatalf("DispatchPolicy = %q, want queue", cfg.DispatchPolicy)
	}
	if cfg.SeedSampleData {
		t.Fatalf("SeedSampleData = true, want false")
	}
	if cfg.FeaturedCount != 6 {
		t.Fatalf("FeaturedCount = %d, want 6", cfg.FeaturedCount)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
db_path = "   "
log_level = ""
featured_count = 0
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := Default()
	if cfg != want {
		t.Fatalf("Load = %+v, want %+v", cfg, want)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`db_path = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestLoad_UnknownPolicyFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`dispatch_policy = "lifo"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "dispatch_policy") {
		t.Fatalf("Load error = %v, want it to mention dispatch_policy", err)
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
