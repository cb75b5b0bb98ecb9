package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the storefront's runtime settings.
type Config struct {
	DBPath            string
	GuestWishlistPath string
	PrefsPath         string
	LogPath           string
	LogLevel          string
	DispatchPolicy    string
	SeedSampleData    bool
	FeaturedCount     int
}

const (
	defaultConfigPath        = "~/.config/onlypets/config.toml"
	defaultDBPath            = "~/.local/share/onlypets/onlypets.db"
	defaultGuestWishlistPath = "~/.local/share/onlypets/guest_wishlist.toml"
	defaultPrefsPath         = "~/.config/onlypets/prefs.toml"
	defaultLogPath           = "~/.local/state/onlypets/onlypets.log"
	defaultLogLevel          = "info"
	defaultDispatchPolicy    = "drop"
	defaultFeaturedCount     = 4
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		DBPath:            mustExpand(defaultDBPath),
		GuestWishlistPath: mustExpand(defaultGuestWishlistPath),
		PrefsPath:         mustExpand(defaultPrefsPath),
		LogPath:           mustExpand(defaultLogPath),
		LogLevel:          defaultLogLevel,
		DispatchPolicy:    defaultDispatchPolicy,
		SeedSampleData:    true,
		FeaturedCount:     defaultFeaturedCount,
	}
}

// Load locates and parses the config file, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		DBPath            string `toml:"db_path"`
		GuestWishlistPath string `toml:"guest_wishlist_path"`
		PrefsPath         string `toml:"prefs_path"`
		LogPath           string `toml:"log_path"`
		LogLevel          string `toml:"log_level"`
		DispatchPolicy    string `toml:"dispatch_policy"`
		SeedSampleData    *bool  `toml:"seed_sample_data"`
		FeaturedCount     *int   `toml:"featured_count"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.DBPath = pathOr(raw.DBPath, cfg.DBPath)
	cfg.GuestWishlistPath = pathOr(raw.GuestWishlistPath, cfg.GuestWishlistPath)
	cfg.PrefsPath = pathOr(raw.PrefsPath, cfg.PrefsPath)
	cfg.LogPath = pathOr(raw.LogPath, cfg.LogPath)

	if level := strings.ToLower(strings.TrimSpace(raw.LogLevel)); level != "" {
		cfg.LogLevel = level
	}

	switch policy := strings.ToLower(strings.TrimSpace(raw.DispatchPolicy)); policy {
	case "":
	case "drop", "queue":
		cfg.DispatchPolicy = policy
	default:
		return Config{}, fmt.Errorf("parse config: dispatch_policy %q: want drop or queue", raw.DispatchPolicy)
	}

	if raw.SeedSampleData != nil {
		cfg.SeedSampleData = *raw.SeedSampleData
	}
	if raw.FeaturedCount != nil && *raw.FeaturedCount > 0 {
		cfg.FeaturedCount = *raw.FeaturedCount
	}

	return cfg, nil
}

func pathOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return mustExpand(value)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
