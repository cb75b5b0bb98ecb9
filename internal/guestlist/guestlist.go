// Package guestlist persists the wishlist of a visitor who has not logged in.
// The list lives in a small TOML file; a missing file means there is no guest wishlist.
package guestlist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

const defaultPath = "~/.local/share/onlypets/guest_wishlist.toml"

// ErrUnreadable marks a guest wishlist file that exists but cannot be read or
// decoded. Such a file is never overwritten or deleted.
var ErrUnreadable = errors.New("guest wishlist unreadable")

type file struct {
	Pets []int64 `toml:"pets"`
}

// Store reads and writes the guest wishlist file. Its methods are safe for
// concurrent use by dispatcher workers.
type Store struct {
	path string
	mu   sync.Mutex
}

// New returns a Store for path, or the default path when empty.
func New(path string) (*Store, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: resolved}, nil
}

// Path returns the resolved file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns the stored pet ids in insertion order. exists is false when no
// file is present. An unreadable or malformed file loads as an empty list.
func (s *Store) Load() (ids []int64, exists bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids, exists, err = s.load()
	if errors.Is(err, ErrUnreadable) {
		return nil, true, nil
	}
	return ids, exists, err
}

// Add appends petID unless it is already present and returns the new list.
// It fails with ErrUnreadable rather than replace a file it cannot decode.
func (s *Store) Add(petID int64) ([]int64, error) {
	if petID <= 0 {
		return nil, fmt.Errorf("invalid pet id %d", petID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, _, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if id == petID {
			return ids, nil
		}
	}
	ids = append(ids, petID)
	if err := s.save(ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// Drain hands the current list to fn and deletes the file only if fn succeeds.
// The file stays locked for the duration so concurrent Adds wait for the merge.
// An undecodable file is left in place and reported as ErrUnreadable.
func (s *Store) Drain(fn func(ids []int64) error) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, exists, err := s.load()
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, nil
	}
	ids = dedupe(ids)
	if len(ids) > 0 {
		if err := fn(ids); err != nil {
			return 0, err
		}
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return len(ids), fmt.Errorf("delete guest wishlist: %w", err)
	}
	return len(ids), nil
}

func (s *Store) load() ([]int64, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, true, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	var f file
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, true, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return f.Pets, true, nil
}

func (s *Store) save(ids []int64) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create guest wishlist dir: %w", err)
	}
	data, err := toml.Marshal(file{Pets: ids})
	if err != nil {
		return fmt.Errorf("marshal guest wishlist: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write guest wishlist: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write guest wishlist: %w", err)
	}
	return nil
}

// dedupe drops repeated and non-positive ids, keeping first occurrences in order.
func dedupe(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPath)
	}
	return expandPath(path)
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
