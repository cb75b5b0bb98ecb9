package guestlist

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "sub", "guest.toml"))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return s
}

func writeGuestFile(t *testing.T, s *Store, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(s.Path()), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(s.Path(), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	s := newTestStore(t)
	ids, exists, err := s.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists || ids != nil {
		t.Fatalf("Load = (%v, %v), want (nil, false)", ids, exists)
	}
}

func TestAdd_PreservesOrderAndSkipsDuplicates(t *testing.T) {
	s := newTestStore(t)
	for _, id := range []int64{3, 1, 3, 2} {
		if _, err := s.Add(id); err != nil {
			t.Fatalf("Add(%d) returned error: %v", id, err)
		}
	}
	ids, exists, err := s.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatalf("exists = false after Add")
	}
	if want := []int64{3, 1, 2}; !reflect.DeepEqual(ids, want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
}

func TestAdd_RejectsInvalidID(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Add(0); err == nil {
		t.Fatalf("Add(0) returned nil error")
	}
}

func TestEmptyFileIsValid(t *testing.T) {
	s := newTestStore(t)
	writeGuestFile(t, s, "pets = []\n")
	ids, exists, err := s.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || len(ids) != 0 {
		t.Fatalf("Load = (%v, %v), want (empty, true)", ids, exists)
	}
}

func TestLoad_InvalidTOMLFallsBackToEmpty(t *testing.T) {
	s := newTestStore(t)
	writeGuestFile(t, s, "pets = [\n")
	ids, exists, err := s.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || len(ids) != 0 {
		t.Fatalf("Load = (%v, %v), want (empty, true)", ids, exists)
	}
}

func TestMalformedFileIsNeverReplaced(t *testing.T) {
	s := newTestStore(t)
	const content = "pets = [3, 7,"
	writeGuestFile(t, s, content)

	called := false
	n, err := s.Drain(func([]int64) error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrUnreadable) {
		t.Fatalf("Drain error = %v, want ErrUnreadable", err)
	}
	if n != 0 || called {
		t.Fatalf("Drain = %d, called=%v; want 0, false", n, called)
	}

	if _, err := s.Add(9); !errors.Is(err, ErrUnreadable) {
		t.Fatalf("Add error = %v, want ErrUnreadable", err)
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("guest file removed: %v", err)
	}
	if string(data) != content {
		t.Fatalf("guest file = %q, want %q", data, content)
	}
}

func TestDrain_DeletesOnlyOnSuccess(t *testing.T) {
	s := newTestStore(t)
	writeGuestFile(t, s, "pets = [1, 2, 1]\n")

	boom := errors.New("boom")
	if _, err := s.Drain(func([]int64) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("Drain error = %v, want boom", err)
	}
	if _, exists, _ := s.Load(); !exists {
		t.Fatalf("file removed after failed drain")
	}

	var got []int64
	n, err := s.Drain(func(ids []int64) error {
		got = ids
		return nil
	})
	if err != nil {
		t.Fatalf("Drain returned error: %v", err)
	}
	if n != 2 || !reflect.DeepEqual(got, []int64{1, 2}) {
		t.Fatalf("Drain = (%d, %v), want (2, [1 2])", n, got)
	}
	if _, err := os.Stat(s.Path()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("guest file still present: %v", err)
	}
}

func TestDrain_MissingFileIsNoop(t *testing.T) {
	s := newTestStore(t)
	called := false
	n, err := s.Drain(func([]int64) error {
		called = true
		return nil
	})
	if err != nil || n != 0 || called {
		t.Fatalf("Drain = (%d, %v), called=%v; want no-op", n, err, called)
	}
}

func TestNew_DefaultPathUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	s, err := New("")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	want := filepath.Join(home, ".local/share/onlypets/guest_wishlist.toml")
	if s.Path() != want {
		t.Fatalf("Path = %q, want %q", s.Path(), want)
	}
}

func TestDedupe(t *testing.T) {
	got := dedupe([]int64{1, 2, 1, 0, -4, 3, 2})
	if want := []int64{1, 2, 3}; !reflect.DeepEqual(got, want) {
		t.Fatalf("dedupe = %v, want %v", got, want)
	}
}
