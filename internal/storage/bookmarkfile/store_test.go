package bookmarkfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestStore_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "bookmarks.txt")
	store := New(path)

	want := []string{"alpha", "beta", "gamma"}
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := New(path).Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestStore_MissingFileLoadsEmpty(t *testing.T) {
	t.Parallel()

	store := New(filepath.Join(t.TempDir(), "never-written.txt"))
	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty set, got %v", got)
	}
}

func TestStore_SaveReplacesWholeFile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "bookmarks.txt")
	store := New(path)

	if err := store.Save(ctx, []string{"a", "b", "c"}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := store.Save(ctx, []string{"b"}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0] != "b" {
		t.Fatalf("expected [b], got %v", got)
	}

	// No temp file lingers after a successful save.
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected temp file to be gone, stat err=%v", err)
	}
}

func TestStore_IgnoresBlankLines(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bookmarks.txt")
	if err := os.WriteFile(path, []byte("a\n\n  \nb\n"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	got, err := New(path).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("expected [a b], got %v", got)
	}
}

func TestStore_CreatesParentDir(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dir", "bookmarks.txt")
	if err := New(path).Save(context.Background(), []string{"x"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := New(path).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0] != "x" {
		t.Fatalf("expected [x], got %v", got)
	}
}
