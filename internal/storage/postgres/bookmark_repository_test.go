package postgres_test

import (
	"context"
	"testing"

	"github.com/cimillas/tech-event-tracker/internal/storage/postgres"
	"github.com/cimillas/tech-event-tracker/internal/testutil"
)

func TestBookmarkRepository_RoundTrip(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateBookmarks(t, ctx, pool)

	repo := postgres.NewBookmarkRepository(pool)

	want := []string{"alpha", "beta", "gamma"}
	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.Load(ctx)
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

func TestBookmarkRepository_SaveReplacesSet(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateBookmarks(t, ctx, pool)

	repo := postgres.NewBookmarkRepository(pool)

	if err := repo.Save(ctx, []string{"a", "b", "c"}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := repo.Save(ctx, []string{"b"}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0] != "b" {
		t.Fatalf("expected [b], got %v", got)
	}
}

func TestBookmarkRepository_EmptySetLoadsEmpty(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateBookmarks(t, ctx, pool)

	repo := postgres.NewBookmarkRepository(pool)

	if err := repo.Save(ctx, nil); err != nil {
		t.Fatalf("save empty: %v", err)
	}
	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty set, got %v", got)
	}
}
