package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "nested", "buget.db"), nil)
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteRepository_TokenLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	if _, ok, err := repo.Get(ctx); err != nil || ok {
		t.Fatalf("Get() on empty store = ok %v, err %v", ok, err)
	}

	if err := repo.Set(ctx, "first"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := repo.Set(ctx, "second"); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}
	token, ok, err := repo.Get(ctx)
	if err != nil || !ok || token != "second" {
		t.Fatalf("Get() = %q, %v, %v; want second", token, ok, err)
	}

	for i := 0; i < 2; i++ {
		if err := repo.Clear(ctx); err != nil {
			t.Fatalf("Clear() #%d error = %v", i+1, err)
		}
	}
	if _, ok, _ := repo.Get(ctx); ok {
		t.Fatal("token should be gone after Clear()")
	}
}

func TestSQLiteRepository_Persists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "buget.db")

	repo, err := NewSQLiteRepository(path, nil)
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	if err := repo.SetValue(ctx, "k", "v"); err != nil {
		t.Fatalf("SetValue() error = %v", err)
	}
	repo.Close()

	reopened, err := NewSQLiteRepository(path, nil)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	v, ok, err := reopened.Value(ctx, "k")
	if err != nil || !ok || v != "v" {
		t.Fatalf("Value() = %q, %v, %v", v, ok, err)
	}
}

func TestRunMigrations_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buget.db")
	for i := 0; i < 2; i++ {
		version, err := RunMigrations(path)
		if err != nil {
			t.Fatalf("RunMigrations() #%d error = %v", i+1, err)
		}
		if version != 1 {
			t.Fatalf("schema version = %d, want 1", version)
		}
	}
}
