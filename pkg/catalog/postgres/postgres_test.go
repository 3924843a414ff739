package postgres

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"foodorder/pkg/catalog"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo := New(openTestDB(t))
	if err := repo.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	id := uuid.NewString()
	if err := repo.Put(ctx, catalog.Item{ID: id, Name: "Masala Dosa", Price: decimal.RequireFromString("89.50")}); err != nil {
		t.Fatalf("put: %v", err)
	}
	it, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !it.Price.Equal(decimal.RequireFromString("89.5")) {
		t.Fatalf("unexpected price %s", it.Price)
	}

	if _, err := repo.Get(ctx, uuid.NewString()); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.Get(ctx, "not-a-uuid"); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for malformed id, got %v", err)
	}
}
