package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"foodorder/pkg/catalog"
)

// Schema creates the menu_items table read by Repository.
const Schema = `CREATE TABLE IF NOT EXISTS menu_items (
	id UUID PRIMARY KEY,
	item_name TEXT NOT NULL,
	item_price NUMERIC(12,2) NOT NULL
)`

// Repository reads menu items from PostgreSQL.
type Repository struct {
	db *sql.DB
}

// New creates a PostgreSQL catalog.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates the menu_items table if needed.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create menu_items: %w", err)
	}
	return nil
}

// Get retrieves a menu item by ID.
func (r *Repository) Get(ctx context.Context, id string) (catalog.Item, error) {
	if _, err := uuid.Parse(id); err != nil {
		return catalog.Item{}, catalog.ErrNotFound
	}
	var it catalog.Item
	err := r.db.QueryRowContext(ctx, "SELECT id,item_name,item_price FROM menu_items WHERE id=$1", id).
		Scan(&it.ID, &it.Name, &it.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Item{}, catalog.ErrNotFound
	}
	return it, err
}

// Put inserts or replaces a menu item.
func (r *Repository) Put(ctx context.Context, it catalog.Item) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO menu_items (id,item_name,item_price) VALUES ($1,$2,$3)
		 ON CONFLICT (id) DO UPDATE SET item_name=EXCLUDED.item_name, item_price=EXCLUDED.item_price`,
		it.ID, it.Name, it.Price)
	return err
}
