package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"foodorder/pkg/order"
)

// Schema creates the orders table. Order lines are kept as a JSONB document.
const Schema = `CREATE TABLE IF NOT EXISTS orders (
	id UUID PRIMARY KEY,
	order_items JSONB NOT NULL,
	ordered_by TEXT NOT NULL,
	order_price NUMERIC(12,2) NOT NULL,
	payment_order_id TEXT NOT NULL,
	order_status TEXT NOT NULL CHECK (order_status IN ('ordered','preparing','prepared','completed')),
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS orders_ordered_by_idx ON orders (ordered_by)`

const columns = "id,order_items,ordered_by,order_price,payment_order_id,order_status,created_at,updated_at"

// Repository persists orders in PostgreSQL.
type Repository struct {
	db *sql.DB
}

// New creates a PostgreSQL repository.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates the orders table if needed.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create orders: %w", err)
	}
	return nil
}

// Create inserts a new order under a fresh ID.
func (r *Repository) Create(ctx context.Context, o order.Order) (order.Order, error) {
	o.ID = order.NewID()
	items, err := json.Marshal(o.OrderItems)
	if err != nil {
		return order.Order{}, fmt.Errorf("encode order items: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO orders ("+columns+") VALUES ($1,$2,$3,$4,$5,$6,$7,$8)",
		o.ID, string(items), o.OrderedBy, o.OrderPrice, o.PaymentOrderID, string(o.OrderStatus), o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return order.Order{}, err
	}
	return o, nil
}

// Get retrieves an order by ID.
func (r *Repository) Get(ctx context.Context, id string) (order.Order, error) {
	if !order.ValidID(id) {
		return order.Order{}, order.ErrNotFound
	}
	o, err := scan(r.db.QueryRowContext(ctx, "SELECT "+columns+" FROM orders WHERE id=$1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return order.Order{}, order.ErrNotFound
	}
	return o, err
}

// List fetches all orders.
func (r *Repository) List(ctx context.Context) ([]order.Order, error) {
	return r.query(ctx, "SELECT "+columns+" FROM orders ORDER BY created_at, id")
}

// ListByUser fetches the orders placed by userID.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	return r.query(ctx, "SELECT "+columns+" FROM orders WHERE ordered_by=$1 ORDER BY created_at, id", userID)
}

// Update updates an existing order.
func (r *Repository) Update(ctx context.Context, o order.Order) error {
	if !order.ValidID(o.ID) {
		return order.ErrNotFound
	}
	items, err := json.Marshal(o.OrderItems)
	if err != nil {
		return fmt.Errorf("encode order items: %w", err)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET order_items=$2, ordered_by=$3, order_price=$4, payment_order_id=$5,
		 order_status=$6, updated_at=$7 WHERE id=$1`,
		o.ID, string(items), o.OrderedBy, o.OrderPrice, o.PaymentOrderID, string(o.OrderStatus), o.UpdatedAt)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return order.ErrNotFound
	}
	return nil
}

// Delete removes an order by ID and reports how many rows went away.
func (r *Repository) Delete(ctx context.Context, id string) (int64, error) {
	if !order.ValidID(id) {
		return 0, nil
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM orders WHERE id=$1", id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *Repository) query(ctx context.Context, q string, args ...any) ([]order.Order, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	orders := []order.Order{}
	for rows.Next() {
		o, err := scan(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (order.Order, error) {
	var (
		o      order.Order
		items  []byte
		status string
	)
	if err := s.Scan(&o.ID, &items, &o.OrderedBy, &o.OrderPrice, &o.PaymentOrderID, &status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return order.Order{}, err
	}
	if err := json.Unmarshal(items, &o.OrderItems); err != nil {
		return order.Order{}, fmt.Errorf("decode order items for %s: %w", o.ID, err)
	}
	o.OrderStatus = order.Status(status)
	return o, nil
}
