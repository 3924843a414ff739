// Package memory implements an in-memory order repository.
package memory

import (
	"context"
	"slices"
	"sync"

	"foodorder/pkg/order"
)

// Repository provides an in-memory implementation of order.Repository.
// Listings come back in insertion order.
type Repository struct {
	mu     sync.RWMutex
	orders map[string]order.Order
	seq    []string
}

// New creates a new in-memory repository.
func New() *Repository {
	return &Repository{orders: make(map[string]order.Order)}
}

// Create stores the order under a fresh ID.
func (r *Repository) Create(ctx context.Context, o order.Order) (order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o.ID = order.NewID()
	o.OrderItems = slices.Clone(o.OrderItems)
	r.orders[o.ID] = o
	r.seq = append(r.seq, o.ID)
	return o, nil
}

// Get retrieves an order by ID.
func (r *Repository) Get(ctx context.Context, id string) (order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return order.Order{}, order.ErrNotFound
	}
	o.OrderItems = slices.Clone(o.OrderItems)
	return o, nil
}

// List returns all orders.
func (r *Repository) List(ctx context.Context) ([]order.Order, error) {
	return r.filter(func(order.Order) bool { return true }), nil
}

// ListByUser returns the orders placed by userID.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	return r.filter(func(o order.Order) bool { return o.OrderedBy == userID }), nil
}

// Update replaces an existing order.
func (r *Repository) Update(ctx context.Context, o order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[o.ID]; !ok {
		return order.ErrNotFound
	}
	o.OrderItems = slices.Clone(o.OrderItems)
	r.orders[o.ID] = o
	return nil
}

// Delete removes an order by ID.
func (r *Repository) Delete(ctx context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return 0, nil
	}
	delete(r.orders, id)
	r.seq = slices.DeleteFunc(r.seq, func(s string) bool { return s == id })
	return 1, nil
}

func (r *Repository) filter(keep func(order.Order) bool) []order.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]order.Order, 0, len(r.seq))
	for _, id := range r.seq {
		if o := r.orders[id]; keep(o) {
			o.OrderItems = slices.Clone(o.OrderItems)
			out = append(out, o)
		}
	}
	return out
}
