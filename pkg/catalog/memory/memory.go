// Package memory implements an in-memory menu catalog.
package memory

import (
	"context"
	"sync"

	"foodorder/pkg/catalog"
)

// Catalog is a map-backed catalog.Lookup.
type Catalog struct {
	mu    sync.RWMutex
	items map[string]catalog.Item
}

// New creates a catalog seeded with items.
func New(items ...catalog.Item) *Catalog {
	c := &Catalog{items: make(map[string]catalog.Item, len(items))}
	for _, it := range items {
		c.items[it.ID] = it
	}
	return c
}

// Put adds or replaces an item.
func (c *Catalog) Put(it catalog.Item) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[it.ID] = it
}

// Get retrieves an item by ID.
func (c *Catalog) Get(ctx context.Context, id string) (catalog.Item, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	it, ok := c.items[id]
	if !ok {
		return catalog.Item{}, catalog.ErrNotFound
	}
	return it, nil
}
