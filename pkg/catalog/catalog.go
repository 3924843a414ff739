// Package catalog resolves menu items referenced by orders.
package catalog

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// Item is a menu entry. Only the price matters to order placement.
type Item struct {
	ID    string          `json:"id"`
	Name  string          `json:"itemName"`
	Price decimal.Decimal `json:"itemPrice"`
}

// Lookup resolves a menu item by id.
type Lookup interface {
	Get(ctx context.Context, id string) (Item, error)
}

// ErrNotFound indicates the menu item does not exist.
var ErrNotFound = errors.New("menu item not found")
