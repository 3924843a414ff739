// Package mock provides an in-process payment gateway for local runs and tests.
package mock

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"foodorder/pkg/payment"
)

// Gateway records every request and hands out synthetic order ids.
type Gateway struct {
	mu       sync.Mutex
	requests []payment.Request
	// Err, when set, is returned by CreateOrder instead of an order.
	Err error
}

// New returns a Gateway that always succeeds.
func New() *Gateway {
	return &Gateway{}
}

// CreateOrder records req and returns a synthetic payment order.
func (g *Gateway) CreateOrder(ctx context.Context, req payment.Request) (payment.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	if g.Err != nil {
		return payment.Order{}, g.Err
	}
	return payment.Order{
		ID:       "order_" + uuid.NewString()[:14],
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Status:   "created",
	}, nil
}

// Requests returns a copy of the recorded requests.
func (g *Gateway) Requests() []payment.Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]payment.Request(nil), g.requests...)
}
