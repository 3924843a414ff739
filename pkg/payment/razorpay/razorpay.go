// Package razorpay adapts the Razorpay orders API to payment.Gateway.
package razorpay

import (
	"context"
	"errors"
	"fmt"

	rzp "github.com/razorpay/razorpay-go"

	"foodorder/pkg/payment"
)

// Config holds the API credentials.
type Config struct {
	KeyID     string
	KeySecret string
}

// orderCreator is the subset of the SDK's order resource used here.
type orderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// Gateway creates Razorpay orders.
type Gateway struct {
	orders orderCreator
}

// New builds a Gateway from explicit credentials.
func New(cfg Config) (*Gateway, error) {
	if cfg.KeyID == "" || cfg.KeySecret == "" {
		return nil, errors.New("razorpay: key id and key secret are required")
	}
	client := rzp.NewClient(cfg.KeyID, cfg.KeySecret)
	return &Gateway{orders: client.Order}, nil
}

// CreateOrder opens a Razorpay order for req.Amount minor units.
func (g *Gateway) CreateOrder(ctx context.Context, req payment.Request) (payment.Order, error) {
	if err := ctx.Err(); err != nil {
		return payment.Order{}, err
	}

	capture := 0
	if req.AutoCapture {
		capture = 1
	}
	body, err := g.orders.Create(map[string]interface{}{
		"amount":          req.Amount,
		"currency":        req.Currency,
		"receipt":         req.Receipt,
		"payment_capture": capture,
	}, nil)
	if err != nil {
		return payment.Order{}, fmt.Errorf("razorpay create order: %w", err)
	}

	id, _ := body["id"].(string)
	if id == "" {
		return payment.Order{}, errors.New("razorpay create order: response has no id")
	}
	o := payment.Order{ID: id, Currency: req.Currency, Receipt: req.Receipt, Amount: req.Amount}
	if amount, ok := body["amount"].(float64); ok {
		o.Amount = int64(amount)
	}
	if currency, ok := body["currency"].(string); ok {
		o.Currency = currency
	}
	if status, ok := body["status"].(string); ok {
		o.Status = status
	}
	return o, nil
}
