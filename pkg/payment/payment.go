// Package payment defines the payment gateway the order workflow talks to.
package payment

import (
	"context"

	"github.com/shopspring/decimal"
)

// Request asks the gateway to open a payment order.
type Request struct {
	// Amount in the currency's minor unit (paise for INR).
	Amount      int64
	Currency    string
	Receipt     string
	AutoCapture bool
}

// Order is the gateway's view of a created payment order.
type Order struct {
	ID       string
	Amount   int64
	Currency string
	Receipt  string
	Status   string
}

// Gateway creates payment orders with an external provider.
type Gateway interface {
	CreateOrder(ctx context.Context, req Request) (Order, error)
}

// MinorUnits converts a major-unit amount to minor units, rounding half away from zero.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
