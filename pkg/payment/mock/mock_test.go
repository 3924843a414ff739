package mock

import (
	"context"
	"errors"
	"strings"
	"testing"

	"foodorder/pkg/payment"
)

func TestGateway(t *testing.T) {
	g := New()
	o, err := g.CreateOrder(context.Background(), payment.Request{Amount: 10000, Currency: "INR", Receipt: "receipt_1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasPrefix(o.ID, "order_") {
		t.Fatalf("unexpected id %q", o.ID)
	}
	if len(g.Requests()) != 1 {
		t.Fatalf("expected 1 recorded request, got %d", len(g.Requests()))
	}

	g.Err = errors.New("gateway down")
	if _, err := g.CreateOrder(context.Background(), payment.Request{}); err == nil {
		t.Fatal("expected error")
	}
}
