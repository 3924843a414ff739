package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"foodorder/pkg/catalog"
	"foodorder/pkg/logger"
	"foodorder/pkg/otel"
	"foodorder/pkg/payment"
)

// LineRequest references a menu item and how many of it to order.
type LineRequest struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// PlaceRequest is the input to Service.Place.
type PlaceRequest struct {
	OrderedItems []LineRequest `json:"orderedItems"`
	OrderedBy    string        `json:"orderedBy"`
}

// Placement is the result of a successful Place.
type Placement struct {
	Order          Order
	PaymentOrderID string
}

// DeleteResult mirrors the store's report of a delete.
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// Service implements order placement and management on top of its collaborators.
type Service struct {
	repo     Repository
	catalog  catalog.Lookup
	payments payment.Gateway
	log      *logger.Logger
	currency string
	now      func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithCurrency sets the currency payment orders are opened in.
func WithCurrency(code string) Option {
	return func(s *Service) {
		if code != "" {
			s.currency = code
		}
	}
}

// WithClock replaces time.Now, which stamps receipts and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService wires a Service. Payment orders default to INR.
func NewService(repo Repository, cat catalog.Lookup, payments payment.Gateway, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		catalog:  cat,
		payments: payments,
		log:      log,
		currency: "INR",
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Place prices the requested items, opens a payment order for the total and
// stores the new order. Nothing is stored unless every item resolves and the
// gateway accepts the payment order.
func (s *Service) Place(ctx context.Context, req PlaceRequest) (Placement, error) {
	ctx, span := otel.AddSpan(ctx, "order.Place", attribute.Int("items", len(req.OrderedItems)))
	defer span.End()

	if err := req.validate(); err != nil {
		return Placement{}, err
	}

	items, err := s.resolve(ctx, req.OrderedItems)
	if err != nil {
		return Placement{}, err
	}

	lines := make([]Item, 0, len(req.OrderedItems))
	total := decimal.Zero
	for _, l := range req.OrderedItems {
		price := items[l.ID].Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
		lines = append(lines, Item{Item: l.ID, Quantity: l.Quantity, Price: price})
		total = total.Add(price)
	}
	s.log.Info(ctx, "order priced", "orderedBy", req.OrderedBy, "orderPrice", total.String())

	po, err := s.payments.CreateOrder(ctx, payment.Request{
		Amount:      payment.MinorUnits(total),
		Currency:    s.currency,
		Receipt:     fmt.Sprintf("receipt_%d", s.now().UnixMilli()),
		AutoCapture: true,
	})
	if err != nil {
		return Placement{}, fmt.Errorf("create payment order: %w", err)
	}

	now := s.now().UTC()
	o, err := s.repo.Create(ctx, Order{
		OrderItems:     lines,
		OrderedBy:      req.OrderedBy,
		OrderPrice:     total,
		PaymentOrderID: po.ID,
		OrderStatus:    StatusOrdered,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		// The payment order stays open at the gateway; it expires unpaid.
		s.log.Error(ctx, "save order after payment order was created", "paymentOrderId", po.ID, "error", err)
		return Placement{}, fmt.Errorf("save order: %w", err)
	}

	s.log.Info(ctx, "order placed", "orderId", o.ID, "paymentOrderId", po.ID)
	return Placement{Order: o, PaymentOrderID: po.ID}, nil
}

func (req PlaceRequest) validate() error {
	if len(req.OrderedItems) == 0 {
		return fmt.Errorf("%w: at least one item is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(req.OrderedBy) == "" {
		return fmt.Errorf("%w: orderedBy is required", ErrInvalidRequest)
	}
	for i, l := range req.OrderedItems {
		if l.ID == "" {
			return fmt.Errorf("%w: item %d has no id", ErrInvalidRequest, i)
		}
		if l.Quantity <= 0 {
			return fmt.Errorf("%w: quantity for item %s must be positive, got %d", ErrInvalidRequest, l.ID, l.Quantity)
		}
	}
	return nil
}

// resolve looks up every distinct item id concurrently. It fails on the first miss.
func (s *Service) resolve(ctx context.Context, lines []LineRequest) (map[string]catalog.Item, error) {
	ids := make([]string, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	for _, l := range lines {
		if !seen[l.ID] {
			seen[l.ID] = true
			ids = append(ids, l.ID)
		}
	}

	found := make([]catalog.Item, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			it, err := s.catalog.Get(gctx, id)
			if errors.Is(err, catalog.ErrNotFound) {
				return fmt.Errorf("menu item with ID %s not found: %w", id, err)
			}
			if err != nil {
				return fmt.Errorf("look up menu item %s: %w", id, err)
			}
			found[i] = it
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make(map[string]catalog.Item, len(ids))
	for i, id := range ids {
		items[id] = found[i]
	}
	return items, nil
}

// Get returns the order with the given id.
func (s *Service) Get(ctx context.Context, id string) (Order, error) {
	return s.repo.Get(ctx, id)
}

// List returns every order.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.repo.List(ctx)
}

// ListByUser returns the orders placed by userID. An invalid id is rejected
// without touching the store.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	if !ValidID(userID) {
		return nil, fmt.Errorf("%w: user id %q", ErrInvalidID, userID)
	}
	return s.repo.ListByUser(ctx, userID)
}

// UpdateStatus overwrites the status of an existing order. Any status may
// follow any other.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	o.OrderStatus = status
	o.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, o); err != nil {
		return fmt.Errorf("update order %s: %w", id, err)
	}
	s.log.Info(ctx, "order status updated", "orderId", id, "orderStatus", status)
	return nil
}

// Delete removes the order with the given id, reporting zero when nothing matched.
func (s *Service) Delete(ctx context.Context, id string) (DeleteResult, error) {
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return DeleteResult{}, err
	}
	return DeleteResult{Acknowledged: true, DeletedCount: n}, nil
}
