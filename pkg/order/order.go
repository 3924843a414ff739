package order

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the preparation state of an order.
type Status string

// Order statuses.
const (
	StatusOrdered   Status = "ordered"
	StatusPreparing Status = "preparing"
	StatusPrepared  Status = "prepared"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is one of the defined statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusOrdered, StatusPreparing, StatusPrepared, StatusCompleted:
		return true
	}
	return false
}

// Item is one line of an order.
type Item struct {
	Item     string          `json:"item"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// Order represents a customer purchase order.
type Order struct {
	ID             string          `json:"id"`
	OrderItems     []Item          `json:"orderItems"`
	OrderedBy      string          `json:"orderedBy"`
	OrderPrice     decimal.Decimal `json:"orderPrice"`
	PaymentOrderID string          `json:"paymentOrderId"`
	OrderStatus    Status          `json:"orderStatus"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// Repository defines behavior for persisting orders.
//
// Create assigns the ID. Get returns ErrNotFound for unknown or malformed
// ids. Delete reports how many orders were removed, which may be zero.
type Repository interface {
	Create(ctx context.Context, o Order) (Order, error)
	Get(ctx context.Context, id string) (Order, error)
	List(ctx context.Context) ([]Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	Update(ctx context.Context, o Order) error
	Delete(ctx context.Context, id string) (int64, error)
}

var (
	// ErrNotFound indicates the requested order does not exist.
	ErrNotFound = errors.New("order not found")
	// ErrInvalidID indicates an id that is not syntactically valid.
	ErrInvalidID = errors.New("invalid id")
	// ErrInvalidStatus indicates a status outside the defined set.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrInvalidRequest indicates a malformed order placement request.
	ErrInvalidRequest = errors.New("invalid order request")
)

// NewID returns a fresh order id.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id is a syntactically valid reference.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
