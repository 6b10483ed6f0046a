package order

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested order does not exist.
var ErrNotFound = errors.New("order not found")

// Status is the payment lifecycle state of an order. Transitions are
// one-way: PENDING may become PAID or FAILED, terminal states never change.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusPaid    Status = "PAID"
	StatusFailed  Status = "FAILED"
)

// Payment method labels stored on the order row.
const (
	MethodGateway   = "Gateway"
	MethodSimulated = "Gateway (Simulated)"
)

// Order represents a purchase attempt with its payment outcome.
//
// Items is an opaque JSON document: the subsystem persists and returns it
// verbatim and never inspects its contents. GatewayToken correlates the order
// with a remote gateway transaction; it is set at most once and is unique
// across orders.
type Order struct {
	ID            int64
	UserID        int64
	Total         decimal.Decimal
	PaymentMethod string
	Status        Status
	Items         json.RawMessage
	GatewayToken  *string
	CreatedAt     time.Time
}

// Store defines persistence operations for orders.
type Store interface {
	// Create persists a new order and returns its assigned ID.
	Create(ctx context.Context, o *Order) (int64, error)

	// SetToken records the gateway token on an existing order. The token is
	// written exactly once per order.
	SetToken(ctx context.Context, orderID int64, token string) error

	// UpdateStatusIfPending transitions the order identified by token to the
	// given terminal status, but only while its current status is PENDING.
	// The guard and the write happen in a single statement so two concurrent
	// callbacks cannot both apply. It reports whether a row was updated.
	UpdateStatusIfPending(ctx context.Context, token string, status Status) (bool, error)

	// ListByUser returns a user's orders, newest first.
	ListByUser(ctx context.Context, userID int64) ([]Order, error)

	// ListStalePending returns PENDING orders created before the cutoff,
	// for the reconciliation sweep.
	ListStalePending(ctx context.Context, cutoff time.Time) ([]Order, error)

	// FailAbandoned marks a PENDING order that never received a token as
	// FAILED. Like UpdateStatusIfPending, the guard is part of the
	// statement. It reports whether a row was updated.
	FailAbandoned(ctx context.Context, orderID int64) (bool, error)
}
