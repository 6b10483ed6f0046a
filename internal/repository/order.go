package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/starshard/storefront/internal/domain/order"
)

const (
	createOrderSQL = `INSERT INTO orders (user_id, total, payment_method, status, items, gateway_token)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	setOrderTokenSQL = `UPDATE orders SET gateway_token = $1
		WHERE id = $2 AND gateway_token IS NULL`

	// The PENDING guard lives inside the statement: two concurrent
	// callbacks for the same token cannot both see a match.
	updateStatusIfPendingSQL = `UPDATE orders SET status = $1
		WHERE gateway_token = $2 AND status = 'PENDING'`

	failAbandonedSQL = `UPDATE orders SET status = 'FAILED'
		WHERE id = $1 AND status = 'PENDING' AND gateway_token IS NULL`

	listOrdersByUserSQL = `SELECT id, user_id, total, payment_method, status, items, gateway_token, created_at
		FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id DESC`

	listStalePendingSQL = `SELECT id, user_id, total, payment_method, status, items, gateway_token, created_at
		FROM orders WHERE status = 'PENDING' AND created_at < $1 ORDER BY created_at`
)

var _ order.Store = (*OrderStore)(nil)

// OrderStore implements order.Store backed by PostgreSQL.
type OrderStore struct {
	pool *pgxpool.Pool
}

// NewOrderStore returns an OrderStore that uses the given pool.
func NewOrderStore(pool *pgxpool.Pool) *OrderStore {
	return &OrderStore{pool: pool}
}

// Create persists a new order and returns its assigned ID. Items are stored
// verbatim in the JSONB column.
func (s *OrderStore) Create(ctx context.Context, o *order.Order) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, createOrderSQL,
		o.UserID, o.Total, o.PaymentMethod, o.Status, o.Items, o.GatewayToken,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("creating order for user %d: %w", o.UserID, err)
	}
	return id, nil
}

// SetToken records the gateway token on an order that does not have one yet.
// A second write for the same order matches no rows and is reported as an
// error: tokens are set exactly once.
func (s *OrderStore) SetToken(ctx context.Context, orderID int64, token string) error {
	tag, err := s.pool.Exec(ctx, setOrderTokenSQL, token, orderID)
	if err != nil {
		return fmt.Errorf("setting token on order %d: %w", orderID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("setting token on order %d: %w or token already set", orderID, order.ErrNotFound)
	}
	return nil
}

// UpdateStatusIfPending transitions the order behind token to status in a
// single conditional statement. It reports false when no PENDING row matched,
// which is how duplicate callbacks surface.
func (s *OrderStore) UpdateStatusIfPending(ctx context.Context, token string, status order.Status) (bool, error) {
	tag, err := s.pool.Exec(ctx, updateStatusIfPendingSQL, status, token)
	if err != nil {
		return false, fmt.Errorf("updating order status for token %q: %w", token, err)
	}
	return tag.RowsAffected() > 0, nil
}

// FailAbandoned marks a tokenless PENDING order FAILED.
func (s *OrderStore) FailAbandoned(ctx context.Context, orderID int64) (bool, error) {
	tag, err := s.pool.Exec(ctx, failAbandonedSQL, orderID)
	if err != nil {
		return false, fmt.Errorf("failing abandoned order %d: %w", orderID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListByUser returns a user's orders, newest first.
func (s *OrderStore) ListByUser(ctx context.Context, userID int64) ([]order.Order, error) {
	rows, err := s.pool.Query(ctx, listOrdersByUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("listing orders for user %d: %w", userID, err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// ListStalePending returns PENDING orders created before the cutoff.
func (s *OrderStore) ListStalePending(ctx context.Context, cutoff time.Time) ([]order.Order, error) {
	rows, err := s.pool.Query(ctx, listStalePendingSQL, cutoff)
	if err != nil {
		return nil, fmt.Errorf("listing stale pending orders: %w", err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var o order.Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.Total, &o.PaymentMethod, &o.Status,
		&o.Items, &o.GatewayToken, &o.CreatedAt,
	)
	if err != nil {
		return order.Order{}, errors.Wrap(err, "scanning order")
	}
	return o, nil
}
