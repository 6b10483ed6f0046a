package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/starshard/storefront/internal/domain/message"
)

const (
	createMessageSQL = `INSERT INTO messages (name, email, subject, body)
		VALUES ($1, $2, $3, $4) RETURNING id`

	listMessagesSQL = `SELECT id, name, email, subject, body, created_at
		FROM messages ORDER BY created_at DESC`
)

var _ message.Store = (*MessageStore)(nil)

// MessageStore implements message.Store backed by PostgreSQL.
type MessageStore struct {
	pool *pgxpool.Pool
}

// NewMessageStore returns a MessageStore that uses the given pool.
func NewMessageStore(pool *pgxpool.Pool) *MessageStore {
	return &MessageStore{pool: pool}
}

// Create persists a contact message and returns its assigned ID.
func (s *MessageStore) Create(ctx context.Context, m *message.Message) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, createMessageSQL, m.Name, m.Email, m.Subject, m.Body).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("creating message: %w", err)
	}
	return id, nil
}

// List returns all contact messages, newest first.
func (s *MessageStore) List(ctx context.Context) ([]message.Message, error) {
	rows, err := s.pool.Query(ctx, listMessagesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (message.Message, error) {
		var m message.Message
		err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Body, &m.CreatedAt)
		return m, err
	})
}
