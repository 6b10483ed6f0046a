package message

import (
	"context"
	"time"
)

// Message is a contact-form message from a visitor.
type Message struct {
	ID        int64
	Name      string
	Email     string
	Subject   string
	Body      string
	CreatedAt time.Time
}

// Store defines persistence operations for contact messages.
type Store interface {
	Create(ctx context.Context, m *Message) (int64, error)
	// List returns all messages, newest first.
	List(ctx context.Context) ([]Message, error)
}
