package payment

import (
	"context"

	"github.com/go-faster/errors"
)

// Sentinel errors for gateway interactions.
var (
	// ErrGatewayUnavailable indicates a network or provider-side failure.
	// Callers must not persist a token when open returns this.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrUnknownToken indicates the gateway does not recognise the token.
	ErrUnknownToken = errors.New("unknown gateway token")
)

// Transaction is the result of opening a remote gateway transaction.
type Transaction struct {
	// Token correlates the local order with the remote transaction.
	Token string
	// RedirectURL is where the customer completes the payment.
	RedirectURL string
}

// Confirmation is the settled outcome of a gateway transaction. Repeated
// confirms of an already-settled token return the same confirmation.
type Confirmation struct {
	Authorized bool
	// RawStatus is the provider's status string, kept for logging only.
	RawStatus string
}

// Client is a stateless adapter to the external payment provider.
type Client interface {
	// Open creates a remote transaction for the given amount in the
	// gateway's smallest currency unit.
	Open(ctx context.Context, buyOrderRef, sessionRef string, amountMinorUnits int64, returnURL string) (*Transaction, error)

	// Confirm settles the transaction identified by token and reports
	// whether the payment was authorized.
	Confirm(ctx context.Context, token string) (*Confirmation, error)
}
