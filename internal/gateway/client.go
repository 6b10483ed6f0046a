// Package gateway implements payment.Client against the payment provider's
// REST API. The wire shape follows Transbank's Webpay Plus REST contract:
// a transaction is created with a POST and committed with a PUT on the token.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/starshard/storefront/internal/domain/payment"
)

// Config holds the provider credentials and endpoint for the adapter. It is
// injected at construction; the adapter reads no ambient process state.
type Config struct {
	// BaseURL is the provider's API root, e.g. the integration environment.
	BaseURL string
	// CommerceCode identifies the merchant.
	CommerceCode string
	// APIKey is the merchant API secret.
	APIKey string
	// Timeout bounds each provider call. Zero means 10s.
	Timeout time.Duration
}

var _ payment.Client = (*Client)(nil)

// Client is a stateless HTTP adapter to the payment provider.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a gateway Client with the given provider configuration.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}
}

type createRequest struct {
	BuyOrder  string `json:"buy_order"`
	SessionID string `json:"session_id"`
	Amount    int64  `json:"amount"`
	ReturnURL string `json:"return_url"`
}

type createResponse struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

type commitResponse struct {
	Status string `json:"status"`
}

// statusAuthorized is the provider status meaning the payment went through.
const statusAuthorized = "AUTHORIZED"

// Open creates a remote transaction and returns its token and the URL the
// customer is redirected to. Any transport or provider failure maps to
// payment.ErrGatewayUnavailable.
func (c *Client) Open(ctx context.Context, buyOrderRef, sessionRef string, amountMinorUnits int64, returnURL string) (*payment.Transaction, error) {
	body, err := json.Marshal(createRequest{
		BuyOrder:  buyOrderRef,
		SessionID: sessionRef,
		Amount:    amountMinorUnits,
		ReturnURL: returnURL,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding create request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/transactions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("creating transaction: %w: %w", payment.ErrGatewayUnavailable, err)
	}
	defer drain(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("creating transaction: status %d: %w", resp.StatusCode, payment.ErrGatewayUnavailable)
	}

	var cr createResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("decoding create response: %w: %w", payment.ErrGatewayUnavailable, err)
	}
	if cr.Token == "" || cr.URL == "" {
		return nil, fmt.Errorf("create response missing token or url: %w", payment.ErrGatewayUnavailable)
	}

	return &payment.Transaction{
		Token:       cr.Token,
		RedirectURL: cr.URL,
	}, nil
}

// Confirm commits the transaction behind token. The provider treats commits
// idempotently: a token that already settled returns its settled status. A
// token the provider does not recognise maps to payment.ErrUnknownToken.
func (c *Client) Confirm(ctx context.Context, token string) (*payment.Confirmation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.cfg.BaseURL+"/transactions/"+token, nil)
	if err != nil {
		return nil, fmt.Errorf("building commit request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("committing transaction: %w: %w", payment.ErrGatewayUnavailable, err)
	}
	defer drain(resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusUnprocessableEntity:
		return nil, fmt.Errorf("committing transaction: %w", payment.ErrUnknownToken)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("committing transaction: status %d: %w", resp.StatusCode, payment.ErrGatewayUnavailable)
	}

	var cr commitResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("decoding commit response: %w: %w", payment.ErrGatewayUnavailable, err)
	}

	return &payment.Confirmation{
		Authorized: cr.Status == statusAuthorized,
		RawStatus:  cr.Status,
	}, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Tbk-Api-Key-Id", c.cfg.CommerceCode)
	req.Header.Set("Tbk-Api-Key-Secret", c.cfg.APIKey)
}

// drain discards and closes the body so the connection can be reused.
func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
