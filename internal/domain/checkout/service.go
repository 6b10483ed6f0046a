package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/starshard/storefront/internal/domain/order"
	"github.com/starshard/storefront/internal/domain/payment"
)

// ValidationError indicates a missing or invalid request field. It is
// rejected before the store or the gateway is touched.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// Outcome is the tri-state result of reconciling a gateway callback. It only
// selects a post-redirect destination; it is never raised as an error.
type Outcome string

const (
	// OutcomeSuccess: the gateway authorized the payment.
	OutcomeSuccess Outcome = "success"
	// OutcomeFailure: the gateway explicitly declined the payment.
	OutcomeFailure Outcome = "failure"
	// OutcomeError: the gateway was unreachable or the token is unknown;
	// the order is left untouched and remains reconcilable.
	OutcomeError Outcome = "error"
)

// OpenRequest holds the input for opening a gateway checkout.
type OpenRequest struct {
	UserID int64
	Total  decimal.Decimal
	Items  json.RawMessage
}

// OpenResult holds the gateway hand-off for a successfully opened checkout.
type OpenResult struct {
	OrderID     int64
	Token       string
	RedirectURL string
}

// Service implements the order/payment reconciliation flows: opening a
// checkout against the gateway, reconciling the gateway's asynchronous
// confirmation, and the gateway-bypassing simulation path.
type Service struct {
	orders    order.Store
	gateway   payment.Client
	returnURL string
}

// NewService creates a checkout Service. returnURL is where the gateway
// redirects the customer after they act; it is injected at construction, not
// read from ambient state at call time.
func NewService(orders order.Store, gateway payment.Client, returnURL string) *Service {
	return &Service{
		orders:    orders,
		gateway:   gateway,
		returnURL: returnURL,
	}
}

// Open creates a PENDING order, opens a gateway transaction, and persists the
// returned token on the order.
//
// If the gateway call fails, the PENDING order stays behind with a null
// token. That is a deliberately recoverable state, not a rollback target: the
// sweep treats tokenless PENDING orders as abandoned.
func (s *Service) Open(ctx context.Context, req OpenRequest) (*OpenResult, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	o := &order.Order{
		UserID:        req.UserID,
		Total:         req.Total,
		PaymentMethod: order.MethodGateway,
		Status:        order.StatusPending,
		Items:         req.Items,
	}
	orderID, err := s.orders.Create(ctx, o)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	buyOrderRef := newBuyOrderRef()
	sessionRef := "S-" + strconv.FormatInt(req.UserID, 10)
	amount := payment.AmountMinorUnits(req.Total)

	tx, err := s.gateway.Open(ctx, buyOrderRef, sessionRef, amount, s.returnURL)
	if err != nil {
		zctx.From(ctx).Warn("Gateway open failed, order left pending without token",
			zap.Int64("order_id", orderID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("open gateway transaction: %w", err)
	}

	if err := s.orders.SetToken(ctx, orderID, tx.Token); err != nil {
		return nil, fmt.Errorf("persist gateway token: %w", err)
	}

	return &OpenResult{
		OrderID:     orderID,
		Token:       tx.Token,
		RedirectURL: tx.RedirectURL,
	}, nil
}

// Reconcile settles the gateway transaction behind token and transitions the
// matching order to its terminal state.
//
// The status write is conditional on the order still being PENDING, so a
// duplicate callback matches zero rows instead of double-applying. The
// reported outcome follows the gateway's answer either way. Gateway failures
// leave the order untouched and report OutcomeError, which is distinct from
// an explicit decline.
func (s *Service) Reconcile(ctx context.Context, token string) Outcome {
	lg := zctx.From(ctx).With(zap.String("token", token))

	conf, err := s.gateway.Confirm(ctx, token)
	if err != nil {
		lg.Warn("Gateway confirm failed, order untouched", zap.Error(err))
		return OutcomeError
	}

	status := order.StatusFailed
	outcome := OutcomeFailure
	if conf.Authorized {
		status = order.StatusPaid
		outcome = OutcomeSuccess
	}

	updated, err := s.orders.UpdateStatusIfPending(ctx, token, status)
	if err != nil {
		lg.Error("Order status update failed", zap.Error(err))
		return OutcomeError
	}
	if !updated {
		// Already settled by an earlier callback; the write was a no-op.
		lg.Info("Duplicate gateway callback ignored",
			zap.String("raw_status", conf.RawStatus),
		)
	}
	return outcome
}

// Simulate persists an order directly at PAID without contacting the gateway.
// The synthetic token keeps the "token implies settled" invariant that
// reporting collaborators rely on.
func (s *Service) Simulate(ctx context.Context, req OpenRequest) (int64, error) {
	if err := validate(req); err != nil {
		return 0, err
	}

	token := "SIMULATED_" + strconv.FormatInt(time.Now().UnixMilli(), 10)
	o := &order.Order{
		UserID:        req.UserID,
		Total:         req.Total,
		PaymentMethod: order.MethodSimulated,
		Status:        order.StatusPaid,
		Items:         req.Items,
		GatewayToken:  &token,
	}
	orderID, err := s.orders.Create(ctx, o)
	if err != nil {
		return 0, fmt.Errorf("create simulated order: %w", err)
	}
	return orderID, nil
}

func validate(req OpenRequest) error {
	if req.UserID <= 0 {
		return &ValidationError{Field: "userId"}
	}
	if req.Total.LessThanOrEqual(decimal.Zero) {
		return &ValidationError{Field: "total"}
	}
	if len(req.Items) == 0 {
		return &ValidationError{Field: "items"}
	}
	return nil
}

// newBuyOrderRef generates a gateway-side order reference. A random suffix is
// enough to avoid collisions; the gateway caps references at 26 characters.
func newBuyOrderRef() string {
	return "O-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
}
