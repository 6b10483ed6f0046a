package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/starshard/storefront/internal/domain/checkout"
)

type checkoutRequest struct {
	UserID int64           `json:"userId"`
	Total  decimal.Decimal `json:"total"`
	Items  json.RawMessage `json:"items"`
}

type openResponse struct {
	RedirectURL string `json:"redirectUrl"`
	Token       string `json:"token"`
}

type simulateResponse struct {
	Success bool  `json:"success"`
	OrderID int64 `json:"orderId"`
}

// OpenCheckout handles POST /checkout/open: creates a PENDING order and
// hands the caller the gateway redirect.
func (h *Handler) OpenCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.checkout.Open(r.Context(), checkout.OpenRequest{
		UserID: req.UserID,
		Total:  req.Total,
		Items:  req.Items,
	})
	if err != nil {
		var vErr *checkout.ValidationError
		if errors.As(err, &vErr) {
			respondError(w, r, http.StatusBadRequest, vErr.Error())
			return
		}
		zctx.From(r.Context()).Error("Checkout open failed", zap.Error(err))
		respondError(w, r, http.StatusInternalServerError, "checkout failed")
		return
	}

	respondJSON(w, r, http.StatusCreated, openResponse{
		RedirectURL: result.RedirectURL,
		Token:       result.Token,
	})
}

// ConfirmCheckout handles POST /checkout/confirm: the gateway's return call.
// The token arrives as form data; the response is always a redirect to the
// frontend profile page carrying the reconciliation outcome.
func (h *Handler) ConfirmCheckout(w http.ResponseWriter, r *http.Request) {
	// The provider posts the token as token_ws; accept a plain token
	// field as well for manual retries.
	token := r.PostFormValue("token_ws")
	if token == "" {
		token = r.PostFormValue("token")
	}

	outcome := checkout.OutcomeError
	if token != "" {
		outcome = h.checkout.Reconcile(r.Context(), token)
	}

	http.Redirect(w, r, h.frontendURL+"/profile?status="+string(outcome), http.StatusSeeOther)
}

// SimulateCheckout handles POST /checkout/simulate: persists an
// already-settled order without contacting the gateway.
func (h *Handler) SimulateCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	orderID, err := h.checkout.Simulate(r.Context(), checkout.OpenRequest{
		UserID: req.UserID,
		Total:  req.Total,
		Items:  req.Items,
	})
	if err != nil {
		var vErr *checkout.ValidationError
		if errors.As(err, &vErr) {
			respondError(w, r, http.StatusBadRequest, vErr.Error())
			return
		}
		zctx.From(r.Context()).Error("Simulated checkout failed", zap.Error(err))
		respondError(w, r, http.StatusInternalServerError, "simulated checkout failed")
		return
	}

	respondJSON(w, r, http.StatusOK, simulateResponse{
		Success: true,
		OrderID: orderID,
	})
}
