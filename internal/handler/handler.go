// Package handler exposes the storefront over HTTP, mapping requests to the
// domain services and domain errors to status codes.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/starshard/storefront/internal/domain/checkout"
	"github.com/starshard/storefront/internal/domain/message"
	"github.com/starshard/storefront/internal/domain/order"
	"github.com/starshard/storefront/internal/domain/product"
)

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// FrontendURL is the base the confirm endpoint redirects back to.
	FrontendURL string
}

// Handler carries the domain dependencies for all HTTP endpoints.
type Handler struct {
	checkout    *checkout.Service
	orders      order.Store
	products    product.Repository
	messages    message.Store
	frontendURL string
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	cfg Config,
	checkoutSvc *checkout.Service,
	orders order.Store,
	products product.Repository,
	messages message.Store,
) *Handler {
	return &Handler{
		checkout:    checkoutSvc,
		orders:      orders,
		products:    products,
		messages:    messages,
		frontendURL: cfg.FrontendURL,
	}
}

// Register mounts all application routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /checkout/open", h.OpenCheckout)
	mux.HandleFunc("POST /checkout/confirm", h.ConfirmCheckout)
	mux.HandleFunc("POST /checkout/simulate", h.SimulateCheckout)
	mux.HandleFunc("GET /orders/{userID}", h.ListOrders)
	mux.HandleFunc("GET /products", h.ListProducts)
	mux.HandleFunc("POST /messages", h.CreateMessage)
	mux.HandleFunc("GET /messages", h.ListMessages)
}

// errorResponse is the JSON body for all error statuses.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zctx.From(r.Context()).Error("Encoding response failed", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	respondJSON(w, r, status, errorResponse{Code: status, Message: msg})
}
