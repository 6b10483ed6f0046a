package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/starshard/storefront/internal/domain/order"
)

type orderResponse struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"userId"`
	Total         float64         `json:"total"`
	PaymentMethod string          `json:"paymentMethod"`
	Status        string          `json:"status"`
	Items         json.RawMessage `json:"items"`
	GatewayToken  *string         `json:"gatewayToken"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ListOrders handles GET /orders/{userID}: a user's order history, newest
// first, with items returned exactly as they were stored.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.PathValue("userID"), 10, 64)
	if err != nil || userID <= 0 {
		respondError(w, r, http.StatusBadRequest, "invalid user id")
		return
	}

	orders, err := h.orders.ListByUser(r.Context(), userID)
	if err != nil {
		zctx.From(r.Context()).Error("Listing orders failed",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		respondError(w, r, http.StatusInternalServerError, "listing orders failed")
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = mapOrder(o)
	}
	respondJSON(w, r, http.StatusOK, resp)
}

func mapOrder(o order.Order) orderResponse {
	return orderResponse{
		ID:            o.ID,
		UserID:        o.UserID,
		Total:         o.Total.InexactFloat64(),
		PaymentMethod: o.PaymentMethod,
		Status:        string(o.Status),
		Items:         o.Items,
		GatewayToken:  o.GatewayToken,
		CreatedAt:     o.CreatedAt,
	}
}
