package handler

import (
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

type productResponse struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

// ListProducts handles GET /products.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		zctx.From(r.Context()).Error("Listing products failed", zap.Error(err))
		respondError(w, r, http.StatusInternalServerError, "listing products failed")
		return
	}

	resp := make([]productResponse, len(products))
	for i, p := range products {
		resp[i] = productResponse{
			ID:    p.ID,
			Name:  p.Name,
			Price: p.Price.InexactFloat64(),
			Image: p.Image,
		}
	}
	respondJSON(w, r, http.StatusOK, resp)
}
