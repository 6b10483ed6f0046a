package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/starshard/storefront/internal/domain/message"
)

type messageRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type messageResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateMessage handles POST /messages: a visitor contact-form submission.
func (h *Handler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	for _, f := range []struct{ name, value string }{
		{"name", req.Name}, {"email", req.Email}, {"subject", req.Subject}, {"body", req.Body},
	} {
		if f.value == "" {
			respondError(w, r, http.StatusBadRequest, f.name+" is required")
			return
		}
	}

	id, err := h.messages.Create(r.Context(), &message.Message{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Body:    req.Body,
	})
	if err != nil {
		zctx.From(r.Context()).Error("Creating message failed", zap.Error(err))
		respondError(w, r, http.StatusInternalServerError, "creating message failed")
		return
	}

	respondJSON(w, r, http.StatusCreated, map[string]int64{"id": id})
}

// ListMessages handles GET /messages, newest first.
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.messages.List(r.Context())
	if err != nil {
		zctx.From(r.Context()).Error("Listing messages failed", zap.Error(err))
		respondError(w, r, http.StatusInternalServerError, "listing messages failed")
		return
	}

	resp := make([]messageResponse, len(msgs))
	for i, m := range msgs {
		resp[i] = messageResponse{
			ID:        m.ID,
			Name:      m.Name,
			Email:     m.Email,
			Subject:   m.Subject,
			Body:      m.Body,
			CreatedAt: m.CreatedAt,
		}
	}
	respondJSON(w, r, http.StatusOK, resp)
}
