package handlers

import (
	"context"
	"net/http"

	apperrors "github.com/zatekoja/hbnb/backend/pkg/errors"
)

// Pinger reports whether the entity store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports service health
type HealthHandler struct {
	store Pinger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		respondWithError(w, r, apperrors.NewStorageError("entity store unavailable", err))
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
