package handlers

import (
	"net/http"

	"github.com/zatekoja/hbnb/backend/internal/api/middleware"
	"github.com/zatekoja/hbnb/backend/internal/application/services"
)

// UserHandler handles user endpoints
type UserHandler struct {
	service *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// CreateUser handles POST /api/v1/users. Anonymous callers may register;
// creating an administrator needs an admin token.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	payload, err := decodePayload(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	user, err := h.service.Register(r.Context(), middleware.ActorFromContext(r.Context()), payload)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, user)
}

// ListUsers handles GET /api/v1/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, users)
}

// GetUser handles GET /api/v1/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

// UpdateUser handles PUT /api/v1/users/{id}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	payload, err := decodePayload(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	user, err := h.service.UpdateSelf(r.Context(), actor, r.PathValue("id"), payload)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

// AdminUpdateUser handles PUT /api/v1/users/admin/{id}
func (h *UserHandler) AdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	payload, err := decodePayload(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	user, err := h.service.AdminUpdate(r.Context(), actor, r.PathValue("id"), payload)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

// DeleteUser handles DELETE /api/v1/users/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), actor, r.PathValue("id")); err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "User successfully deleted"})
}
