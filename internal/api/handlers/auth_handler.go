package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/zatekoja/hbnb/backend/internal/api/middleware"
	"github.com/zatekoja/hbnb/backend/internal/application/services"
	apperrors "github.com/zatekoja/hbnb/backend/pkg/errors"
)

// AuthHandler handles login and logout
type AuthHandler struct {
	service *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service *services.AuthService) *AuthHandler {
	return &AuthHandler{
		service: service,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respondWithError(w, r, apperrors.NewValidationError("request body must be a JSON object"))
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		respondWithError(w, r, apperrors.NewFieldError("email", apperrors.ReasonRequired, "email is required"))
		return
	}
	if req.Password == "" {
		respondWithError(w, r, apperrors.NewFieldError("password", apperrors.ReasonRequired, "password is required"))
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// Logout handles POST /api/v1/auth/logout by revoking the presented token
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireActor(w, r); !ok {
		return
	}
	if err := h.service.Logout(r.Context(), middleware.BearerToken(r)); err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Logout successful"})
}
