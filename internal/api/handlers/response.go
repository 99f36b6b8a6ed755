package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/zatekoja/hbnb/backend/internal/api/middleware"
	"github.com/zatekoja/hbnb/backend/internal/application/validation"
	"github.com/zatekoja/hbnb/backend/internal/domain/entities"
	"github.com/zatekoja/hbnb/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/hbnb/backend/pkg/errors"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// MessageResponse acknowledges an operation without a resource body
type MessageResponse struct {
	Message string `json:"message"`
}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// respondWithError renders err with the status of its error kind. Internal
// and storage failures never leak the wrapped cause.
func respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		appErr = apperrors.NewInternalError("internal server error", err)
	}

	status := StatusFor(appErr.Type)
	if status >= http.StatusInternalServerError {
		observability.LoggerFromContext(r.Context()).Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
	}

	respondWithJSON(w, status, ErrorResponse{
		Error:   string(appErr.Type),
		Message: appErr.Message,
		Field:   appErr.Field,
		Reason:  string(appErr.Reason),
	})
}

// StatusFor maps an error kind to its HTTP status
func StatusFor(kind apperrors.ErrorType) int {
	switch kind {
	case apperrors.ErrorTypeValidation:
		return http.StatusBadRequest
	case apperrors.ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case apperrors.ErrorTypeForbidden:
		return http.StatusForbidden
	case apperrors.ErrorTypeNotFound:
		return http.StatusNotFound
	case apperrors.ErrorTypeConflict:
		return http.StatusConflict
	case apperrors.ErrorTypeStorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decodePayload reads a JSON object body. Numbers stay json.Number so the
// validation layer can tell 3 from 3.0.
func decodePayload(r *http.Request) (validation.Payload, error) {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.UseNumber()

	var payload validation.Payload
	if err := dec.Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperrors.NewValidationError("request body is required")
		}
		return nil, apperrors.NewValidationError("request body must be a JSON object")
	}
	if payload == nil {
		return nil, apperrors.NewValidationError("request body must be a JSON object")
	}
	if dec.More() {
		return nil, apperrors.NewValidationError("request body must contain a single JSON object")
	}
	return payload, nil
}

// requireActor returns the authenticated actor or writes a 401
func requireActor(w http.ResponseWriter, r *http.Request) (*entities.Actor, bool) {
	actor := middleware.ActorFromContext(r.Context())
	if actor == nil {
		respondWithError(w, r, apperrors.NewUnauthorizedError("missing bearer token"))
		return nil, false
	}
	return actor, true
}
