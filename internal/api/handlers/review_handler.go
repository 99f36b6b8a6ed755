package handlers

import (
	"net/http"

	"github.com/zatekoja/hbnb/backend/internal/application/services"
	"github.com/zatekoja/hbnb/backend/internal/domain/entities"
	apperrors "github.com/zatekoja/hbnb/backend/pkg/errors"
)

// ReviewHandler handles review endpoints
type ReviewHandler struct {
	service *services.ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(service *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		service: service,
	}
}

// CreateReview handles POST /api/v1/reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	payload, err := decodePayload(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	review, err := h.service.Create(r.Context(), actor, payload)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, review)
}

// CreatePlaceReview handles POST /api/v1/places/{id}/reviews. The place comes
// from the path; a conflicting place_id in the body is rejected.
func (h *ReviewHandler) CreatePlaceReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	payload, err := decodePayload(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	placeID := r.PathValue("id")
	if payload.Has(entities.FieldPlaceID) {
		if bodyID, _ := payload[entities.FieldPlaceID].(string); bodyID != placeID {
			respondWithError(w, r, apperrors.NewFieldError(entities.FieldPlaceID, apperrors.ReasonProtected, "place_id does not match the place in the path"))
			return
		}
	}
	payload[entities.FieldPlaceID] = placeID

	review, err := h.service.Create(r.Context(), actor, payload)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, review)
}

// ListReviews handles GET /api/v1/reviews
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.List(r.Context())
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, reviews)
}

// ListPlaceReviews handles GET /api/v1/places/{id}/reviews
func (h *ReviewHandler) ListPlaceReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.ListByPlace(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, reviews)
}

// GetReview handles GET /api/v1/reviews/{id}
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	review, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, review)
}

// UpdateReview handles PUT /api/v1/reviews/{id}
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	payload, err := decodePayload(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	review, err := h.service.Update(r.Context(), actor, r.PathValue("id"), payload)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, review)
}

// DeleteReview handles DELETE /api/v1/reviews/{id}
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), actor, r.PathValue("id")); err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Review successfully deleted"})
}
