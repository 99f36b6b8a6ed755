package handlers

import (
	"net/http"

	"github.com/zatekoja/hbnb/backend/internal/application/services"
)

// AmenityHandler handles amenity endpoints
type AmenityHandler struct {
	service *services.AmenityService
}

// NewAmenityHandler creates a new amenity handler
func NewAmenityHandler(service *services.AmenityService) *AmenityHandler {
	return &AmenityHandler{
		service: service,
	}
}

// CreateAmenity handles POST /api/v1/amenities
func (h *AmenityHandler) CreateAmenity(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	payload, err := decodePayload(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	amenity, err := h.service.Create(r.Context(), actor, payload)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, amenity)
}

// ListAmenities handles GET /api/v1/amenities
func (h *AmenityHandler) ListAmenities(w http.ResponseWriter, r *http.Request) {
	amenities, err := h.service.List(r.Context())
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, amenities)
}

// GetAmenity handles GET /api/v1/amenities/{id}
func (h *AmenityHandler) GetAmenity(w http.ResponseWriter, r *http.Request) {
	amenity, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, amenity)
}

// UpdateAmenity handles PUT /api/v1/amenities/{id}
func (h *AmenityHandler) UpdateAmenity(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	payload, err := decodePayload(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	amenity, err := h.service.Update(r.Context(), actor, r.PathValue("id"), payload)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, amenity)
}

// DeleteAmenity handles DELETE /api/v1/amenities/{id}
func (h *AmenityHandler) DeleteAmenity(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), actor, r.PathValue("id")); err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Amenity successfully deleted"})
}
