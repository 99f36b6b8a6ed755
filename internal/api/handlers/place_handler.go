package handlers

import (
	"net/http"

	"github.com/zatekoja/hbnb/backend/internal/application/services"
)

// PlaceHandler handles place endpoints
type PlaceHandler struct {
	service *services.PlaceService
}

// NewPlaceHandler creates a new place handler
func NewPlaceHandler(service *services.PlaceService) *PlaceHandler {
	return &PlaceHandler{
		service: service,
	}
}

// CreatePlace handles POST /api/v1/places
func (h *PlaceHandler) CreatePlace(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	payload, err := decodePayload(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	place, err := h.service.Create(r.Context(), actor, payload)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, place)
}

// ListPlaces handles GET /api/v1/places
func (h *PlaceHandler) ListPlaces(w http.ResponseWriter, r *http.Request) {
	places, err := h.service.List(r.Context())
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, places)
}

// GetPlace handles GET /api/v1/places/{id}
func (h *PlaceHandler) GetPlace(w http.ResponseWriter, r *http.Request) {
	place, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, place)
}

// ListPlaceAmenities handles GET /api/v1/places/{id}/amenities
func (h *PlaceHandler) ListPlaceAmenities(w http.ResponseWriter, r *http.Request) {
	amenities, err := h.service.ListAmenities(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, amenities)
}

// UpdatePlace handles PUT /api/v1/places/{id}
func (h *PlaceHandler) UpdatePlace(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	payload, err := decodePayload(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	place, err := h.service.Update(r.Context(), actor, r.PathValue("id"), payload)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, place)
}

// DeletePlace handles DELETE /api/v1/places/{id}
func (h *PlaceHandler) DeletePlace(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), actor, r.PathValue("id")); err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Place successfully deleted"})
}
