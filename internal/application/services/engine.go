package services

import (
	"github.com/zatekoja/hbnb/backend/internal/domain/providers"
	"github.com/zatekoja/hbnb/backend/internal/domain/repositories"
)

// Engine groups the authorization and integrity services behind one value.
// It is built once at startup and handed to the HTTP layer.
type Engine struct {
	Users     *UserService
	Places    *PlaceService
	Reviews   *ReviewService
	Amenities *AmenityService
	Auth      *AuthService

	store repositories.Store
}

// NewEngine wires every service onto the same store and cascade table
func NewEngine(store repositories.Store, hasher providers.PasswordHasher, tokens providers.TokenProvider) *Engine {
	lifecycle := NewLifecycle(CascadeRules)
	return &Engine{
		Users:     NewUserService(store, hasher, lifecycle),
		Places:    NewPlaceService(store, lifecycle),
		Reviews:   NewReviewService(store, lifecycle),
		Amenities: NewAmenityService(store, lifecycle),
		Auth:      NewAuthService(store, hasher, tokens),
		store:     store,
	}
}

// Store returns the entity store the engine writes to
func (e *Engine) Store() repositories.Store {
	return e.store
}
