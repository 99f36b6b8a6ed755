package routes

import (
	"net/http"
	"strings"

	"github.com/zatekoja/hbnb/backend/internal/api/handlers"
	"github.com/zatekoja/hbnb/backend/internal/api/middleware"
	"github.com/zatekoja/hbnb/backend/internal/infrastructure/observability"
)

const apiPrefix = "/api/v1"

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	userHandler    *handlers.UserHandler
	placeHandler   *handlers.PlaceHandler
	reviewHandler  *handlers.ReviewHandler
	amenityHandler *handlers.AmenityHandler
	authHandler    *handlers.AuthHandler
	healthHandler  *handlers.HealthHandler

	resolver       middleware.ActorResolver
	metrics        *observability.Metrics
	allowedOrigins []string
}

// NewRouter creates a new router
func NewRouter(
	userHandler *handlers.UserHandler,
	placeHandler *handlers.PlaceHandler,
	reviewHandler *handlers.ReviewHandler,
	amenityHandler *handlers.AmenityHandler,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	resolver middleware.ActorResolver,
	metrics *observability.Metrics,
	allowedOrigins []string,
) *Router {
	return &Router{
		mux:            http.NewServeMux(),
		userHandler:    userHandler,
		placeHandler:   placeHandler,
		reviewHandler:  reviewHandler,
		amenityHandler: amenityHandler,
		authHandler:    authHandler,
		healthHandler:  healthHandler,
		resolver:       resolver,
		metrics:        metrics,
		allowedOrigins: allowedOrigins,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", r.healthHandler.Health)

	// Auth
	r.handle("POST /auth/login", r.authHandler.Login)
	r.handle("POST /auth/logout", r.authHandler.Logout)

	// Users
	r.handle("POST /users", r.userHandler.CreateUser)
	r.handle("GET /users", r.userHandler.ListUsers)
	r.handle("GET /users/{id}", r.userHandler.GetUser)
	r.handle("PUT /users/{id}", r.userHandler.UpdateUser)
	r.handle("PUT /users/admin/{id}", r.userHandler.AdminUpdateUser)
	r.handle("DELETE /users/{id}", r.userHandler.DeleteUser)

	// Places
	r.handle("POST /places", r.placeHandler.CreatePlace)
	r.handle("GET /places", r.placeHandler.ListPlaces)
	r.handle("GET /places/{id}", r.placeHandler.GetPlace)
	r.handle("PUT /places/{id}", r.placeHandler.UpdatePlace)
	r.handle("DELETE /places/{id}", r.placeHandler.DeletePlace)
	r.handle("GET /places/{id}/amenities", r.placeHandler.ListPlaceAmenities)
	r.handle("GET /places/{id}/reviews", r.reviewHandler.ListPlaceReviews)
	r.handle("POST /places/{id}/reviews", r.reviewHandler.CreatePlaceReview)

	// Reviews
	r.handle("POST /reviews", r.reviewHandler.CreateReview)
	r.handle("GET /reviews", r.reviewHandler.ListReviews)
	r.handle("GET /reviews/{id}", r.reviewHandler.GetReview)
	r.handle("PUT /reviews/{id}", r.reviewHandler.UpdateReview)
	r.handle("DELETE /reviews/{id}", r.reviewHandler.DeleteReview)

	// Amenities
	r.handle("POST /amenities", r.amenityHandler.CreateAmenity)
	r.handle("GET /amenities", r.amenityHandler.ListAmenities)
	r.handle("GET /amenities/{id}", r.amenityHandler.GetAmenity)
	r.handle("PUT /amenities/{id}", r.amenityHandler.UpdateAmenity)
	r.handle("DELETE /amenities/{id}", r.amenityHandler.DeleteAmenity)

	return middleware.CORSMiddleware(r.allowedOrigins)(r.mux)
}

// handle registers an API route. Middleware runs per route so that the
// matched pattern is already on the request.
func (r *Router) handle(pattern string, h http.HandlerFunc) {
	method, path, _ := strings.Cut(pattern, " ")
	var handler http.Handler = h
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.AuthMiddleware(r.resolver)(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	r.mux.Handle(method+" "+apiPrefix+path, handler)
}
