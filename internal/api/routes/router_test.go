package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/hbnb/backend/internal/adapters/auth"
	"github.com/zatekoja/hbnb/backend/internal/adapters/memory"
	"github.com/zatekoja/hbnb/backend/internal/api/handlers"
	"github.com/zatekoja/hbnb/backend/internal/api/routes"
	"github.com/zatekoja/hbnb/backend/internal/application/services"
	"github.com/zatekoja/hbnb/backend/internal/domain/entities"
	"github.com/zatekoja/hbnb/backend/pkg/config"
	"golang.org/x/crypto/bcrypt"
)

type api struct {
	t       *testing.T
	handler http.Handler
}

func newAPI(t *testing.T) *api {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	tokens := auth.NewJWTProvider(&config.AuthConfig{
		JWTSecret: "test-secret",
		Issuer:    "hbnb",
		TokenTTL:  time.Hour,
	}, auth.NewLocalDenylist())
	engine := services.NewEngine(store, hasher, tokens)

	hash, err := hasher.Hash("admin1234")
	require.NoError(t, err)
	require.NoError(t, store.Users().Create(ctx, &entities.User{
		FirstName:    "Root",
		LastName:     "Admin",
		Email:        "admin@hbnb.io",
		PasswordHash: hash,
		IsAdmin:      true,
	}))

	router := routes.NewRouter(
		handlers.NewUserHandler(engine.Users),
		handlers.NewPlaceHandler(engine.Places),
		handlers.NewReviewHandler(engine.Reviews),
		handlers.NewAmenityHandler(engine.Amenities),
		handlers.NewAuthHandler(engine.Auth),
		handlers.NewHealthHandler(store),
		engine.Auth,
		nil,
		[]string{"https://hbnb.example"},
	)
	return &api{t: t, handler: router.SetupRoutes()}
}

func (a *api) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)

	var out map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func (a *api) register(first, email string) string {
	a.t.Helper()
	w, body := a.do(http.MethodPost, "/api/v1/users", "", map[string]interface{}{
		"first_name": first,
		"last_name":  "Doe",
		"email":      email,
		"password":   "secret123",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return body["id"].(string)
}

func (a *api) login(email, password string) string {
	a.t.Helper()
	w, body := a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	return body["access_token"].(string)
}

func TestHealth(t *testing.T) {
	a := newAPI(t)
	w, body := a.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestRegisterAndLogin(t *testing.T) {
	a := newAPI(t)

	a.register("Jane", "jane@example.com")

	w, body := a.do(http.MethodGet, "/api/v1/users", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	assert.Nil(t, body) // top-level array

	w, body = a.do(http.MethodPost, "/api/v1/users", "", map[string]interface{}{
		"first_name": "Eve",
		"last_name":  "Doe",
		"email":      "eve@example.com",
		"password":   "secret123",
		"is_admin":   true,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", body["error"])

	w, body = a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "jane@example.com",
		"password": "wrong-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid email or password", body["message"])

	w, body = a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "jane@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "password", body["field"])

	token := a.login("jane@example.com", "secret123")
	assert.NotEmpty(t, token)
}

func TestPlaceAndReviewFlow(t *testing.T) {
	a := newAPI(t)
	a.register("Owner", "owner@example.com")
	a.register("Guest", "guest@example.com")
	ownerToken := a.login("owner@example.com", "secret123")
	guestToken := a.login("guest@example.com", "secret123")

	place := map[string]interface{}{
		"title":     "Cozy loft",
		"price":     120.5,
		"latitude":  48.8566,
		"longitude": 2.3522,
	}

	w, _ := a.do(http.MethodPost, "/api/v1/places", "", place)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, body := a.do(http.MethodPost, "/api/v1/places", ownerToken, place)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	placeID := body["id"].(string)
	owner := body["owner"].(map[string]interface{})
	assert.Equal(t, "Owner", owner["first_name"])
	assert.Equal(t, 120.5, body["price"])

	w, body = a.do(http.MethodPut, "/api/v1/places/"+placeID, guestToken, map[string]interface{}{"title": "Mine now"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", body["error"])

	w, body = a.do(http.MethodPut, "/api/v1/places/"+placeID, ownerToken, map[string]interface{}{"owner_id": "someone"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "owner_id", body["field"])
	assert.Equal(t, "protected", body["reason"])

	reviewPath := "/api/v1/places/" + placeID + "/reviews"

	w, _ = a.do(http.MethodPost, reviewPath, ownerToken, map[string]interface{}{"text": "Great", "rating": 5})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, body = a.do(http.MethodPost, reviewPath, guestToken, map[string]interface{}{"text": "Nice", "rating": 3.5})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "rating", body["field"])
	assert.Equal(t, "type", body["reason"])

	w, body = a.do(http.MethodPost, reviewPath, guestToken, map[string]interface{}{"text": "Nice", "rating": 4})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reviewID := body["id"].(string)

	w, _ = a.do(http.MethodPost, reviewPath, guestToken, map[string]interface{}{"text": "Again", "rating": 2})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = a.do(http.MethodPost, reviewPath, guestToken, map[string]interface{}{"text": "x", "rating": 2, "place_id": "other"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = a.do(http.MethodGet, reviewPath, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var reviews []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reviews))
	require.Len(t, reviews, 1)
	assert.Equal(t, reviewID, reviews[0]["id"])

	w, body = a.do(http.MethodGet, "/api/v1/places/"+placeID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["reviews"], 1)

	w, _ = a.do(http.MethodGet, "/api/v1/places/unknown/reviews", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestLogoutRevokesToken(t *testing.T) {
	a := newAPI(t)
	a.register("Jane", "jane@example.com")
	token := a.login("jane@example.com", "secret123")

	w, _ := a.do(http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, body := a.do(http.MethodGet, "/api/v1/places", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", body["error"])

	w, _ = a.do(http.MethodGet, "/api/v1/places", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminDeleteUserCascades(t *testing.T) {
	a := newAPI(t)
	ownerID := a.register("Owner", "owner@example.com")
	ownerToken := a.login("owner@example.com", "secret123")
	adminToken := a.login("admin@hbnb.io", "admin1234")

	w, body := a.do(http.MethodPost, "/api/v1/amenities", adminToken, map[string]string{"name": "Wifi"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	amenityID := body["id"].(string)

	w, _ = a.do(http.MethodPost, "/api/v1/amenities", ownerToken, map[string]string{"name": "Pool"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, body = a.do(http.MethodPost, "/api/v1/places", ownerToken, map[string]interface{}{
		"title":     "Cabin",
		"price":     80,
		"latitude":  10,
		"longitude": 20,
		"amenities": []string{amenityID},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	placeID := body["id"].(string)

	w, _ = a.do(http.MethodDelete, "/api/v1/users/"+ownerID, ownerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = a.do(http.MethodDelete, "/api/v1/users/"+ownerID, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = a.do(http.MethodGet, "/api/v1/places/"+placeID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = a.do(http.MethodGet, "/api/v1/amenities/"+amenityID, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTokenFollowsAccountChanges(t *testing.T) {
	a := newAPI(t)
	adminToken := a.login("admin@hbnb.io", "admin1234")

	w, body := a.do(http.MethodPost, "/api/v1/users", adminToken, map[string]interface{}{
		"first_name": "Ops",
		"last_name":  "Admin",
		"email":      "ops@hbnb.io",
		"password":   "secret123",
		"is_admin":   true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	opsID := body["id"].(string)
	opsToken := a.login("ops@hbnb.io", "secret123")

	w, _ = a.do(http.MethodPost, "/api/v1/amenities", opsToken, map[string]string{"name": "Wifi"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, _ = a.do(http.MethodPut, "/api/v1/users/admin/"+opsID, adminToken, map[string]interface{}{"is_admin": false})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = a.do(http.MethodPost, "/api/v1/amenities", opsToken, map[string]string{"name": "Pool"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = a.do(http.MethodDelete, "/api/v1/users/"+opsID, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, body = a.do(http.MethodGet, "/api/v1/places", opsToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", body["error"])
}

func TestCORSPreflight(t *testing.T) {
	a := newAPI(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/places", nil)
	req.Header.Set("Origin", "https://hbnb.example")
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://hbnb.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
