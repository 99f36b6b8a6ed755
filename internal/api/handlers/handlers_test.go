package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/hbnb/backend/internal/adapters/memory"
	"github.com/zatekoja/hbnb/backend/internal/api/handlers"
	"github.com/zatekoja/hbnb/backend/internal/api/middleware"
	"github.com/zatekoja/hbnb/backend/internal/application/services"
	"github.com/zatekoja/hbnb/backend/internal/domain/entities"
	apperrors "github.com/zatekoja/hbnb/backend/pkg/errors"
)

type stubHasher struct{}

func (stubHasher) Hash(password string) (string, error) { return "h:" + password, nil }
func (stubHasher) Compare(password, hash string) bool   { return hash == "h:"+password }

type failingPinger struct{}

func (failingPinger) Ping(ctx context.Context) error { return errors.New("connection refused") }

func newEngine(t *testing.T) (*services.Engine, *entities.Actor) {
	t.Helper()
	store := memory.NewStore()
	admin := &entities.User{FirstName: "Root", LastName: "Admin", Email: "admin@hbnb.io", PasswordHash: "h:admin1234", IsAdmin: true}
	require.NoError(t, store.Users().Create(context.Background(), admin))
	return services.NewEngine(store, stubHasher{}, nil), &entities.Actor{ID: admin.ID, IsAdmin: true}
}

func request(method, target, body string, actor *entities.Actor, pathID string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if pathID != "" {
		req.SetPathValue("id", pathID)
	}
	if actor != nil {
		req = req.WithContext(middleware.WithActor(req.Context(), actor))
	}
	return req
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) handlers.ErrorResponse {
	t.Helper()
	var resp handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		kind apperrors.ErrorType
		want int
	}{
		{apperrors.ErrorTypeValidation, http.StatusBadRequest},
		{apperrors.ErrorTypeUnauthorized, http.StatusUnauthorized},
		{apperrors.ErrorTypeForbidden, http.StatusForbidden},
		{apperrors.ErrorTypeNotFound, http.StatusNotFound},
		{apperrors.ErrorTypeConflict, http.StatusConflict},
		{apperrors.ErrorTypeStorageUnavailable, http.StatusServiceUnavailable},
		{apperrors.ErrorTypeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, handlers.StatusFor(tt.kind))
		})
	}
}

func TestAmenityHandler_CreateAmenity(t *testing.T) {
	engine, admin := newEngine(t)
	handler := handlers.NewAmenityHandler(engine.Amenities)

	t.Run("requires a token", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.CreateAmenity(w, request(http.MethodPost, "/api/v1/amenities", `{"name":"Wifi"}`, nil, ""))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects malformed bodies", func(t *testing.T) {
		for _, body := range []string{"", "null", "[1,2]", `{"name":`, `{"name":"a"}{"name":"b"}`} {
			w := httptest.NewRecorder()
			handler.CreateAmenity(w, request(http.MethodPost, "/api/v1/amenities", body, admin, ""))
			assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
			assert.Equal(t, "VALIDATION", decodeError(t, w).Error)
		}
	})

	t.Run("creates then conflicts ignoring case", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.CreateAmenity(w, request(http.MethodPost, "/api/v1/amenities", `{"name":"Wifi"}`, admin, ""))
		require.Equal(t, http.StatusCreated, w.Code)

		var amenity entities.Amenity
		require.NoError(t, json.NewDecoder(w.Body).Decode(&amenity))
		assert.Equal(t, "Wifi", amenity.Name)
		assert.NotEmpty(t, amenity.ID)

		w = httptest.NewRecorder()
		handler.CreateAmenity(w, request(http.MethodPost, "/api/v1/amenities", `{"name":"WIFI"}`, admin, ""))
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("field errors carry field and reason", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.CreateAmenity(w, request(http.MethodPost, "/api/v1/amenities", `{"name":"Sauna","id":"x"}`, admin, ""))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, "id", resp.Field)
		assert.Equal(t, "protected", resp.Reason)
	})
}

func TestUserHandler_GetUser(t *testing.T) {
	engine, admin := newEngine(t)
	handler := handlers.NewUserHandler(engine.Users)

	w := httptest.NewRecorder()
	handler.GetUser(w, request(http.MethodGet, "/api/v1/users/"+admin.ID, "", nil, admin.ID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "h:admin1234")

	w = httptest.NewRecorder()
	handler.GetUser(w, request(http.MethodGet, "/api/v1/users/missing", "", nil, "missing"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, w).Error)
}

func TestUserHandler_UpdateUserRequiresProof(t *testing.T) {
	engine, _ := newEngine(t)
	handler := handlers.NewUserHandler(engine.Users)

	w := httptest.NewRecorder()
	handler.CreateUser(w, request(http.MethodPost, "/api/v1/users",
		`{"first_name":"Jane","last_name":"Doe","email":"jane@example.com","password":"secret123"}`, nil, ""))
	require.Equal(t, http.StatusCreated, w.Code)
	var user entities.User
	require.NoError(t, json.NewDecoder(w.Body).Decode(&user))
	actor := &entities.Actor{ID: user.ID}

	w = httptest.NewRecorder()
	handler.UpdateUser(w, request(http.MethodPut, "/api/v1/users/"+user.ID,
		`{"first_name":"Janet","email":"jane@example.com","password":"nope"}`, actor, user.ID))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	handler.UpdateUser(w, request(http.MethodPut, "/api/v1/users/"+user.ID,
		`{"first_name":"Janet","email":"jane@example.com","password":"secret123"}`, actor, user.ID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"first_name":"Janet"`)
}

func TestHealthHandler_StoreDown(t *testing.T) {
	handler := handlers.NewHealthHandler(failingPinger{})

	w := httptest.NewRecorder()
	handler.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "STORAGE_UNAVAILABLE", resp.Error)
	assert.NotContains(t, resp.Message, "connection refused")
}
