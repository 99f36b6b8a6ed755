package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/hbnb/backend/internal/domain/entities"
	apperrors "github.com/zatekoja/hbnb/backend/pkg/errors"
)

type resolverFunc func(ctx context.Context, credential string) (*entities.Actor, error)

func (f resolverFunc) Resolve(ctx context.Context, credential string) (*entities.Actor, error) {
	return f(ctx, credential)
}

func echoActor(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())
	if actor == nil {
		_, _ = w.Write([]byte("anonymous"))
		return
	}
	_, _ = w.Write([]byte(actor.ID))
}

func TestAuthMiddleware(t *testing.T) {
	resolver := resolverFunc(func(ctx context.Context, credential string) (*entities.Actor, error) {
		switch credential {
		case "good":
			return &entities.Actor{ID: "user-1"}, nil
		case "down":
			return nil, apperrors.NewStorageError("failed to check token revocation", errors.New("dial tcp"))
		default:
			return nil, apperrors.NewUnauthorizedError("token has expired")
		}
	})
	handler := AuthMiddleware(resolver)(http.HandlerFunc(echoActor))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
		wantKind   string
	}{
		{"no header", "", http.StatusOK, "anonymous", ""},
		{"other scheme", "Basic dXNlcjpwdw==", http.StatusOK, "anonymous", ""},
		{"valid token", "Bearer good", http.StatusOK, "user-1", ""},
		{"lowercase scheme", "bearer good", http.StatusOK, "user-1", ""},
		{"expired token", "Bearer stale", http.StatusUnauthorized, "", "UNAUTHORIZED"},
		{"denylist down", "Bearer down", http.StatusServiceUnavailable, "", "STORAGE_UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/places/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantKind == "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
				return
			}
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantKind, body["error"])
		})
	}
}

func TestObservabilityMiddleware_RequestID(t *testing.T) {
	handler := ObservabilityMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	handler := CORSMiddleware([]string{"https://hbnb.example"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("preflight must not reach the handler")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/places/", nil)
	req.Header.Set("Origin", "https://hbnb.example")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://hbnb.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, requestIDHeader, w.Header().Get("Access-Control-Expose-Headers"))
}
