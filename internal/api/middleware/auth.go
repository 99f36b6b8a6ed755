package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/zatekoja/hbnb/backend/internal/domain/entities"
	"github.com/zatekoja/hbnb/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/hbnb/backend/pkg/errors"
)

type contextKey string

const actorKey contextKey = "actor"

// ActorResolver maps a bearer credential to the acting identity
type ActorResolver interface {
	Resolve(ctx context.Context, credential string) (*entities.Actor, error)
}

// AuthMiddleware resolves an optional bearer token into an actor on the
// request context. Requests without a token pass through anonymously;
// handlers decide whether an actor is required. A token that fails to
// resolve is rejected with 401.
func AuthMiddleware(resolver ActorResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			credential := BearerToken(r)
			if credential == "" {
				next.ServeHTTP(w, r)
				return
			}

			actor, err := resolver.Resolve(r.Context(), credential)
			if err != nil {
				status := http.StatusUnauthorized
				kind := apperrors.ErrorTypeUnauthorized
				message := "invalid token"
				if appErr, ok := apperrors.As(err); ok {
					message = appErr.Message
					if appErr.Type == apperrors.ErrorTypeStorageUnavailable {
						status = http.StatusServiceUnavailable
						kind = appErr.Type
					}
				}
				observability.LoggerFromContext(r.Context()).Debug().Err(err).Msg("bearer token rejected")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(status)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error":   string(kind),
					"message": message,
				})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// BearerToken extracts the credential from an "Authorization: Bearer" header
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// WithActor returns a context carrying actor
func WithActor(ctx context.Context, actor *entities.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext returns the authenticated actor, or nil for anonymous requests
func ActorFromContext(ctx context.Context) *entities.Actor {
	actor, _ := ctx.Value(actorKey).(*entities.Actor)
	return actor
}
