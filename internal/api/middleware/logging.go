package middleware

import (
	"net/http"
	"time"

	"github.com/zatekoja/hbnb/backend/internal/infrastructure/observability"
)

// LoggingMiddleware writes one access log line per request. Server errors
// log at error level, client errors at warn.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := newStatusRecorder(w)
		next.ServeHTTP(rw, r)

		logger := observability.LoggerFromContext(r.Context())
		event := logger.Info()
		switch {
		case rw.status >= http.StatusInternalServerError:
			event = logger.Error()
		case rw.status >= http.StatusBadRequest:
			event = logger.Warn()
		}
		if actor := ActorFromContext(r.Context()); actor != nil {
			event = event.Str("actor_id", actor.ID).Bool("admin", actor.IsAdmin)
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("route", r.Pattern).
			Int("status", rw.status).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	})
}
