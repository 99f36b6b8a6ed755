package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/hbnb/backend/internal/infrastructure/observability"
)

const requestIDHeader = "X-Request-ID"

// ObservabilityMiddleware opens a server span per request, attaches a
// request-scoped logger and records request metrics. 4xx responses also
// count as rejections.
func ObservabilityMiddleware(metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// The route pattern keeps span and metric cardinality bounded
			route := r.Pattern
			if route == "" {
				route = r.URL.Path
			}

			requestID := r.Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, requestID)

			ctx, span := observability.StartServerSpan(r, route)
			ctx = observability.WithRequestLogger(ctx, requestID)

			rw := newStatusRecorder(w)
			start := time.Now()
			next.ServeHTTP(rw, r.WithContext(ctx))

			observability.RecordRequestMetric(ctx, metrics, r.Method, route, rw.status, time.Since(start))
			if rw.status >= http.StatusBadRequest && rw.status < http.StatusInternalServerError {
				observability.RecordRejection(ctx, metrics, route, http.StatusText(rw.status))
			}
			observability.EndServerSpan(span, rw.status)
		})
	}
}

// statusRecorder remembers the status code written by the handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (rw *statusRecorder) WriteHeader(statusCode int) {
	rw.status = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}
