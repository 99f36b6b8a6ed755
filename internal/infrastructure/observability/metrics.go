package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// Metrics holds the HTTP instruments
type Metrics struct {
	RequestCount    metric.Int64Counter
	RequestDuration metric.Float64Histogram
	RejectionCount  metric.Int64Counter
}

// InitMetrics creates the instruments on the global meter provider
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter(instrumentationName)

	requestCount, err := meter.Int64Counter(
		"http.server.request.count",
		metric.WithDescription("Number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	rejectionCount, err := meter.Int64Counter(
		"hbnb.request.rejected.count",
		metric.WithDescription("Requests refused with a client error, by route and reason"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		RequestCount:    requestCount,
		RequestDuration: requestDuration,
		RejectionCount:  rejectionCount,
	}, nil
}

// RecordRequestMetric records a served request. A nil Metrics is a no-op.
func RecordRequestMetric(ctx context.Context, metrics *Metrics, method, route string, statusCode int, duration time.Duration) {
	if metrics == nil {
		return
	}
	attrs := metric.WithAttributes(
		semconv.HTTPMethod(method),
		semconv.HTTPRoute(route),
		semconv.HTTPStatusCode(statusCode),
	)
	metrics.RequestCount.Add(ctx, 1, attrs)
	metrics.RequestDuration.Record(ctx, float64(duration)/float64(time.Millisecond), attrs)
}

// RecordRejection counts a request turned away with a 4xx
func RecordRejection(ctx context.Context, metrics *Metrics, route, reason string) {
	if metrics == nil {
		return
	}
	metrics.RejectionCount.Add(ctx, 1, metric.WithAttributes(
		semconv.HTTPRoute(route),
		rejectionReasonKey.String(reason),
	))
}
