package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func restoreLevel(t *testing.T) {
	previous := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(previous) })
}

func TestInitLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	restoreLevel(t)
	initLogger(&buf, "hbnb-test", "production", "warn")

	LoggerFromContext(context.Background()).Info().Msg("hidden")
	LoggerFromContext(context.Background()).Warn().Msg("shown")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "shown", entry["message"])
	assert.Equal(t, "hbnb-test", entry["service"])
}

func TestInitLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	restoreLevel(t)
	initLogger(&buf, "hbnb-test", "production", "chatty")

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestWithRequestLogger_CarriesRequestAndTrace(t *testing.T) {
	var buf bytes.Buffer
	restoreLevel(t)
	initLogger(&buf, "hbnb-test", "production", "debug")

	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	ctx = WithRequestLogger(ctx, "req-1")
	LoggerFromContext(ctx).Info().Msg("handled")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, span.SpanContext().TraceID().String(), entry["trace_id"])
}
