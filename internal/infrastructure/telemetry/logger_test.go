package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/mrops-br/product-catalog-api/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewLogger_InjectsTraceContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, &config.OTLPConfig{
		ServiceName: "products-api",
		Environment: "test",
		LogLevel:    slog.LevelInfo,
	})

	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	logger.InfoContext(ctx, "hello")
	span.End()

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, "hello", record["msg"])
	assert.Equal(t, "products-api", record["service.name"])
	assert.Equal(t, "test", record["environment"])
	assert.Equal(t, span.SpanContext().TraceID().String(), record["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), record["span_id"])
}

func TestNewLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, &config.OTLPConfig{LogLevel: slog.LevelWarn})

	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
	assert.NotContains(t, buf.String(), "trace_id")
}
