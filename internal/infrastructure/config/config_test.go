package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "products-api", cfg.OTLP.ServiceName)
	assert.True(t, cfg.OTLP.ExportEnabled)
	assert.Equal(t, slog.LevelDebug, cfg.OTLP.LogLevel)
	assert.False(t, cfg.Metrics.DurationMilliseconds)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_WRITE_TIMEOUT", "3s")
	t.Setenv("OTEL_EXPORT_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("METRICS_DURATION_MS", "true")

	cfg := LoadConfig()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Server.WriteTimeout)
	assert.False(t, cfg.OTLP.ExportEnabled)
	assert.Equal(t, slog.LevelWarn, cfg.OTLP.LogLevel)
	assert.True(t, cfg.Metrics.DurationMilliseconds)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SERVER_IDLE_TIMEOUT", "soon")
	t.Setenv("OTEL_EXPORT_ENABLED", "maybe")
	t.Setenv("LOG_LEVEL", "loud")

	cfg := LoadConfig()

	assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
	assert.True(t, cfg.OTLP.ExportEnabled)
	assert.Equal(t, slog.LevelDebug, cfg.OTLP.LogLevel)
}
