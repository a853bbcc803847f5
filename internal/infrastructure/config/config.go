package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server  ServerConfig
	OTLP    OTLPConfig
	Metrics MetricsConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type OTLPConfig struct {
	Endpoint      string
	ServiceName   string
	Environment   string
	ExportEnabled bool
	LogLevel      slog.Level
}

type MetricsConfig struct {
	// DurationMilliseconds enables the extra millisecond request duration histogram
	DurationMilliseconds bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnv("SERVER_PORT", "8080"),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 5*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:     getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 5*time.Second),
		},
		OTLP: OTLPConfig{
			Endpoint:      getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ServiceName:   getEnv("OTEL_SERVICE_NAME", "products-api"),
			Environment:   getEnv("OTEL_ENVIRONMENT", "development"),
			ExportEnabled: getEnvBool("OTEL_EXPORT_ENABLED", true),
			LogLevel:      getEnvLogLevel("LOG_LEVEL", slog.LevelDebug),
		},
		Metrics: MetricsConfig{
			DurationMilliseconds: getEnvBool("METRICS_DURATION_MS", false),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return d
}

func getEnvBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvLogLevel(key string, defaultValue slog.Level) slog.Level {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return defaultValue
	}
	return level
}
