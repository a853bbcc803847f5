package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/mrops-br/product-catalog-api/internal/infrastructure/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Telemetry holds all OpenTelemetry components
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *metric.MeterProvider
	Logger         *slog.Logger
	registry       *prometheus.Registry
	conn           *grpc.ClientConn
}

// NewTelemetry initializes all OpenTelemetry components. When export is
// disabled in cfg it falls back to NewNoOpTelemetry.
func NewTelemetry(cfg *config.OTLPConfig) (*Telemetry, error) {
	if !cfg.ExportEnabled {
		return NewNoOpTelemetry(cfg, initLogger(cfg))
	}

	logger := initLogger(cfg)

	logger.Info("Initializing OpenTelemetry",
		slog.String("endpoint", cfg.Endpoint),
		slog.String("service_name", cfg.ServiceName),
	)

	// One connection is shared by the trace and metric exporters
	conn, err := grpc.NewClient(cfg.Endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	t, err := build(context.Background(), cfg, conn, logger)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	logger.Info("Telemetry initialized (OTLP + Prometheus exporters)")
	return t, nil
}

// NewNoOpTelemetry creates SDK providers that do not push anywhere. The
// Prometheus reader is still attached so /metrics keeps working.
func NewNoOpTelemetry(cfg *config.OTLPConfig, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = NewLogger(io.Discard, cfg)
	}

	t, err := build(context.Background(), cfg, nil, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("Telemetry initialized in no-op mode (export disabled)")
	return t, nil
}

func build(ctx context.Context, cfg *config.OTLPConfig, conn *grpc.ClientConn, logger *slog.Logger) (*Telemetry, error) {
	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tp, err := initTracerProvider(ctx, conn, res)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer provider: %w", err)
	}

	reg := prometheus.NewRegistry()
	mp, err := initMeterProvider(ctx, conn, res, reg)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("failed to initialize meter provider: %w", err)
	}

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Telemetry{
		TracerProvider: tp,
		MeterProvider:  mp,
		Logger:         logger,
		registry:       reg,
		conn:           conn,
	}, nil
}

// MetricsHandler serves the Prometheus exposition of all recorded metrics
func (t *Telemetry) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(t.registry, promhttp.HandlerOpts{})
}

// Shutdown flushes and stops all telemetry components
func (t *Telemetry) Shutdown(ctx context.Context) error {
	t.Logger.Info("Shutting down OpenTelemetry")

	var errs []error
	if err := t.TracerProvider.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("tracer provider: %w", err))
	}
	if err := t.MeterProvider.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("meter provider: %w", err))
	}
	if t.conn != nil {
		if err := t.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("grpc connection: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		t.Logger.Error("Failed to shutdown telemetry", slog.String("error", err.Error()))
		return err
	}

	t.Logger.Info("OpenTelemetry shutdown successfully")
	return nil
}
