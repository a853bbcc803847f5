package telemetry

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"google.golang.org/grpc"
)

// newPrometheusReader registers an OTel Prometheus exporter on reg.
// The exporter is a pull reader, scraped through /metrics.
func newPrometheusReader(reg *prometheus.Registry) (metric.Reader, error) {
	exporter, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	return exporter, nil
}

// initMeterProvider builds a meter provider with the Prometheus reader and,
// when conn is non-nil, a periodic OTLP push reader.
func initMeterProvider(ctx context.Context, conn *grpc.ClientConn, res *resource.Resource, reg *prometheus.Registry) (*metric.MeterProvider, error) {
	promReader, err := newPrometheusReader(reg)
	if err != nil {
		return nil, err
	}

	opts := []metric.Option{
		metric.WithReader(promReader),
		metric.WithResource(res),
	}

	if conn != nil {
		exporter, err := otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithGRPCConn(conn))
		if err != nil {
			return nil, fmt.Errorf("failed to create metric exporter: %w", err)
		}
		opts = append(opts, metric.WithReader(metric.NewPeriodicReader(exporter)))
	}

	return metric.NewMeterProvider(opts...), nil
}
