package telemetry

import (
	"context"
	"fmt"

	"github.com/mrops-br/product-catalog-api/internal/infrastructure/config"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

const serviceVersion = "1.0.0"

// newResource describes this service for every exported signal
func newResource(ctx context.Context, cfg *config.OTLPConfig) (*resource.Resource, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(serviceVersion),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}
