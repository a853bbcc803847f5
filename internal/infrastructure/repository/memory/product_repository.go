package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/mrops-br/product-catalog-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ProductRepository is an in-memory implementation of domain.ProductRepository.
// Entities are copied on the way in and out so callers never hold references
// into the store.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[uuid.UUID]*domain.Product
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewProductRepository creates a new in-memory product repository
func NewProductRepository(tracer trace.Tracer, logger *slog.Logger) *ProductRepository {
	return &ProductRepository{
		products: make(map[uuid.UUID]*domain.Product),
		tracer:   tracer,
		logger:   logger,
	}
}

// FindByID retrieves a product by ID
func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, bool) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindByID")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id.String()))

	r.mu.RLock()
	product, exists := r.products[id]
	r.mu.RUnlock()

	span.SetAttributes(attribute.Bool("product.found", exists))
	if !exists {
		r.logger.DebugContext(ctx, "Product absent from repository",
			slog.String("product_id", id.String()),
		)
		return nil, false
	}

	r.logger.DebugContext(ctx, "Product found in repository",
		slog.String("product_id", id.String()),
		slog.String("product_name", product.Name),
	)

	return product.Clone(), true
}

// FindAll retrieves a snapshot of all products
func (r *ProductRepository) FindAll(ctx context.Context) []*domain.Product {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindAll")
	defer span.End()

	r.mu.RLock()
	products := make([]*domain.Product, 0, len(r.products))
	for _, product := range r.products {
		products = append(products, product.Clone())
	}
	r.mu.RUnlock()

	span.SetAttributes(attribute.Int("product.count", len(products)))

	r.logger.DebugContext(ctx, "Products retrieved from repository",
		slog.Int("count", len(products)),
	)

	return products
}

// Save inserts or overwrites the product stored under product.ID
func (r *ProductRepository) Save(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Save")
	defer span.End()

	if product == nil {
		err := fmt.Errorf("product cannot be nil: %w", domain.ErrInvalidArgument)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Nil product")
		return nil, err
	}
	if !product.HasID() {
		err := fmt.Errorf("product id is not set: %w", domain.ErrInvalidArgument)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Missing product id")
		return nil, err
	}

	span.SetAttributes(
		attribute.String("product.id", product.ID.String()),
		attribute.String("product.name", product.Name),
	)

	stored := product.Clone()

	r.mu.Lock()
	_, replaced := r.products[stored.ID]
	r.products[stored.ID] = stored
	r.mu.Unlock()

	r.logger.InfoContext(ctx, "Product saved in repository",
		slog.String("product_id", stored.ID.String()),
		slog.String("product_name", stored.Name),
		slog.Bool("replaced", replaced),
	)

	span.SetStatus(codes.Ok, "Product saved")
	return stored.Clone(), nil
}

// Delete removes the product if present
func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Delete")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id.String()))

	r.mu.Lock()
	_, existed := r.products[id]
	delete(r.products, id)
	r.mu.Unlock()

	span.SetAttributes(attribute.Bool("product.existed", existed))

	r.logger.InfoContext(ctx, "Product deleted from repository",
		slog.String("product_id", id.String()),
		slog.Bool("existed", existed),
	)
}

// Count returns the number of stored products
func (r *ProductRepository) Count(_ context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.products)
}
