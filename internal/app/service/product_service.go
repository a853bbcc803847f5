package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mrops-br/product-catalog-api/internal/app/dto"
	"github.com/mrops-br/product-catalog-api/internal/app/mapper"
	"github.com/mrops-br/product-catalog-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	resultSuccess  = "success"
	resultNotFound = "not_found"
	resultFailure  = "failure"
)

// ProductService handles product use cases. It owns identifier generation
// and creation timestamps.
type ProductService struct {
	repo                  domain.ProductRepository
	mapper                mapper.ProductMapper
	tracer                trace.Tracer
	logger                *slog.Logger
	now                   func() time.Time
	newID                 func() uuid.UUID
	productCreatedCounter metric.Int64Counter
	productDeletedCounter metric.Int64Counter
	productOperations     metric.Int64Counter
}

// Option configures a ProductService
type Option func(*ProductService)

// WithClock overrides the clock used to stamp CreatedAt
func WithClock(now func() time.Time) Option {
	return func(s *ProductService) {
		s.now = now
	}
}

// WithIDGenerator overrides the generator used for new product ids
func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(s *ProductService) {
		s.newID = newID
	}
}

// NewProductService creates a new product service
func NewProductService(
	repo domain.ProductRepository,
	m mapper.ProductMapper,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
	opts ...Option,
) *ProductService {
	// Initialize metrics
	productCreatedCounter, _ := meter.Int64Counter(
		"products.created.total",
		metric.WithDescription("Total number of products created"),
	)

	productDeletedCounter, _ := meter.Int64Counter(
		"products.deleted.total",
		metric.WithDescription("Total number of products deleted"),
	)

	productOperations, _ := meter.Int64Counter(
		"products.operations",
		metric.WithDescription("Total number of product operations"),
	)

	_, _ = meter.Int64ObservableGauge(
		"products.stored",
		metric.WithDescription("Number of products currently stored"),
		metric.WithInt64Callback(func(ctx context.Context, o metric.Int64Observer) error {
			o.Observe(int64(repo.Count(ctx)))
			return nil
		}),
	)

	s := &ProductService{
		repo:                  repo,
		mapper:                m,
		tracer:                tracer,
		logger:                logger,
		now:                   time.Now,
		newID:                 uuid.New,
		productCreatedCounter: productCreatedCounter,
		productDeletedCounter: productDeletedCounter,
		productOperations:     productOperations,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Get retrieves a product by ID
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*dto.InfoProductDto, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.Get")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id.String()))

	s.logger.InfoContext(ctx, "Getting product by ID",
		slog.String("product_id", id.String()),
	)

	product, err := s.lookup(ctx, span, id)
	if err != nil {
		s.recordOperation(ctx, "read", resultNotFound)
		return nil, err
	}

	s.recordOperation(ctx, "read", resultSuccess)

	s.logger.InfoContext(ctx, "Product retrieved successfully",
		slog.String("product_id", id.String()),
	)

	span.SetStatus(codes.Ok, "Product retrieved successfully")
	return s.mapper.ToInfoDto(product), nil
}

// GetAll retrieves all products. An empty store yields an empty slice.
func (s *ProductService) GetAll(ctx context.Context) ([]*dto.InfoProductDto, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.GetAll")
	defer span.End()

	s.logger.InfoContext(ctx, "Listing all products")

	products := s.repo.FindAll(ctx)

	span.SetAttributes(attribute.Int("product.count", len(products)))

	s.recordOperation(ctx, "list", resultSuccess)

	s.logger.InfoContext(ctx, "Products listed successfully",
		slog.Int("count", len(products)),
	)

	span.SetStatus(codes.Ok, "Products listed successfully")
	return s.mapper.ToInfoDtoList(products), nil
}

// Create stores a new product and returns its identifier
func (s *ProductService) Create(ctx context.Context, req *dto.ProductDto) (uuid.UUID, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.Create")
	defer span.End()

	if req == nil {
		err := fmt.Errorf("product payload cannot be nil: %w", domain.ErrInvalidArgument)
		s.fail(ctx, span, "create", "Invalid payload", err)
		return uuid.Nil, err
	}

	span.SetAttributes(
		attribute.String("product.name", req.Name),
		attribute.String("product.price", req.Price.String()),
	)

	s.logger.InfoContext(ctx, "Creating product",
		slog.String("name", req.Name),
		slog.String("price", req.Price.String()),
	)

	product := s.mapper.ToEntity(req)
	if product == nil {
		err := fmt.Errorf("mapped product is nil: %w", domain.ErrInvalidArgument)
		s.fail(ctx, span, "create", "Mapping failed", err)
		return uuid.Nil, err
	}

	product.CreatedAt = s.now()
	if !product.HasID() {
		product.ID = s.newID()
	}

	span.SetAttributes(attribute.String("product.id", product.ID.String()))

	saved, err := s.repo.Save(ctx, product)
	if err != nil {
		s.fail(ctx, span, "create", "Failed to store product", err)
		return uuid.Nil, err
	}

	s.productCreatedCounter.Add(ctx, 1)
	s.recordOperation(ctx, "create", resultSuccess)

	s.logger.InfoContext(ctx, "Product created successfully",
		slog.String("product_id", saved.ID.String()),
	)

	span.SetStatus(codes.Ok, "Product created successfully")
	return saved.ID, nil
}

// Update overwrites name, description and price of an existing product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req *dto.ProductDto) error {
	ctx, span := s.tracer.Start(ctx, "ProductService.Update")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id.String()))

	s.logger.InfoContext(ctx, "Updating product",
		slog.String("product_id", id.String()),
	)

	// a missing product wins over a malformed payload
	product, err := s.lookup(ctx, span, id)
	if err != nil {
		s.recordOperation(ctx, "update", resultNotFound)
		return err
	}

	if req == nil {
		err := fmt.Errorf("product payload cannot be nil: %w", domain.ErrInvalidArgument)
		s.fail(ctx, span, "update", "Invalid payload", err)
		return err
	}

	merged := s.mapper.Merge(product, req)

	if _, err := s.repo.Save(ctx, merged); err != nil {
		s.fail(ctx, span, "update", "Failed to store product", err)
		return err
	}

	s.recordOperation(ctx, "update", resultSuccess)

	s.logger.InfoContext(ctx, "Product updated successfully",
		slog.String("product_id", id.String()),
	)

	span.SetStatus(codes.Ok, "Product updated successfully")
	return nil
}

// Delete removes an existing product
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "ProductService.Delete")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id.String()))

	s.logger.InfoContext(ctx, "Deleting product",
		slog.String("product_id", id.String()),
	)

	if _, err := s.lookup(ctx, span, id); err != nil {
		s.recordOperation(ctx, "delete", resultNotFound)
		return err
	}

	s.repo.Delete(ctx, id)

	s.productDeletedCounter.Add(ctx, 1)
	s.recordOperation(ctx, "delete", resultSuccess)

	s.logger.InfoContext(ctx, "Product deleted successfully",
		slog.String("product_id", id.String()),
	)

	span.SetStatus(codes.Ok, "Product deleted successfully")
	return nil
}

// lookup returns the stored product or a NotFoundError, marking the span on miss
func (s *ProductService) lookup(ctx context.Context, span trace.Span, id uuid.UUID) (*domain.Product, error) {
	product, ok := s.repo.FindByID(ctx, id)
	if ok {
		return product, nil
	}

	err := domain.NewNotFoundError(id)
	span.RecordError(err)
	span.SetStatus(codes.Error, "Product not found")
	s.logger.WarnContext(ctx, "Product not found",
		slog.String("product_id", id.String()),
	)
	return nil, err
}

func (s *ProductService) fail(ctx context.Context, span trace.Span, operation, status string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, status)

	level := slog.LevelError
	if errors.Is(err, domain.ErrInvalidArgument) {
		level = slog.LevelWarn
	}
	s.logger.Log(ctx, level, "Product "+operation+" failed",
		slog.String("error", err.Error()),
	)

	s.recordOperation(ctx, operation, resultFailure)
}

func (s *ProductService) recordOperation(ctx context.Context, operation, result string) {
	s.productOperations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", result),
		),
	)
}
