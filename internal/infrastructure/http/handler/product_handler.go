package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mrops-br/product-catalog-api/internal/app/dto"
	"github.com/mrops-br/product-catalog-api/internal/domain"
	"github.com/mrops-br/product-catalog-api/internal/infrastructure/http/response"
)

// ProductService is the set of product use cases the handler exposes
type ProductService interface {
	Get(ctx context.Context, id uuid.UUID) (*dto.InfoProductDto, error)
	GetAll(ctx context.Context) ([]*dto.InfoProductDto, error)
	Create(ctx context.Context, req *dto.ProductDto) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.ProductDto) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductHandler handles HTTP requests for products
type ProductHandler struct {
	service ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// CreateProduct handles POST /products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}

	id, err := h.service.Create(r.Context(), req)
	if err != nil {
		response.ServiceError(w, err)
		return
	}

	w.Header().Set("Location", "/products/"+id.String())
	response.JSON(w, http.StatusCreated, dto.CreatedProductResponse{ID: id})
}

// GetProduct handles GET /products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		response.ServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, product)
}

// ListProducts handles GET /products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.GetAll(r.Context())
	if err != nil {
		response.ServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, products)
}

// UpdateProduct handles PUT /products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	req, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}

	if err := h.service.Update(r.Context(), id, req); err != nil {
		response.ServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteProduct handles DELETE /products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		response.ServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) productID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Invalid product id",
			slog.String("product_id", raw),
		)
		response.Error(w, http.StatusBadRequest, fmt.Errorf("invalid product id %q: %w", raw, domain.ErrInvalidArgument))
		return uuid.Nil, false
	}
	return id, true
}

// decodeProduct reads a ProductDto body. A JSON null body decodes to nil and
// is left for the service to reject.
func (h *ProductHandler) decodeProduct(w http.ResponseWriter, r *http.Request) (*dto.ProductDto, bool) {
	var req *dto.ProductDto
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusBadRequest, err)
		return nil, false
	}
	return req, true
}
