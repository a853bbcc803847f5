package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductDto is the create/update payload for a product
type ProductDto struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// InfoProductDto is the read-only projection of a stored product
type InfoProductDto struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// CreatedProductResponse is returned after a product has been created
type CreatedProductResponse struct {
	ID uuid.UUID `json:"id"`
}
