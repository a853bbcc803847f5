package domain

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository defines the contract for product storage.
// Implementations never generate identifiers.
type ProductRepository interface {
	// FindByID returns the stored product, or false when the id is absent.
	FindByID(ctx context.Context, id uuid.UUID) (*Product, bool)
	// FindAll returns a snapshot of every stored product in no particular order.
	FindAll(ctx context.Context) []*Product
	// Save inserts or overwrites the product keyed by its ID.
	Save(ctx context.Context, product *Product) (*Product, error)
	// Delete removes the product if present. Missing ids are ignored.
	Delete(ctx context.Context, id uuid.UUID)
	Count(ctx context.Context) int
}
