package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents the product entity
type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       decimal.Decimal
	CreatedAt   time.Time
}

// HasID reports whether the product has been assigned an identifier
func (p *Product) HasID() bool {
	return p.ID != uuid.Nil
}

// Clone returns a copy of the product that shares no state with the receiver
func (p *Product) Clone() *Product {
	c := *p
	return &c
}
