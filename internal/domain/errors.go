package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidArgument = errors.New("invalid argument")
)

// NotFoundError is returned when an operation targets an id that is not stored
type NotFoundError struct {
	ID uuid.UUID
}

// NewNotFoundError creates a NotFoundError for the given id
func NewNotFoundError(id uuid.UUID) *NotFoundError {
	return &NotFoundError{ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product with id: %s not found", e.ID)
}

// Is makes errors.Is(err, ErrProductNotFound) match any NotFoundError
func (e *NotFoundError) Is(target error) bool {
	return target == ErrProductNotFound
}
