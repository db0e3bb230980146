package orders

import (
	"errors"
	"fmt"
)

// Client input errors. Deterministic, never retried server-side.
var (
	ErrMalformedReference = errors.New("product id is not a valid identifier")
	ErrInvalidQuantity    = errors.New("quantity must be a positive integer")
	ErrMissingUser        = errors.New("user id must not be empty")
)

// Infrastructure errors. Callers may retry the whole placement; a timed-out
// placement has an unknown outcome and should be verified via order history.
var (
	ErrTimeout        = errors.New("placement deadline exceeded")
	ErrStorage        = errors.New("storage failure")
	ErrPartialFailure = errors.New("stock decremented but order not recorded")
)

type ProductNotFoundError struct {
	ID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("Product with ID %s not found", e.ID)
}

// InsufficientStockError always reports the actual available stock observed
// at decision time, regardless of which side is larger.
type InsufficientStockError struct {
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient quantity. Available: %d, Requested: %d", e.Available, e.Requested)
}
