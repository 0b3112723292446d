package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the inventory transaction core.
var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrProductNotFound   = errors.New("product not found")
	ErrProductInactive   = errors.New("product is not active")
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrUnsupportedFormat = errors.New("unsupported import format")

	// ErrBusy marks a transient database lock timeout; callers may retry.
	ErrBusy = errors.New("storage busy, retry")
)

// InsufficientStockError rejects a reservation or an advisory cart check,
// naming the offending product.
type InsufficientStockError struct {
	Product string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s", e.Product)
}

// InvalidStatusError indicates a status value outside the closed set.
type InvalidStatusError struct {
	Status string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid status %q", e.Status)
}

// InvalidTransitionError indicates a legal status used as an illegal next
// state, e.g. any move out of a terminal state.
type InvalidTransitionError struct {
	From, To Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %s to %s", e.From, e.To)
}

// ValidationError carries a caller-fixable input problem for one field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
