package model

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock quantity")
	ErrInvalidArgument   = errors.New("invalid argument")
)

var (
	ErrProductNotFound  = errors.WithMessage(ErrNotFound, "product")
	ErrVendorNotFound   = errors.WithMessage(ErrNotFound, "vendor")
	ErrCustomerNotFound = errors.WithMessage(ErrNotFound, "customer")

	ErrInvalidQuantity = errors.WithMessage(ErrInvalidArgument, "quantity must be a positive number")
	ErrNegativePrice   = errors.WithMessage(ErrInvalidArgument, "price cannot be negative")
	ErrNegativeStock   = errors.WithMessage(ErrInvalidArgument, "stock quantity cannot be negative")
	ErrStockOverflow   = errors.WithMessage(ErrInvalidArgument, "stock quantity exceeds the supported maximum")
	ErrUnknownCategory = errors.WithMessage(ErrInvalidArgument, "unknown category")
)

// InsufficientStockError carries the stock that was available when the purchase was rejected.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: requested %d, available %d", ErrInsufficientStock, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
