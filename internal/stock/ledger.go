// Package stock owns the per-product available quantity. Every change to a
// product's stock counter goes through a Ledger.
package stock

import (
	"context"
	"errors"
)

var (
	ErrInsufficientStock = errors.New("stock: insufficient stock")
	ErrInvalidQuantity   = errors.New("stock: invalid quantity")
	ErrProductNotFound   = errors.New("stock: product not found")
)

// Ledger is the only legitimate path for stock mutation.
//
// CheckAvailable is advisory and may be stale as soon as it returns. Decrease
// is the authoritative check: it verifies and subtracts in one indivisible step
// and fails with ErrInsufficientStock without mutating anything.
type Ledger interface {
	CheckAvailable(ctx context.Context, productID string, qty int) (bool, error)
	Available(ctx context.Context, productID string) (int, error)
	Decrease(ctx context.Context, productID string, qty int) error
	Increase(ctx context.Context, productID string, qty int) error
	SetAbsolute(ctx context.Context, productID string, qty int) error
}

// ValidateDelta rejects quantities that cannot be moved in or out of stock.
func ValidateDelta(qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}

// ValidateLevel rejects absolute stock levels below zero.
func ValidateLevel(qty int) error {
	if qty < 0 {
		return ErrInvalidQuantity
	}
	return nil
}
