package product

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	// NUMERIC in Postgres, never a float
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// HTTPError represents a standard error in JSON.
// swagger:model
type HTTPError struct {
	// Error message
	// example: not found
	Error string `json:"error"`
}

// ListResponse represents the paginated response of products.
// swagger:model
type ListResponse struct {
	Q      string    `json:"q,omitempty"`
	Limit  int       `json:"limit"`
	Offset int       `json:"offset"`
	Items  []Product `json:"items"`
}

// CreateProductRequest payload of creation.
// swagger:model CreateProductRequest
type CreateProductRequest struct {
	Name        string `json:"name"        example:"Mechanical Keyboard"`
	Description string `json:"description" example:"RGB 60%"`
	Price       string `json:"price"       example:"199.90"`
	Stock       int    `json:"stock"       example:"10"`
}

// UpdateProductRequest payload of partial update. Stock is not part of it:
// the counter only moves through the ledger.
// swagger:model UpdateProductRequest
type UpdateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
}

// SetStockRequest is the administrative stock override.
// swagger:model SetStockRequest
type SetStockRequest struct {
	Stock *int `json:"stock" example:"25"`
}

// Availability answers whether qty units can currently be ordered.
// swagger:model Availability
type Availability struct {
	ProductID string `json:"product_id"`
	Requested int    `json:"requested"`
	Available bool   `json:"available"`
}

var ErrInvalidPrice = errors.New("price must be a non-negative decimal")

// ParsePrice accepts prices such as "199.90" and rejects negatives and more
// than two fractional digits.
func ParsePrice(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() || d.Exponent() < -2 && !d.Equal(d.Round(2)) {
		return decimal.Decimal{}, ErrInvalidPrice
	}
	return d.Round(2), nil
}
