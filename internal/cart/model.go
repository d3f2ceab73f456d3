package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// Line is one product in a user's cart. There is at most one line per
// (UserID, ProductID).
type Line struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PricedLine joins a line with the live catalog price. For display only.
type PricedLine struct {
	Line
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// View is the whole cart as shown to its owner.
// swagger:model CartView
type View struct {
	Lines []PricedLine    `json:"lines"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// AddItemRequest adds qty of a product, merging with an existing line.
// swagger:model AddItemRequest
type AddItemRequest struct {
	ProductID string `json:"product_id" example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	Quantity  int    `json:"quantity"   example:"2"`
}

// UpdateItemRequest sets the quantity of an existing line.
// swagger:model UpdateItemRequest
type UpdateItemRequest struct {
	Quantity int `json:"quantity" example:"3"`
}
