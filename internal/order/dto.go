package order

import "github.com/shopspring/decimal"

// CreateOrderRequest turns the caller's cart into an order.
// swagger:model CreateOrderRequest
type CreateOrderRequest struct {
	ShippingAddress string `json:"shipping_address" example:"Calle 10 #43-12, Medellín"`
}

// UpdateStatusRequest is the administrative status change.
// swagger:model UpdateStatusRequest
type UpdateStatusRequest struct {
	Status string `json:"status" example:"CONFIRMED"`
}

// ListResponse wraps order listings.
// swagger:model OrderListResponse
type ListResponse struct {
	Items []Order `json:"items"`
}

// TotalResponse reports a total recomputed from stored items.
// swagger:model OrderTotalResponse
type TotalResponse struct {
	OrderID     string          `json:"order_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}
