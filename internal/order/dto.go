package order

import "github.com/shopspring/decimal"

// CreateOrderLine payload of an initial product line.
// swagger:model CreateOrderLine
type CreateOrderLine struct {
	ProductID string           `json:"product_id" example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	Quantity  int              `json:"quantity"   example:"2"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty" example:"10.00"`
}

// CreateOrderRequest payload of order creation.
// swagger:model CreateOrderRequest
type CreateOrderRequest struct {
	OwnerID         string            `json:"owner_id" example:"b2f5ff47-2b1e-4f22-8a96-5f3c1f2f2e7b"`
	ShippingAddress string            `json:"shipping_address" example:"Calle Falsa 123"`
	Notes           string            `json:"notes,omitempty"`
	Products        []CreateOrderLine `json:"products,omitempty"`
}

// UpdateOrderRequest payload of a header edit; absent fields keep their
// value.
// swagger:model UpdateOrderRequest
type UpdateOrderRequest struct {
	ShippingAddress *string `json:"shipping_address"`
	Notes           *string `json:"notes"`
}

// ChangeStatusRequest payload of a status change.
// swagger:model ChangeStatusRequest
type ChangeStatusRequest struct {
	Status string `json:"status" example:"processing"`
}

// AddItemRequest payload of a line addition (merge-or-create).
// swagger:model AddItemRequest
type AddItemRequest struct {
	ProductID string           `json:"product_id"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// UpdateItemRequest payload of an absolute quantity set.
// swagger:model UpdateItemRequest
type UpdateItemRequest struct {
	LineItemID string `json:"line_item_id"`
	Quantity   int    `json:"quantity"`
}

// RemoveItemRequest payload of a line removal.
// swagger:model RemoveItemRequest
type RemoveItemRequest struct {
	LineItemID string `json:"line_item_id"`
}
