package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	// Joined from users for presentation; empty outside of reads.
	OwnerName       string `json:"owner_name,omitempty"`
	OwnerEmail      string `json:"owner_email,omitempty"`
	Status          Status `json:"status"`
	ShippingAddress string `json:"shipping_address"`
	Notes           string `json:"notes,omitempty"`
	// NUMERIC in Postgres. Never set directly: always the sum of the
	// line item subtotals, written by RecomputeTotal.
	Total     decimal.Decimal `json:"total"`
	Items     []Item          `json:"items,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type Item struct {
	ID        string `json:"id"`
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id"`
	// Joined from products for presentation.
	ProductCode string `json:"product_code,omitempty"`
	ProductName string `json:"product_name,omitempty"`
	Quantity    int    `json:"quantity"`
	// Snapshotted when the line is created; does not follow catalog
	// price changes.
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Page is the pagination block list responses carry.
type Page struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}
