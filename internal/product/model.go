package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	// NUMERIC in Postgres; decimal avoids float rounding on prices.
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CreateProductRequest payload of creation.
// swagger:model CreateProductRequest
type CreateProductRequest struct {
	Code        string          `json:"code"        example:"KB-001"`
	Name        string          `json:"name"        example:"Mecanical Keyboard"`
	Description string          `json:"description" example:"RGB 60%"`
	Category    string          `json:"category"    example:"peripherals"`
	Price       decimal.Decimal `json:"price"       example:"199.90"`
	ImageURL    string          `json:"image_url"`
}

// UpdateProductRequest payload of partial update.
// swagger:model UpdateProductRequest
type UpdateProductRequest struct {
	Code        string           `json:"code"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    string           `json:"image_url"`
}
