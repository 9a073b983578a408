package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name        string          `json:"name"        validate:"required,min=2,max=120"`
	SKU         string          `json:"sku"         validate:"required,min=3,max=40"`
	Description *string         `json:"description" validate:"omitempty,max=1000"`
	Category    string          `json:"category"    validate:"omitempty,max=60"`
	Price       decimal.Decimal `json:"price"`
	CostPrice   decimal.Decimal `json:"costPrice"`
	Stock       int             `json:"stock"       validate:"min=0"`
	MinStock    int             `json:"minStock"    validate:"min=0"`
}

func (r CreateProductRequest) Validate() ValidationResult {
	res := checkStruct(r)
	checkMoney(&res, "price", &r.Price)
	checkMoney(&res, "costPrice", &r.CostPrice)
	return res
}

type UpdateProductRequest struct {
	Name        *string          `json:"name"        validate:"omitempty,min=2,max=120"`
	SKU         *string          `json:"sku"         validate:"omitempty,min=3,max=40"`
	Description *string          `json:"description" validate:"omitempty,max=1000"`
	Category    *string          `json:"category"    validate:"omitempty,max=60"`
	Price       *decimal.Decimal `json:"price"`
	CostPrice   *decimal.Decimal `json:"costPrice"`
	MinStock    *int             `json:"minStock"    validate:"omitempty,min=0"`
	IsActive    *bool            `json:"isActive"`
}

func (r UpdateProductRequest) Validate() ValidationResult {
	res := checkStruct(r)
	checkMoney(&res, "price", r.Price)
	checkMoney(&res, "costPrice", r.CostPrice)
	return res
}

// AdjustStockRequest is a manual stock correction; Delta may be negative.
type AdjustStockRequest struct {
	Delta  int    `json:"delta"  validate:"required"`
	Reason string `json:"reason" validate:"required,min=3,max=200"`
}

func (r AdjustStockRequest) Validate() ValidationResult { return checkStruct(r) }

// ProductFilter is bound from the query string of GET /v1/products.
type ProductFilter struct {
	Category string `form:"category"`
	Active   string `form:"active"` // "true" (default) | "false" | "all"
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	Description *string         `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	CostPrice   decimal.Decimal `json:"costPrice"`
	Stock       int             `json:"stock"`
	MinStock    int             `json:"minStock"`
	IsActive    bool            `json:"isActive"`
	LowStock    bool            `json:"lowStock"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// PriceLookupResponse is returned by the public lookup by SKU.
type PriceLookupResponse struct {
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Price     decimal.Decimal `json:"price"`
	Available int             `json:"available"`
	Category  string          `json:"category"`
}
