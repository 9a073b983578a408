package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateSaleRequest struct {
	CustomerID    *string           `json:"customerId"    validate:"omitempty,uuid"`
	CustomerEmail *string           `json:"customerEmail" validate:"omitempty,email"`
	Items         []LineItemRequest `json:"items"         validate:"dive"`
	Tax           *decimal.Decimal  `json:"tax"`
	Discount      *decimal.Decimal  `json:"discount"`
	PaymentMethod string            `json:"paymentMethod" validate:"omitempty,oneof=cash card transfer other"`
	Status        string            `json:"status"        validate:"omitempty,oneof=pending completed"`
	SaleDate      *time.Time        `json:"saleDate"`
	Notes         *string           `json:"notes"         validate:"omitempty,max=1000"`
}

// Validate checks the request shape before the create workflow starts.
func (r CreateSaleRequest) Validate() ValidationResult {
	res := checkStruct(r)
	validateCustomerRef(&res, r.CustomerID, r.CustomerEmail)
	validateLineItems(&res, r.Items)
	checkMoney(&res, "tax", r.Tax)
	checkMoney(&res, "discount", r.Discount)
	return res
}

type UpdateSaleStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending completed cancelled refunded"`
}

func (r UpdateSaleStatusRequest) Validate() ValidationResult { return checkStruct(r) }

// SaleFilter is bound from the query string of GET /v1/sales.
type SaleFilter struct {
	Status        string `form:"status"`
	PaymentMethod string `form:"paymentMethod"`
	CustomerID    string `form:"customerId"`
	From          string `form:"from"` // YYYY-MM-DD, inclusive
	To            string `form:"to"`   // YYYY-MM-DD, inclusive
}

type SaleResponse struct {
	ID            string             `json:"id"`
	SaleNumber    string             `json:"saleNumber"`
	CustomerID    string             `json:"customerId"`
	Customer      *CustomerSummary   `json:"customer,omitempty"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Tax           decimal.Decimal    `json:"tax"`
	Discount      decimal.Decimal    `json:"discount"`
	Amount        decimal.Decimal    `json:"amount"`
	SaleDate      time.Time          `json:"saleDate"`
	Status        string             `json:"status"`
	PaymentMethod string             `json:"paymentMethod"`
	Notes         *string            `json:"notes"`
	ProcessedByID *string            `json:"processedById"`
	Items         []LineItemResponse `json:"items"`
	CreatedAt     time.Time          `json:"createdAt"`
}
