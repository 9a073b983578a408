package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateOrderRequest struct {
	CustomerID            *string           `json:"customerId"      validate:"omitempty,uuid"`
	CustomerEmail         *string           `json:"customerEmail"   validate:"omitempty,email"`
	Items                 []LineItemRequest `json:"items"           validate:"dive"`
	Tax                   *decimal.Decimal  `json:"tax"`
	Discount              *decimal.Decimal  `json:"discount"`
	ShippingCost          *decimal.Decimal  `json:"shippingCost"`
	PaymentMethod         *string           `json:"paymentMethod"   validate:"omitempty,oneof=cash card transfer other"`
	Notes                 *string           `json:"notes"           validate:"omitempty,max=1000"`
	ShippingAddress       *string           `json:"shippingAddress" validate:"omitempty,max=500"`
	EstimatedDeliveryDate *time.Time        `json:"estimatedDeliveryDate"`
}

// Validate checks the request shape before the create workflow starts.
func (r CreateOrderRequest) Validate() ValidationResult {
	res := checkStruct(r)
	validateCustomerRef(&res, r.CustomerID, r.CustomerEmail)
	validateLineItems(&res, r.Items)
	checkMoney(&res, "tax", r.Tax)
	checkMoney(&res, "discount", r.Discount)
	checkMoney(&res, "shippingCost", r.ShippingCost)
	return res
}

type UpdateOrderRequest struct {
	Notes                 *string    `json:"notes"           validate:"omitempty,max=1000"`
	ShippingAddress       *string    `json:"shippingAddress" validate:"omitempty,max=500"`
	PaymentMethod         *string    `json:"paymentMethod"   validate:"omitempty,oneof=cash card transfer other"`
	EstimatedDeliveryDate *time.Time `json:"estimatedDeliveryDate"`
}

func (r UpdateOrderRequest) Validate() ValidationResult { return checkStruct(r) }

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed processing shipped delivered cancelled"`
}

func (r UpdateOrderStatusRequest) Validate() ValidationResult { return checkStruct(r) }

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus" validate:"required,oneof=pending paid failed refunded"`
}

func (r UpdatePaymentStatusRequest) Validate() ValidationResult { return checkStruct(r) }

// ─── Filter ──────────────────────────────────────────────────────────────────

// OrderFilter is bound from the query string of GET /v1/orders.
// Every field is an equality or range condition; empty means "no condition".
type OrderFilter struct {
	Status        string `form:"status"`
	PaymentStatus string `form:"paymentStatus"`
	CustomerID    string `form:"customerId"`
	From          string `form:"from"` // YYYY-MM-DD, inclusive
	To            string `form:"to"`   // YYYY-MM-DD, inclusive
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type OrderResponse struct {
	ID                    string             `json:"id"`
	OrderNumber           string             `json:"orderNumber"`
	CustomerID            string             `json:"customerId"`
	Customer              *CustomerSummary   `json:"customer,omitempty"`
	Status                string             `json:"status"`
	PaymentStatus         string             `json:"paymentStatus"`
	PaymentMethod         *string            `json:"paymentMethod"`
	Subtotal              decimal.Decimal    `json:"subtotal"`
	Tax                   decimal.Decimal    `json:"tax"`
	Discount              decimal.Decimal    `json:"discount"`
	ShippingCost          decimal.Decimal    `json:"shippingCost"`
	Total                 decimal.Decimal    `json:"total"`
	Notes                 *string            `json:"notes"`
	ShippingAddress       *string            `json:"shippingAddress"`
	EstimatedDeliveryDate *time.Time         `json:"estimatedDeliveryDate"`
	ActualDeliveryDate    *time.Time         `json:"actualDeliveryDate"`
	ProcessedByID         *string            `json:"processedById"`
	Items                 []LineItemResponse `json:"items"`
	CreatedAt             time.Time          `json:"createdAt"`
	UpdatedAt             time.Time          `json:"updatedAt"`
}
