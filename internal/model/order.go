package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order statuses. Delivered and cancelled are terminal.
const (
	OrderPending    = "pending"
	OrderConfirmed  = "confirmed"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// Payment statuses, independent of the order status.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

// Order is a customer order. Totals are derived at creation:
// Total = Subtotal + Tax + ShippingCost - Discount.
type Order struct {
	ID                    uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderNumber           string          `gorm:"type:varchar(32);uniqueIndex;not null"`
	CustomerID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status                string          `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentStatus         string          `gorm:"type:varchar(20);not null;default:'pending'"`
	PaymentMethod         *string         `gorm:"type:varchar(20)"`
	Subtotal              decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Tax                   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Discount              decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ShippingCost          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total                 decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Notes                 *string
	ShippingAddress       *string
	EstimatedDeliveryDate *time.Time
	ActualDeliveryDate    *time.Time
	ProcessedByID         *uuid.UUID `gorm:"type:uuid"`
	// StockReleasedAt is set once the deducted stock went back to the ledger
	// (cancellation or removal), so it is never restored twice.
	StockReleasedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Customer *Customer   `gorm:"foreignKey:CustomerID"`
	Items    []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem is an immutable price snapshot of one product line.
type OrderItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity   int             `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt  time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
