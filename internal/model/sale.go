package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale statuses.
const (
	SalePending   = "pending"
	SaleCompleted = "completed"
	SaleCancelled = "cancelled"
	SaleRefunded  = "refunded"
)

// Payment methods accepted on a sale.
const (
	PaymentMethodCash     = "cash"
	PaymentMethodCard     = "card"
	PaymentMethodTransfer = "transfer"
	PaymentMethodOther    = "other"
)

// Sale is the point-of-sale counterpart of Order: no shipping, settled on the
// spot. Amount = Subtotal + Tax - Discount.
type Sale struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleNumber      string          `gorm:"type:varchar(32);uniqueIndex;not null"`
	CustomerID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Tax             decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Discount        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SaleDate        time.Time       `gorm:"not null;index"`
	Status          string          `gorm:"type:varchar(20);not null;default:'completed'"`
	PaymentMethod   string          `gorm:"type:varchar(20);not null;default:'cash'"`
	Notes           *string
	ProcessedByID   *uuid.UUID `gorm:"type:uuid"`
	StockReleasedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Customer *Customer  `gorm:"foreignKey:CustomerID"`
	Items    []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

// SaleItem is an immutable price snapshot of one product line.
type SaleItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity   int             `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt  time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
