package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sellable item. Stock is the stock ledger balance and is only
// mutated through StockService so that every change leaves a StockMovement.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"index;not null"`
	SKU         string    `gorm:"column:sku;uniqueIndex;not null"`
	Description *string
	Category    string          `gorm:"not null;default:'general'"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CostPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Stock       int             `gorm:"not null;default:0;check:stock >= 0"`
	MinStock    int             `gorm:"not null;default:0"`
	IsActive    bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsLowStock reports whether the product reached its reorder threshold.
func (p *Product) IsLowStock() bool { return p.Stock <= p.MinStock }
