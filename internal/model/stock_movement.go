package model

import (
	"time"

	"github.com/google/uuid"
)

// Stock movement types.
const (
	MovementOrder        = "order"
	MovementSale         = "sale"
	MovementOrderRestore = "order_restore"
	MovementSaleRestore  = "sale_restore"
	MovementAdjustment   = "adjustment"
)

// Reference types for the document that triggered a movement.
const (
	ReferenceOrder  = "order"
	ReferenceSale   = "sale"
	ReferenceManual = "manual"
)

// StockMovement is an append-only ledger entry for every stock change.
// (reference_item_id, type) is unique, so the same line item can only be
// deducted or restored once.
type StockMovement struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Type            string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_stock_movements_item_type,where:reference_item_id IS NOT NULL"`
	Quantity        int       `gorm:"not null"` // positive = in, negative = out
	StockBefore     int       `gorm:"not null"`
	StockAfter      int       `gorm:"not null"`
	Reason          string
	ReferenceType   string     `gorm:"type:varchar(20);not null"`
	ReferenceID     *uuid.UUID `gorm:"type:uuid;index"`
	ReferenceItemID *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_stock_movements_item_type,where:reference_item_id IS NOT NULL"`
	CreatedByID     *uuid.UUID `gorm:"type:uuid"`
	CreatedAt       time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
