package repository

import (
	"context"

	"github.com/jeroroldan/admin-panel-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// maxMovements caps a ledger listing; the ledger is append-only and grows
// with every order line.
const maxMovements = 500

// StockMovementQuery defines filters for listing stock movements.
type StockMovementQuery struct {
	ProductID   *uuid.UUID
	Type        string
	ReferenceID *uuid.UUID
}

type StockMovementRepository interface {
	CreateTx(tx *gorm.DB, m *model.StockMovement) error
	List(ctx context.Context, q StockMovementQuery) ([]model.StockMovement, error)
}

type stockMovementRepo struct{ db *gorm.DB }

func NewStockMovementRepository(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepo{db: db}
}

func (r *stockMovementRepo) CreateTx(tx *gorm.DB, m *model.StockMovement) error {
	return tx.Create(m).Error
}

func (r *stockMovementRepo) List(ctx context.Context, q StockMovementQuery) ([]model.StockMovement, error) {
	db := r.db.WithContext(ctx).Model(&model.StockMovement{}).Preload("Product")
	if q.ProductID != nil {
		db = db.Where("product_id = ?", *q.ProductID)
	}
	if q.Type != "" {
		db = db.Where("type = ?", q.Type)
	}
	if q.ReferenceID != nil {
		db = db.Where("reference_id = ?", *q.ReferenceID)
	}

	var movements []model.StockMovement
	err := db.Order("created_at DESC").Limit(maxMovements).Find(&movements).Error
	return movements, err
}
