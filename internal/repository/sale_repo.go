package repository

import (
	"context"
	"time"

	"github.com/jeroroldan/admin-panel-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaleQuery is the typed filter of a sale listing. To is exclusive.
type SaleQuery struct {
	Status        string
	PaymentMethod string
	CustomerID    *uuid.UUID
	From          *time.Time
	To            *time.Time
}

type SaleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context, q SaleQuery) ([]model.Sale, error)

	// Used inside transactions; callers pass the tx instance
	CreateTx(tx *gorm.DB, s *model.Sale) error
	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Sale, error)
	LatestNumberTx(tx *gorm.DB, prefix string) (string, error)
	UpdateFieldsTx(tx *gorm.DB, id uuid.UUID, fields map[string]any) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := withRelations(r.db.WithContext(ctx)).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *saleRepo) List(ctx context.Context, q SaleQuery) ([]model.Sale, error) {
	db := r.db.WithContext(ctx).Model(&model.Sale{})
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}
	if q.PaymentMethod != "" {
		db = db.Where("payment_method = ?", q.PaymentMethod)
	}
	if q.CustomerID != nil {
		db = db.Where("customer_id = ?", *q.CustomerID)
	}
	if q.From != nil {
		db = db.Where("sale_date >= ?", *q.From)
	}
	if q.To != nil {
		db = db.Where("sale_date < ?", *q.To)
	}

	var sales []model.Sale
	err := withRelations(db).Order("sale_date DESC").Find(&sales).Error
	return sales, err
}

func (r *saleRepo) CreateTx(tx *gorm.DB, s *model.Sale) error {
	return tx.Omit("Customer").Create(s).Error
}

func (r *saleRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&s, "id = ?", id).Error; err != nil {
		return &s, err
	}
	err := tx.Where("sale_id = ?", id).Order("created_at ASC, id ASC").Find(&s.Items).Error
	return &s, err
}

func (r *saleRepo) LatestNumberTx(tx *gorm.DB, prefix string) (string, error) {
	var numbers []string
	err := tx.Model(&model.Sale{}).
		Where("sale_number LIKE ?", prefix+"%").
		Order("length(sale_number) DESC, sale_number DESC").
		Limit(1).
		Pluck("sale_number", &numbers).Error
	if err != nil || len(numbers) == 0 {
		return "", err
	}
	return numbers[0], nil
}

func (r *saleRepo) UpdateFieldsTx(tx *gorm.DB, id uuid.UUID, fields map[string]any) error {
	res := tx.Model(&model.Sale{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *saleRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("sale_id = ?", id).Delete(&model.SaleItem{}).Error; err != nil {
		return err
	}
	res := tx.Delete(&model.Sale{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SaleNumberIndex is the unique index GORM creates on sales.sale_number.
const SaleNumberIndex = "idx_sales_sale_number"
