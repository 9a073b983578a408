package repository

import (
	"context"
	"time"

	"github.com/jeroroldan/admin-panel-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderQuery is the typed filter of an order listing. Zero values mean "no
// condition"; To is exclusive.
type OrderQuery struct {
	Status        string
	PaymentStatus string
	CustomerID    *uuid.UUID
	From          *time.Time
	To            *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	FindByNumber(ctx context.Context, number string) (*model.Order, error)
	List(ctx context.Context, q OrderQuery) ([]model.Order, error)

	// Used inside transactions; callers pass the tx instance
	CreateTx(tx *gorm.DB, o *model.Order) error
	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Order, error)
	LatestNumberTx(tx *gorm.DB, prefix string) (string, error)
	UpdateFieldsTx(tx *gorm.DB, id uuid.UUID, fields map[string]any) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

// withRelations preloads the customer (even when soft-deleted) and the line
// items with their products.
func withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Customer", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Preload("Items.Product")
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := withRelations(r.db.WithContext(ctx)).First(&o, "id = ?", id).Error
	return &o, err
}

func (r *orderRepo) FindByNumber(ctx context.Context, number string) (*model.Order, error) {
	var o model.Order
	err := withRelations(r.db.WithContext(ctx)).Where("order_number = ?", number).First(&o).Error
	return &o, err
}

func (r *orderRepo) List(ctx context.Context, q OrderQuery) ([]model.Order, error) {
	db := r.db.WithContext(ctx).Model(&model.Order{})
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}
	if q.PaymentStatus != "" {
		db = db.Where("payment_status = ?", q.PaymentStatus)
	}
	if q.CustomerID != nil {
		db = db.Where("customer_id = ?", *q.CustomerID)
	}
	if q.From != nil {
		db = db.Where("created_at >= ?", *q.From)
	}
	if q.To != nil {
		db = db.Where("created_at < ?", *q.To)
	}

	var orders []model.Order
	err := withRelations(db).Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepo) CreateTx(tx *gorm.DB, o *model.Order) error {
	return tx.Omit("Customer").Create(o).Error
}

// FindForUpdateTx locks the order row and loads its items.
func (r *orderRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&o, "id = ?", id).Error; err != nil {
		return &o, err
	}
	err := tx.Where("order_id = ?", id).Order("created_at ASC, id ASC").Find(&o.Items).Error
	return &o, err
}

// LatestNumberTx returns the highest order number starting
// with prefix, or "" when none exists.
func (r *orderRepo) LatestNumberTx(tx *gorm.DB, prefix string) (string, error) {
	var numbers []string
	err := tx.Model(&model.Order{}).
		Where("order_number LIKE ?", prefix+"%").
		Order("length(order_number) DESC, order_number DESC").
		Limit(1).
		Pluck("order_number", &numbers).Error
	if err != nil || len(numbers) == 0 {
		return "", err
	}
	return numbers[0], nil
}

func (r *orderRepo) UpdateFieldsTx(tx *gorm.DB, id uuid.UUID, fields map[string]any) error {
	res := tx.Model(&model.Order{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *orderRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("order_id = ?", id).Delete(&model.OrderItem{}).Error; err != nil {
		return err
	}
	res := tx.Delete(&model.Order{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// OrderNumberIndex is the unique index GORM creates on orders.order_number.
const OrderNumberIndex = "idx_orders_order_number"
