package infra

import (
	"fmt"
	"time"

	"github.com/jeroroldan/admin-panel-sub001/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewDatabase opens a GORM connection backed by pgx, migrates every model and
// applies the SQL patches GORM tags cannot express.
func NewDatabase(dsn, logLevel string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: NewGormLogger(logLevel),
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the schema. It is idempotent and also used by
// integration tests against a throwaway database.
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto: %w", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Customer{},
		&model.Client{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.Sale{},
		&model.SaleItem{},
		&model.StockMovement{},
		&model.DocumentSequence{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL that struct tags cannot describe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// soft-deleted customers release their email
		{"customers email unique among live rows", `
CREATE UNIQUE INDEX IF NOT EXISTS idx_customers_email_live
    ON customers (LOWER(email))
    WHERE deleted_at IS NULL`},
		{"orders number prefix scans", `
CREATE INDEX IF NOT EXISTS idx_orders_order_number_pattern
    ON orders (order_number text_pattern_ops)`},
		{"sales number prefix scans", `
CREATE INDEX IF NOT EXISTS idx_sales_sale_number_pattern
    ON sales (sale_number text_pattern_ops)`},
		{"products low stock scan", `
CREATE INDEX IF NOT EXISTS idx_products_low_stock
    ON products (stock)
    WHERE is_active = true AND stock <= min_stock`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
