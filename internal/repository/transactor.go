package repository

import (
	"context"

	"gorm.io/gorm"
)

// Transactor opens a unit of work. Repositories expose *Tx variants that
// receive the tx handle passed to fn.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gormTransactor struct{ db *gorm.DB }

func NewTransactor(db *gorm.DB) Transactor { return &gormTransactor{db: db} }

// WithinTx commits when fn returns nil and rolls back otherwise.
func (t *gormTransactor) WithinTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return t.db.WithContext(ctx).Transaction(fn)
}
