package repository

import (
	"gorm.io/gorm"
)

// SequenceRepository hands out per-(prefix, day) document counters.
type SequenceRepository interface {
	// NextTx increments the counter and returns the new value. floor is the
	// highest value already in use for that day; the result is always above it.
	NextTx(tx *gorm.DB, prefix, day string, floor int) (int, error)
}

type sequenceRepo struct{}

func NewSequenceRepository() SequenceRepository { return &sequenceRepo{} }

// NextTx upserts the counter row. The row lock taken by ON CONFLICT DO UPDATE
// is held until the surrounding transaction ends, which serializes creators
// of the same prefix and day.
func (r *sequenceRepo) NextTx(tx *gorm.DB, prefix, day string, floor int) (int, error) {
	var next int
	err := tx.Raw(`
		INSERT INTO document_sequences (prefix, day, last_value)
		VALUES (?, ?, ?)
		ON CONFLICT (prefix, day)
		DO UPDATE SET last_value = GREATEST(document_sequences.last_value + 1, EXCLUDED.last_value)
		RETURNING last_value`, prefix, day, floor+1).
		Scan(&next).Error
	return next, err
}
