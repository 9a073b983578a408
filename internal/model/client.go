package model

import (
	"time"

	"github.com/google/uuid"
)

// Client is the legacy contact directory that predates Customer.
// Rows are hard-deleted and are not referenced by orders or sales.
type Client struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	Email     string    `gorm:"uniqueIndex;not null"`
	Phone     *string
	Address   *string
	Company   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
