package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer buys through orders and sales. Deletion is soft: DeletedAt hides
// the row from every default query, and the email stays unique only among
// rows that are not deleted (partial index created in infra.NewDatabase).
type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FirstName string    `gorm:"not null"`
	LastName  string    `gorm:"not null"`
	Email     string    `gorm:"not null"`
	Phone     *string
	Address   *string
	City      *string
	Country   *string
	IsActive  bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	Orders []Order `gorm:"foreignKey:CustomerID"`
	Sales  []Sale  `gorm:"foreignKey:CustomerID"`
}

// FullName joins first and last name.
func (c *Customer) FullName() string { return c.FirstName + " " + c.LastName }
