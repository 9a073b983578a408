package model

// DocumentSequence holds the last issued number per prefix and calendar day.
// The row is upserted inside the creating transaction, which serializes
// concurrent creators on the same day.
type DocumentSequence struct {
	Prefix    string `gorm:"type:varchar(10);primaryKey"`
	Day       string `gorm:"type:char(8);primaryKey"` // YYYYMMDD
	LastValue int    `gorm:"not null"`
}
