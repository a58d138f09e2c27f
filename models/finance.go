package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	FinanceIncome  = "income"
	FinanceExpense = "expense"
)

// FinanceEntry is a single income or expense ledger line.
type FinanceEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	AccountID uuid.UUID `gorm:"type:uuid;index;not null"`

	Date   time.Time `gorm:"not null;index"`
	Type   string    `gorm:"type:varchar(10);not null"`
	Title  string    `gorm:"not null"`
	Amount int64     `gorm:"not null"` // minor currency units
	Memo   string    `gorm:"type:text"`

	gorm.Model
}

func (f *FinanceEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return
}
