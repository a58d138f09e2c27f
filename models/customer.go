package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Skin types recorded per customer
const (
	SkinDry         = "dry"
	SkinOily        = "oily"
	SkinCombination = "combination"
	SkinSensitive   = "sensitive"
	SkinNormal      = "normal"
)

type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	AccountID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name     string `gorm:"not null"`
	Phone    string `gorm:"not null;uniqueIndex:idx_account_phone,priority:2"`
	Email    string
	Birthday *time.Time
	SkinType string `gorm:"type:varchar(20)"`
	Memo     string `gorm:"type:text"`
	Points   int    `gorm:"default:0"` // loyalty point balance, never negative

	Appointments []Appointment `gorm:"foreignKey:CustomerID"`
	Purchases    []Purchase    `gorm:"foreignKey:CustomerID"`

	gorm.Model
}

func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
