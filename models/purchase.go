package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Purchase struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	AccountID uuid.UUID `gorm:"type:uuid;index;not null"`

	CustomerID  uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductID   uuid.UUID `gorm:"type:uuid;index;not null"`
	Quantity    int       `gorm:"not null;default:1"`
	PurchasedAt time.Time `gorm:"not null;index"`

	Customer Customer `gorm:"foreignKey:CustomerID"`
	Product  Product  `gorm:"foreignKey:ProductID"`

	gorm.Model
}

func (p *Purchase) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.PurchasedAt.IsZero() {
		p.PurchasedAt = time.Now()
	}
	return
}
