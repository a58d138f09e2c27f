package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ProductSingle  = "single"
	ProductVoucher = "voucher"

	ProductActive   = "active"
	ProductInactive = "inactive"
)

type Product struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	AccountID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name        string `gorm:"not null"`
	Description string `gorm:"type:text"`
	Price       int64  `gorm:"not null"` // minor currency units
	Type        string `gorm:"type:varchar(20);not null;default:'single'"`
	Count       *int   // redemption count, set only for vouchers
	Status      string `gorm:"type:varchar(20);not null;default:'active'"`

	Appointments []Appointment `gorm:"foreignKey:ProductID"`
	Purchases    []Purchase    `gorm:"foreignKey:ProductID"`

	gorm.Model
}

func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
