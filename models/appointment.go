package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Appointment statuses. Scheduled is the initial state; the other three
// are terminal and never transition back.
const (
	AppointmentScheduled = "scheduled"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
	AppointmentNoShow    = "no_show"
)

type Appointment struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	AccountID uuid.UUID `gorm:"type:uuid;index;not null"`

	CustomerID  uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductID   uuid.UUID `gorm:"type:uuid;index;not null"`
	ScheduledAt time.Time `gorm:"not null;index"`
	Status      string    `gorm:"type:varchar(20);not null;default:'scheduled'"`
	Memo        string    `gorm:"type:text"`

	Customer Customer `gorm:"foreignKey:CustomerID"`
	Product  Product  `gorm:"foreignKey:ProductID"`

	gorm.Model
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}

// Terminal reports whether the appointment has left the scheduled state.
func (a *Appointment) Terminal() bool {
	return a.Status != AppointmentScheduled
}
