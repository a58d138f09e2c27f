package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Settings is a singleton row per account.
type Settings struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	AccountID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`

	BusinessName    string
	BusinessPhone   string
	BusinessAddress string
	WorkingHours    JSONB `gorm:"type:jsonb;default:'{}'"`

	DefaultDuration int `gorm:"default:60"` // minutes, 30..180

	AutoBackup     bool `gorm:"default:false"`
	BackupInterval int  `gorm:"default:7"` // days, 1..30
	LastBackupAt   *time.Time

	Language string `gorm:"type:varchar(10);default:'ko'"`

	gorm.Model
}

func (s *Settings) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// DefaultWorkingHours mirrors the hours pre-filled on registration.
func DefaultWorkingHours() JSONB {
	day := func(open, close string, closed bool) map[string]interface{} {
		return map[string]interface{}{"open": open, "close": close, "closed": closed}
	}
	return JSONB{
		"monday":    day("10:00", "20:00", false),
		"tuesday":   day("10:00", "20:00", false),
		"wednesday": day("10:00", "20:00", false),
		"thursday":  day("10:00", "20:00", false),
		"friday":    day("10:00", "20:00", false),
		"saturday":  day("10:00", "18:00", false),
		"sunday":    day("10:00", "18:00", true),
	}
}
