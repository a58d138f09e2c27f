// services/backup_service.go
package services

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"glowdesk-backend/models"
	"glowdesk-backend/utils"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// BackupService dumps an account's records to timestamped JSON files,
// driven by the per-account auto-backup flag and interval in Settings.
type BackupService struct {
	db  *gorm.DB
	dir string
}

func NewBackupService(db *gorm.DB) *BackupService {
	dir := os.Getenv("BACKUP_DIR")
	if dir == "" {
		dir = "./backups"
	}
	return &BackupService{db: db, dir: dir}
}

// backupData is the content written to a backup file.
type backupData struct {
	AccountID    uuid.UUID             `json:"accountId"`
	Created      time.Time             `json:"created"`
	Customers    []models.Customer     `json:"customers"`
	Products     []models.Product      `json:"products"`
	Appointments []models.Appointment  `json:"appointments"`
	Purchases    []models.Purchase     `json:"purchases"`
	Finance      []models.FinanceEntry `json:"finance"`
}

// StartScheduler checks for due backups every day at 3 AM.
func (s *BackupService) StartScheduler() *cron.Cron {
	c := cron.New()
	c.AddFunc("0 3 * * *", s.RunDueBackups)
	c.Start()
	log.Println("Backup scheduler started")
	return c
}

// RunDueBackups backs up every account whose auto-backup is enabled
// and whose interval has elapsed since the last run.
func (s *BackupService) RunDueBackups() {
	var all []models.Settings
	if err := s.db.Where("auto_backup = ?", true).Find(&all).Error; err != nil {
		log.Printf("Failed to fetch backup settings: %v", err)
		return
	}

	now := time.Now()
	for _, settings := range all {
		if settings.LastBackupAt != nil &&
			utils.DaysBetween(*settings.LastBackupAt, now) < settings.BackupInterval {
			continue
		}
		if err := s.BackupAccount(settings.AccountID); err != nil {
			log.Printf("Account %s: backup failed: %v", settings.AccountID, err)
			continue
		}
		s.db.Model(&models.Settings{}).
			Where("account_id = ?", settings.AccountID).
			Update("last_backup_at", &now)
	}
}

// BackupAccount writes one account's records to a JSON file under the
// backup dir.
func (s *BackupService) BackupAccount(accountID uuid.UUID) error {
	data := backupData{
		AccountID: accountID,
		Created:   time.Now(),
	}

	if err := s.db.Where("account_id = ?", accountID).Find(&data.Customers).Error; err != nil {
		return err
	}
	if err := s.db.Where("account_id = ?", accountID).Find(&data.Products).Error; err != nil {
		return err
	}
	if err := s.db.Where("account_id = ?", accountID).Find(&data.Appointments).Error; err != nil {
		return err
	}
	if err := s.db.Where("account_id = ?", accountID).Find(&data.Purchases).Error; err != nil {
		return err
	}
	if err := s.db.Where("account_id = ?", accountID).Find(&data.Finance).Error; err != nil {
		return err
	}

	raw, err := json.MarshalIndent(&data, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}

	fileName := fmt.Sprintf("backup-%s-%s-%s.json",
		accountID, time.Now().Format("20060102"), utils.GenerateRandomString(6))
	path := filepath.Join(s.dir, fileName)

	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return err
	}

	log.Printf("Account %s: backup written to %s", accountID, path)
	return nil
}
