// services/reminder_service.go
package services

import (
	"fmt"
	"log"
	"os"
	"time"

	"glowdesk-backend/models"
	"glowdesk-backend/utils"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

// ReminderService texts customers the day before their scheduled
// appointment.
type ReminderService struct {
	db     *gorm.DB
	client *twilio.RestClient
	from   string
}

func NewReminderService(db *gorm.DB) *ReminderService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	var client *twilio.RestClient
	if accountSid != "" && authToken != "" {
		client = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		})
	}

	return &ReminderService{
		db:     db,
		client: client,
		from:   os.Getenv("TWILIO_PHONE_NUMBER"),
	}
}

// StartScheduler runs the reminder pass every day at 9 AM.
func (s *ReminderService) StartScheduler() *cron.Cron {
	c := cron.New()
	c.AddFunc("0 9 * * *", s.SendDailyReminders)
	c.Start()
	log.Println("Reminder scheduler started")
	return c
}

func (s *ReminderService) SendDailyReminders() {
	if s.client == nil {
		log.Println("Twilio not configured, skipping appointment reminders")
		return
	}

	log.Println("Starting daily reminder processing...")

	var accounts []models.User
	if err := s.db.Find(&accounts, "is_active = ?", true).Error; err != nil {
		log.Printf("Failed to fetch accounts: %v", err)
		return
	}

	for _, account := range accounts {
		s.ProcessAccountReminders(account.ID)
	}

	log.Println("Daily reminder processing completed")
}

// ProcessAccountReminders texts every customer with a scheduled
// appointment tomorrow.
func (s *ReminderService) ProcessAccountReminders(accountID uuid.UUID) {
	tomorrow := utils.BeginningOfDay(time.Now()).AddDate(0, 0, 1)
	dayAfter := tomorrow.AddDate(0, 0, 1)

	var appointments []models.Appointment
	err := s.db.Preload("Customer").Preload("Product").
		Where("account_id = ? AND status = ? AND scheduled_at >= ? AND scheduled_at < ?",
			accountID, models.AppointmentScheduled, tomorrow, dayAfter).
		Find(&appointments).Error
	if err != nil {
		log.Printf("Account %s: failed to fetch tomorrow's appointments: %v", accountID, err)
		return
	}

	var settings models.Settings
	businessName := "your salon"
	if err := s.db.Where("account_id = ?", accountID).First(&settings).Error; err == nil &&
		settings.BusinessName != "" {
		businessName = settings.BusinessName
	}

	for _, appointment := range appointments {
		if appointment.Customer.Phone == "" {
			continue
		}

		message := fmt.Sprintf("Hi %s, this is a reminder of your %s appointment at %s tomorrow at %s.",
			appointment.Customer.Name,
			appointment.Product.Name,
			businessName,
			appointment.ScheduledAt.Format("15:04"))

		params := &twilioApi.CreateMessageParams{}
		params.SetTo(appointment.Customer.Phone)
		params.SetFrom(s.from)
		params.SetBody(message)

		if _, err := s.client.Api.CreateMessage(params); err != nil {
			log.Printf("Account %s: failed to send reminder for appointment %s: %v",
				accountID, appointment.ID, err)
			continue
		}
	}
}
