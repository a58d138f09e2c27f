package controllers

import (
	"errors"
	"net/http"
	"time"

	"glowdesk-backend/aggregate"
	"glowdesk-backend/config"
	"glowdesk-backend/models"
	"glowdesk-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateAppointmentInput defines the expected JSON structure for creating an appointment
type CreateAppointmentInput struct {
	CustomerID  uuid.UUID `json:"customerId" binding:"required"`
	ProductID   uuid.UUID `json:"productId" binding:"required"`
	ScheduledAt time.Time `json:"scheduledAt" binding:"required"`
	Memo        string    `json:"memo"`
}

// UpdateAppointmentInput defines the expected JSON structure for updating an appointment
type UpdateAppointmentInput struct {
	CustomerID  *uuid.UUID `json:"customerId"`
	ProductID   *uuid.UUID `json:"productId"`
	ScheduledAt *time.Time `json:"scheduledAt"`
	Memo        *string    `json:"memo"`
}

// TransitionInput names the terminal status an appointment moves to
type TransitionInput struct {
	Status string `json:"status" binding:"required,oneof=completed cancelled no_show"`
}

// CreateAppointment creates a new appointment, validating that the
// customer and product exist in the same account
func CreateAppointment(c *gin.Context) {
	account, ok := accountUUID(c)
	if !ok {
		return
	}

	var input CreateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !referencesExist(c, account, input.CustomerID, input.ProductID) {
		return
	}

	appointment := models.Appointment{
		AccountID:   account,
		CustomerID:  input.CustomerID,
		ProductID:   input.ProductID,
		ScheduledAt: input.ScheduledAt,
		Status:      models.AppointmentScheduled,
		Memo:        input.Memo,
	}

	if err := config.DB.Create(&appointment).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create appointment")
		return
	}

	c.JSON(http.StatusCreated, appointment)
}

// GetAppointments retrieves the account's appointments. Supports
// ?date= (2006-01-02), ?status= and ?customerId= filters, all optional
// and combined with AND.
func GetAppointments(c *gin.Context) {
	account, ok := accountUUID(c)
	if !ok {
		return
	}

	var appointments []models.Appointment
	if err := config.DB.Preload("Customer").Preload("Product").
		Where("account_id = ?", account).
		Order("scheduled_at ASC").
		Find(&appointments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve appointments")
		return
	}

	date := c.Query("date")
	status := c.Query("status")
	customerID := c.Query("customerId")

	appointments = aggregate.Filter(appointments, aggregate.And(
		datePredicate(date),
		statusPredicate(status),
		customerPredicate(customerID),
	))

	c.JSON(http.StatusOK, appointments)
}

func datePredicate(date string) aggregate.Predicate[models.Appointment] {
	if date == "" {
		return nil
	}
	return func(a models.Appointment) bool {
		return a.ScheduledAt.Format(aggregate.ISODate) == date
	}
}

func statusPredicate(status string) aggregate.Predicate[models.Appointment] {
	if status == "" {
		return nil
	}
	return func(a models.Appointment) bool { return a.Status == status }
}

func customerPredicate(customerID string) aggregate.Predicate[models.Appointment] {
	if customerID == "" {
		return nil
	}
	return func(a models.Appointment) bool { return a.CustomerID.String() == customerID }
}

// GetAppointment retrieves a specific appointment by ID
func GetAppointment(c *gin.Context) {
	account, ok := accountUUID(c)
	if !ok {
		return
	}
	appointmentID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var appointment models.Appointment
	if err := config.DB.Preload("Customer").Preload("Product").
		Where("account_id = ? AND id = ?", account, appointmentID).
		First(&appointment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, appointment)
}

// UpdateAppointment updates the reschedulable fields of an appointment.
// Only scheduled appointments can change; terminal ones are read-only.
func UpdateAppointment(c *gin.Context) {
	account, ok := accountUUID(c)
	if !ok {
		return
	}
	appointmentID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input UpdateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var appointment models.Appointment
	if err := config.DB.Where("account_id = ? AND id = ?", account, appointmentID).
		First(&appointment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if appointment.Terminal() {
		utils.RespondWithError(c, http.StatusConflict, "Appointment is no longer editable")
		return
	}

	customerID := appointment.CustomerID
	productID := appointment.ProductID
	if input.CustomerID != nil {
		customerID = *input.CustomerID
	}
	if input.ProductID != nil {
		productID = *input.ProductID
	}
	if !referencesExist(c, account, customerID, productID) {
		return
	}

	appointment.CustomerID = customerID
	appointment.ProductID = productID
	if input.ScheduledAt != nil {
		appointment.ScheduledAt = *input.ScheduledAt
	}
	if input.Memo != nil {
		appointment.Memo = *input.Memo
	}

	if err := config.DB.Save(&appointment).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update appointment")
		return
	}

	c.JSON(http.StatusOK, appointment)
}

// TransitionAppointment moves a scheduled appointment to a terminal
// state. Transitions are one-way: once terminal, no further change.
func TransitionAppointment(c *gin.Context) {
	account, ok := accountUUID(c)
	if !ok {
		return
	}
	appointmentID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input TransitionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var appointment models.Appointment
	if err := config.DB.Where("account_id = ? AND id = ?", account, appointmentID).
		First(&appointment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if appointment.Terminal() {
		utils.RespondWithError(c, http.StatusConflict, "Appointment already "+appointment.Status)
		return
	}

	if err := config.DB.Model(&appointment).Update("status", input.Status).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update appointment status")
		return
	}

	appointment.Status = input.Status
	c.JSON(http.StatusOK, appointment)
}

// GetCalendar buckets the month's appointments by calendar day for the
// calendar view. ?month=2006-01 defaults to the current month.
func GetCalendar(c *gin.Context) {
	account, ok := accountUUID(c)
	if !ok {
		return
	}

	month := time.Now()
	if m := c.Query("month"); m != "" {
		parsed, err := time.ParseInLocation("2006-01", m, time.Local)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid month format, expected YYYY-MM")
			return
		}
		month = parsed
	}

	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0)

	var appointments []models.Appointment
	if err := config.DB.Preload("Customer").Preload("Product").
		Where("account_id = ? AND scheduled_at >= ? AND scheduled_at < ?", account, start, end).
		Find(&appointments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve appointments")
		return
	}

	buckets := aggregate.BucketByDay(appointments, func(a models.Appointment) time.Time {
		return a.ScheduledAt
	}, month)

	c.JSON(http.StatusOK, gin.H{
		"month": start.Format("2006-01"),
		"days":  buckets,
	})
}

// DeleteAppointment soft deletes an appointment
func DeleteAppointment(c *gin.Context) {
	account, ok := accountUUID(c)
	if !ok {
		return
	}
	appointmentID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	result := config.DB.Where("account_id = ? AND id = ?", account, appointmentID).
		Delete(&models.Appointment{})

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete appointment")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Appointment deleted successfully"})
}

// referencesExist checks the customer and product rows the handler is
// about to reference. On failure it has already written the response.
func referencesExist(c *gin.Context, account, customerID, productID uuid.UUID) bool {
	var customer models.Customer
	if err := config.DB.Where("account_id = ? AND id = ?", account, customerID).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return false
	}

	var product models.Product
	if err := config.DB.Where("account_id = ? AND id = ?", account, productID).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Product not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return false
	}

	return true
}
