package controllers

import (
	"net/http"
	"time"

	"glowdesk-backend/aggregate"
	"glowdesk-backend/config"
	"glowdesk-backend/models"
	"glowdesk-backend/utils"

	"github.com/gin-gonic/gin"
)

// The dashboard shows at most this many upcoming appointments.
const upcomingLimit = 5

// How far ahead the upcoming list looks, in days.
const upcomingHorizonDays = 7

type DashboardOverview struct {
	TotalCustomers    int64                `json:"totalCustomers"`
	TotalProducts     int64                `json:"totalProducts"`
	TotalAppointments int64                `json:"totalAppointments"`
	MonthlyIncome     int64                `json:"monthlyIncome"`
	MonthlyExpense    int64                `json:"monthlyExpense"`
	MonthlyNet        int64                `json:"monthlyNet"`
	TodayScheduled    []models.Appointment `json:"todayScheduled"`
	Upcoming          []models.Appointment `json:"upcoming"`
}

// GetDashboardOverview composes the landing-page numbers: entity counts,
// this month's ledger totals, today's scheduled appointments and the
// next week's upcoming ones.
func GetDashboardOverview(c *gin.Context) {
	account, ok := accountUUID(c)
	if !ok {
		return
	}

	var overview DashboardOverview

	config.DB.Model(&models.Customer{}).Where("account_id = ?", account).Count(&overview.TotalCustomers)
	config.DB.Model(&models.Product{}).Where("account_id = ?", account).Count(&overview.TotalProducts)
	config.DB.Model(&models.Appointment{}).Where("account_id = ?", account).Count(&overview.TotalAppointments)

	now := time.Now()
	firstOfMonth := utils.BeginningOfMonth(now)
	nextMonth := firstOfMonth.AddDate(0, 1, 0)

	var monthEntries []models.FinanceEntry
	if err := config.DB.
		Where("account_id = ? AND date >= ? AND date < ?", account, firstOfMonth, nextMonth).
		Find(&monthEntries).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve finance entries")
		return
	}

	summary := summarize(monthEntries)
	overview.MonthlyIncome = summary.Income
	overview.MonthlyExpense = summary.Expense
	overview.MonthlyNet = summary.Net

	// One fetch covers both appointment views below.
	windowEnd := now.AddDate(0, 0, upcomingHorizonDays+1)
	var appointments []models.Appointment
	if err := config.DB.Preload("Customer").Preload("Product").
		Where("account_id = ? AND scheduled_at >= ? AND scheduled_at < ?",
			account, utils.BeginningOfDay(now), windowEnd).
		Find(&appointments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve appointments")
		return
	}

	timeOf := func(a models.Appointment) time.Time { return a.ScheduledAt }
	isScheduled := func(a models.Appointment) bool { return a.Status == models.AppointmentScheduled }

	overview.TodayScheduled = aggregate.TodayScheduled(appointments, timeOf, isScheduled, now)
	overview.Upcoming = aggregate.UpcomingWindow(appointments, timeOf, isScheduled, now, upcomingHorizonDays, upcomingLimit)

	c.JSON(http.StatusOK, overview)
}
