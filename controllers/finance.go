package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"glowdesk-backend/aggregate"
	"glowdesk-backend/config"
	"glowdesk-backend/models"
	"glowdesk-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// CreateFinanceEntryInput defines the expected JSON structure for a ledger line
type CreateFinanceEntryInput struct {
	Date   time.Time `json:"date" binding:"required"`
	Type   string    `json:"type" binding:"required,oneof=income expense"`
	Title  string    `json:"title" binding:"required"`
	Amount int64     `json:"amount" binding:"required,min=1"`
	Memo   string    `json:"memo"`
}

// UpdateFinanceEntryInput defines the expected JSON structure for updating a ledger line
type UpdateFinanceEntryInput struct {
	Date   *time.Time `json:"date"`
	Type   *string    `json:"type" binding:"omitempty,oneof=income expense"`
	Title  *string    `json:"title"`
	Amount *int64     `json:"amount" binding:"omitempty,min=1"`
	Memo   *string    `json:"memo"`
}

// FinanceSummary is the aggregated view over a date range
type FinanceSummary struct {
	Income  int64 `json:"income"`
	Expense int64 `json:"expense"`
	Net     int64 `json:"net"`
}

func summarize(entries []models.FinanceEntry) FinanceSummary {
	amount := func(e models.FinanceEntry) int64 { return e.Amount }
	income := aggregate.SumBy(entries, amount, func(e models.FinanceEntry) bool {
		return e.Type == models.FinanceIncome
	})
	expense := aggregate.SumBy(entries, amount, func(e models.FinanceEntry) bool {
		return e.Type == models.FinanceExpense
	})
	return FinanceSummary{Income: income, Expense: expense, Net: income - expense}
}

// CreateFinanceEntry records an income or expense line
func CreateFinanceEntry(c *gin.Context) {
	account, ok := accountUUID(c)
	if !ok {
		return
	}

	var input CreateFinanceEntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	entry := models.FinanceEntry{
		AccountID: account,
		Date:      input.Date,
		Type:      input.Type,
		Title:     input.Title,
		Amount:    input.Amount,
		Memo:      input.Memo,
	}

	if err := config.DB.Create(&entry).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create entry")
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// GetFinanceEntries retrieves ledger lines, newest first. Supports
// ?type=, ?date= and ?q= (title/memo) filters plus a summary of the
// filtered rows.
func GetFinanceEntries(c *gin.Context) {
	account, ok := accountUUID(c)
	if !ok {
		return
	}

	var entries []models.FinanceEntry
	if err := config.DB.Where("account_id = ?", account).
		Order("date DESC").
		Find(&entries).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve entries")
		return
	}

	entries = aggregate.FieldEquals(entries, func(e models.FinanceEntry) string {
		return e.Type
	}, c.Query("type"))
	entries = aggregate.DateFilter(entries, func(e models.FinanceEntry) time.Time {
		return e.Date
	}, c.Query("date"))
	entries = aggregate.TextFilter(entries, func(e models.FinanceEntry) []string {
		return []string{e.Title, e.Memo}
	}, c.Query("q"))

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"summary": summarize(entries),
	})
}

// GetFinanceSummary aggregates the account's ledger over an optional
// [start, end] date range (2006-01-02, inclusive).
func GetFinanceSummary(c *gin.Context) {
	account, ok := accountUUID(c)
	if !ok {
		return
	}

	entries, ok := fetchEntriesInRange(c, account)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, summarize(entries))
}

// ExportFinanceEntries streams the filtered ledger as an xlsx workbook
func ExportFinanceEntries(c *gin.Context) {
	account, ok := accountUUID(c)
	if !ok {
		return
	}

	entries, ok := fetchEntriesInRange(c, account)
	if !ok {
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Ledger"
	f.SetSheetName("Sheet1", sheet)
	headers := []string{"Date", "Type", "Title", "Amount", "Memo"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for row, e := range entries {
		values := []interface{}{
			e.Date.Format(aggregate.ISODate), e.Type, e.Title, e.Amount, e.Memo,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	summary := summarize(entries)
	base := len(entries) + 3
	f.SetCellValue(sheet, fmt.Sprintf("A%d", base), "Income")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", base), summary.Income)
	f.SetCellValue(sheet, fmt.Sprintf("A%d", base+1), "Expense")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", base+1), summary.Expense)
	f.SetCellValue(sheet, fmt.Sprintf("A%d", base+2), "Net")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", base+2), summary.Net)

	filename := "ledger-" + time.Now().Format("20060102") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to write workbook")
	}
}

// UpdateFinanceEntry updates an existing ledger line
func UpdateFinanceEntry(c *gin.Context) {
	account, ok := accountUUID(c)
	if !ok {
		return
	}
	entryID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input UpdateFinanceEntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var entry models.FinanceEntry
	if err := config.DB.Where("account_id = ? AND id = ?", account, entryID).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Entry not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Date != nil {
		entry.Date = *input.Date
	}
	if input.Type != nil {
		entry.Type = *input.Type
	}
	if input.Title != nil {
		entry.Title = *input.Title
	}
	if input.Amount != nil {
		entry.Amount = *input.Amount
	}
	if input.Memo != nil {
		entry.Memo = *input.Memo
	}

	if err := config.DB.Save(&entry).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update entry")
		return
	}

	c.JSON(http.StatusOK, entry)
}

// DeleteFinanceEntry soft deletes a ledger line
func DeleteFinanceEntry(c *gin.Context) {
	account, ok := accountUUID(c)
	if !ok {
		return
	}
	entryID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	result := config.DB.Where("account_id = ? AND id = ?", account, entryID).
		Delete(&models.FinanceEntry{})

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete entry")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Entry not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Entry deleted successfully"})
}

// fetchEntriesInRange reads ?start= and ?end= (2006-01-02, inclusive)
// and returns the matching ledger lines ordered by date. On failure it
// has already written the response.
func fetchEntriesInRange(c *gin.Context, account uuid.UUID) ([]models.FinanceEntry, bool) {
	query := config.DB.Where("account_id = ?", account)

	if start := c.Query("start"); start != "" {
		t, err := time.ParseInLocation(aggregate.ISODate, start, time.Local)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid start date, expected YYYY-MM-DD")
			return nil, false
		}
		query = query.Where("date >= ?", t)
	}
	if end := c.Query("end"); end != "" {
		t, err := time.ParseInLocation(aggregate.ISODate, end, time.Local)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid end date, expected YYYY-MM-DD")
			return nil, false
		}
		query = query.Where("date <= ?", utils.EndOfDay(t))
	}

	var entries []models.FinanceEntry
	if err := query.Order("date ASC").Find(&entries).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve entries")
		return nil, false
	}

	return entries, true
}
