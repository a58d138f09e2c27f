package controllers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func financeRouter(account uuid.UUID) *gin.Engine {
	r := gin.New()
	r.Use(setAccountMiddleware(account))
	r.GET("/finance", GetFinanceEntries)
	r.GET("/finance/summary", GetFinanceSummary)
	return r
}

func financeRows(account uuid.UUID) *sqlmock.Rows {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)
	return sqlmock.NewRows([]string{"id", "account_id", "date", "type", "title", "amount", "memo"}).
		AddRow(uuid.New().String(), account.String(), day, "income", "Facial package", 50000, "").
		AddRow(uuid.New().String(), account.String(), day.AddDate(0, 0, 1), "expense", "Supplies", 20000, "").
		AddRow(uuid.New().String(), account.String(), day.AddDate(0, 0, 2), "income", "Voucher sale", 10000, "")
}

func TestGetFinanceSummary(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	account := uuid.New()
	mock.ExpectQuery(`SELECT (.+) FROM "finance_entries"`).
		WillReturnRows(financeRows(account))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/finance/summary?start=2024-05-01&end=2024-05-31", nil)
	financeRouter(account).ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)

	var got FinanceSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, int64(60000), got.Income)
	assert.Equal(t, int64(20000), got.Expense)
	assert.Equal(t, int64(40000), got.Net)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetFinanceSummaryEmptyLedger(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	account := uuid.New()
	mock.ExpectQuery(`SELECT (.+) FROM "finance_entries"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/finance/summary", nil)
	financeRouter(account).ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)

	var got FinanceSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, int64(0), got.Income)
	assert.Equal(t, int64(0), got.Expense)
	assert.Equal(t, int64(0), got.Net)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetFinanceSummaryBadDate(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	account := uuid.New()
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/finance/summary?start=05-01-2024", nil)
	financeRouter(account).ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}

func TestGetFinanceEntriesTypeFilter(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	account := uuid.New()
	mock.ExpectQuery(`SELECT (.+) FROM "finance_entries"`).
		WillReturnRows(financeRows(account))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/finance?type=expense", nil)
	financeRouter(account).ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)

	var got struct {
		Entries []map[string]interface{} `json:"entries"`
		Summary FinanceSummary           `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Entries, 1)
	assert.Equal(t, "Supplies", got.Entries[0]["Title"])
	assert.Equal(t, int64(20000), got.Summary.Expense)
	assert.Equal(t, int64(-20000), got.Summary.Net)
	require.NoError(t, mock.ExpectationsWereMet())
}
