package controllers

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"glowdesk-backend/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appointmentRouter(account uuid.UUID) *gin.Engine {
	r := gin.New()
	r.Use(setAccountMiddleware(account))
	r.GET("/appointments", GetAppointments)
	r.GET("/appointments/calendar", GetCalendar)
	r.PUT("/appointments/:id/status", TransitionAppointment)
	return r
}

type driverValue = driver.Value

func appointmentRows(rows ...[]driverValue) *sqlmock.Rows {
	out := sqlmock.NewRows([]string{"id", "account_id", "customer_id", "product_id", "scheduled_at", "status", "memo"})
	for _, r := range rows {
		out.AddRow(r...)
	}
	return out
}

func TestTransitionScheduledToCompleted(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	account := uuid.New()
	appointmentID := uuid.New()
	mock.ExpectQuery(`SELECT (.+) FROM "appointments"`).
		WillReturnRows(appointmentRows([]driverValue{
			appointmentID.String(), account.String(), uuid.New().String(), uuid.New().String(),
			time.Now(), models.AppointmentScheduled, "",
		}))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "appointments"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	body := `{"status":"completed"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/appointments/"+appointmentID.String()+"/status", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	appointmentRouter(account).ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "completed", got["Status"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionFromTerminalRejected(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	account := uuid.New()
	appointmentID := uuid.New()
	mock.ExpectQuery(`SELECT (.+) FROM "appointments"`).
		WillReturnRows(appointmentRows([]driverValue{
			appointmentID.String(), account.String(), uuid.New().String(), uuid.New().String(),
			time.Now(), models.AppointmentCompleted, "",
		}))

	body := `{"status":"cancelled"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/appointments/"+appointmentID.String()+"/status", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	appointmentRouter(account).ServeHTTP(w, req)

	// one-way transitions: no UPDATE is issued
	assert.Equal(t, 409, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionBackToScheduledRejectedByBinding(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	account := uuid.New()
	body := `{"status":"scheduled"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/appointments/"+uuid.New().String()+"/status", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	appointmentRouter(account).ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}

func TestGetAppointmentsComposedFilters(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	account := uuid.New()
	customerID := uuid.New()
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)

	mock.ExpectQuery(`SELECT (.+) FROM "appointments"`).
		WillReturnRows(appointmentRows(
			[]driverValue{uuid.New().String(), account.String(), customerID.String(), uuid.New().String(),
				day.Add(10 * time.Hour), models.AppointmentScheduled, "match"},
			[]driverValue{uuid.New().String(), account.String(), customerID.String(), uuid.New().String(),
				day.Add(14 * time.Hour), models.AppointmentCompleted, "wrong status"},
			[]driverValue{uuid.New().String(), account.String(), uuid.New().String(), uuid.New().String(),
				day.Add(11 * time.Hour), models.AppointmentScheduled, "wrong customer"},
			[]driverValue{uuid.New().String(), account.String(), customerID.String(), uuid.New().String(),
				day.AddDate(0, 0, 1), models.AppointmentScheduled, "wrong day"},
		))
	// preloads for customers and products
	mock.ExpectQuery(`SELECT (.+) FROM "customers"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT (.+) FROM "products"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET",
		"/appointments?date=2024-05-01&status=scheduled&customerId="+customerID.String(), nil)
	appointmentRouter(account).ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "match", got[0]["Memo"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCalendarBucketsByDay(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	account := uuid.New()
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)

	mock.ExpectQuery(`SELECT (.+) FROM "appointments"`).
		WillReturnRows(appointmentRows(
			[]driverValue{uuid.New().String(), account.String(), uuid.New().String(), uuid.New().String(),
				day.Add(16 * time.Hour), models.AppointmentScheduled, "late"},
			[]driverValue{uuid.New().String(), account.String(), uuid.New().String(), uuid.New().String(),
				day.Add(9 * time.Hour), models.AppointmentScheduled, "early"},
		))
	mock.ExpectQuery(`SELECT (.+) FROM "customers"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT (.+) FROM "products"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/appointments/calendar?month=2024-05", nil)
	appointmentRouter(account).ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)

	var got struct {
		Month string                          `json:"month"`
		Days  map[string][]models.Appointment `json:"days"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "2024-05", got.Month)
	require.Len(t, got.Days, 1)

	bucket := got.Days["2024-05-01"]
	require.Len(t, bucket, 2)
	assert.Equal(t, "early", bucket[0].Memo)
	assert.Equal(t, "late", bucket[1].Memo)
	require.NoError(t, mock.ExpectationsWereMet())
}
