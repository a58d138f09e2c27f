package controllers

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"glowdesk-backend/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authRouter() *gin.Engine {
	r := gin.New()
	r.POST("/auth/login", Login)
	return r
}

func TestLoginWrongPassword(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	hash, err := utils.HashPassword("correct-password")
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password", "name"}).
			AddRow(uuid.New().String(), "owner@example.com", hash, "Owner"))

	body := `{"email":"owner@example.com","password":"wrong-password"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	authRouter().ServeHTTP(w, req)

	assert.Equal(t, 401, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginUnknownEmail(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	body := `{"email":"nobody@example.com","password":"whatever"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	authRouter().ServeHTTP(w, req)

	assert.Equal(t, 401, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginMissingFields(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewBufferString(`{"email":"a@b.c"}`))
	req.Header.Set("Content-Type", "application/json")
	authRouter().ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}
