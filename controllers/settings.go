package controllers

import (
	"errors"
	"net/http"

	"glowdesk-backend/config"
	"glowdesk-backend/models"
	"glowdesk-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UpdateSettingsInput defines the expected JSON structure for updating settings
type UpdateSettingsInput struct {
	BusinessName    *string      `json:"businessName"`
	BusinessPhone   *string      `json:"businessPhone"`
	BusinessAddress *string      `json:"businessAddress"`
	WorkingHours    models.JSONB `json:"workingHours"`
	DefaultDuration *int         `json:"defaultDuration" binding:"omitempty,min=30,max=180"`
	AutoBackup      *bool        `json:"autoBackup"`
	BackupInterval  *int         `json:"backupInterval" binding:"omitempty,min=1,max=30"`
	Language        *string      `json:"language"`
}

// GetSettings returns the account's settings row
func GetSettings(c *gin.Context) {
	account, ok := accountUUID(c)
	if !ok {
		return
	}

	var settings models.Settings
	if err := config.DB.Where("account_id = ?", account).First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Settings not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, settings)
}

// UpdateSettings updates the account's settings row
func UpdateSettings(c *gin.Context) {
	account, ok := accountUUID(c)
	if !ok {
		return
	}

	var input UpdateSettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var settings models.Settings
	if err := config.DB.Where("account_id = ?", account).First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Settings not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.BusinessName != nil {
		settings.BusinessName = *input.BusinessName
	}
	if input.BusinessPhone != nil {
		if *input.BusinessPhone != "" && !utils.ValidatePhone(*input.BusinessPhone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		settings.BusinessPhone = *input.BusinessPhone
	}
	if input.BusinessAddress != nil {
		settings.BusinessAddress = *input.BusinessAddress
	}
	if input.WorkingHours != nil {
		settings.WorkingHours = input.WorkingHours
	}
	if input.DefaultDuration != nil {
		settings.DefaultDuration = *input.DefaultDuration
	}
	if input.AutoBackup != nil {
		settings.AutoBackup = *input.AutoBackup
	}
	if input.BackupInterval != nil {
		settings.BackupInterval = *input.BackupInterval
	}
	if input.Language != nil {
		settings.Language = *input.Language
	}

	if err := config.DB.Save(&settings).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update settings")
		return
	}

	c.JSON(http.StatusOK, settings)
}
