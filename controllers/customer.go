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
	"gorm.io/gorm"
)

// CreateCustomerInput defines the expected JSON structure for creating a customer
type CreateCustomerInput struct {
	Name     string     `json:"name" binding:"required"`
	Phone    string     `json:"phone" binding:"required"`
	Email    *string    `json:"email"`
	Birthday *time.Time `json:"birthday"`
	SkinType string     `json:"skinType"`
	Memo     string     `json:"memo"`
}

// UpdateCustomerInput defines the expected JSON structure for updating a customer
type UpdateCustomerInput struct {
	Name     *string    `json:"name"`
	Phone    *string    `json:"phone"`
	Email    *string    `json:"email"`
	Birthday *time.Time `json:"birthday"`
	SkinType *string    `json:"skinType"`
	Memo     *string    `json:"memo"`
}

// AdjustPointsInput is a signed delta applied to the point balance
type AdjustPointsInput struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason"`
}

// CreateCustomer creates a new customer for the account
func CreateCustomer(c *gin.Context) {
	account, ok := accountUUID(c)
	if !ok {
		return
	}

	var input CreateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}
	if !utils.ValidSkinType(input.SkinType) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid skin type")
		return
	}

	// Check if phone already exists for this account
	var existingCustomer models.Customer
	if err := config.DB.Where("account_id = ? AND phone = ?", account, input.Phone).
		First(&existingCustomer).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Customer with this phone number already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	customer := models.Customer{
		AccountID: account,
		Name:      input.Name,
		Phone:     input.Phone,
		Birthday:  input.Birthday,
		SkinType:  input.SkinType,
		Memo:      input.Memo,
	}
	if input.Email != nil {
		customer.Email = *input.Email
	}

	if err := config.DB.Create(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create customer")
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// GetCustomers retrieves the account's customers. Supports ?q= text
// search over name/phone/email and ?skinType= exact match.
func GetCustomers(c *gin.Context) {
	account, ok := accountUUID(c)
	if !ok {
		return
	}

	var customers []models.Customer
	if err := config.DB.Where("account_id = ?", account).
		Order("name ASC").
		Find(&customers).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve customers")
		return
	}

	customers = aggregate.TextFilter(customers, func(cu models.Customer) []string {
		return []string{cu.Name, cu.Phone, cu.Email}
	}, c.Query("q"))
	customers = aggregate.FieldEquals(customers, func(cu models.Customer) string {
		return cu.SkinType
	}, c.Query("skinType"))

	c.JSON(http.StatusOK, customers)
}

// GetCustomer retrieves a specific customer by ID
func GetCustomer(c *gin.Context) {
	account, ok := accountUUID(c)
	if !ok {
		return
	}
	customerID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var customer models.Customer
	if err := config.DB.Where("account_id = ? AND id = ?", account, customerID).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, customer)
}

// UpdateCustomer updates an existing customer
func UpdateCustomer(c *gin.Context) {
	account, ok := accountUUID(c)
	if !ok {
		return
	}
	customerID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input UpdateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var customer models.Customer
	if err := config.DB.Where("account_id = ? AND id = ?", account, customerID).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		customer.Name = *input.Name
	}
	if input.Phone != nil {
		if !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		if customer.Phone != *input.Phone {
			var existingCustomer models.Customer
			if err := config.DB.Where("account_id = ? AND phone = ?", account, *input.Phone).
				First(&existingCustomer).Error; err == nil {
				utils.RespondWithError(c, http.StatusConflict, "Another customer with this phone number already exists")
				return
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
				return
			}
		}
		customer.Phone = *input.Phone
	}
	if input.Email != nil {
		customer.Email = *input.Email
	}
	if input.Birthday != nil {
		customer.Birthday = input.Birthday
	}
	if input.SkinType != nil {
		if !utils.ValidSkinType(*input.SkinType) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid skin type")
			return
		}
		customer.SkinType = *input.SkinType
	}
	if input.Memo != nil {
		customer.Memo = *input.Memo
	}

	if err := config.DB.Save(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update customer")
		return
	}

	c.JSON(http.StatusOK, customer)
}

// AdjustPoints applies a signed delta to the customer's point balance.
// The balance never goes below zero; an adjustment that would is rejected.
func AdjustPoints(c *gin.Context) {
	account, ok := accountUUID(c)
	if !ok {
		return
	}
	customerID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input AdjustPointsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var customer models.Customer
	if err := config.DB.Where("account_id = ? AND id = ?", account, customerID).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	newBalance := customer.Points + input.Delta
	if newBalance < 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Point balance cannot go negative")
		return
	}

	if err := config.DB.Model(&customer).Update("points", newBalance).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to adjust points")
		return
	}

	customer.Points = newBalance
	c.JSON(http.StatusOK, customer)
}

// GetCustomerAppointments returns the customer's appointment history,
// newest first.
func GetCustomerAppointments(c *gin.Context) {
	account, ok := accountUUID(c)
	if !ok {
		return
	}
	customerID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var customer models.Customer
	if err := config.DB.Where("account_id = ? AND id = ?", account, customerID).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var appointments []models.Appointment
	if err := config.DB.Preload("Product").
		Where("account_id = ? AND customer_id = ?", account, customerID).
		Order("scheduled_at DESC").
		Find(&appointments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve appointments")
		return
	}

	c.JSON(http.StatusOK, appointments)
}

// DeleteCustomer soft deletes a customer
func DeleteCustomer(c *gin.Context) {
	account, ok := accountUUID(c)
	if !ok {
		return
	}
	customerID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	result := config.DB.Where("account_id = ? AND id = ?", account, customerID).
		Delete(&models.Customer{})

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete customer")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}
