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

// CreatePurchaseInput defines the expected JSON structure for recording a purchase
type CreatePurchaseInput struct {
	CustomerID  uuid.UUID  `json:"customerId" binding:"required"`
	ProductID   uuid.UUID  `json:"productId" binding:"required"`
	Quantity    int        `json:"quantity" binding:"required,min=1"`
	PurchasedAt *time.Time `json:"purchasedAt"`
}

// UpdatePurchaseInput defines the expected JSON structure for updating a purchase
type UpdatePurchaseInput struct {
	CustomerID  *uuid.UUID `json:"customerId"`
	ProductID   *uuid.UUID `json:"productId"`
	Quantity    *int       `json:"quantity" binding:"omitempty,min=1"`
	PurchasedAt *time.Time `json:"purchasedAt"`
}

// PurchaseResponse carries the derived total alongside the row. The
// total is price times quantity, never stored.
type PurchaseResponse struct {
	models.Purchase
	Total int64 `json:"total"`
}

func purchaseResponse(p models.Purchase) PurchaseResponse {
	return PurchaseResponse{
		Purchase: p,
		Total:    aggregate.Revenue(p.Product.Price, p.Quantity),
	}
}

// CreatePurchase records a purchase for a customer
func CreatePurchase(c *gin.Context) {
	account, ok := accountUUID(c)
	if !ok {
		return
	}

	var input CreatePurchaseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !referencesExist(c, account, input.CustomerID, input.ProductID) {
		return
	}

	purchase := models.Purchase{
		AccountID:  account,
		CustomerID: input.CustomerID,
		ProductID:  input.ProductID,
		Quantity:   input.Quantity,
	}
	if input.PurchasedAt != nil {
		purchase.PurchasedAt = *input.PurchasedAt
	}

	if err := config.DB.Create(&purchase).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record purchase")
		return
	}

	if err := config.DB.Preload("Product").Preload("Customer").
		First(&purchase, "id = ?", purchase.ID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	c.JSON(http.StatusCreated, purchaseResponse(purchase))
}

// GetPurchases retrieves the account's purchases, newest first.
// Supports ?customerId= and ?date= filters.
func GetPurchases(c *gin.Context) {
	account, ok := accountUUID(c)
	if !ok {
		return
	}

	var purchases []models.Purchase
	if err := config.DB.Preload("Customer").Preload("Product").
		Where("account_id = ?", account).
		Order("purchased_at DESC").
		Find(&purchases).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve purchases")
		return
	}

	purchases = aggregate.FieldEquals(purchases, func(p models.Purchase) string {
		return p.CustomerID.String()
	}, c.Query("customerId"))
	purchases = aggregate.DateFilter(purchases, func(p models.Purchase) time.Time {
		return p.PurchasedAt
	}, c.Query("date"))

	out := make([]PurchaseResponse, 0, len(purchases))
	for _, p := range purchases {
		out = append(out, purchaseResponse(p))
	}

	c.JSON(http.StatusOK, out)
}

// GetPurchase retrieves a specific purchase by ID
func GetPurchase(c *gin.Context) {
	account, ok := accountUUID(c)
	if !ok {
		return
	}
	purchaseID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var purchase models.Purchase
	if err := config.DB.Preload("Customer").Preload("Product").
		Where("account_id = ? AND id = ?", account, purchaseID).
		First(&purchase).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Purchase not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, purchaseResponse(purchase))
}

// UpdatePurchase updates an existing purchase
func UpdatePurchase(c *gin.Context) {
	account, ok := accountUUID(c)
	if !ok {
		return
	}
	purchaseID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input UpdatePurchaseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var purchase models.Purchase
	if err := config.DB.Where("account_id = ? AND id = ?", account, purchaseID).
		First(&purchase).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Purchase not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	customerID := purchase.CustomerID
	productID := purchase.ProductID
	if input.CustomerID != nil {
		customerID = *input.CustomerID
	}
	if input.ProductID != nil {
		productID = *input.ProductID
	}
	if !referencesExist(c, account, customerID, productID) {
		return
	}

	purchase.CustomerID = customerID
	purchase.ProductID = productID
	if input.Quantity != nil {
		purchase.Quantity = *input.Quantity
	}
	if input.PurchasedAt != nil {
		purchase.PurchasedAt = *input.PurchasedAt
	}

	if err := config.DB.Save(&purchase).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update purchase")
		return
	}

	if err := config.DB.Preload("Product").Preload("Customer").
		First(&purchase, "id = ?", purchase.ID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	c.JSON(http.StatusOK, purchaseResponse(purchase))
}

// DeletePurchase soft deletes a purchase
func DeletePurchase(c *gin.Context) {
	account, ok := accountUUID(c)
	if !ok {
		return
	}
	purchaseID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	result := config.DB.Where("account_id = ? AND id = ?", account, purchaseID).
		Delete(&models.Purchase{})

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete purchase")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Purchase not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Purchase deleted successfully"})
}
