package controllers

import (
	"errors"
	"net/http"

	"glowdesk-backend/aggregate"
	"glowdesk-backend/config"
	"glowdesk-backend/models"
	"glowdesk-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateProductInput defines the expected JSON structure for creating a product
type CreateProductInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Price       int64  `json:"price" binding:"min=0"`
	Type        string `json:"type" binding:"required,oneof=single voucher"`
	Count       *int   `json:"count"`
}

// UpdateProductInput defines the expected JSON structure for updating a product
type UpdateProductInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *int64  `json:"price" binding:"omitempty,min=0"`
	Type        *string `json:"type" binding:"omitempty,oneof=single voucher"`
	Count       *int    `json:"count"`
	Status      *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

// Vouchers must carry a positive redemption count; single products must not.
func validateCount(productType string, count *int) error {
	if productType == models.ProductVoucher {
		if count == nil || *count <= 0 {
			return errors.New("voucher products require a positive count")
		}
		return nil
	}
	if count != nil {
		return errors.New("count is only valid for voucher products")
	}
	return nil
}

// CreateProduct creates a new product for the account
func CreateProduct(c *gin.Context) {
	account, ok := accountUUID(c)
	if !ok {
		return
	}

	var input CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if err := validateCount(input.Type, input.Count); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	product := models.Product{
		AccountID:   account,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Type:        input.Type,
		Count:       input.Count,
		Status:      models.ProductActive,
	}

	if err := config.DB.Create(&product).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create product")
		return
	}

	c.JSON(http.StatusCreated, product)
}

// GetProducts retrieves the account's products. Supports ?q= text search
// over name/description and ?status= exact match.
func GetProducts(c *gin.Context) {
	account, ok := accountUUID(c)
	if !ok {
		return
	}

	var products []models.Product
	if err := config.DB.Where("account_id = ?", account).
		Order("name ASC").
		Find(&products).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}

	products = aggregate.TextFilter(products, func(p models.Product) []string {
		return []string{p.Name, p.Description}
	}, c.Query("q"))
	products = aggregate.FieldEquals(products, func(p models.Product) string {
		return p.Status
	}, c.Query("status"))

	c.JSON(http.StatusOK, products)
}

// GetProduct retrieves a specific product by ID
func GetProduct(c *gin.Context) {
	account, ok := accountUUID(c)
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var product models.Product
	if err := config.DB.Where("account_id = ? AND id = ?", account, productID).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, product)
}

// UpdateProduct updates an existing product
func UpdateProduct(c *gin.Context) {
	account, ok := accountUUID(c)
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var product models.Product
	if err := config.DB.Where("account_id = ? AND id = ?", account, productID).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Type != nil {
		product.Type = *input.Type
	}
	if input.Count != nil {
		product.Count = input.Count
	}
	if product.Type == models.ProductSingle {
		product.Count = nil
	}
	if err := validateCount(product.Type, product.Count); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	if input.Status != nil {
		product.Status = *input.Status
	}

	if err := config.DB.Save(&product).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update product")
		return
	}

	c.JSON(http.StatusOK, product)
}

// ToggleProductStatus flips a product between active and inactive
func ToggleProductStatus(c *gin.Context) {
	account, ok := accountUUID(c)
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var product models.Product
	if err := config.DB.Where("account_id = ? AND id = ?", account, productID).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if product.Status == models.ProductActive {
		product.Status = models.ProductInactive
	} else {
		product.Status = models.ProductActive
	}

	if err := config.DB.Model(&product).Update("status", product.Status).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update product status")
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct soft deletes a product
func DeleteProduct(c *gin.Context) {
	account, ok := accountUUID(c)
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	result := config.DB.Where("account_id = ? AND id = ?", account, productID).
		Delete(&models.Product{})

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
