package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "vaadly/internal/errors"
	"vaadly/internal/pagination"
	"vaadly/internal/services"
)

// SupplierHandler handles supplier-related requests.
type SupplierHandler struct {
	supplierService services.SupplierServicer
}

// NewSupplierHandler creates a new SupplierHandler.
func NewSupplierHandler(supplierService services.SupplierServicer) *SupplierHandler {
	return &SupplierHandler{supplierService: supplierService}
}

// CreateSupplierRequest represents the request payload for creating a supplier
type CreateSupplierRequest struct {
	Name  string `json:"name" binding:"required,max=200"`
	Phone string `json:"phone" binding:"max=50"`
	Email string `json:"email" binding:"omitempty,email,max=200"`
	Field string `json:"field" binding:"max=100"`
	Notes string `json:"notes" binding:"max=1000"`
}

// CreateSupplier handles the creation of a new supplier
func (h *SupplierHandler) CreateSupplier(c *gin.Context) {
	var req CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	supplier, err := h.supplierService.CreateSupplier(req.Name, req.Phone, req.Email, req.Field, req.Notes)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"supplier": supplier})
}

// GetSuppliers handles listing suppliers with pagination
func (h *SupplierHandler) GetSuppliers(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.supplierService.GetSuppliers(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetSupplierByID handles the retrieval of a specific supplier
func (h *SupplierHandler) GetSupplierByID(c *gin.Context) {
	supplierID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	supplier, err := h.supplierService.GetSupplierByID(supplierID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"supplier": supplier})
}

// UpdateSupplierRequest represents the request payload for updating a supplier
type UpdateSupplierRequest struct {
	Name    *string `json:"name" binding:"omitempty,max=200"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
	Email   *string `json:"email" binding:"omitempty,email,max=200"`
	Field   *string `json:"field" binding:"omitempty,max=100"`
	Notes   *string `json:"notes" binding:"omitempty,max=1000"`
	IsValid *bool   `json:"is_valid"`
}

// UpdateSupplier handles partial updates of a supplier
func (h *SupplierHandler) UpdateSupplier(c *gin.Context) {
	supplierID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	supplier, err := h.supplierService.UpdateSupplier(supplierID, services.SupplierUpdate{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Field:   req.Field,
		Notes:   req.Notes,
		IsValid: req.IsValid,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"supplier": supplier})
}

// DeleteSupplier handles deleting a supplier
func (h *SupplierHandler) DeleteSupplier(c *gin.Context) {
	supplierID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.supplierService.DeleteSupplier(supplierID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Supplier deleted successfully"})
}
