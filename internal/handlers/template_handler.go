package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "vaadly/internal/errors"
	"vaadly/internal/models"
	"vaadly/internal/pagination"
	"vaadly/internal/services"
)

// TemplateHandler handles recurring-template requests.
type TemplateHandler struct {
	templateService   services.TemplateServicer
	projectionService services.ProjectionServicer
}

// NewTemplateHandler creates a new TemplateHandler.
func NewTemplateHandler(templateService services.TemplateServicer, projectionService services.ProjectionServicer) *TemplateHandler {
	return &TemplateHandler{templateService: templateService, projectionService: projectionService}
}

// CreateTemplateRequest represents the request payload for creating a recurring template
type CreateTemplateRequest struct {
	ProjectID      string                `json:"project_id" binding:"required,uuid"`
	SupplierID     *string               `json:"supplier_id" binding:"omitempty,uuid"`
	Description    string                `json:"description" binding:"required,max=500"`
	Direction      models.EntryDirection `json:"direction" binding:"required,entry_direction"`
	Amount         decimal.Decimal       `json:"amount" binding:"required"`
	Category       string                `json:"category" binding:"max=100"`
	Notes          string                `json:"notes" binding:"max=1000"`
	DayOfMonth     int                   `json:"day_of_month" binding:"required,min=1,max=31"`
	StartDate      string                `json:"start_date" binding:"required"`
	EndType        models.EndKind        `json:"end_type" binding:"omitempty,end_type"`
	EndDate        *string               `json:"end_date"`
	MaxOccurrences *int                  `json:"max_occurrences" binding:"omitempty,min=1"`
}

// CreateTemplate handles the creation of a new recurring template
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	startDate, err := parseFlexibleTime(req.StartDate)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid start_date format, use RFC3339 or YYYY-MM-DD"))
		return
	}
	endDate, err := parseOptionalDate(req.EndDate)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid end_date format, use RFC3339 or YYYY-MM-DD"))
		return
	}

	endType := req.EndType
	if endType == "" {
		endType = models.EndNone
	}

	template, err := h.templateService.CreateTemplate(services.TemplateInput{
		ProjectID:      req.ProjectID,
		SupplierID:     req.SupplierID,
		Description:    req.Description,
		Direction:      req.Direction,
		Amount:         req.Amount,
		Category:       req.Category,
		Notes:          req.Notes,
		DayOfMonth:     req.DayOfMonth,
		StartDate:      startDate,
		EndType:        endType,
		EndDate:        endDate,
		MaxOccurrences: req.MaxOccurrences,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"template": template})
}

// GetTemplateByID handles the retrieval of a specific template
func (h *TemplateHandler) GetTemplateByID(c *gin.Context) {
	templateID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	template, err := h.templateService.GetTemplateByID(templateID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"template": template})
}

// GetProjectTemplates handles listing a project's templates with pagination
func (h *TemplateHandler) GetProjectTemplates(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var isActive *bool
	if v := c.Query("is_active"); v != "" {
		active := v == "true"
		isActive = &active
	}

	result, err := h.templateService.GetProjectTemplates(projectID, page, isActive)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateTemplateRequest represents the request payload for updating a template
type UpdateTemplateRequest struct {
	Description    *string          `json:"description" binding:"omitempty,max=500"`
	Amount         *decimal.Decimal `json:"amount"`
	Category       *string          `json:"category" binding:"omitempty,max=100"`
	Notes          *string          `json:"notes" binding:"omitempty,max=1000"`
	DayOfMonth     *int             `json:"day_of_month" binding:"omitempty,min=1,max=31"`
	StartDate      *string          `json:"start_date"`
	EndType        *models.EndKind  `json:"end_type" binding:"omitempty,end_type"`
	EndDate        *string          `json:"end_date"`
	MaxOccurrences *int             `json:"max_occurrences" binding:"omitempty,min=1"`
	IsActive       *bool            `json:"is_active"`
}

// UpdateTemplate handles partial updates of a template. Amount or schedule
// changes affect future generation only; already materialized entries keep
// their values.
func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	templateID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	startDate, err := parseOptionalDate(req.StartDate)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid start_date format, use RFC3339 or YYYY-MM-DD"))
		return
	}
	endDate, err := parseOptionalDate(req.EndDate)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid end_date format, use RFC3339 or YYYY-MM-DD"))
		return
	}

	template, err := h.templateService.UpdateTemplate(templateID, services.TemplateUpdate{
		Description:    req.Description,
		Amount:         req.Amount,
		Category:       req.Category,
		Notes:          req.Notes,
		DayOfMonth:     req.DayOfMonth,
		StartDate:      startDate,
		EndType:        req.EndType,
		EndDate:        endDate,
		MaxOccurrences: req.MaxOccurrences,
		IsActive:       req.IsActive,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"template": template})
}

// DeactivateTemplate handles deactivating a template; its generated entries remain
func (h *TemplateHandler) DeactivateTemplate(c *gin.Context) {
	templateID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	template, err := h.templateService.DeactivateTemplate(templateID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"template": template})
}

// DeleteTemplate handles deleting a template that has no generated entries
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	templateID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.templateService.DeleteTemplate(templateID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Template deleted successfully"})
}

// GetTemplateEntries handles listing the ledger entries generated from a template
func (h *TemplateHandler) GetTemplateEntries(c *gin.Context) {
	templateID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	entries, err := h.templateService.GetTemplateEntries(templateID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// GetFutureOccurrences handles previewing a template's upcoming occurrences
// without materializing them
func (h *TemplateHandler) GetFutureOccurrences(c *gin.Context) {
	templateID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	from := time.Now()
	if v := c.Query("from"); v != "" {
		parsed, parseErr := parseFlexibleTime(v)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid from format, use RFC3339 or YYYY-MM-DD"))
			return
		}
		from = parsed
	}

	months := 12
	if v := c.Query("months"); v != "" {
		parsed, parseErr := strconv.Atoi(v)
		if parseErr != nil || parsed < 1 || parsed > 120 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "months must be between 1 and 120"))
			return
		}
		months = parsed
	}

	occurrences, err := h.projectionService.FutureOccurrences(templateID, from, months)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"occurrences": occurrences})
}
