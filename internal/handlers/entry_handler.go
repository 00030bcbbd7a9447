package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "vaadly/internal/errors"
	"vaadly/internal/models"
	"vaadly/internal/pagination"
	"vaadly/internal/services"
)

// EntryHandler handles ledger-entry requests.
type EntryHandler struct {
	entryService services.EntryServicer
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryService services.EntryServicer) *EntryHandler {
	return &EntryHandler{entryService: entryService}
}

// CreateEntryRequest represents the request payload for creating a ledger entry
type CreateEntryRequest struct {
	ProjectID   string                `json:"project_id" binding:"required,uuid"`
	SupplierID  *string               `json:"supplier_id" binding:"omitempty,uuid"`
	EntryDate   string                `json:"entry_date" binding:"required"`
	Direction   models.EntryDirection `json:"direction" binding:"required,entry_direction"`
	Amount      decimal.Decimal       `json:"amount" binding:"required"`
	Description string                `json:"description" binding:"max=500"`
	Category    string                `json:"category" binding:"max=100"`
	Notes       string                `json:"notes" binding:"max=1000"`
	FromFund    bool                  `json:"from_fund"`
}

// CreateEntry handles the creation of a manual ledger entry
func (h *EntryHandler) CreateEntry(c *gin.Context) {
	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entryDate, err := parseFlexibleTime(req.EntryDate)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid entry_date format, use RFC3339 or YYYY-MM-DD"))
		return
	}

	entry, err := h.entryService.CreateEntry(services.EntryInput{
		ProjectID:   req.ProjectID,
		SupplierID:  req.SupplierID,
		EntryDate:   entryDate,
		Direction:   req.Direction,
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		Notes:       req.Notes,
		FromFund:    req.FromFund,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

// GetEntryByID handles the retrieval of a specific ledger entry
func (h *EntryHandler) GetEntryByID(c *gin.Context) {
	entryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	entry, err := h.entryService.GetEntryByID(entryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// GetProjectEntries handles listing a project's ledger entries with filters
func (h *EntryHandler) GetProjectEntries(c *gin.Context) {
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

	filter, err := parseEntryFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.entryService.GetProjectEntries(projectID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateEntryRequest represents the request payload for editing a ledger entry.
// Generated entries keep their template link, so an edited instance still
// blocks regeneration for its original date.
type UpdateEntryRequest struct {
	EntryDate *string          `json:"entry_date"`
	Amount    *decimal.Decimal `json:"amount"`
	Category  *string          `json:"category" binding:"omitempty,max=100"`
	Notes     *string          `json:"notes" binding:"omitempty,max=1000"`
}

// UpdateEntry handles editing a single ledger entry instance
func (h *EntryHandler) UpdateEntry(c *gin.Context) {
	entryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entryDate, err := parseOptionalDate(req.EntryDate)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid entry_date format, use RFC3339 or YYYY-MM-DD"))
		return
	}

	entry, err := h.entryService.UpdateEntryInstance(entryID, entryDate, req.Amount, req.Category, req.Notes)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// DeleteEntry handles deleting a ledger entry
func (h *EntryHandler) DeleteEntry(c *gin.Context) {
	entryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.entryService.DeleteEntry(entryID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Entry deleted successfully"})
}

func parseEntryFilter(c *gin.Context) (services.EntryFilter, error) {
	var filter services.EntryFilter

	if v := c.Query("from_date"); v != "" {
		t, err := parseFlexibleTime(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid from_date format, use RFC3339 or YYYY-MM-DD")
		}
		filter.FromDate = &t
	}

	if v := c.Query("to_date"); v != "" {
		t, err := parseFlexibleTime(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid to_date format, use RFC3339 or YYYY-MM-DD")
		}
		filter.ToDate = &t
	}

	if v := c.Query("direction"); v != "" {
		direction := models.EntryDirection(v)
		switch direction {
		case models.DirectionIncome, models.DirectionExpense:
			filter.Direction = &direction
		default:
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid direction, must be income or expense")
		}
	}

	if v := c.Query("category"); v != "" {
		filter.Category = &v
	}

	if v := c.Query("from_fund"); v != "" {
		fromFund := v == "true"
		filter.FromFund = &fromFund
	}

	if v := c.Query("generated"); v != "" {
		generated := v == "true"
		filter.Generated = &generated
	}

	return filter, nil
}
