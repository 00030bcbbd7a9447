package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "vaadly/internal/errors"
	"vaadly/internal/services"
)

// SchedulerHandler exposes the generation and rollover engines to external
// schedulers (cron, the generator daemon). All endpoints are idempotent and
// sit behind the scheduler API key middleware.
type SchedulerHandler struct {
	generationService services.GenerationServicer
	rolloverService   services.RolloverServicer
}

// NewSchedulerHandler creates a new SchedulerHandler.
func NewSchedulerHandler(generationService services.GenerationServicer, rolloverService services.RolloverServicer) *SchedulerHandler {
	return &SchedulerHandler{generationService: generationService, rolloverService: rolloverService}
}

// GenerateRequest represents the request payload for triggering entry generation.
// Exactly one of date, (start_date, end_date), or (year, month) selects the
// target window; an empty body generates for today.
type GenerateRequest struct {
	Date      *string `json:"date"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Year      *int    `json:"year" binding:"omitempty,min=2000,max=2200"`
	Month     *int    `json:"month" binding:"omitempty,min=1,max=12"`
}

// Generate handles a generation run for a date, a date range, or a whole month
func (h *SchedulerHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	ctx := c.Request.Context()

	switch {
	case req.Year != nil || req.Month != nil:
		if req.Year == nil || req.Month == nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "year and month must be provided together"))
			return
		}
		entries, err := h.generationService.GenerateForMonth(ctx, *req.Year, time.Month(*req.Month))
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"generated": len(entries), "entries": entries})

	case req.StartDate != nil || req.EndDate != nil:
		if req.StartDate == nil || req.EndDate == nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "start_date and end_date must be provided together"))
			return
		}
		start, err := parseFlexibleTime(*req.StartDate)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid start_date format, use RFC3339 or YYYY-MM-DD"))
			return
		}
		end, err := parseFlexibleTime(*req.EndDate)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid end_date format, use RFC3339 or YYYY-MM-DD"))
			return
		}
		entries, err := h.generationService.GenerateForRange(ctx, start, end)
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"generated": len(entries), "entries": entries})

	default:
		target := time.Now()
		if req.Date != nil && *req.Date != "" {
			parsed, err := parseFlexibleTime(*req.Date)
			if err != nil {
				respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid date format, use RFC3339 or YYYY-MM-DD"))
				return
			}
			target = parsed
		}
		entries, err := h.generationService.GenerateForDate(ctx, target)
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"generated": len(entries), "entries": entries})
	}
}

// RolloverRequest represents the request payload for triggering contract rollover.
type RolloverRequest struct {
	ProjectID *string `json:"project_id" binding:"omitempty,uuid"`
	Today     *string `json:"today"`
}

// Rollover handles a rollover sweep, either for one project or all of them
func (h *SchedulerHandler) Rollover(c *gin.Context) {
	var req RolloverRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	today := time.Now()
	if req.Today != nil && *req.Today != "" {
		parsed, err := parseFlexibleTime(*req.Today)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid today format, use RFC3339 or YYYY-MM-DD"))
			return
		}
		today = parsed
	}

	if req.ProjectID != nil {
		period, err := h.rolloverService.CheckAndRenew(*req.ProjectID, today)
		if err != nil {
			respondWithError(c, err)
			return
		}
		if period == nil {
			c.JSON(http.StatusOK, gin.H{"archived": 0})
			return
		}
		c.JSON(http.StatusOK, gin.H{"archived": 1, "periods": []interface{}{period}})
		return
	}

	periods, err := h.rolloverService.CheckAndRenewAll(today)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"archived": len(periods), "periods": periods})
}
