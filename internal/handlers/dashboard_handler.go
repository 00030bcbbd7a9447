package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "vaadly/internal/errors"
	"vaadly/internal/services"
)

// DashboardHandler serves the financial views of a project: combined totals,
// budget alerts, and archived contract periods.
type DashboardHandler struct {
	projectionService services.ProjectionServicer
	alertService      services.AlertServicer
	rolloverService   services.RolloverServicer
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(projectionService services.ProjectionServicer, alertService services.AlertServicer, rolloverService services.RolloverServicer) *DashboardHandler {
	return &DashboardHandler{
		projectionService: projectionService,
		alertService:      alertService,
		rolloverService:   rolloverService,
	}
}

// GetProjectTotals handles the combined actual + projected + budget totals view
func (h *DashboardHandler) GetProjectTotals(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	asOf := time.Now()
	if v := c.Query("as_of"); v != "" {
		parsed, parseErr := parseFlexibleTime(v)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid as_of format, use RFC3339 or YYYY-MM-DD"))
			return
		}
		asOf = parsed
	}

	fromStr := c.Query("from_date")
	toStr := c.Query("to_date")
	if (fromStr == "") != (toStr == "") {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "from_date and to_date must be provided together"))
		return
	}

	var totals *services.ProjectTotals
	if fromStr != "" {
		from, parseErr := parseFlexibleTime(fromStr)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid from_date format, use RFC3339 or YYYY-MM-DD"))
			return
		}
		to, parseErr := parseFlexibleTime(toStr)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid to_date format, use RFC3339 or YYYY-MM-DD"))
			return
		}
		totals, err = h.projectionService.ComputeTotalsInRange(projectID, from, to)
	} else {
		totals, err = h.projectionService.ComputeProjectTotals(projectID, asOf)
	}
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"totals": totals})
}

// GetProjectAlerts handles the budget alert view for a project
func (h *DashboardHandler) GetProjectAlerts(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	asOf := time.Now()
	if v := c.Query("as_of"); v != "" {
		parsed, parseErr := parseFlexibleTime(v)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid as_of format, use RFC3339 or YYYY-MM-DD"))
			return
		}
		asOf = parsed
	}

	alerts, err := h.alertService.CheckCategoryAlerts(projectID, asOf)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

// GetProjectPeriods handles the previous-contracts view, grouped by year
func (h *DashboardHandler) GetProjectPeriods(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	periods, err := h.rolloverService.ListPeriodsByYear(projectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"periods": periods})
}
