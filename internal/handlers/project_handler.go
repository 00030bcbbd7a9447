package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "vaadly/internal/errors"
	"vaadly/internal/pagination"
	"vaadly/internal/services"
)

// ProjectHandler handles project-related requests.
type ProjectHandler struct {
	projectService services.ProjectServicer
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService services.ProjectServicer) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// CreateProjectRequest represents the request payload for creating a project
type CreateProjectRequest struct {
	Name          string           `json:"name" binding:"required,max=200"`
	Description   string           `json:"description" binding:"max=1000"`
	Address       string           `json:"address" binding:"max=300"`
	City          string           `json:"city" binding:"max=100"`
	NumResidents  int              `json:"num_residents" binding:"omitempty,min=0"`
	StartDate     *string          `json:"start_date"`
	EndDate       *string          `json:"end_date"`
	BudgetMonthly *decimal.Decimal `json:"budget_monthly"`
	BudgetAnnual  *decimal.Decimal `json:"budget_annual"`
}

// CreateProject handles the creation of a new project
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req CreateProjectRequest
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

	project, err := h.projectService.CreateProject(
		req.Name,
		req.Description,
		req.Address,
		req.City,
		req.NumResidents,
		startDate,
		endDate,
		req.BudgetMonthly,
		req.BudgetAnnual,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"project": project})
}

// GetProjects handles listing projects with pagination
func (h *ProjectHandler) GetProjects(c *gin.Context) {
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

	result, err := h.projectService.GetProjects(page, isActive)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProjectByID handles the retrieval of a specific project
func (h *ProjectHandler) GetProjectByID(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	project, err := h.projectService.GetProjectByID(projectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// UpdateProjectRequest represents the request payload for updating a project
type UpdateProjectRequest struct {
	Name          *string          `json:"name" binding:"omitempty,max=200"`
	Description   *string          `json:"description" binding:"omitempty,max=1000"`
	Address       *string          `json:"address" binding:"omitempty,max=300"`
	City          *string          `json:"city" binding:"omitempty,max=100"`
	NumResidents  *int             `json:"num_residents" binding:"omitempty,min=0"`
	StartDate     *string          `json:"start_date"`
	EndDate       *string          `json:"end_date"`
	BudgetMonthly *decimal.Decimal `json:"budget_monthly"`
	BudgetAnnual  *decimal.Decimal `json:"budget_annual"`
}

// UpdateProject handles partial updates of a project
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateProjectRequest
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

	project, err := h.projectService.UpdateProject(projectID, services.ProjectUpdate{
		Name:          req.Name,
		Description:   req.Description,
		Address:       req.Address,
		City:          req.City,
		NumResidents:  req.NumResidents,
		StartDate:     startDate,
		EndDate:       endDate,
		BudgetMonthly: req.BudgetMonthly,
		BudgetAnnual:  req.BudgetAnnual,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// DeactivateProject handles deactivating a project
func (h *ProjectHandler) DeactivateProject(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.projectService.DeactivateProject(projectID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deactivated successfully"})
}

func parseOptionalDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := parseFlexibleTime(*value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
