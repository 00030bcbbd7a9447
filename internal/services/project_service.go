package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"vaadly/internal/calendar"
	apperrors "vaadly/internal/errors"
	"vaadly/internal/models"
	"vaadly/internal/pagination"
)

// projectService handles project-related business logic.
type projectService struct {
	db *gorm.DB
}

// NewProjectService creates a new ProjectServicer.
func NewProjectService(db *gorm.DB) ProjectServicer {
	return &projectService{db: db}
}

// CreateProject creates a new building-maintenance project.
func (s *projectService) CreateProject(name, description, address, city string, numResidents int, startDate, endDate *time.Time, budgetMonthly, budgetAnnual *decimal.Decimal) (*models.Project, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if startDate != nil && endDate != nil && endDate.Before(*startDate) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "end_date is before start_date")
	}

	if startDate != nil {
		d := calendar.DateOnly(*startDate)
		startDate = &d
	}
	if endDate != nil {
		d := calendar.DateOnly(*endDate)
		endDate = &d
	}

	project := &models.Project{
		Name:          name,
		Description:   description,
		Address:       address,
		City:          city,
		NumResidents:  numResidents,
		StartDate:     startDate,
		EndDate:       endDate,
		BudgetMonthly: budgetMonthly,
		BudgetAnnual:  budgetAnnual,
		IsActive:      true,
	}

	if err := s.db.Create(project).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}
	return project, nil
}

// GetProjectByID returns a project by ID.
func (s *projectService) GetProjectByID(projectID string) (*models.Project, error) {
	var project models.Project
	if err := s.db.First(&project, "id = ?", projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}
	return &project, nil
}

// GetProjects returns a paginated list of projects.
func (s *projectService) GetProjects(page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.Project], error) {
	page.Defaults()

	base := s.db.Model(&models.Project{})
	if isActive != nil {
		base = base.Where("is_active = ?", *isActive)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}

	var projects []models.Project
	if err := base.Scopes(pagination.Paginate(page)).Order("name ASC").Find(&projects).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}

	result := pagination.NewPageResponse(projects, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateProject applies partial updates to a project.
func (s *projectService) UpdateProject(projectID string, updates ProjectUpdate) (*models.Project, error) {
	project, err := s.GetProjectByID(projectID)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if updates.Name != nil {
		fields["name"] = *updates.Name
	}
	if updates.Description != nil {
		fields["description"] = *updates.Description
	}
	if updates.Address != nil {
		fields["address"] = *updates.Address
	}
	if updates.City != nil {
		fields["city"] = *updates.City
	}
	if updates.NumResidents != nil {
		fields["num_residents"] = *updates.NumResidents
	}
	if updates.StartDate != nil {
		fields["start_date"] = calendar.DateOnly(*updates.StartDate)
	}
	if updates.EndDate != nil {
		fields["end_date"] = calendar.DateOnly(*updates.EndDate)
	}
	if updates.BudgetMonthly != nil {
		fields["budget_monthly"] = *updates.BudgetMonthly
	}
	if updates.BudgetAnnual != nil {
		fields["budget_annual"] = *updates.BudgetAnnual
	}

	if len(fields) > 0 {
		if err := s.db.Model(project).Updates(fields).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
		}
	}
	return project, nil
}

// DeactivateProject marks a project inactive without deleting its ledger.
func (s *projectService) DeactivateProject(projectID string) error {
	project, err := s.GetProjectByID(projectID)
	if err != nil {
		return err
	}
	if err := s.db.Model(project).Update("is_active", false).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}
	return nil
}
