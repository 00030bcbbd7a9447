package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"vaadly/internal/calendar"
	apperrors "vaadly/internal/errors"
	"vaadly/internal/models"
	"vaadly/internal/pagination"
)

// templateService handles recurring-template business logic. It enforces the
// end-condition invariant at write time: exactly one variant populated,
// consistent with the declared end type.
type templateService struct {
	db *gorm.DB
}

// NewTemplateService creates a new TemplateServicer.
func NewTemplateService(db *gorm.DB) TemplateServicer {
	return &templateService{db: db}
}

// CreateTemplate creates a new recurring template after validating its
// end condition and firing rule.
func (s *templateService) CreateTemplate(input TemplateInput) (*models.RecurringTemplate, error) {
	if input.DayOfMonth < 1 || input.DayOfMonth > 31 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "day_of_month must be between 1 and 31")
	}
	if !input.Amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if input.Direction != models.DirectionIncome && input.Direction != models.DirectionExpense {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "direction must be income or expense")
	}

	startDate := calendar.DateOnly(input.StartDate)
	if err := validateEndCondition(input.EndType, input.EndDate, input.MaxOccurrences, startDate); err != nil {
		return nil, err
	}

	// Verify project exists
	var project models.Project
	if err := s.db.First(&project, "id = ?", input.ProjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}

	template := &models.RecurringTemplate{
		ProjectID:      input.ProjectID,
		SupplierID:     input.SupplierID,
		Description:    input.Description,
		Direction:      input.Direction,
		Amount:         input.Amount,
		Category:       input.Category,
		Notes:          input.Notes,
		Frequency:      models.FrequencyMonthly,
		DayOfMonth:     input.DayOfMonth,
		StartDate:      startDate,
		EndType:        input.EndType,
		EndDate:        input.EndDate,
		MaxOccurrences: input.MaxOccurrences,
		IsActive:       true,
	}

	if err := s.db.Create(template).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}
	return template, nil
}

// GetTemplateByID returns a template by ID.
func (s *templateService) GetTemplateByID(templateID string) (*models.RecurringTemplate, error) {
	var template models.RecurringTemplate
	if err := s.db.First(&template, "id = ?", templateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTemplateNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}
	return &template, nil
}

// GetProjectTemplates returns a paginated list of templates for a project.
func (s *templateService) GetProjectTemplates(projectID string, page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.RecurringTemplate], error) {
	page.Defaults()

	base := s.db.Model(&models.RecurringTemplate{}).Where("project_id = ?", projectID)
	if isActive != nil {
		base = base.Where("is_active = ?", *isActive)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}

	var templates []models.RecurringTemplate
	if err := base.Scopes(pagination.Paginate(page)).Order("start_date DESC").Find(&templates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}

	result := pagination.NewPageResponse(templates, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateTemplate updates a template's fields. End-condition fields are
// re-validated as a whole whenever any of them changes.
func (s *templateService) UpdateTemplate(templateID string, input TemplateUpdate) (*models.RecurringTemplate, error) {
	template, err := s.GetTemplateByID(templateID)
	if err != nil {
		return nil, err
	}

	if input.Description != nil {
		template.Description = *input.Description
	}
	if input.Amount != nil {
		if !input.Amount.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
		}
		template.Amount = *input.Amount
	}
	if input.Category != nil {
		template.Category = *input.Category
	}
	if input.Notes != nil {
		template.Notes = *input.Notes
	}
	if input.DayOfMonth != nil {
		if *input.DayOfMonth < 1 || *input.DayOfMonth > 31 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "day_of_month must be between 1 and 31")
		}
		template.DayOfMonth = *input.DayOfMonth
	}
	if input.StartDate != nil {
		start := calendar.DateOnly(*input.StartDate)
		template.StartDate = start
	}
	if input.EndType != nil {
		template.EndType = *input.EndType
	}
	if input.EndDate != nil {
		template.EndDate = input.EndDate
	}
	if input.MaxOccurrences != nil {
		template.MaxOccurrences = input.MaxOccurrences
	}
	if input.IsActive != nil {
		template.IsActive = *input.IsActive
	}

	if err := validateEndCondition(template.EndType, template.EndDate, template.MaxOccurrences, template.StartDate); err != nil {
		return nil, err
	}

	if err := s.db.Save(template).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}
	return template, nil
}

// DeactivateTemplate stops a template from firing without touching its
// already-generated entries.
func (s *templateService) DeactivateTemplate(templateID string) (*models.RecurringTemplate, error) {
	template, err := s.GetTemplateByID(templateID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(template).Update("is_active", false).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}
	template.IsActive = false
	return template, nil
}

// DeleteTemplate removes a template. Deletion is blocked while generated
// entries still reference it; those keep their history, so the caller must
// deactivate instead.
func (s *templateService) DeleteTemplate(templateID string) error {
	template, err := s.GetTemplateByID(templateID)
	if err != nil {
		return err
	}

	var entryCount int64
	err = s.db.Model(&models.LedgerEntry{}).
		Where("recurring_template_id = ?", templateID).
		Count(&entryCount).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}
	if entryCount > 0 {
		return apperrors.ErrTemplateInUse
	}

	if err := s.db.Delete(template).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}
	return nil
}

// GetTemplateEntries returns all entries generated from a template, newest first.
func (s *templateService) GetTemplateEntries(templateID string) ([]models.LedgerEntry, error) {
	if _, err := s.GetTemplateByID(templateID); err != nil {
		return nil, err
	}

	var entries []models.LedgerEntry
	err := s.db.Where("recurring_template_id = ?", templateID).
		Order("entry_date DESC").
		Find(&entries).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}
	return entries, nil
}

// validateEndCondition rejects end-condition writes whose variant fields
// disagree with the declared kind. Exactly one variant may be populated.
func validateEndCondition(kind models.EndKind, endDate *time.Time, maxOccurrences *int, startDate time.Time) error {
	switch kind {
	case models.EndNone:
		if endDate != nil || maxOccurrences != nil {
			return apperrors.WithMessage(apperrors.ErrInvalidEndCondition, "no_end must not set end_date or max_occurrences")
		}
	case models.EndOnDate:
		if endDate == nil || maxOccurrences != nil {
			return apperrors.WithMessage(apperrors.ErrInvalidEndCondition, "on_date requires end_date and no max_occurrences")
		}
		if calendar.DateOnly(*endDate).Before(startDate) {
			return apperrors.WithMessage(apperrors.ErrInvalidEndCondition, "end_date is before start_date")
		}
	case models.EndAfterOccurrences:
		if maxOccurrences == nil || endDate != nil {
			return apperrors.WithMessage(apperrors.ErrInvalidEndCondition, "after_occurrences requires max_occurrences and no end_date")
		}
		if *maxOccurrences < 1 {
			return apperrors.WithMessage(apperrors.ErrInvalidEndCondition, "max_occurrences must be at least 1")
		}
	default:
		return apperrors.WithMessage(apperrors.ErrInvalidEndCondition, "unknown end type")
	}
	return nil
}
