package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"vaadly/internal/calendar"
	apperrors "vaadly/internal/errors"
	"vaadly/internal/models"
)

// budgetService handles category-budget business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// CreateBudget creates a new category budget for a project.
func (s *budgetService) CreateBudget(projectID, category string, amount decimal.Decimal, periodType models.BudgetPeriod, startDate time.Time, endDate *time.Time) (*models.Budget, error) {
	if category == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if periodType != models.BudgetPeriodMonthly && periodType != models.BudgetPeriodAnnual {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "period_type must be monthly or annual")
	}
	if endDate != nil && endDate.Before(startDate) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "end_date is before start_date")
	}

	var project models.Project
	if err := s.db.First(&project, "id = ?", projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}

	budget := &models.Budget{
		ProjectID:  projectID,
		Category:   category,
		Amount:     amount,
		PeriodType: periodType,
		StartDate:  calendar.DateOnly(startDate),
		EndDate:    endDate,
		IsActive:   true,
	}

	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}
	return budget, nil
}

// GetProjectBudgets lists a project's budgets with an optional active filter.
func (s *budgetService) GetProjectBudgets(projectID string, isActive *bool) ([]models.Budget, error) {
	q := s.db.Where("project_id = ?", projectID)
	if isActive != nil {
		q = q.Where("is_active = ?", *isActive)
	}

	var budgets []models.Budget
	if err := q.Order("category ASC").Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}
	return budgets, nil
}

// GetBudgetByID returns a budget by ID.
func (s *budgetService) GetBudgetByID(budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.First(&budget, "id = ?", budgetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}
	return &budget, nil
}

// UpdateBudget updates a budget's amount, end date, or active flag.
func (s *budgetService) UpdateBudget(budgetID string, amount *decimal.Decimal, endDate *time.Time, isActive *bool) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(budgetID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if amount != nil {
		if !amount.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
		}
		updates["amount"] = *amount
	}
	if endDate != nil {
		updates["end_date"] = endDate
	}
	if isActive != nil {
		updates["is_active"] = *isActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(budget).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
		}
	}
	return budget, nil
}

// DeleteBudget soft-deletes a budget.
func (s *budgetService) DeleteBudget(budgetID string) error {
	budget, err := s.GetBudgetByID(budgetID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}
	return nil
}
