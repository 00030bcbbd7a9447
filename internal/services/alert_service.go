package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"vaadly/internal/calendar"
	apperrors "vaadly/internal/errors"
	"vaadly/internal/logger"
	"vaadly/internal/models"
)

// Alert thresholds as a fraction of the budget amount.
var (
	warningThreshold = decimal.NewFromFloat(0.70)
)

// alertService flags project categories approaching or exceeding their
// budget. Read-only consumer of the ledger; no state of its own.
type alertService struct {
	db *gorm.DB
}

// NewAlertService creates a new AlertServicer.
func NewAlertService(db *gorm.DB) AlertServicer {
	return &alertService{db: db}
}

// CheckCategoryAlerts evaluates every active budget of the project against
// in-category expense consumption for the budget period containing asOf.
// A budget whose consumption cannot be computed is logged and skipped so one
// bad record does not take down the whole dashboard.
func (s *alertService) CheckCategoryAlerts(projectID string, asOf time.Time) ([]Alert, error) {
	var budgets []models.Budget
	err := s.db.Where("project_id = ? AND is_active = ?", projectID, true).Find(&budgets).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}

	asOfDay := calendar.DateOnly(asOf)
	alerts := make([]Alert, 0)
	for _, budget := range budgets {
		if !budget.Amount.IsPositive() {
			continue
		}
		windowStart, windowEnd, ok := budgetWindow(&budget, asOfDay)
		if !ok {
			continue
		}

		consumed, err := s.sumCategoryExpenses(projectID, budget.Category, windowStart, windowEnd)
		if err != nil {
			logger.Get().Warnw("skipping budget alert check",
				"budget_id", budget.ID, "category", budget.Category, "error", err)
			continue
		}

		ratio := consumed.Div(budget.Amount)
		var severity AlertSeverity
		switch {
		case ratio.GreaterThan(decimal.NewFromInt(1)):
			severity = SeverityOverrun
		case ratio.GreaterThanOrEqual(warningThreshold):
			severity = SeverityWarning
		default:
			continue
		}

		percent, _ := ratio.Mul(decimal.NewFromInt(100)).Float64()
		alerts = append(alerts, Alert{
			ProjectID:    projectID,
			BudgetID:     budget.ID,
			Category:     budget.Category,
			Severity:     severity,
			BudgetAmount: budget.Amount,
			Consumed:     consumed,
			Percent:      percent,
		})
	}
	return alerts, nil
}

// budgetWindow resolves the budget period containing asOf: the calendar
// month for monthly budgets, the calendar year for annual ones, clipped to
// the budget's own start/end dates. Returns false when asOf falls outside
// the budget's lifetime.
func budgetWindow(budget *models.Budget, asOf time.Time) (time.Time, time.Time, bool) {
	budgetStart := calendar.DateOnly(budget.StartDate)
	if asOf.Before(budgetStart) {
		return time.Time{}, time.Time{}, false
	}
	if budget.EndDate != nil && asOf.After(calendar.DateOnly(*budget.EndDate)) {
		return time.Time{}, time.Time{}, false
	}

	var start, end time.Time
	switch budget.PeriodType {
	case models.BudgetPeriodMonthly:
		start = calendar.StartOfMonth(asOf)
		end = calendar.OccurrenceInMonth(asOf.Year(), asOf.Month(), 31)
	case models.BudgetPeriodAnnual:
		start = time.Date(asOf.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		end = time.Date(asOf.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
	default:
		return time.Time{}, time.Time{}, false
	}

	start = calendar.MaxDate(start, budgetStart)
	if budget.EndDate != nil && end.After(calendar.DateOnly(*budget.EndDate)) {
		end = calendar.DateOnly(*budget.EndDate)
	}
	return start, end, true
}

func (s *alertService) sumCategoryExpenses(projectID, category string, start, end time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := s.db.Model(&models.LedgerEntry{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("project_id = ? AND category = ? AND direction = ? AND from_fund = ? AND entry_date >= ? AND entry_date <= ?",
			projectID, category, models.DirectionExpense, false, start, end).
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
