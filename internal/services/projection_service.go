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

// projectionService computes a project's combined financial picture: actual
// ledger totals, projections for not-yet-materialized recurring occurrences,
// and budget-derived expected income. The three sources never overlap: an
// occurrence with a materialized entry contributes its (possibly edited)
// actual amount and nothing else.
type projectionService struct {
	db *gorm.DB
}

// NewProjectionService creates a new ProjectionServicer.
func NewProjectionService(db *gorm.DB) ProjectionServicer {
	return &projectionService{db: db}
}

// ComputeProjectTotals computes totals over the project's current window:
// from the later of the project start date and one year before asOf, through
// asOf. Projects without a start date get the trailing one-year window.
func (s *projectionService) ComputeProjectTotals(projectID string, asOf time.Time) (*ProjectTotals, error) {
	project, err := s.getProject(projectID)
	if err != nil {
		return nil, err
	}

	asOfDay := calendar.DateOnly(asOf)
	periodStart := asOfDay.AddDate(-1, 0, 0)
	if project.StartDate != nil {
		periodStart = calendar.MaxDate(calendar.DateOnly(*project.StartDate), periodStart)
	}

	return s.computeTotals(project, periodStart, asOfDay)
}

// ComputeTotalsInRange computes totals over an explicit window, with budget
// income anchored at the window start. Used by contract-period rollover to
// close out [start_date, end_date].
func (s *projectionService) ComputeTotalsInRange(projectID string, start, end time.Time) (*ProjectTotals, error) {
	project, err := s.getProject(projectID)
	if err != nil {
		return nil, err
	}
	return s.computeTotals(project, calendar.DateOnly(start), calendar.DateOnly(end))
}

func (s *projectionService) computeTotals(project *models.Project, periodStart, asOf time.Time) (*ProjectTotals, error) {
	actualIncome, err := s.sumEntries(project.ID, models.DirectionIncome, periodStart, asOf)
	if err != nil {
		return nil, err
	}
	actualExpense, err := s.sumEntries(project.ID, models.DirectionExpense, periodStart, asOf)
	if err != nil {
		return nil, err
	}

	projectedIncome, err := s.projectRecurring(project.ID, models.DirectionIncome, periodStart, asOf)
	if err != nil {
		return nil, err
	}
	projectedExpense, err := s.projectRecurring(project.ID, models.DirectionExpense, periodStart, asOf)
	if err != nil {
		return nil, err
	}

	budgetIncome := budgetDerivedIncome(project, periodStart, asOf)

	totalIncome := actualIncome.Add(projectedIncome).Add(budgetIncome)
	totalExpense := actualExpense.Add(projectedExpense)
	profit := totalIncome.Sub(totalExpense)

	// Zero income with positive expense is a full loss by convention, not a
	// division error.
	var profitPercent float64
	switch {
	case totalIncome.IsPositive():
		profitPercent, _ = profit.Div(totalIncome).Mul(decimal.NewFromInt(100)).Float64()
	case totalExpense.IsPositive():
		profitPercent = -100
	}

	return &ProjectTotals{
		ProjectID:        project.ID,
		PeriodStart:      periodStart,
		AsOf:             asOf,
		ActualIncome:     actualIncome,
		ActualExpense:    actualExpense,
		ProjectedIncome:  projectedIncome,
		ProjectedExpense: projectedExpense,
		BudgetIncome:     budgetIncome,
		TotalIncome:      totalIncome,
		TotalExpense:     totalExpense,
		Profit:           profit,
		ProfitPercent:    profitPercent,
		StatusColor:      statusColorFor(profitPercent),
	}, nil
}

// FutureOccurrences previews upcoming unmaterialized occurrences of a
// template over the next monthsAhead months.
func (s *projectionService) FutureOccurrences(templateID string, from time.Time, monthsAhead int) ([]Occurrence, error) {
	var tmpl models.RecurringTemplate
	if err := s.db.First(&tmpl, "id = ?", templateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTemplateNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}

	fromDay := calendar.DateOnly(from)
	startDay := calendar.DateOnly(tmpl.StartDate)
	cursor := calendar.StartOfMonth(calendar.MaxDate(fromDay, startDay))
	ec := tmpl.EndCondition()

	materialized, err := s.countTemplateEntries(tmpl.ID)
	if err != nil {
		return nil, err
	}

	occurrences := make([]Occurrence, 0, monthsAhead)
	emitted := int64(0)
	for i := 0; i < monthsAhead; i++ {
		month := cursor.AddDate(0, i, 0)
		occ := calendar.OccurrenceInMonth(month.Year(), month.Month(), tmpl.DayOfMonth)
		if occ.Before(fromDay) || occ.Before(startDay) {
			continue
		}

		switch ec.Kind {
		case models.EndOnDate:
			if occ.After(calendar.DateOnly(ec.Until)) {
				return occurrences, nil
			}
		case models.EndAfterOccurrences:
			if materialized+emitted >= int64(ec.MaxOccurrences) {
				return occurrences, nil
			}
		}

		exists, err := s.entryExists(tmpl.ID, occ)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		occurrences = append(occurrences, Occurrence{Date: occ, Amount: tmpl.Amount, Category: tmpl.Category})
		emitted++
	}
	return occurrences, nil
}

// projectRecurring sums template amounts for every occurrence in the window
// that has no materialized entry. Occurrences that were already generated are
// counted by the actual sums at their real amount, which may have been edited
// away from the template default; adding the template amount again here would
// double count, so each occurrence date is checked individually.
func (s *projectionService) projectRecurring(projectID string, direction models.EntryDirection, start, end time.Time) (decimal.Decimal, error) {
	var templates []models.RecurringTemplate
	err := s.db.
		Where("project_id = ? AND direction = ? AND is_active = ? AND start_date <= ?",
			projectID, direction, true, end).
		Find(&templates).Error
	if err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}

	total := decimal.Zero
	for i := range templates {
		tmpl := &templates[i]
		sum, err := s.projectTemplate(tmpl, start, end)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(sum)
	}
	return total, nil
}

func (s *projectionService) projectTemplate(tmpl *models.RecurringTemplate, start, end time.Time) (decimal.Decimal, error) {
	startDay := calendar.DateOnly(tmpl.StartDate)
	ec := tmpl.EndCondition()

	// AfterOccurrences caps the total number of firings, materialized and
	// projected together, so projection starts from the materialized count.
	occurrencesSoFar := int64(0)
	if ec.Kind == models.EndAfterOccurrences {
		count, err := s.countTemplateEntries(tmpl.ID)
		if err != nil {
			return decimal.Zero, err
		}
		occurrencesSoFar = count
	}

	total := decimal.Zero
	first := calendar.StartOfMonth(calendar.MaxDate(start, startDay))
	last := calendar.StartOfMonth(end)
	for month := first; !month.After(last); month = month.AddDate(0, 1, 0) {
		occ := calendar.OccurrenceInMonth(month.Year(), month.Month(), tmpl.DayOfMonth)
		if occ.Before(startDay) || occ.Before(start) || occ.After(end) {
			continue
		}

		switch ec.Kind {
		case models.EndOnDate:
			if occ.After(calendar.DateOnly(ec.Until)) {
				return total, nil
			}
		case models.EndAfterOccurrences:
			if occurrencesSoFar >= int64(ec.MaxOccurrences) {
				return total, nil
			}
		}

		exists, err := s.entryExists(tmpl.ID, occ)
		if err != nil {
			return decimal.Zero, err
		}
		if exists {
			continue
		}

		total = total.Add(tmpl.Amount)
		if ec.Kind == models.EndAfterOccurrences {
			occurrencesSoFar++
		}
	}
	return total, nil
}

// budgetDerivedIncome converts the project's expected-income budget into an
// income figure for the window. A monthly budget takes precedence over an
// annual one and counts inclusive first-of-month steps; an annual budget is
// prorated linearly by elapsed days over 365. Always additive to income,
// never an expense offset.
func budgetDerivedIncome(project *models.Project, periodStart, asOf time.Time) decimal.Decimal {
	if project.BudgetMonthly != nil && project.BudgetMonthly.IsPositive() {
		months := calendar.MonthsBetweenInclusive(periodStart, asOf)
		return project.BudgetMonthly.Mul(decimal.NewFromInt(int64(months)))
	}
	if project.BudgetAnnual != nil && project.BudgetAnnual.IsPositive() {
		days := int64(asOf.Sub(periodStart).Hours()/24) + 1
		if days < 0 {
			days = 0
		}
		return project.BudgetAnnual.Mul(decimal.NewFromInt(days)).Div(decimal.NewFromInt(365)).Round(2)
	}
	return decimal.Zero
}

func statusColorFor(profitPercent float64) StatusColor {
	switch {
	case profitPercent >= 10:
		return StatusGreen
	case profitPercent <= -10:
		return StatusRed
	default:
		return StatusYellow
	}
}

func (s *projectionService) getProject(projectID string) (*models.Project, error) {
	var project models.Project
	if err := s.db.First(&project, "id = ?", projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}
	return &project, nil
}

// sumEntries totals materialized entries in [start, end]. Fund-sourced
// entries are tracked against the reserve balance and excluded from
// operating totals.
func (s *projectionService) sumEntries(projectID string, direction models.EntryDirection, start, end time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := s.db.Model(&models.LedgerEntry{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("project_id = ? AND direction = ? AND from_fund = ? AND entry_date >= ? AND entry_date <= ?",
			projectID, direction, false, start, end).
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}
	return total, nil
}

func (s *projectionService) countTemplateEntries(templateID string) (int64, error) {
	var count int64
	err := s.db.Model(&models.LedgerEntry{}).
		Where("recurring_template_id = ?", templateID).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}
	return count, nil
}

func (s *projectionService) entryExists(templateID string, date time.Time) (bool, error) {
	var count int64
	err := s.db.Model(&models.LedgerEntry{}).
		Where("recurring_template_id = ? AND entry_date = ?", templateID, date).
		Count(&count).Error
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}
	return count > 0, nil
}
