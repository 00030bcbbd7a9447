package services

import (
	"encoding/json"
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"vaadly/internal/calendar"
	apperrors "vaadly/internal/errors"
	"vaadly/internal/logger"
	"vaadly/internal/models"
)

// rolloverService archives ended contract periods and opens the next one.
type rolloverService struct {
	db         *gorm.DB
	projection ProjectionServicer
}

// NewRolloverService creates a new RolloverServicer.
func NewRolloverService(db *gorm.DB, projection ProjectionServicer) RolloverServicer {
	return &rolloverService{db: db, projection: projection}
}

// budgetsSnapshot is the serialized budget configuration stored on an
// archived period.
type budgetsSnapshot struct {
	BudgetMonthly *string          `json:"budget_monthly,omitempty"`
	BudgetAnnual  *string          `json:"budget_annual,omitempty"`
	Categories    []budgetSnapshot `json:"categories"`
}

type budgetSnapshot struct {
	Category   string              `json:"category"`
	Amount     string              `json:"amount"`
	PeriodType models.BudgetPeriod `json:"period_type"`
}

// CheckAndRenew archives the project's contract period if it has ended and
// shifts the live contract window forward by the original duration. Safe to
// invoke repeatedly: an open contract is a no-op, and a period that was
// already archived is never archived twice. Archival and the date shift
// happen in one transaction, so a failed archive leaves the live dates
// untouched.
func (s *rolloverService) CheckAndRenew(projectID string, today time.Time) (*models.ContractPeriod, error) {
	var project models.Project
	if err := s.db.First(&project, "id = ?", projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}

	if project.StartDate == nil || project.EndDate == nil {
		return nil, nil
	}
	start := calendar.DateOnly(*project.StartDate)
	end := calendar.DateOnly(*project.EndDate)
	if end.After(calendar.DateOnly(today)) {
		// Contract still open.
		return nil, nil
	}

	// A period for this exact date pair means a previous run already
	// archived it. The live dates still pointing at an archived period can
	// only mean that run failed between archive and date shift, so finish
	// the shift and skip the archive.
	var existing models.ContractPeriod
	err := s.db.Where("project_id = ? AND start_date = ? AND end_date = ?", projectID, start, end).
		First(&existing).Error
	switch {
	case err == nil:
		if err := s.shiftProjectDates(s.db, &project, start, end); err != nil {
			return nil, err
		}
		return nil, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		// fall through to archive
	default:
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}

	totals, err := s.projection.ComputeTotalsInRange(projectID, start, end)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.snapshotBudgets(&project)
	if err != nil {
		return nil, err
	}

	yearIndex, err := s.nextYearIndex(projectID, end.Year())
	if err != nil {
		return nil, err
	}

	period := &models.ContractPeriod{
		ProjectID:       projectID,
		StartDate:       start,
		EndDate:         end,
		Year:            end.Year(),
		YearIndex:       yearIndex,
		TotalIncome:     totals.TotalIncome,
		TotalExpense:    totals.TotalExpense,
		TotalProfit:     totals.Profit,
		BudgetsSnapshot: snapshot,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(period).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// A concurrent rollover archived it first; let that run
				// (or the next invocation) own the date shift.
				logger.Get().Infow("contract period already archived",
					"project_id", projectID, "end_date", end.Format(time.DateOnly))
				return errAlreadyArchived
			}
			return apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
		}
		return s.shiftProjectDates(tx, &project, start, end)
	})
	if errors.Is(err, errAlreadyArchived) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return period, nil
}

var errAlreadyArchived = errors.New("contract period already archived")

// CheckAndRenewAll runs CheckAndRenew for every active project with a bounded
// contract. A failing project is logged and skipped so one bad project cannot
// stall the sweep.
func (s *rolloverService) CheckAndRenewAll(today time.Time) ([]models.ContractPeriod, error) {
	var projects []models.Project
	err := s.db.Where("is_active = ? AND start_date IS NOT NULL AND end_date IS NOT NULL", true).
		Find(&projects).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}

	var archived []models.ContractPeriod
	for _, project := range projects {
		period, err := s.CheckAndRenew(project.ID, today)
		if err != nil {
			logger.Get().Errorw("rollover failed for project",
				"project_id", project.ID, "error", err.Error())
			continue
		}
		if period != nil {
			archived = append(archived, *period)
		}
	}
	return archived, nil
}

// shiftProjectDates opens the next period: the day after the old end, for the
// same duration as the closed period.
func (s *rolloverService) shiftProjectDates(tx *gorm.DB, project *models.Project, oldStart, oldEnd time.Time) error {
	duration := oldEnd.Sub(oldStart)
	newStart := oldEnd.AddDate(0, 0, 1)
	newEnd := newStart.Add(duration)

	err := tx.Model(project).Updates(map[string]interface{}{
		"start_date": newStart,
		"end_date":   newEnd,
	}).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *rolloverService) snapshotBudgets(project *models.Project) (string, error) {
	var budgets []models.Budget
	err := s.db.Where("project_id = ? AND is_active = ?", project.ID, true).Find(&budgets).Error
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}

	snap := budgetsSnapshot{Categories: make([]budgetSnapshot, 0, len(budgets))}
	if project.BudgetMonthly != nil {
		v := project.BudgetMonthly.StringFixed(2)
		snap.BudgetMonthly = &v
	}
	if project.BudgetAnnual != nil {
		v := project.BudgetAnnual.StringFixed(2)
		snap.BudgetAnnual = &v
	}
	for _, b := range budgets {
		snap.Categories = append(snap.Categories, budgetSnapshot{
			Category:   b.Category,
			Amount:     b.Amount.StringFixed(2),
			PeriodType: b.PeriodType,
		})
	}

	raw, err := json.Marshal(snap)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return string(raw), nil
}

func (s *rolloverService) nextYearIndex(projectID string, year int) (int, error) {
	var count int64
	err := s.db.Model(&models.ContractPeriod{}).
		Where("project_id = ? AND year = ?", projectID, year).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}
	return int(count) + 1, nil
}

// ListPeriodsByYear returns the archived periods grouped by the year they
// ended, newest year first within the map ordering left to the caller.
func (s *rolloverService) ListPeriodsByYear(projectID string) (map[int][]PeriodSummary, error) {
	var periods []models.ContractPeriod
	err := s.db.Where("project_id = ?", projectID).
		Order("end_date ASC").
		Find(&periods).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}

	result := make(map[int][]PeriodSummary)
	for _, p := range periods {
		result[p.Year] = append(result[p.Year], PeriodSummary{
			PeriodID:     p.ID,
			StartDate:    p.StartDate,
			EndDate:      p.EndDate,
			YearIndex:    p.YearIndex,
			TotalIncome:  p.TotalIncome,
			TotalExpense: p.TotalExpense,
			TotalProfit:  p.TotalProfit,
		})
	}
	for year := range result {
		sort.Slice(result[year], func(i, j int) bool {
			return result[year][i].YearIndex < result[year][j].YearIndex
		})
	}
	return result, nil
}
