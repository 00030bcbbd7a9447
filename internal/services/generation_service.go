package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"vaadly/internal/calendar"
	apperrors "vaadly/internal/errors"
	"vaadly/internal/logger"
	"vaadly/internal/models"
)

// generationService materializes ledger entries from recurring templates.
type generationService struct {
	db *gorm.DB
}

// NewGenerationService creates a new GenerationServicer.
func NewGenerationService(db *gorm.DB) GenerationServicer {
	return &generationService{db: db}
}

// GenerateForDate finds templates due on targetDate and materializes one
// ledger entry per template that does not already have one for that date.
// A failure on one template never aborts its siblings; failed templates are
// logged and skipped, and the run can be retried safely for the same date.
func (s *generationService) GenerateForDate(ctx context.Context, targetDate time.Time) ([]models.LedgerEntry, error) {
	target := calendar.DateOnly(targetDate)

	var templates []models.RecurringTemplate
	err := s.db.WithContext(ctx).
		Where("is_active = ? AND start_date <= ?", true, target).
		Find(&templates).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}

	created := make([]models.LedgerEntry, 0)
	for i := range templates {
		tmpl := &templates[i]

		due, err := s.isDueOn(ctx, tmpl, target)
		if err != nil {
			logger.Get().Warnw("skipping template, due check failed",
				"template_id", tmpl.ID, "date", target.Format(time.DateOnly), "error", err)
			continue
		}
		if !due {
			continue
		}

		entry, err := s.materialize(ctx, tmpl, target)
		if err != nil {
			logger.Get().Errorw("failed to materialize entry",
				"template_id", tmpl.ID, "date", target.Format(time.DateOnly), "error", err)
			continue
		}
		if entry != nil {
			created = append(created, *entry)
		}
	}

	return created, nil
}

// GenerateForRange runs generation day by day over [start, end]. Each date is
// independently idempotent, so the range may be cancelled between iterations
// and resumed later without inconsistency.
func (s *generationService) GenerateForRange(ctx context.Context, start, end time.Time) ([]models.LedgerEntry, error) {
	from := calendar.DateOnly(start)
	to := calendar.DateOnly(end)

	created := make([]models.LedgerEntry, 0)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return created, err
		}
		entries, err := s.GenerateForDate(ctx, day)
		if err != nil {
			return created, err
		}
		created = append(created, entries...)
	}
	return created, nil
}

// GenerateForMonth backfills a whole calendar month.
func (s *generationService) GenerateForMonth(ctx context.Context, year int, month time.Month) ([]models.LedgerEntry, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(year, month, calendar.DaysInMonth(year, month), 0, 0, 0, 0, time.UTC)
	return s.GenerateForRange(ctx, first, last)
}

// isDueOn reports whether a template fires on the target date: the clamped
// day-of-month must match and the end condition must still be satisfied.
// AfterOccurrences is evaluated here, at generation time, because it needs a
// count of already-materialized entries.
func (s *generationService) isDueOn(ctx context.Context, tmpl *models.RecurringTemplate, target time.Time) (bool, error) {
	occDay := calendar.ClampDay(target.Year(), target.Month(), tmpl.DayOfMonth)
	if target.Day() != occDay {
		return false, nil
	}

	switch ec := tmpl.EndCondition(); ec.Kind {
	case models.EndNone:
		return true, nil
	case models.EndOnDate:
		return !target.After(calendar.DateOnly(ec.Until)), nil
	case models.EndAfterOccurrences:
		var count int64
		err := s.db.WithContext(ctx).Model(&models.LedgerEntry{}).
			Where("recurring_template_id = ?", tmpl.ID).
			Count(&count).Error
		if err != nil {
			return false, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
		}
		return count < int64(ec.MaxOccurrences), nil
	default:
		return false, nil
	}
}

// materialize creates the ledger entry for (template, date) unless one
// already exists. The unique index on (recurring_template_id, entry_date)
// makes the check-then-create race-safe across processes: a duplicate-key
// insert means a concurrent run won, which is success, not an error.
func (s *generationService) materialize(ctx context.Context, tmpl *models.RecurringTemplate, target time.Time) (*models.LedgerEntry, error) {
	var existing int64
	err := s.db.WithContext(ctx).Model(&models.LedgerEntry{}).
		Where("recurring_template_id = ? AND entry_date = ?", tmpl.ID, target).
		Count(&existing).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}
	if existing > 0 {
		return nil, nil
	}

	templateID := tmpl.ID
	entry := &models.LedgerEntry{
		ProjectID:           tmpl.ProjectID,
		RecurringTemplateID: &templateID,
		SupplierID:          tmpl.SupplierID,
		EntryDate:           target,
		Direction:           tmpl.Direction,
		Amount:              tmpl.Amount,
		Description:         tmpl.Description,
		Category:            tmpl.Category,
		Notes:               tmpl.Notes,
		IsGenerated:         true,
	}

	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}
	return entry, nil
}
