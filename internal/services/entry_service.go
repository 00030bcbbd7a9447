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

// entryService handles ledger-entry business logic for manual entries and
// instance-level edits of generated ones.
type entryService struct {
	db *gorm.DB
}

// NewEntryService creates a new EntryServicer.
func NewEntryService(db *gorm.DB) EntryServicer {
	return &entryService{db: db}
}

// CreateEntry creates a manual ledger entry.
func (s *entryService) CreateEntry(input EntryInput) (*models.LedgerEntry, error) {
	if !input.Amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if input.Direction != models.DirectionIncome && input.Direction != models.DirectionExpense {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "direction must be income or expense")
	}

	var project models.Project
	if err := s.db.First(&project, "id = ?", input.ProjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}

	date := input.EntryDate
	if date.IsZero() {
		date = time.Now()
	}

	entry := &models.LedgerEntry{
		ProjectID:   input.ProjectID,
		SupplierID:  input.SupplierID,
		EntryDate:   calendar.DateOnly(date),
		Direction:   input.Direction,
		Amount:      input.Amount,
		Description: input.Description,
		Category:    input.Category,
		Notes:       input.Notes,
		FromFund:    input.FromFund,
	}

	if err := s.db.Create(entry).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}
	return entry, nil
}

// GetEntryByID returns a ledger entry by ID.
func (s *entryService) GetEntryByID(entryID string) (*models.LedgerEntry, error) {
	var entry models.LedgerEntry
	if err := s.db.Preload("Supplier").First(&entry, "id = ?", entryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEntryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}
	return &entry, nil
}

// GetProjectEntries returns a paginated, filtered list of entries for a project.
func (s *entryService) GetProjectEntries(projectID string, page pagination.PageRequest, filter EntryFilter) (*pagination.PageResponse[models.LedgerEntry], error) {
	page.Defaults()

	base := s.db.Model(&models.LedgerEntry{}).Where("project_id = ?", projectID)
	base = applyEntryFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}

	var entries []models.LedgerEntry
	if err := base.Scopes(pagination.Paginate(page)).
		Order("entry_date DESC").
		Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}

	result := pagination.NewPageResponse(entries, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyEntryFilters(q *gorm.DB, f EntryFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("entry_date >= ?", calendar.DateOnly(*f.FromDate))
	}
	if f.ToDate != nil {
		q = q.Where("entry_date <= ?", calendar.DateOnly(*f.ToDate))
	}
	if f.Direction != nil {
		q = q.Where("direction = ?", *f.Direction)
	}
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.FromFund != nil {
		q = q.Where("from_fund = ?", *f.FromFund)
	}
	if f.Generated != nil {
		q = q.Where("is_generated = ?", *f.Generated)
	}
	return q
}

// UpdateEntryInstance edits a single entry without touching its template.
// Overriding the amount of a generated occurrence is how one month's charge
// deviates from the template default; the projection engine then uses the
// edited amount through the actual sums.
func (s *entryService) UpdateEntryInstance(entryID string, date *time.Time, amount *decimal.Decimal, category, notes *string) (*models.LedgerEntry, error) {
	entry, err := s.GetEntryByID(entryID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if date != nil {
		updates["entry_date"] = calendar.DateOnly(*date)
	}
	if amount != nil {
		if !amount.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
		}
		updates["amount"] = *amount
	}
	if category != nil {
		updates["category"] = *category
	}
	if notes != nil {
		updates["notes"] = *notes
	}

	if len(updates) > 0 {
		if err := s.db.Model(entry).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
		}
	}
	return entry, nil
}

// DeleteEntry removes an entry permanently. Generated entries are hard
// deleted so the (template, date) slot is freed; deleting an instance does
// not affect its template.
func (s *entryService) DeleteEntry(entryID string) error {
	entry, err := s.GetEntryByID(entryID)
	if err != nil {
		return err
	}
	if err := s.db.Unscoped().Delete(entry).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}
	return nil
}
