package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"vaadly/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Date builds a midnight-UTC date, the normalized form used throughout the
// generation and projection engines.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CreateTestProject creates an active project without a contract window.
func CreateTestProject(t *testing.T, db *gorm.DB) *models.Project {
	t.Helper()

	project := &models.Project{
		Name:     fmt.Sprintf("Test Building %d", nextID()),
		Address:  "12 Herzl St",
		City:     "Tel Aviv",
		IsActive: true,
	}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("failed to create test project: %v", err)
	}
	return project
}

// CreateTestProjectWithContract creates a project with the given contract window.
func CreateTestProjectWithContract(t *testing.T, db *gorm.DB, start, end time.Time) *models.Project {
	t.Helper()

	project := &models.Project{
		Name:      fmt.Sprintf("Test Building %d", nextID()),
		StartDate: &start,
		EndDate:   &end,
		IsActive:  true,
	}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("failed to create test project: %v", err)
	}
	return project
}

// CreateTestSupplier creates a supplier.
func CreateTestSupplier(t *testing.T, db *gorm.DB) *models.Supplier {
	t.Helper()

	supplier := &models.Supplier{
		Name:    fmt.Sprintf("Test Supplier %d", nextID()),
		Field:   "cleaning",
		IsValid: true,
	}
	if err := db.Create(supplier).Error; err != nil {
		t.Fatalf("failed to create test supplier: %v", err)
	}
	return supplier
}

// CreateTestTemplate creates an active monthly template with no end condition.
func CreateTestTemplate(t *testing.T, db *gorm.DB, projectID string, amount decimal.Decimal, dayOfMonth int, start time.Time) *models.RecurringTemplate {
	t.Helper()

	tmpl := &models.RecurringTemplate{
		ProjectID:   projectID,
		Description: fmt.Sprintf("Test Template %d", nextID()),
		Direction:   models.DirectionExpense,
		Amount:      amount,
		Category:    "maintenance",
		Frequency:   models.FrequencyMonthly,
		DayOfMonth:  dayOfMonth,
		StartDate:   start,
		EndType:     models.EndNone,
		IsActive:    true,
	}
	if err := db.Create(tmpl).Error; err != nil {
		t.Fatalf("failed to create test template: %v", err)
	}
	return tmpl
}

// CreateTestEntry creates a manual ledger entry.
func CreateTestEntry(t *testing.T, db *gorm.DB, projectID string, direction models.EntryDirection, amount decimal.Decimal, date time.Time) *models.LedgerEntry {
	t.Helper()

	entry := &models.LedgerEntry{
		ProjectID:   projectID,
		EntryDate:   date,
		Direction:   direction,
		Amount:      amount,
		Description: fmt.Sprintf("Test Entry %d", nextID()),
		Category:    "maintenance",
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test entry: %v", err)
	}
	return entry
}

// CreateTestBudget creates an active category budget.
func CreateTestBudget(t *testing.T, db *gorm.DB, projectID, category string, amount decimal.Decimal, period models.BudgetPeriod, start time.Time) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		ProjectID:  projectID,
		Category:   category,
		Amount:     amount,
		PeriodType: period,
		StartDate:  start,
		IsActive:   true,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}
