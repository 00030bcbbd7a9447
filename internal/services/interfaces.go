package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"vaadly/internal/models"
	"vaadly/internal/pagination"
)

// ProjectServicer defines the contract for project-related business logic.
type ProjectServicer interface {
	CreateProject(name, description, address, city string, numResidents int, startDate, endDate *time.Time, budgetMonthly, budgetAnnual *decimal.Decimal) (*models.Project, error)
	GetProjectByID(projectID string) (*models.Project, error)
	GetProjects(page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.Project], error)
	UpdateProject(projectID string, updates ProjectUpdate) (*models.Project, error)
	DeactivateProject(projectID string) error
}

// ProjectUpdate holds optional field updates for a project. Nil means leave
// the field unchanged.
type ProjectUpdate struct {
	Name          *string
	Description   *string
	Address       *string
	City          *string
	NumResidents  *int
	StartDate     *time.Time
	EndDate       *time.Time
	BudgetMonthly *decimal.Decimal
	BudgetAnnual  *decimal.Decimal
}

// SupplierServicer defines the contract for supplier business logic.
type SupplierServicer interface {
	CreateSupplier(name, phone, email, field, notes string) (*models.Supplier, error)
	GetSupplierByID(supplierID string) (*models.Supplier, error)
	GetSuppliers(page pagination.PageRequest) (*pagination.PageResponse[models.Supplier], error)
	UpdateSupplier(supplierID string, update SupplierUpdate) (*models.Supplier, error)
	DeleteSupplier(supplierID string) error
}

// SupplierUpdate holds optional field updates for a supplier.
type SupplierUpdate struct {
	Name    *string
	Phone   *string
	Email   *string
	Field   *string
	Notes   *string
	IsValid *bool
}

// TemplateServicer defines the contract for recurring-template business logic.
// It is the write side of the template store the generation engine reads from.
type TemplateServicer interface {
	CreateTemplate(input TemplateInput) (*models.RecurringTemplate, error)
	GetTemplateByID(templateID string) (*models.RecurringTemplate, error)
	GetProjectTemplates(projectID string, page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.RecurringTemplate], error)
	UpdateTemplate(templateID string, input TemplateUpdate) (*models.RecurringTemplate, error)
	DeactivateTemplate(templateID string) (*models.RecurringTemplate, error)
	DeleteTemplate(templateID string) error
	GetTemplateEntries(templateID string) ([]models.LedgerEntry, error)
}

// TemplateInput holds the fields for creating a recurring template.
type TemplateInput struct {
	ProjectID      string
	SupplierID     *string
	Description    string
	Direction      models.EntryDirection
	Amount         decimal.Decimal
	Category       string
	Notes          string
	DayOfMonth     int
	StartDate      time.Time
	EndType        models.EndKind
	EndDate        *time.Time
	MaxOccurrences *int
}

// TemplateUpdate holds optional field updates for a template.
type TemplateUpdate struct {
	Description    *string
	Amount         *decimal.Decimal
	Category       *string
	Notes          *string
	DayOfMonth     *int
	StartDate      *time.Time
	EndType        *models.EndKind
	EndDate        *time.Time
	MaxOccurrences *int
	IsActive       *bool
}

// EntryServicer defines the contract for ledger-entry business logic.
type EntryServicer interface {
	CreateEntry(input EntryInput) (*models.LedgerEntry, error)
	GetEntryByID(entryID string) (*models.LedgerEntry, error)
	GetProjectEntries(projectID string, page pagination.PageRequest, filter EntryFilter) (*pagination.PageResponse[models.LedgerEntry], error)
	UpdateEntryInstance(entryID string, date *time.Time, amount *decimal.Decimal, category, notes *string) (*models.LedgerEntry, error)
	DeleteEntry(entryID string) error
}

// EntryInput holds the fields for creating a manual ledger entry.
type EntryInput struct {
	ProjectID   string
	SupplierID  *string
	EntryDate   time.Time
	Direction   models.EntryDirection
	Amount      decimal.Decimal
	Description string
	Category    string
	Notes       string
	FromFund    bool
}

// EntryFilter holds optional filter parameters for listing ledger entries.
type EntryFilter struct {
	FromDate  *time.Time
	ToDate    *time.Time
	Direction *models.EntryDirection
	Category  *string
	FromFund  *bool
	Generated *bool
}

// GenerationServicer defines the contract for the recurring entry generation
// engine. All operations are idempotent: re-running for the same date never
// creates duplicate entries.
type GenerationServicer interface {
	GenerateForDate(ctx context.Context, targetDate time.Time) ([]models.LedgerEntry, error)
	GenerateForRange(ctx context.Context, start, end time.Time) ([]models.LedgerEntry, error)
	GenerateForMonth(ctx context.Context, year int, month time.Month) ([]models.LedgerEntry, error)
}

// StatusColor is the traffic-light classification of a project's profit margin.
type StatusColor string

const (
	StatusGreen  StatusColor = "green"
	StatusYellow StatusColor = "yellow"
	StatusRed    StatusColor = "red"
)

// ProjectTotals is the combined actual + projected + budget-derived financial
// picture of a project over a period.
type ProjectTotals struct {
	ProjectID   string    `json:"project_id"`
	PeriodStart time.Time `json:"period_start"`
	AsOf        time.Time `json:"as_of"`

	ActualIncome     decimal.Decimal `json:"actual_income"`
	ActualExpense    decimal.Decimal `json:"actual_expense"`
	ProjectedIncome  decimal.Decimal `json:"projected_income"`
	ProjectedExpense decimal.Decimal `json:"projected_expense"`
	BudgetIncome     decimal.Decimal `json:"budget_income"`

	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpense  decimal.Decimal `json:"total_expense"`
	Profit        decimal.Decimal `json:"profit"`
	ProfitPercent float64         `json:"profit_percent"`
	StatusColor   StatusColor     `json:"status_color"`
}

// Occurrence is a future, unmaterialized firing of a recurring template.
type Occurrence struct {
	Date     time.Time       `json:"date"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
}

// ProjectionServicer defines the contract for the financial projection engine.
type ProjectionServicer interface {
	ComputeProjectTotals(projectID string, asOf time.Time) (*ProjectTotals, error)
	ComputeTotalsInRange(projectID string, start, end time.Time) (*ProjectTotals, error)
	FutureOccurrences(templateID string, from time.Time, monthsAhead int) ([]Occurrence, error)
}

// RolloverServicer defines the contract for contract-period rollover.
type RolloverServicer interface {
	CheckAndRenew(projectID string, today time.Time) (*models.ContractPeriod, error)
	CheckAndRenewAll(today time.Time) ([]models.ContractPeriod, error)
	ListPeriodsByYear(projectID string) (map[int][]PeriodSummary, error)
}

// PeriodSummary is an archived contract period with its totals, as served to
// the previous-contracts view.
type PeriodSummary struct {
	PeriodID     string          `json:"period_id"`
	StartDate    time.Time       `json:"start_date"`
	EndDate      time.Time       `json:"end_date"`
	YearIndex    int             `json:"year_index"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	TotalProfit  decimal.Decimal `json:"total_profit"`
}

// AlertSeverity classifies how far a budget is consumed.
type AlertSeverity string

const (
	SeverityWarning AlertSeverity = "warning"
	SeverityOverrun AlertSeverity = "overrun"
)

// Alert flags a project category approaching or exceeding its budget.
type Alert struct {
	ProjectID    string          `json:"project_id"`
	BudgetID     string          `json:"budget_id"`
	Category     string          `json:"category"`
	Severity     AlertSeverity   `json:"severity"`
	BudgetAmount decimal.Decimal `json:"budget_amount"`
	Consumed     decimal.Decimal `json:"consumed"`
	Percent      float64         `json:"percent"`
}

// AlertServicer defines the contract for budget alerting.
type AlertServicer interface {
	CheckCategoryAlerts(projectID string, asOf time.Time) ([]Alert, error)
}

// BudgetServicer defines the contract for category-budget business logic.
type BudgetServicer interface {
	CreateBudget(projectID, category string, amount decimal.Decimal, periodType models.BudgetPeriod, startDate time.Time, endDate *time.Time) (*models.Budget, error)
	GetProjectBudgets(projectID string, isActive *bool) ([]models.Budget, error)
	GetBudgetByID(budgetID string) (*models.Budget, error)
	UpdateBudget(budgetID string, amount *decimal.Decimal, endDate *time.Time, isActive *bool) (*models.Budget, error)
	DeleteBudget(budgetID string) error
}
