package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContractPeriod is a closed-out project contract period: an immutable
// archive of the period's final totals and the budget configuration that was
// in force when it closed. Uniquely identified by (project, start, end) so
// repeated rollover runs cannot archive the same period twice.
type ContractPeriod struct {
	Base
	ProjectID string  `gorm:"type:uuid;not null;index;uniqueIndex:idx_project_period" json:"project_id"`
	Project   Project `gorm:"foreignKey:ProjectID" json:"-"`

	StartDate time.Time `gorm:"not null;uniqueIndex:idx_project_period" json:"start_date"`
	EndDate   time.Time `gorm:"not null;uniqueIndex:idx_project_period" json:"end_date"`

	// Year of the period's end date; YearIndex disambiguates multiple
	// periods ending in the same calendar year (1-based, in close order).
	Year      int `gorm:"not null;index" json:"year"`
	YearIndex int `gorm:"not null" json:"year_index"`

	TotalIncome  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_income"`
	TotalExpense decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_expense"`
	TotalProfit  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_profit"`

	// BudgetsSnapshot holds the project's budget configuration at close
	// time, serialized as JSON.
	BudgetsSnapshot string `gorm:"type:text" json:"budgets_snapshot"`
}
