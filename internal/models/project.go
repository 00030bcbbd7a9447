package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Project represents a building-maintenance project. A project carries an
// optional contract window (StartDate/EndDate) and optional expected-income
// budgets that feed the projection engine.
type Project struct {
	Base
	Name         string `gorm:"not null" json:"name"`
	Description  string `json:"description"`
	Address      string `json:"address"`
	City         string `json:"city"`
	NumResidents int    `json:"num_residents"`

	// Contract window. Both nil means the project has no bounded contract
	// and projections fall back to a trailing one-year window.
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`

	// Expected income. When both are set, the monthly budget takes
	// precedence and the annual budget is ignored.
	BudgetMonthly *decimal.Decimal `gorm:"type:numeric(14,2)" json:"budget_monthly,omitempty"`
	BudgetAnnual  *decimal.Decimal `gorm:"type:numeric(14,2)" json:"budget_annual,omitempty"`

	IsActive bool `gorm:"default:true" json:"is_active"`
}
