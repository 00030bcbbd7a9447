package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetPeriod represents the period type for a category budget
type BudgetPeriod string

const (
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	BudgetPeriodAnnual  BudgetPeriod = "annual"
)

// Budget is an expected spend ceiling for a project+category over a period.
// Read-only input to the alert engine; it never affects ledger entries.
type Budget struct {
	Base
	ProjectID string  `gorm:"type:uuid;not null;index" json:"project_id"`
	Project   Project `gorm:"foreignKey:ProjectID" json:"-"`

	Category   string          `gorm:"not null;index" json:"category"`
	Amount     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	PeriodType BudgetPeriod    `gorm:"not null" json:"period_type"`
	StartDate  time.Time       `gorm:"not null" json:"start_date"`
	EndDate    *time.Time      `json:"end_date,omitempty"`
	IsActive   bool            `gorm:"default:true" json:"is_active"`
}
