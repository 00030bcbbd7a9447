package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryDirection represents the direction of a ledger entry
type EntryDirection string

const (
	DirectionIncome  EntryDirection = "income"
	DirectionExpense EntryDirection = "expense"
)

// LedgerEntry represents a materialized, dated financial event for a project.
// Entries are created manually or generated from a recurring template; a
// generated entry keeps a back-reference to its template. The unique index on
// (recurring_template_id, entry_date) is the serialization point for the
// generation engine: concurrent runs for the same date collide on insert and
// the conflict is treated as "already generated".
type LedgerEntry struct {
	Base
	ProjectID string  `gorm:"type:uuid;not null;index" json:"project_id"`
	Project   Project `gorm:"foreignKey:ProjectID" json:"-"`

	RecurringTemplateID *string            `gorm:"type:uuid;index;uniqueIndex:idx_template_date" json:"recurring_template_id,omitempty"`
	RecurringTemplate   *RecurringTemplate `gorm:"foreignKey:RecurringTemplateID" json:"-"`

	SupplierID *string   `gorm:"type:uuid;index" json:"supplier_id,omitempty"`
	Supplier   *Supplier `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`

	EntryDate   time.Time       `gorm:"not null;index;uniqueIndex:idx_template_date" json:"entry_date"`
	Direction   EntryDirection  `gorm:"not null;index" json:"direction"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Description string          `json:"description"`
	Category    string          `gorm:"index" json:"category"`
	Notes       string          `json:"notes"`

	// IsGenerated marks entries materialized by the generation engine.
	IsGenerated bool `gorm:"default:false;index" json:"is_generated"`

	// FromFund marks entries drawn from the reserve fund. They are excluded
	// from operating income/expense totals and budget consumption.
	FromFund bool `gorm:"default:false;index" json:"from_fund"`
}
