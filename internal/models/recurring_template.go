package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency represents how often a recurring template fires
type Frequency string

const (
	FrequencyMonthly Frequency = "monthly"
)

// EndKind tags the termination rule of a recurring template
type EndKind string

const (
	EndNone             EndKind = "no_end"
	EndAfterOccurrences EndKind = "after_occurrences"
	EndOnDate           EndKind = "on_date"
)

// EndCondition is the tagged variant form of a template's termination rule.
// Exactly one variant is meaningful per Kind: MaxOccurrences for
// EndAfterOccurrences, Until for EndOnDate. Consumers switch on Kind
// exhaustively instead of re-checking raw columns.
type EndCondition struct {
	Kind           EndKind
	MaxOccurrences int
	Until          time.Time
}

// RecurringTemplate is a rule producing periodic ledger entries. Frequency is
// currently monthly only; DayOfMonth may exceed the length of a month, in
// which case the occurrence clamps to the month's last day.
type RecurringTemplate struct {
	Base
	ProjectID string  `gorm:"type:uuid;not null;index" json:"project_id"`
	Project   Project `gorm:"foreignKey:ProjectID" json:"-"`

	SupplierID *string   `gorm:"type:uuid;index" json:"supplier_id,omitempty"`
	Supplier   *Supplier `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`

	Description string          `gorm:"not null" json:"description"`
	Direction   EntryDirection  `gorm:"not null;index" json:"direction"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Category    string          `gorm:"index" json:"category"`
	Notes       string          `json:"notes"`

	Frequency  Frequency `gorm:"not null;default:monthly" json:"frequency"`
	DayOfMonth int       `gorm:"not null" json:"day_of_month"`
	StartDate  time.Time `gorm:"not null;index" json:"start_date"`

	// Raw end-condition columns. Read through EndCondition(), never directly.
	EndType        EndKind    `gorm:"not null;default:no_end" json:"end_type"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	MaxOccurrences *int       `json:"max_occurrences,omitempty"`

	IsActive bool `gorm:"default:true;index" json:"is_active"`
}

// EndCondition resolves the raw end-condition columns into the tagged variant.
// Rows with an unknown end type or a missing variant field degrade to NoEnd;
// the template service rejects such writes up front.
func (t *RecurringTemplate) EndCondition() EndCondition {
	switch t.EndType {
	case EndAfterOccurrences:
		if t.MaxOccurrences != nil {
			return EndCondition{Kind: EndAfterOccurrences, MaxOccurrences: *t.MaxOccurrences}
		}
	case EndOnDate:
		if t.EndDate != nil {
			return EndCondition{Kind: EndOnDate, Until: *t.EndDate}
		}
	}
	return EndCondition{Kind: EndNone}
}
