package models

// Supplier represents a counterparty for expenses (cleaning company,
// electrician, insurer). Templates and ledger entries reference it optionally.
type Supplier struct {
	Base
	Name    string `gorm:"not null" json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Field   string `json:"field"`
	Notes   string `json:"notes"`
	IsValid bool   `gorm:"default:true" json:"is_valid"`
}
