// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("entry_direction", validateEntryDirection)
		_ = v.RegisterValidation("end_type", validateEndType)
		_ = v.RegisterValidation("budget_period", validateBudgetPeriod)
		_ = v.RegisterValidation("frequency", validateFrequency)
	}
}

func validateEntryDirection(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense":
		return true
	}
	return false
}

func validateEndType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "no_end", "after_occurrences", "on_date":
		return true
	}
	return false
}

func validateBudgetPeriod(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "monthly", "annual":
		return true
	}
	return false
}

func validateFrequency(fl validator.FieldLevel) bool {
	return fl.Field().String() == "monthly"
}
