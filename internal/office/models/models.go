// Package models holds the family office domain types. A family office is
// the tenant boundary: every employee and payroll record belongs to exactly
// one office and is only ever queried through its id.
package models

import (
	"time"

	"github.com/shopspring/decimal"

	dErrors "stipend/pkg/domain-errors"
)

// FamilyOffice is an isolated customer account. Created at seed time and
// immutable afterwards.
type FamilyOffice struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Employee belongs to exactly one family office and is never reassigned.
// Salary is a fixed two-decimal amount.
type Employee struct {
	ID             int64
	FamilyOfficeID int64
	Name           string
	Salary         decimal.Decimal
	CreatedAt      time.Time
}

// NewEmployee validates the fields an employee record requires.
func NewEmployee(familyOfficeID int64, name string, salary decimal.Decimal) (*Employee, error) {
	if familyOfficeID <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "employee requires a family office")
	}
	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "employee name cannot be empty")
	}
	if salary.IsNegative() {
		return nil, dErrors.New(dErrors.CodeValidation, "salary cannot be negative")
	}
	return &Employee{
		FamilyOfficeID: familyOfficeID,
		Name:           name,
		Salary:         salary.Round(2),
	}, nil
}
