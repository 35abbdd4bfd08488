package models

import "github.com/shopspring/decimal"

// deductionRate is the flat tax deduction applied to every gross salary.
var deductionRate = decimal.New(2, -1) // 0.2

// NetPay returns gross after the flat 20% deduction, rounded to cents.
func NetPay(gross decimal.Decimal) decimal.Decimal {
	return gross.Sub(Deduction(gross)).Round(2)
}

// Deduction returns the withheld amount for a gross salary, rounded to cents.
func Deduction(gross decimal.Decimal) decimal.Decimal {
	return gross.Mul(deductionRate).Round(2)
}
