package models

import "github.com/shopspring/decimal"

var (
	// MaxMenuPrice is the exclusive upper bound of NUMERIC(10,2).
	MaxMenuPrice = decimal.New(1, 8)
	// MaxAmount is the exclusive upper bound of the NUMERIC(12,2) money columns.
	MaxAmount = decimal.New(1, 10)
)

// Cents rounds an amount to the currency precision stored in the database.
func Cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
