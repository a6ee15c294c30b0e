package models

import "github.com/shopspring/decimal"

// MoneyPlaces matches the NUMERIC(10,2) money columns.
const MoneyPlaces = 2

// fixed renders an amount the way it is stored, "25.00" rather than "25".
func fixed(d decimal.Decimal) string {
	return d.StringFixed(MoneyPlaces)
}
