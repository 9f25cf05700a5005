package calculator

import "github.com/shopspring/decimal"

// round rounds a dollar amount to cents
func round(val float64) float64 {
	return decimal.NewFromFloat(val).Round(2).InexactFloat64()
}
