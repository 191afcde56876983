package service

import "github.com/shopspring/decimal"

// FormatAmount renders money with two decimal places unless that would drop digits.
func FormatAmount(d decimal.Decimal) string {
	if d.Equal(d.Round(2)) {
		return d.StringFixed(2)
	}
	return d.String()
}
