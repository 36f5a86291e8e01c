package export

import "github.com/shopspring/decimal"

// FormatFixed renders v with a fixed number of decimal places using
// half-up rounding, so 89.995 prints as 90.00 rather than 89.99.
func FormatFixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

// FormatPercent renders a 0-100 percentage with two decimals and a % sign.
// Digits past the second are dropped rather than rounded, so a value shown
// next to a letter grade never reads as the next band up (92.996 is 92.99%,
// not 93.00%, beside an A-).
func FormatPercent(v float64) string {
	return decimal.NewFromFloat(v).Truncate(2).StringFixed(2) + "%"
}

// FormatWeight renders a 0-1 weight as a whole-number percentage share.
func FormatWeight(w float64) string {
	return decimal.NewFromFloat(w).Shift(2).StringFixed(1) + "%"
}
