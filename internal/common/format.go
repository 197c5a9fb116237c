package common

import (
	"fmt"
)

// FormatMoney formats a value as a dollar amount with two decimals.
func FormatMoney(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// FormatSignedPct formats a percentage with an explicit sign.
func FormatSignedPct(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}

// FormatMarketCap humanizes a market capitalization value.
// Values of a trillion or more render in T, a billion or more in B,
// a million or more in M, anything smaller as a plain dollar amount.
func FormatMarketCap(v float64) string {
	switch {
	case v >= 1e12:
		return fmt.Sprintf("$%.2fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	case v > 0:
		return FormatMoney(v)
	default:
		return "N/A"
	}
}
