package numbers

import (
	"github.com/shopspring/decimal"
)

// TruncateToDecimals floors a value at the given token scale. Truncation (never
// rounding) is the canonical policy for reward math so that a pool can never
// pay out more than it was funded with.
func TruncateToDecimals(v decimal.Decimal, decimals int32) decimal.Decimal {
	return v.Truncate(decimals)
}

// RatePerUnit computes amount/total truncated at the given scale. Returns zero
// when total is zero.
func RatePerUnit(amount, total decimal.Decimal, decimals int32) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return amount.DivRound(total, decimals+8).Truncate(decimals)
}

// MustDecimal parses a decimal literal and panics on failure. Reserved for
// package-level constants and test fixtures.
func MustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
