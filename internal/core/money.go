// Package core holds the domain entities shared by every engine, plus the
// monetary parsing and formatting helpers.
//
// All monetary arithmetic uses exact decimals. Internal running sums stay
// unrounded; rounding to the display scale of 2 happens only at formatting
// boundaries.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DisplayScale is the number of decimal places used when presenting amounts.
const DisplayScale = 2

// ParseAmount parses a positive monetary amount from user input.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Zero and negative values are rejected: expenses are never stored negative,
// the transaction kind carries the sign semantics.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatAmount renders an amount at the display scale with half-up rounding.
func FormatAmount(d decimal.Decimal) string {
	return d.Round(DisplayScale).StringFixed(DisplayScale)
}

// Percent computes part/whole*100 rounded to the display scale.
// A zero whole yields zero rather than a division error.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Mul(decimal.NewFromInt(100)).Div(whole).Round(DisplayScale)
}
