// Package core holds the expense record model shared by every
// presentation layer: typed records, row parsing, and calendar
// derivations.
//
// This file contains amount parsing and display formatting. Amounts are
// exact decimals; accumulation over many records never loses precision
// the way binary floating point would.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal string to an exact decimal amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and no
// currency symbol. Signed values are allowed; refunds are recorded as
// negative amounts. Returns ErrInvalidAmount for empty or non-numeric
// input.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,34")  -> 12.34, nil
//	ParseAmount("-4.50")  -> -4.5, nil
//	ParseAmount("abc")    -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatUSD renders an amount for display, e.g. "$1206.50" or "-$4.50".
func FormatUSD(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}
