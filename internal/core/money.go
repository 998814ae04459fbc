// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts typed by the
// user and formatting decimal amounts the way the dashboard displays them.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a user-typed amount to a decimal with two places.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and performs
// half-up rounding on the third decimal place. Negative and zero amounts are
// rejected with a ValidationError.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34
//	ParseAmount("12,345") -> 12.35
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, invalid("amount", "must not be empty")
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, invalid("amount", "must be a plain positive number")
	}
	if strings.Count(s, ".") > 1 {
		return decimal.Zero, invalid("amount", "malformed number")
	}
	for _, r := range s {
		if r != '.' && !unicode.IsDigit(r) {
			return decimal.Zero, invalid("amount", "malformed number")
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, invalid("amount", "malformed number")
	}
	d = d.Round(2)
	if err := validateAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// FormatRON renders an amount in Romanian locale, e.g. "1.234,56 RON".
func FormatRON(d decimal.Decimal) string {
	neg := d.IsNegative()
	fixed := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	b.WriteString(" RON")
	return b.String()
}
