// Package core holds the domain values shared by the dashboard, the settings
// store and the HTTP layer.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParseRupiah parses a user-typed rupiah amount.
//
// Input comes from masked form fields, so grouping dots, spaces and a leading
// "Rp" are ignored. A comma starts the fractional part, which is rounded
// half-up to whole rupiah. Negative amounts are rejected; zero is allowed.
//
//	ParseRupiah("1.500.000")    -> 1500000
//	ParseRupiah("Rp 2.500,50")  -> 2501
//	ParseRupiah("750000")       -> 750000
func ParseRupiah(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(s, "Rp"), "."))
	if s == "" {
		return 0, ErrInvalidAmount
	}
	intPart, fracPart, hasFrac := strings.Cut(s, ",")
	var digits strings.Builder
	for _, r := range intPart {
		switch {
		case unicode.IsDigit(r):
			digits.WriteRune(r)
		case r == '.' || r == ' ' || r == '\u00a0':
		default:
			return 0, ErrInvalidAmount
		}
	}
	if digits.Len() == 0 {
		return 0, ErrInvalidAmount
	}
	num := digits.String()
	if hasFrac {
		if fracPart == "" {
			return 0, ErrInvalidAmount
		}
		for _, r := range fracPart {
			if !unicode.IsDigit(r) {
				return 0, ErrInvalidAmount
			}
		}
		num += "." + fracPart
	}
	d, err := decimal.NewFromString(num)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return d.Round(0).InexactFloat64(), nil
}
