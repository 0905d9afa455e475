// Package core holds the party payment domain model and the pure view
// derivation helpers shared by the HTTP layer, the import reconciler and the
// export emitters.
//
// Monetary amounts live in two representations: 2-decimal display strings at
// the domain layer and int64 minor units (amount * 100) on the ledger wire.
// Conversions here are exact; no float arithmetic is involved.
package core

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ToMinorUnits converts a decimal amount string to integer minor units by
// truncating value*100 toward zero. Inputs with more than two fractional
// digits lose the excess digits; "1.239" becomes 123.
//
// Examples:
//
//	ToMinorUnits("150.00") -> 15000, nil
//	ToMinorUnits("1.2")    -> 120, nil
//	ToMinorUnits("abc")    -> 0, ErrInvalidAmount
func ToMinorUnits(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return d.Shift(2).IntPart(), nil
}

// MinorUnitsOrZero is ToMinorUnits with blank input treated as zero, for
// optional amount fields crossing the ledger boundary.
func MinorUnitsOrZero(s string) int64 {
	if strings.TrimSpace(s) == "" {
		return 0
	}
	m, err := ToMinorUnits(s)
	if err != nil {
		return 0
	}
	return m
}

// FromMinorUnits renders minor units as a 2-decimal string ("15000" -> "150.00").
func FromMinorUnits(m int64) string {
	neg := m < 0
	if neg {
		m = -m
	}
	whole := m / 100
	frac := m % 100
	s := strconv.FormatInt(whole, 10) + "." + pad2(frac)
	if neg {
		return "-" + s
	}
	return s
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
