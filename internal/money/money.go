// Package money parses and formats currency-agnostic amounts.
//
// Amounts travel through the engine as float64 at full precision. This package
// is only used at the edges: parsing user input and rendering results.
package money

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned for empty, signed, non-numeric, zero or
// out-of-range amounts.
var ErrInvalidAmount = errors.New("invalid amount")

// MaxAmount is the largest amount a single expense may carry. It keeps sums of
// many expenses far from float64 overflow.
const MaxAmount = 1_000_000_000

var maxAmount = decimal.NewFromInt(MaxAmount)

// maxScale bounds the decimal exponent accepted from input.
const maxScale = 18

// ParseAmount converts user input such as "12.34" or "12,34" to a positive amount.
//
// The value is rounded half-up to cents. Inputs that round to zero are rejected.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,345") -> 12.35, nil
//	ParseAmount("-5")     -> 0, ErrInvalidAmount
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("%w: %q must be unsigned", ErrInvalidAmount, s)
	}
	s = strings.ReplaceAll(s, ",", ".")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	// Rescaling a value like "1e-99999999" allocates a power of ten that size.
	if exp := d.Exponent(); exp < -maxScale || exp > maxScale {
		return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidAmount, s)
	}
	if d.GreaterThan(maxAmount) {
		return 0, fmt.Errorf("%w: %q exceeds %d", ErrInvalidAmount, s, MaxAmount)
	}
	d = d.Round(2)
	if !d.IsPositive() {
		return 0, fmt.Errorf("%w: %q must be greater than zero", ErrInvalidAmount, s)
	}
	return d.InexactFloat64(), nil
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

// Format renders amount with exactly two decimals, e.g. 33.333 -> "33.33".
// Non-finite values render as "NaN", "+Inf" or "-Inf".
func Format(amount float64) string {
	if !finite(amount) {
		return fmt.Sprint(amount)
	}
	return decimal.NewFromFloat(amount).StringFixed(2)
}

// FormatWith prefixes the formatted amount with a currency symbol.
func FormatWith(symbol string, amount float64) string {
	return symbol + Format(amount)
}

// Round rounds amount to cents for presentation. Non-finite values are
// returned unchanged.
func Round(amount float64) float64 {
	if !finite(amount) {
		return amount
	}
	return decimal.NewFromFloat(amount).Round(2).InexactFloat64()
}
