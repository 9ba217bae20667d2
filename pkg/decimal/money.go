package decimal

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Placeholder is shown wherever a value is unavailable.
const Placeholder = "—"

// Money represents an amount in millions of currency units
type Money struct {
	decimal.Decimal
}

// NewMoney creates a new Money instance from a float64
func NewMoney(value float64) Money {
	return Money{decimal.NewFromFloat(value)}
}

// NewMoneyFromDecimal creates a new Money instance from a decimal.Decimal
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// NewMoneyFromString creates a new Money instance from a string.
// A decimal comma is accepted, so "16,5" parses as 16.5.
func NewMoneyFromString(value string) (Money, error) {
	d, err := ParseDecimal(value)
	if err != nil {
		return Money{}, err
	}
	return Money{d}, nil
}

// ParseDecimal parses a number that may use a decimal comma and surrounding spaces.
func ParseDecimal(value string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
	return decimal.NewFromString(s)
}

// Round rounds the amount to one decimal place (100k units)
func (m Money) Round() Money {
	return Money{m.Decimal.Round(1)}
}

// Add adds another Money amount
func (m Money) Add(other Money) Money {
	return Money{m.Decimal.Add(other.Decimal)}
}

// Sub subtracts another Money amount
func (m Money) Sub(other Money) Money {
	return Money{m.Decimal.Sub(other.Decimal)}
}

// Zero returns a zero Money amount
func Zero() Money {
	return Money{decimal.Zero}
}

// String returns the amount with one decimal place
func (m Money) String() string {
	return m.Decimal.StringFixed(1)
}

// Format formats the amount with its unit
func (m Money) Format() string {
	return m.String() + " M"
}

// FormatMillions renders an optional amount with one decimal place, or the
// placeholder when d is nil.
func FormatMillions(d *decimal.Decimal) string {
	if d == nil {
		return Placeholder
	}
	return NewMoneyFromDecimal(*d).String()
}

// FormatPercent renders a percentage value (already scaled to 0-100).
func FormatPercent(p decimal.Decimal) string {
	return p.StringFixed(1) + "%"
}
