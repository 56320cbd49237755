// Package core provides money parsing and formatting utilities.
//
// Amounts are stored as integer paise (Money.Cents) and converted to
// decimal.Decimal at the edges so rounding is exact.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes every formatted amount.
const CurrencySymbol = "₹"

// ParseDecimalToCents converts a decimal string to paise with half-up rounding.
//
// Digit-group commas and a leading currency symbol are ignored, so values
// produced by FormatINR parse back. Signs, exponents and zero are rejected.
//
// Examples:
//
//	ParseDecimalToCents("12.34")       -> 1234, nil
//	ParseDecimalToCents("1,23,456.78") -> 12345678, nil
//	ParseDecimalToCents("12.345")      -> 1235, nil
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, CurrencySymbol)
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, ErrInvalidAmount
	}
	dots := 0
	for _, r := range s {
		switch {
		case r == '.':
			dots++
		case !unicode.IsDigit(r):
			return 0, ErrInvalidAmount
		}
	}
	if dots > 1 {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	cents := d.Shift(2).Round(0)
	if !cents.IsPositive() || !cents.BigInt().IsInt64() {
		return 0, ErrInvalidAmount
	}
	return cents.IntPart(), nil
}

// ParseMoney is ParseDecimalToCents wrapped in a Money.
func ParseMoney(s string) (Money, error) {
	cents, err := ParseDecimalToCents(s)
	if err != nil {
		return Money{}, err
	}
	return Money{Cents: cents}, nil
}

// MoneyFromDecimal rounds d half away from zero to whole paise.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{Cents: d.Shift(2).Round(0).IntPart()}
}

// Decimal returns the amount in rupees.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String formats the amount with FormatINR.
func (m Money) String() string {
	return FormatINR(m.Decimal())
}

// FormatINR renders amount with the Indian digit grouping: the last three
// integer digits form one group and everything to their left is grouped in
// pairs. The fraction is always two digits, rounded half away from zero.
//
//	FormatINR(123456.78) -> "₹1,23,456.78"
//	FormatINR(-50)       -> "-₹50.00"
func FormatINR(amount decimal.Decimal) string {
	fixed := amount.Abs().StringFixed(2)
	intPart, fracPart, _ := strings.Cut(fixed, ".")
	out := CurrencySymbol + groupIndian(intPart) + "." + fracPart
	// The sign follows the input, so -0.004 renders as "-₹0.00".
	if amount.IsNegative() {
		return "-" + out
	}
	return out
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	groups := make([]string, 0, len(head)/2+1)
	for len(head) > 2 {
		groups = append(groups, head[len(head)-2:])
		head = head[:len(head)-2]
	}
	groups = append(groups, head)
	// groups were collected right to left
	for i, j := 0, len(groups)-1; i < j; i, j = i+1, j-1 {
		groups[i], groups[j] = groups[j], groups[i]
	}
	return strings.Join(groups, ",") + "," + tail
}
