package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"1,23,456.78", 12345678, true},
		{"₹999.00", 99900, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"0", 0, false},
		{"0.004", 0, false},
		{"abc", 0, false},
		{"1e3", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestFormatINR(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "₹0.00"},
		{"5", "₹5.00"},
		{"999", "₹999.00"},
		{"1000", "₹1,000.00"},
		{"12345", "₹12,345.00"},
		{"123456.78", "₹1,23,456.78"},
		{"1234567", "₹12,34,567.00"},
		{"12345678.9", "₹1,23,45,678.90"},
		{"2785.5", "₹2,785.50"},
		{"-50", "-₹50.00"},
		{"-1234.5", "-₹1,234.50"},
		{"0.005", "₹0.01"},
		{"-0.005", "-₹0.01"},
		{"-0.004", "-₹0.00"},
		{"999.995", "₹1,000.00"},
	}
	for _, tc := range cases {
		got := FormatINR(decimal.RequireFromString(tc.in))
		if got != tc.want {
			t.Fatalf("FormatINR(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMoneyString(t *testing.T) {
	if got := (Money{Cents: 278550}).String(); got != "₹2,785.50" {
		t.Fatalf("got %q", got)
	}
	if got := (Money{Cents: -5000}).String(); got != "-₹50.00" {
		t.Fatalf("got %q", got)
	}
	if got := MoneyFromDecimal(decimal.RequireFromString("15.505")); got.Cents != 1551 {
		t.Fatalf("expected 1551 paise, got %d", got.Cents)
	}
}
