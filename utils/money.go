package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount renders a monetary value with exactly two decimal places.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// ParseAmount parses a decimal amount from its string form.
func ParseAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(s))
}
