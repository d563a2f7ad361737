package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// PricePlaces is the number of decimal places prices are rounded to
const PricePlaces = 2

// RoundPrice rounds a price to the nearest hundredth, halves away from zero.
// RoundPrice(1.005) == 1.01 and RoundPrice is stable under re-rounding.
func RoundPrice(value decimal.Decimal) decimal.Decimal {
	return value.Round(PricePlaces)
}

// ParseCommaDecimal parses a number written with a comma decimal separator ("3,431")
func ParseCommaDecimal(value string) (decimal.Decimal, error) {
	normalized := strings.Replace(strings.TrimSpace(value), ",", ".", 1)
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid comma decimal %q: %w", value, err)
	}
	return d, nil
}

// ParseBRLAmount parses a monetary amount written with dot thousands
// separators and a comma decimal separator ("1.342,87")
func ParseBRLAmount(value string) (decimal.Decimal, error) {
	withoutThousands := strings.ReplaceAll(strings.TrimSpace(value), ".", "")
	d, err := decimal.NewFromString(strings.Replace(withoutThousands, ",", ".", 1))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	return d, nil
}
