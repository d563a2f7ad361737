package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CommercialFact carries the per-load commercial data announced in a dispatch email
type CommercialFact struct {
	LoadNumber   LoadNumber
	Price        decimal.Decimal
	LicensePlate string
}

// NewCommercialFact creates a validated CommercialFact
func NewCommercialFact(loadNumber LoadNumber, price decimal.Decimal, licensePlate string) (*CommercialFact, error) {
	if loadNumber == 0 {
		return nil, fmt.Errorf("load number cannot be zero")
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("price cannot be negative, got %s", price.String())
	}

	return &CommercialFact{
		LoadNumber:   loadNumber,
		Price:        price,
		LicensePlate: licensePlate,
	}, nil
}
