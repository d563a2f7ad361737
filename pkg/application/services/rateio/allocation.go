package rateio

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/rateio/pkg/domain/entities"
	"github.com/vsinha/rateio/pkg/domain/services"
)

// AllocationEngine apportions a load's total price across its deliveries
// in proportion to their volume
type AllocationEngine struct{}

// NewAllocationEngine creates a new allocation engine
func NewAllocationEngine() *AllocationEngine {
	return &AllocationEngine{}
}

// Allocate sets the price of every delivery of load. Each share is rounded
// to the cent and the first delivery absorbs the difference between the
// total price and the sum of the rounded shares, so the delivery prices add
// up to the total exactly. A load without volume keeps every price at zero.
func (e *AllocationEngine) Allocate(load *entities.Load) entities.AllocationResult {
	load.RecomputeVolume()

	result := entities.AllocationResult{
		Carrier:    load.Carrier,
		LoadNumber: load.Number,
		TotalPrice: load.TotalPrice,
		RoundedSum: decimal.Zero,
		Remainder:  decimal.Zero,
	}

	for _, delivery := range load.Deliveries {
		delivery.Price = decimal.Zero
	}

	if len(load.Deliveries) == 0 || !load.TotalVolume.IsPositive() {
		result.Skipped = true
		return result
	}

	irregularTotal := decimal.Zero
	for _, delivery := range load.Deliveries {
		share := load.TotalPrice.Mul(delivery.Volume).Div(load.TotalVolume)
		delivery.Price = services.RoundPrice(share)
		irregularTotal = irregularTotal.Add(delivery.Price)
	}

	remainder := load.TotalPrice.Sub(irregularTotal)
	first := load.Deliveries[0]
	first.Price = first.Price.Add(remainder)

	result.RoundedSum = irregularTotal
	result.Remainder = remainder
	return result
}
