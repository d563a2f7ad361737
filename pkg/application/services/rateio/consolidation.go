package rateio

import "github.com/vsinha/rateio/pkg/domain/entities"

// Consolidator merges the deliveries of a load that go to the same client
type Consolidator struct{}

// NewConsolidator creates a new consolidator
func NewConsolidator() *Consolidator {
	return &Consolidator{}
}

// Consolidate keeps one delivery per client, in first-seen order. Later
// deliveries to a client are absorbed into the first one: price, quantity
// and volume are summed and identifier lists concatenated. It must run after
// allocation so merged prices are the sum of already rounded shares.
// It returns the number of deliveries absorbed.
func (c *Consolidator) Consolidate(load *entities.Load) int {
	accumulators := make(map[string]*entities.Delivery, len(load.Deliveries))
	merged := make([]*entities.Delivery, 0, len(load.Deliveries))

	for _, delivery := range load.Deliveries {
		if accumulator, seen := accumulators[delivery.Client]; seen {
			accumulator.Absorb(delivery)
			continue
		}
		accumulators[delivery.Client] = delivery
		merged = append(merged, delivery)
	}

	absorbed := len(load.Deliveries) - len(merged)
	load.ReplaceDeliveries(merged)
	return absorbed
}
