// Package rateio apportions the freight price of shared transport loads
// across the deliveries they carry.
package rateio

import (
	"fmt"

	"github.com/vsinha/rateio/pkg/domain/entities"
	"github.com/vsinha/rateio/pkg/domain/repositories"
)

// Aggregator groups document records into carrier loads and joins them with
// the commercial facts of each load
type Aggregator struct{}

// NewAggregator creates a new record aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// AggregationStats summarizes one aggregation pass
type AggregationStats struct {
	Loads   int
	Skipped int
}

// Aggregate builds the carrier groups from records, in record order. A
// record whose load has no commercial fact is skipped with a warning. The
// first record of a (carrier, load) pair creates the Load from the fact.
func (a *Aggregator) Aggregate(
	records []entities.DocumentRecord,
	facts repositories.CommercialFactRepository,
) (entities.Carriers, AggregationStats, []string) {
	carriers := make(entities.Carriers)
	loadCarriers := make(map[entities.LoadNumber]string)
	var stats AggregationStats
	var warnings []string

	for _, record := range records {
		fact, ok := facts.GetFact(record.LoadNumber)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("%s: no freight announced for load %d, document skipped", locate(record), record.LoadNumber))
			stats.Skipped++
			continue
		}

		delivery, err := entities.NewDelivery(record)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v, document skipped", locate(record), err))
			stats.Skipped++
			continue
		}

		if carrier, seen := loadCarriers[record.LoadNumber]; !seen {
			loadCarriers[record.LoadNumber] = record.Carrier
		} else if carrier != record.Carrier {
			warnings = append(warnings, fmt.Sprintf("%s: load %d is also handled by carrier %q, priced separately for %q",
				locate(record), record.LoadNumber, carrier, record.Carrier))
		}

		group, exists := carriers[record.Carrier]
		if !exists {
			group = entities.NewCarrierGroup(record.Carrier)
			carriers[record.Carrier] = group
		}

		load, exists := group.Loads[record.LoadNumber]
		if !exists {
			load = entities.NewLoad(record.Carrier, *fact)
			group.Loads[record.LoadNumber] = load
			stats.Loads++
		}
		load.AddDelivery(delivery)
	}

	return carriers, stats, warnings
}

// locate names the document a record came from
func locate(record entities.DocumentRecord) string {
	if record.Source != "" {
		return record.Source
	}
	return fmt.Sprintf("invoice %q", record.Invoice)
}
