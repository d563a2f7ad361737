package rateio

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vsinha/rateio/pkg/domain/entities"
	"github.com/vsinha/rateio/pkg/domain/services"
)

// Sequencer orders the loads of a carrier by invoice number
type Sequencer struct{}

// NewSequencer creates a new sequencer
func NewSequencer() *Sequencer {
	return &Sequencer{}
}

// Sequence sets group.Sequence to the group's load numbers ordered by the
// first invoice of each load's first delivery. Loads are inserted in
// ascending load number order, so loads with equal invoice keys stay in
// load number order. A load whose key cannot be parsed is left out of the
// sequence with a warning.
func (s *Sequencer) Sequence(group *entities.CarrierGroup) []string {
	var warnings []string
	numbers := group.LoadNumbers()
	list := services.NewSequenceList[entities.LoadNumber](len(numbers))

	for _, number := range numbers {
		key, err := sequenceKey(group.Loads[number])
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("carrier %q: load %d left out of the sequence: %v", group.Carrier, number, err))
			continue
		}
		list.Insert(key, number)
	}

	group.Sequence = list.Values()
	return warnings
}

func sequenceKey(load *entities.Load) (uint64, error) {
	if len(load.Deliveries) == 0 {
		return 0, fmt.Errorf("load has no deliveries")
	}
	invoice, ok := load.Deliveries[0].FirstInvoice()
	if !ok {
		return 0, fmt.Errorf("first delivery has no invoice")
	}

	key, err := strconv.ParseUint(strings.TrimSpace(invoice), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invoice %q is not numeric: %w", invoice, err)
	}
	return key, nil
}
