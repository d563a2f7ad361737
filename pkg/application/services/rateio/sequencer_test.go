package rateio

import (
	"math/rand"
	"sort"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/rateio/pkg/domain/entities"
)

func groupWithInvoices(invoices map[entities.LoadNumber]string) *entities.CarrierGroup {
	group := entities.NewCarrierGroup("TRANSLOG")
	for number, invoice := range invoices {
		load := newLoad(number, "10.00")
		load.AddDelivery(delivery("C"+invoice, invoice, "K"+invoice, 1, "1", "0"))
		group.Loads[number] = load
	}
	return group
}

func TestSequenceByFirstInvoice(t *testing.T) {
	group := groupWithInvoices(map[entities.LoadNumber]string{
		100001: "000300",
		100002: "000100",
		100003: "000200",
	})

	warnings := NewSequencer().Sequence(group)

	assert.Empty(t, warnings)
	assert.Equal(t, []entities.LoadNumber{100002, 100003, 100001}, group.Sequence)
}

func TestSequenceUsesFirstDeliveryOfLoad(t *testing.T) {
	group := groupWithInvoices(map[entities.LoadNumber]string{1: "50"})
	second := newLoad(2, "10.00")
	second.AddDelivery(delivery("A", "60", "K60", 1, "1", "0"))
	second.AddDelivery(delivery("B", "10", "K10", 1, "1", "0"))
	group.Loads[2] = second

	NewSequencer().Sequence(group)

	assert.Equal(t, []entities.LoadNumber{1, 2}, group.Sequence)
}

func TestSequenceTieBreakByLoadNumber(t *testing.T) {
	group := groupWithInvoices(map[entities.LoadNumber]string{
		300: "42",
		100: "42",
		200: "7",
		400: "42",
	})

	NewSequencer().Sequence(group)

	assert.Equal(t, []entities.LoadNumber{200, 100, 300, 400}, group.Sequence)
}

func TestSequenceOmitsUnparsableKeys(t *testing.T) {
	group := groupWithInvoices(map[entities.LoadNumber]string{
		1: "12",
		2: "NF-13",
		3: "",
		4: "11",
	})
	group.Loads[5] = newLoad(5, "10.00")

	warnings := NewSequencer().Sequence(group)

	assert.Equal(t, []entities.LoadNumber{4, 1}, group.Sequence)
	require.Len(t, warnings, 3)
	assert.Contains(t, warnings[0], "load 2 left out of the sequence")
	assert.Contains(t, warnings[2], "load has no deliveries")

	// delivery data of omitted loads is untouched
	assert.Len(t, group.Loads[2].Deliveries, 1)
}

func TestSequenceAscendingForRandomInvoices(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	invoices := make(map[entities.LoadNumber]string)
	keys := make(map[uint64]bool)
	for number := entities.LoadNumber(1); len(invoices) < 200; number++ {
		key := rng.Uint64() % 1_000_000_000
		if keys[key] {
			continue
		}
		keys[key] = true
		invoices[number] = strconv.FormatUint(key, 10)
	}
	group := groupWithInvoices(invoices)

	NewSequencer().Sequence(group)

	require.Len(t, group.Sequence, 200)
	sequenced := make([]uint64, len(group.Sequence))
	for i, number := range group.Sequence {
		key, err := strconv.ParseUint(invoices[number], 10, 64)
		require.NoError(t, err)
		sequenced[i] = key
	}
	assert.True(t, sort.SliceIsSorted(sequenced, func(i, j int) bool { return sequenced[i] < sequenced[j] }))
}
