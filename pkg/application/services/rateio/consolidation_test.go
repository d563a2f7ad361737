package rateio

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/rateio/pkg/domain/entities"
)

var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func delivery(client, invoice, key string, quantity entities.Quantity, volume, price string) *entities.Delivery {
	return &entities.Delivery{
		Invoices:   []string{invoice},
		AccessKeys: []string{key},
		Client:     client,
		Quantity:   quantity,
		Volume:     dec(volume),
		Price:      dec(price),
	}
}

func TestConsolidateMergesSameClient(t *testing.T) {
	load := newLoad(1, "30.00")
	load.AddDelivery(delivery("X", "10", "K10", 1, "0.5", "10.00"))
	load.AddDelivery(delivery("X", "20", "K20", 2, "1.0", "20.00"))

	absorbed := NewConsolidator().Consolidate(load)

	assert.Equal(t, 1, absorbed)
	require.Len(t, load.Deliveries, 1)
	merged := load.Deliveries[0]
	assert.Equal(t, "X", merged.Client)
	assert.True(t, merged.Price.Equal(dec("30.00")))
	assert.Equal(t, entities.Quantity(3), merged.Quantity)
	assert.True(t, merged.Volume.Equal(dec("1.5")))
	assert.Equal(t, []string{"10", "20"}, merged.Invoices)
	assert.Equal(t, []string{"K10", "K20"}, merged.AccessKeys)
	assert.True(t, load.TotalVolume.Equal(dec("1.5")))
}

func TestConsolidateKeepsFirstSeenOrder(t *testing.T) {
	load := newLoad(1, "0")
	load.AddDelivery(delivery("B", "1", "K1", 1, "1", "1"))
	load.AddDelivery(delivery("A", "2", "K2", 1, "1", "1"))
	load.AddDelivery(delivery("B", "3", "K3", 1, "1", "1"))
	load.AddDelivery(delivery("C", "4", "K4", 1, "1", "1"))
	load.AddDelivery(delivery("A", "5", "K5", 1, "1", "1"))

	NewConsolidator().Consolidate(load)

	var clients []string
	for _, d := range load.Deliveries {
		clients = append(clients, d.Client)
	}
	assert.Equal(t, []string{"B", "A", "C"}, clients)
	assert.Equal(t, []string{"1", "3"}, load.Deliveries[0].Invoices)
	assert.Equal(t, []string{"2", "5"}, load.Deliveries[1].Invoices)
}

func TestConsolidateIsIdempotent(t *testing.T) {
	load := newLoad(1, "90.00")
	load.AddDelivery(delivery("X", "1", "K1", 1, "1", "30.00"))
	load.AddDelivery(delivery("Y", "2", "K2", 1, "1", "30.00"))
	load.AddDelivery(delivery("X", "3", "K3", 1, "1", "30.00"))

	consolidator := NewConsolidator()
	consolidator.Consolidate(load)
	once := cloneDeliveries(load.Deliveries)

	absorbed := consolidator.Consolidate(load)

	assert.Zero(t, absorbed)
	if diff := cmp.Diff(once, load.Deliveries, decimalComparer); diff != "" {
		t.Errorf("second consolidation changed deliveries (-once +twice):\n%s", diff)
	}
}

func TestConsolidateAfterAllocationKeepsTotal(t *testing.T) {
	load := newLoad(1, "100.00")
	load.AddDelivery(delivery("X", "1", "K1", 1, "1", "0"))
	load.AddDelivery(delivery("Y", "2", "K2", 1, "1", "0"))
	load.AddDelivery(delivery("X", "3", "K3", 1, "1", "0"))

	NewAllocationEngine().Allocate(load)
	NewConsolidator().Consolidate(load)

	require.Len(t, load.Deliveries, 2)
	assert.Equal(t, "66.67", load.Deliveries[0].Price.StringFixed(2))
	assert.Equal(t, "33.33", load.Deliveries[1].Price.StringFixed(2))
	assert.True(t, load.PriceSum().Equal(dec("100.00")))
}

func cloneDeliveries(deliveries []*entities.Delivery) []*entities.Delivery {
	out := make([]*entities.Delivery, len(deliveries))
	for i, d := range deliveries {
		c := *d
		c.Invoices = append([]string(nil), d.Invoices...)
		c.AccessKeys = append([]string(nil), d.AccessKeys...)
		out[i] = &c
	}
	return out
}
