package entities

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// ErrNegativeVolume is returned when a delivery would carry a negative volume
var ErrNegativeVolume = errors.New("volume cannot be negative")

// Delivery is one client's portion of a Load, built from one or more documents
type Delivery struct {
	Invoices   []string
	AccessKeys []string
	Client     string
	Quantity   Quantity
	Volume     decimal.Decimal
	Price      decimal.Decimal
}

// NewDelivery creates a Delivery from an extracted document record
func NewDelivery(record DocumentRecord) (*Delivery, error) {
	if record.Volume.IsNegative() {
		return nil, fmt.Errorf("invoice %q: %w, got %s", record.Invoice, ErrNegativeVolume, record.Volume.String())
	}

	return &Delivery{
		Invoices:   []string{record.Invoice},
		AccessKeys: []string{record.AccessKey},
		Client:     record.Client,
		Quantity:   record.Quantity,
		Volume:     record.Volume,
		Price:      decimal.Zero,
	}, nil
}

// Absorb merges other into d. Identifier lists are concatenated in order.
func (d *Delivery) Absorb(other *Delivery) {
	d.Price = d.Price.Add(other.Price)
	d.Quantity += other.Quantity
	d.Volume = d.Volume.Add(other.Volume)
	d.Invoices = append(d.Invoices, other.Invoices...)
	d.AccessKeys = append(d.AccessKeys, other.AccessKeys...)
}

// FirstInvoice returns the first invoice identifier of the delivery, if any
func (d *Delivery) FirstInvoice() (string, bool) {
	if len(d.Invoices) == 0 {
		return "", false
	}
	return d.Invoices[0], true
}

// Load is a shipment batch handled by one carrier and one vehicle
type Load struct {
	Number       LoadNumber
	Carrier      string
	Deliveries   []*Delivery
	LicensePlate string
	TotalPrice   decimal.Decimal
	TotalVolume  decimal.Decimal
}

// NewLoad creates an empty Load for a carrier from its commercial fact
func NewLoad(carrier string, fact CommercialFact) *Load {
	return &Load{
		Number:       fact.LoadNumber,
		Carrier:      carrier,
		Deliveries:   make([]*Delivery, 0, 4),
		LicensePlate: fact.LicensePlate,
		TotalPrice:   fact.Price,
		TotalVolume:  decimal.Zero,
	}
}

// AddDelivery appends a delivery and refreshes the total volume
func (l *Load) AddDelivery(delivery *Delivery) {
	l.Deliveries = append(l.Deliveries, delivery)
	l.TotalVolume = l.TotalVolume.Add(delivery.Volume)
}

// ReplaceDeliveries swaps the delivery list and recomputes the total volume
func (l *Load) ReplaceDeliveries(deliveries []*Delivery) {
	l.Deliveries = deliveries
	l.RecomputeVolume()
}

// RecomputeVolume sets TotalVolume to the sum of the deliveries' volumes
func (l *Load) RecomputeVolume() {
	total := decimal.Zero
	for _, delivery := range l.Deliveries {
		total = total.Add(delivery.Volume)
	}
	l.TotalVolume = total
}

// PriceSum returns the sum of the allocated delivery prices
func (l *Load) PriceSum() decimal.Decimal {
	sum := decimal.Zero
	for _, delivery := range l.Deliveries {
		sum = sum.Add(delivery.Price)
	}
	return sum
}

// CarrierGroup holds every Load handled by one carrier
type CarrierGroup struct {
	Carrier  string
	Loads    map[LoadNumber]*Load
	Sequence []LoadNumber
}

// NewCarrierGroup creates an empty group for the named carrier
func NewCarrierGroup(carrier string) *CarrierGroup {
	return &CarrierGroup{
		Carrier:  carrier,
		Loads:    make(map[LoadNumber]*Load),
		Sequence: []LoadNumber{},
	}
}

// LoadNumbers returns the group's load numbers in ascending order
func (g *CarrierGroup) LoadNumbers() []LoadNumber {
	numbers := make([]LoadNumber, 0, len(g.Loads))
	for number := range g.Loads {
		numbers = append(numbers, number)
	}
	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })
	return numbers
}

// Carriers maps carrier names to their groups
type Carriers map[string]*CarrierGroup

// Names returns the carrier names in lexical order
func (c Carriers) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
