package dto

import (
	"encoding/json"
	"time"

	"github.com/vsinha/rateio/pkg/domain/entities"
)

// RateioResult contains the complete output of a rateio run
type RateioResult struct {
	RunID       string
	Carriers    entities.Carriers
	Warnings    []string
	Allocations []entities.AllocationResult
	Documents   int
	Duration    time.Duration
}

// NewRateioResult creates an empty result for a run
func NewRateioResult(runID string) *RateioResult {
	return &RateioResult{
		RunID:       runID,
		Carriers:    make(entities.Carriers),
		Warnings:    []string{},
		Allocations: []entities.AllocationResult{},
	}
}

// LoadCount returns the number of loads across all carriers
func (r *RateioResult) LoadCount() int {
	count := 0
	for _, group := range r.Carriers {
		count += len(group.Loads)
	}
	return count
}

// RateioData is the serialized shape of a result consumed by the front end.
// Prices and volumes are plain numbers.
type RateioData struct {
	RunID       string                 `json:"run_id" yaml:"run_id"`
	Loads       map[string]CarrierData `json:"loads" yaml:"loads"`
	Errors      []string               `json:"errors" yaml:"errors"`
	Allocations []AllocationData       `json:"allocations" yaml:"allocations"`
}

// CarrierData is the serialized shape of a carrier group
type CarrierData struct {
	Loads    map[entities.LoadNumber]LoadData `json:"loads" yaml:"loads"`
	Sequence []entities.LoadNumber            `json:"sequence" yaml:"sequence"`
}

// LoadData is the serialized shape of a load
type LoadData struct {
	Deliveries    []DeliveryData `json:"deliveries" yaml:"deliveries"`
	LicensePlate  string         `json:"license_plate" yaml:"license_plate"`
	TotalPrice    float64        `json:"total_price" yaml:"total_price"`
	TotalCubicage float64        `json:"total_cubicage" yaml:"total_cubicage"`
}

// DeliveryData is the serialized shape of a delivery
type DeliveryData struct {
	Danfe    []string          `json:"danfe" yaml:"danfe"`
	Key      []string          `json:"key" yaml:"key"`
	To       string            `json:"to" yaml:"to"`
	Quantity entities.Quantity `json:"quantity" yaml:"quantity"`
	Price    float64           `json:"price" yaml:"price"`
	Cubicage float64           `json:"cubicage" yaml:"cubicage"`
}

// AllocationData is the serialized shape of an allocation report entry
type AllocationData struct {
	Carrier    string              `json:"carrier" yaml:"carrier"`
	LoadNumber entities.LoadNumber `json:"load_number" yaml:"load_number"`
	TotalPrice float64             `json:"total_price" yaml:"total_price"`
	RoundedSum float64             `json:"rounded_sum" yaml:"rounded_sum"`
	Remainder  float64             `json:"remainder" yaml:"remainder"`
	Skipped    bool                `json:"skipped" yaml:"skipped"`
}

// Data converts the result to its serialized shape
func (r *RateioResult) Data() RateioData {
	data := RateioData{
		RunID:       r.RunID,
		Loads:       make(map[string]CarrierData, len(r.Carriers)),
		Errors:      r.Warnings,
		Allocations: make([]AllocationData, 0, len(r.Allocations)),
	}
	if data.Errors == nil {
		data.Errors = []string{}
	}

	for name, group := range r.Carriers {
		carrier := CarrierData{
			Loads:    make(map[entities.LoadNumber]LoadData, len(group.Loads)),
			Sequence: group.Sequence,
		}
		if carrier.Sequence == nil {
			carrier.Sequence = []entities.LoadNumber{}
		}

		for number, load := range group.Loads {
			loadData := LoadData{
				Deliveries:    make([]DeliveryData, 0, len(load.Deliveries)),
				LicensePlate:  load.LicensePlate,
				TotalPrice:    load.TotalPrice.InexactFloat64(),
				TotalCubicage: load.TotalVolume.InexactFloat64(),
			}
			for _, delivery := range load.Deliveries {
				loadData.Deliveries = append(loadData.Deliveries, DeliveryData{
					Danfe:    delivery.Invoices,
					Key:      delivery.AccessKeys,
					To:       delivery.Client,
					Quantity: delivery.Quantity,
					Price:    delivery.Price.InexactFloat64(),
					Cubicage: delivery.Volume.InexactFloat64(),
				})
			}
			carrier.Loads[number] = loadData
		}
		data.Loads[name] = carrier
	}

	for _, allocation := range r.Allocations {
		data.Allocations = append(data.Allocations, AllocationData{
			Carrier:    allocation.Carrier,
			LoadNumber: allocation.LoadNumber,
			TotalPrice: allocation.TotalPrice.InexactFloat64(),
			RoundedSum: allocation.RoundedSum.InexactFloat64(),
			Remainder:  allocation.Remainder.InexactFloat64(),
			Skipped:    allocation.Skipped,
		})
	}

	return data
}

// MarshalJSON renders the front-end contract
func (r *RateioResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Data())
}
