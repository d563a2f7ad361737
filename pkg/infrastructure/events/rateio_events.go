package events

import (
	"time"

	"github.com/vsinha/rateio/pkg/domain/entities"
)

// AllEvents subscribes a handler to every event type
const AllEvents = "*"

const (
	RunStartedEvent   = "run.started"
	RunCompletedEvent = "run.completed"
	RunFailedEvent    = "run.failed"

	FactsParsedEvent       = "facts.parsed"
	DocumentsListedEvent   = "documents.listed"
	DocumentExtractedEvent = "document.extracted"

	LoadsAggregatedEvent  = "loads.aggregated"
	LoadAllocatedEvent    = "load.allocated"
	LoadConsolidatedEvent = "load.consolidated"
	CarrierSequencedEvent = "carrier.sequenced"
)

type RunStarted struct {
	Source string `json:"source"`
}

type RunCompleted struct {
	Documents int           `json:"documents"`
	Carriers  int           `json:"carriers"`
	Loads     int           `json:"loads"`
	Warnings  int           `json:"warnings"`
	Duration  time.Duration `json:"duration"`
}

type RunFailed struct {
	Stage string `json:"stage"`
	Error string `json:"error"`
}

type FactsParsed struct {
	Facts    int `json:"facts"`
	Warnings int `json:"warnings"`
}

type DocumentsListed struct {
	Documents []string `json:"documents"`
}

type DocumentExtracted struct {
	Document   string              `json:"document"`
	Invoice    string              `json:"invoice"`
	LoadNumber entities.LoadNumber `json:"load_number"`
	Warnings   int                 `json:"warnings"`
}

type LoadsAggregated struct {
	Carriers int `json:"carriers"`
	Loads    int `json:"loads"`
	Skipped  int `json:"skipped"`
}

type LoadAllocated struct {
	Allocation entities.AllocationResult `json:"allocation"`
}

type LoadConsolidated struct {
	Carrier    string              `json:"carrier"`
	LoadNumber entities.LoadNumber `json:"load_number"`
	Before     int                 `json:"before"`
	After      int                 `json:"after"`
}

type CarrierSequenced struct {
	Carrier  string                `json:"carrier"`
	Sequence []entities.LoadNumber `json:"sequence"`
	Omitted  int                   `json:"omitted"`
}
