package entities

import "github.com/shopspring/decimal"

// LoadNumber identifies a transport load shared by several deliveries
type LoadNumber uint32

// Quantity represents a count of shipped packages
type Quantity uint32

// DocumentRecord holds the fields extracted from a single shipping document.
// It is produced once per document and never mutated afterwards.
type DocumentRecord struct {
	Source     string // document name, used to locate warnings
	Invoice    string
	AccessKey  string
	Client     string
	Carrier    string
	Quantity   Quantity
	Volume     decimal.Decimal
	LoadNumber LoadNumber
}
