package entities

import "github.com/shopspring/decimal"

// AllocationResult records how a Load's total price was apportioned
type AllocationResult struct {
	Carrier    string          `json:"carrier"`
	LoadNumber LoadNumber      `json:"load_number"`
	TotalPrice decimal.Decimal `json:"total_price"`
	RoundedSum decimal.Decimal `json:"rounded_sum"`
	Remainder  decimal.Decimal `json:"remainder"`
	Skipped    bool            `json:"skipped"`
}
