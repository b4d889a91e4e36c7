package models

import "time"

// OptionContract is a normalized raw chain row. Provider-specific field
// names are mapped into this shape by the client packages.
type OptionContract struct {
	Symbol       string    `json:"symbol"`
	Expiry       time.Time `json:"expiry"`
	Strike       float64   `json:"strike"`
	Bid          float64   `json:"bid"`
	Ask          float64   `json:"ask"`
	Last         float64   `json:"last"`
	IV           float64   `json:"iv"`
	OpenInterest int64     `json:"open_interest"`
	Volume       int64     `json:"volume"`
	IsCall       bool      `json:"is_call"`
}

// ChainExpiry groups the calls and puts for one expiration.
type ChainExpiry struct {
	Expiry time.Time        `json:"expiry"`
	DTE    int              `json:"dte"`
	Calls  []OptionContract `json:"calls"`
	Puts   []OptionContract `json:"puts"`
}

// ChainBook is the gateway result for one symbol. It is always
// well-typed: provider failures leave Chains empty and set Note.
type ChainBook struct {
	Symbol   string        `json:"symbol"`
	Price    *float64      `json:"price"`
	Expiries []time.Time   `json:"expiries"`
	Chains   []ChainExpiry `json:"chains"`
	Note     string        `json:"note,omitempty"`
}

// EnrichedContract carries the analytics derived from a raw row.
// MidPrice, Strike and the underlying spot are strictly positive by
// construction; rows that fail that guard are discarded upstream.
type EnrichedContract struct {
	Expiry          time.Time `json:"expiry"`
	Type            string    `json:"type"` // "CALL" or "PUT"
	Strike          float64   `json:"strike"`
	MidPrice        float64   `json:"mid_price"`
	IV              float64   `json:"iv"`
	Delta           *float64  `json:"delta"`
	ProbAboveStrike *float64  `json:"prob_finish_above_strike"`
	ProbProfit      *float64  `json:"prob_profit,omitempty"`
	Breakeven       float64   `json:"breakeven"`
	OpenInterest    int64     `json:"open_interest"`
	Volume          int64     `json:"volume"`
	Confidence      int       `json:"confidence"`
}
