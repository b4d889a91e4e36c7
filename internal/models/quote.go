package models

import "time"

// Quote is a point-in-time price for a symbol. Price is nil when the
// provider could not supply one.
type Quote struct {
	Symbol    string    `json:"symbol"`
	Price     *float64  `json:"price"`
	ChangePct *float64  `json:"change_pct,omitempty"`
	Name      string    `json:"name,omitempty"`
	AsOf      time.Time `json:"as_of"`
}
