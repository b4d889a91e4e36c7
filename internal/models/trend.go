package models

// TrendDirection is the categorical outcome of a trend assessment.
type TrendDirection string

const (
	TrendUp      TrendDirection = "up"
	TrendDown    TrendDirection = "down"
	TrendNeutral TrendDirection = "neutral"
)

// TrendAssessment is derived fresh per request from a Series and is
// never cached past the request lifetime.
type TrendAssessment struct {
	Symbol string         `json:"symbol"`
	Trend  TrendDirection `json:"trend"`
	Score  float64        `json:"score"`
	Notes  []string       `json:"notes,omitempty"`
}
