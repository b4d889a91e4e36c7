package models

// IdeaMode distinguishes an option suggestion from a plain-shares fallback.
type IdeaMode string

const (
	IdeaOption IdeaMode = "OPTION"
	IdeaShares IdeaMode = "SHARES"
)

// Idea is the final recommendation unit returned to callers: a chosen
// contract (or shares fallback) with simulation and rationale attached.
type Idea struct {
	Symbol       string            `json:"symbol"`
	UnderPrice   float64           `json:"under_price"`
	Mode         IdeaMode          `json:"mode"`
	Suggestion   *EnrichedContract `json:"suggestion,omitempty"`
	CostEstimate string            `json:"cost_estimate,omitempty"`
	Sim          *SimulationResult `json:"sim,omitempty"`
	Trend        *TrendAssessment  `json:"trend,omitempty"`
	Reasoning    []string          `json:"reasoning,omitempty"`
	Confidence   int               `json:"confidence"`
	ShareProbUp  *float64          `json:"share_probability_up_20d,omitempty"`
	Note         string            `json:"note,omitempty"`
}

// NewsItem is a headline attached to sector ideas.
type NewsItem struct {
	Symbol    string `json:"symbol"`
	Title     string `json:"title"`
	Publisher string `json:"publisher,omitempty"`
	URL       string `json:"url,omitempty"`
}
