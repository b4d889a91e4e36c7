package models

// SimulationResult summarizes a Monte Carlo option P/L run.
// Outcomes is down-sampled for plotting; the full path array is never
// shipped to callers.
type SimulationResult struct {
	PLp5       float64   `json:"pl_p5"`
	PLp50      float64   `json:"pl_p50"`
	PLp95      float64   `json:"pl_p95"`
	ProbProfit float64   `json:"prob_profit"`
	Outcomes   []float64 `json:"outcomes,omitempty"`
}

// PathSimulation summarizes a terminal-price path simulation.
type PathSimulation struct {
	TerminalP5     float64   `json:"terminal_p5"`
	TerminalP50    float64   `json:"terminal_p50"`
	TerminalP95    float64   `json:"terminal_p95"`
	MuAnnual       float64   `json:"mu_ann"`
	SigmaAnnual    float64   `json:"sigma_ann"`
	ProbTouch      *float64  `json:"prob_touch,omitempty"`
	TerminalPrices []float64 `json:"terminal_prices,omitempty"`
}
