package models

import "time"

// Candle is one daily observation.
type Candle struct {
	Date   time.Time `json:"date"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Series is a chronological, date-deduplicated daily history for a symbol.
type Series struct {
	Symbol  string   `json:"symbol"`
	Candles []Candle `json:"candles"`
}

// Closes returns the close prices in chronological order.
func (s *Series) Closes() []float64 {
	if s == nil {
		return nil
	}
	out := make([]float64, 0, len(s.Candles))
	for _, c := range s.Candles {
		out = append(out, c.Close)
	}
	return out
}

// Volumes returns the daily volumes in chronological order.
func (s *Series) Volumes() []int64 {
	if s == nil {
		return nil
	}
	out := make([]int64, 0, len(s.Candles))
	for _, c := range s.Candles {
		out = append(out, c.Volume)
	}
	return out
}

// LastClose returns the most recent close, or 0 when the series is empty.
func (s *Series) LastClose() float64 {
	if s == nil || len(s.Candles) == 0 {
		return 0
	}
	return s.Candles[len(s.Candles)-1].Close
}

// Normalize sorts candles chronologically and drops duplicate dates,
// keeping the last observation for each date.
func (s *Series) Normalize() {
	if s == nil || len(s.Candles) <= 1 {
		return
	}
	byDate := make(map[string]Candle, len(s.Candles))
	order := make([]string, 0, len(s.Candles))
	for _, c := range s.Candles {
		key := c.Date.Format("2006-01-02")
		if _, seen := byDate[key]; !seen {
			order = append(order, key)
		}
		byDate[key] = c
	}
	out := make([]Candle, 0, len(order))
	for _, key := range order {
		out = append(out, byDate[key])
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Date.Before(out[j-1].Date); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	s.Candles = out
}
