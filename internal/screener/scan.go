package screener

import (
	"context"
	"math"
	"sort"

	"quantassist/internal/indicator"
)

// ScanSignals are the boolean flags attached to each scan row.
type ScanSignals struct {
	TrendUp        bool `json:"trend_up"`
	Oversold       bool `json:"oversold"`
	Overbought     bool `json:"overbought"`
	MeetsMinVolume bool `json:"meets_min_volume"`
}

// ScanRow is the technical snapshot for one symbol.
type ScanRow struct {
	Symbol   string      `json:"symbol"`
	Price    float64     `json:"price"`
	Volume   int64       `json:"volume"`
	EMAShort float64     `json:"ema_short"`
	EMALong  float64     `json:"ema_long"`
	RSI      float64     `json:"rsi"`
	Mom5d    float64     `json:"mom_5d"`
	Signals  ScanSignals `json:"signals"`
	Score    float64     `json:"score"`
	Closes   []float64   `json:"closes,omitempty"`
	Volumes  []int64     `json:"volumes,omitempty"`
}

type ScanResult struct {
	Results []ScanRow `json:"results"`
	Note    string    `json:"note,omitempty"`
}

// Scan computes the technical snapshot for a user-supplied symbol
// list: price, volume, EMA12/EMA26, RSI14, 5-day momentum, and a score
// that blends trend, momentum and RSI closeness to 50. Symbols with no
// usable history are skipped silently. Rows are sorted by score.
func (s *Service) Scan(ctx context.Context, symbols []string, minVolume int64, includeHistory bool, historyDays int) ScanResult {
	result := ScanResult{Results: []ScanRow{}}
	fetchDays := historyDays
	if fetchDays < 60 {
		fetchDays = 60
	}
	for _, symbol := range symbols {
		series := s.Gateway.FetchDaily(ctx, symbol, fetchDays)
		if series == nil || len(series.Candles) == 0 {
			continue
		}
		closes := series.Closes()
		volumes := series.Volumes()
		price := closes[len(closes)-1]
		volume := volumes[len(volumes)-1]

		ema12 := indicator.Last(indicator.EMA(closes, 12))
		ema26 := indicator.Last(indicator.EMA(closes, 26))
		rsi, ok := indicator.RSI(closes, 14)
		if !ok {
			rsi = 50
		}
		mom5 := 0.0
		if len(closes) > 6 {
			mom5 = price/closes[len(closes)-6] - 1
		}

		score := 0.0
		if ema12 > ema26 {
			score += 0.4
		}
		if mom5 > 0 {
			score += 0.3
		}
		score += 0.3 * math.Max(0, 1-math.Abs(rsi-50)/50)

		row := ScanRow{
			Symbol:   symbol,
			Price:    price,
			Volume:   volume,
			EMAShort: ema12,
			EMALong:  ema26,
			RSI:      rsi,
			Mom5d:    mom5,
			Signals: ScanSignals{
				TrendUp:        ema12 > ema26,
				Oversold:       rsi < 35,
				Overbought:     rsi > 65,
				MeetsMinVolume: volume >= minVolume,
			},
			Score: score,
		}
		if includeHistory {
			row.Closes = tailRounded(closes, historyDays)
			row.Volumes = tailInts(volumes, historyDays)
		}
		result.Results = append(result.Results, row)
		s.pace(ctx)
	}
	sort.SliceStable(result.Results, func(i, j int) bool {
		return result.Results[i].Score > result.Results[j].Score
	})
	return result
}

func tailRounded(values []float64, n int) []float64 {
	if n > 0 && len(values) > n {
		values = values[len(values)-n:]
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = math.Round(v*100) / 100
	}
	return out
}

func tailInts(values []int64, n int) []int64 {
	if n > 0 && len(values) > n {
		values = values[len(values)-n:]
	}
	out := make([]int64, len(values))
	copy(out, values)
	return out
}
