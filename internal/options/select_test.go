package options

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"quantassist/internal/models"
)

func contract(typ string, strike, mid, delta float64, oi, vol int64, dte int) models.EnrichedContract {
	d := delta
	return models.EnrichedContract{
		Expiry:       time.Now().UTC().AddDate(0, 0, dte),
		Type:         typ,
		Strike:       strike,
		MidPrice:     mid,
		IV:           0.3,
		Delta:        &d,
		OpenInterest: oi,
		Volume:       vol,
	}
}

func TestSelectAffordabilityInvariant(t *testing.T) {
	pool := []models.EnrichedContract{
		contract("CALL", 100, 2.50, 0.26, 500, 100, 30),
		contract("CALL", 95, 80.00, 0.30, 500, 100, 30), // 8000 > 5000
	}
	bp := decimal.NewFromInt(5000)
	ranked, err := Select(pool, SelectParams{BuyingPower: bp, TargetAbsDelta: 0.25, MinOpenInt: 50, MinVolume: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, c := range ranked {
		if ContractCost(c.MidPrice).GreaterThan(bp) {
			t.Fatalf("selected contract costs %s over buying power", ContractCost(c.MidPrice))
		}
	}
	if len(ranked) != 1 {
		t.Fatalf("ranked = %d, want 1", len(ranked))
	}
}

func TestSelectLiquidityBar(t *testing.T) {
	pool := []models.EnrichedContract{
		contract("CALL", 100, 1.00, 0.25, 5, 2, 30),   // fails both bars
		contract("CALL", 105, 1.00, 0.25, 60, 0, 30),  // passes on OI
		contract("PUT", 95, 1.00, -0.25, 0, 15, 30),   // passes on volume
	}
	ranked, err := Select(pool, SelectParams{
		BuyingPower: decimal.NewFromInt(5000), TargetAbsDelta: 0.25, MinOpenInt: 50, MinVolume: 10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("ranked = %d, want 2", len(ranked))
	}
}

func TestSelectRankingOrder(t *testing.T) {
	far := contract("CALL", 100, 1.00, 0.45, 1000, 200, 30)
	near := contract("CALL", 105, 1.00, 0.26, 1000, 200, 30)
	laterExpiry := contract("CALL", 105, 1.00, 0.26, 1000, 200, 60)
	pool := []models.EnrichedContract{far, laterExpiry, near}
	ranked, err := Select(pool, SelectParams{
		BuyingPower: decimal.NewFromInt(5000), TargetAbsDelta: 0.25, MinOpenInt: 50, MinVolume: 10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *ranked[0].Delta != 0.26 {
		t.Fatalf("top candidate delta = %v, want the nearest to target", *ranked[0].Delta)
	}
	if !ranked[0].Expiry.Before(ranked[1].Expiry) {
		t.Fatalf("soonest expiry should win ties")
	}
	if *ranked[2].Delta != 0.45 {
		t.Fatalf("farthest delta should rank last")
	}
}

func TestSelectNoAffordableReportsReason(t *testing.T) {
	pool := []models.EnrichedContract{
		contract("CALL", 100, 90.00, 0.25, 1000, 200, 30),
	}
	_, err := Select(pool, SelectParams{
		BuyingPower: decimal.NewFromInt(1000), TargetAbsDelta: 0.25, MinOpenInt: 50, MinVolume: 10,
	})
	if err == nil {
		t.Fatalf("expected no-candidates error")
	}
	if _, ok := err.(*ErrNoCandidates); !ok {
		t.Fatalf("err type = %T, want *ErrNoCandidates", err)
	}
}

func TestConfidenceBuckets(t *testing.T) {
	bp := decimal.NewFromInt(5000)
	d := 0.25
	high := Confidence(ContractView{MidPrice: 2.5, IV: 0.3, Delta: &d, OpenInterest: 1000, Volume: 500}, bp)
	// 25 (OI) + 20 (vol) + 15 (IV) + 20 (delta band) + 20 (cheap) = 100
	if high != 100 {
		t.Fatalf("confidence = %d, want 100", high)
	}
	low := Confidence(ContractView{MidPrice: 40, OpenInterest: 0, Volume: 0}, bp)
	if low != 0 {
		t.Fatalf("confidence = %d, want 0", low)
	}
	mid := Confidence(ContractView{MidPrice: 20, IV: 0.3, OpenInterest: 60, Volume: 15}, bp)
	// 8 + 10 + 15 + 0 (no delta) + 10 (<=50% of bp) = 43
	if mid != 43 {
		t.Fatalf("confidence = %d, want 43", mid)
	}
}
