package allocation

import (
	"math"
	"testing"
)

func TestSampleFrontierWeightsOnSimplex(t *testing.T) {
	seed := int64(11)
	exp := []float64{0.08, 0.05, 0.12}
	cov := [][]float64{
		{0.04, 0.01, 0.00},
		{0.01, 0.02, 0.00},
		{0.00, 0.00, 0.09},
	}
	top := SampleFrontier(exp, cov, 500, 25, &seed)
	if len(top) != 25 {
		t.Fatalf("len = %d, want 25", len(top))
	}
	for _, p := range top {
		sum := 0.0
		for _, w := range p.Weights {
			if w < 0 {
				t.Fatalf("negative weight %v in %v", w, p.Weights)
			}
			sum += w
		}
		if math.Abs(sum-1.0) > 1e-9 {
			t.Fatalf("weights sum to %v, want 1", sum)
		}
		if p.Vol < 0 {
			t.Fatalf("negative vol %v", p.Vol)
		}
	}
}

func TestSampleFrontierSortedBySharpe(t *testing.T) {
	seed := int64(2)
	exp := []float64{0.10, 0.02}
	cov := [][]float64{{0.04, 0}, {0, 0.04}}
	top := SampleFrontier(exp, cov, 200, 50, &seed)
	for i := 1; i < len(top); i++ {
		if top[i].Sharpe > top[i-1].Sharpe {
			t.Fatalf("not sorted by sharpe at %d: %v > %v", i, top[i].Sharpe, top[i-1].Sharpe)
		}
	}
}

func TestSampleFrontierEmptyInputs(t *testing.T) {
	if got := SampleFrontier(nil, nil, 100, 10, nil); got != nil {
		t.Fatalf("expected nil for empty returns, got %v", got)
	}
	if got := SampleFrontier([]float64{0.1}, [][]float64{{0.1}}, 0, 10, nil); got != nil {
		t.Fatalf("expected nil for zero samples, got %v", got)
	}
}

func TestSampleFrontierDeterministicWithSeed(t *testing.T) {
	seed := int64(99)
	exp := []float64{0.07, 0.03}
	cov := [][]float64{{0.05, 0.01}, {0.01, 0.03}}
	a := SampleFrontier(exp, cov, 100, 5, &seed)
	b := SampleFrontier(exp, cov, 100, 5, &seed)
	for i := range a {
		if a[i].Sharpe != b[i].Sharpe || a[i].Mu != b[i].Mu {
			t.Fatalf("seeded runs differ at %d", i)
		}
	}
}
