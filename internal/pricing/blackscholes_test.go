package pricing

import (
	"math"
	"testing"
)

func TestDeltaBounds(t *testing.T) {
	cases := []struct{ s, k, tt, r, sigma float64 }{
		{100, 100, 30.0 / 365, 0.0, 0.30},
		{100, 120, 0.5, 0.02, 0.25},
		{50, 40, 0.1, 0.0, 0.60},
		{250, 255, 1.0, 0.05, 0.15},
	}
	for _, c := range cases {
		cd := CallDelta(c.s, c.k, c.tt, c.r, c.sigma)
		pd := PutDelta(c.s, c.k, c.tt, c.r, c.sigma)
		if !(cd > 0 && cd < 1) {
			t.Fatalf("call delta %v out of (0,1) for %+v", cd, c)
		}
		if !(pd > -1 && pd < 0) {
			t.Fatalf("put delta %v out of (-1,0) for %+v", pd, c)
		}
		if diff := cd - pd; math.Abs(diff-1.0) > 1e-12 {
			t.Fatalf("call-put delta parity broken: %v", diff)
		}
	}
}

func TestDegenerateInputsYieldNaN(t *testing.T) {
	cases := []struct {
		name            string
		s, k, tt, sigma float64
	}{
		{"zero sigma", 100, 100, 0.1, 0},
		{"zero T", 100, 100, 0, 0.3},
		{"zero spot", 0, 100, 0.1, 0.3},
		{"negative strike", 100, -5, 0.1, 0.3},
	}
	for _, c := range cases {
		if v := CallDelta(c.s, c.k, c.tt, 0, c.sigma); !math.IsNaN(v) {
			t.Fatalf("%s: call delta = %v, want NaN", c.name, v)
		}
		if v := PutDelta(c.s, c.k, c.tt, 0, c.sigma); !math.IsNaN(v) {
			t.Fatalf("%s: put delta = %v, want NaN", c.name, v)
		}
		if v := ProbAbove(c.s, c.k, c.tt, 0, c.sigma); !math.IsNaN(v) {
			t.Fatalf("%s: prob above = %v, want NaN", c.name, v)
		}
	}
}

func TestATMCallDelta(t *testing.T) {
	// ATM, sigma=0.30, T=30/365, r=0: d1 = 0.5*sigma*sqrt(T)/1 ... small
	// positive, so delta slightly above 0.5.
	d := CallDelta(100, 100, 30.0/365, 0, 0.30)
	if d <= 0.5 || d >= 0.55 {
		t.Fatalf("ATM call delta = %v, want slightly above 0.5", d)
	}
}

func TestProbAboveMonotonicInThreshold(t *testing.T) {
	lo := ProbAbove(100, 90, 0.25, 0, 0.3)
	hi := ProbAbove(100, 110, 0.25, 0, 0.3)
	if !(lo > hi) {
		t.Fatalf("prob above should fall as threshold rises: P(>90)=%v P(>110)=%v", lo, hi)
	}
}
