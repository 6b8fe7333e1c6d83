package lfmcmc

import (
	"math"
	"testing"
)

// A trivial simulator: params[0] is a mean, data is that mean plus gaussian
// noise, and the summary statistic is the sample itself. With a generous
// epsilon the chain should recover params[0] close to the observed value.
func meanChain(t *testing.T, observed float64, seed uint64) *Chain {
	t.Helper()
	c := NewChain(seed)
	c.SetProposalFunc(ProposalNormal)
	c.SetSimulationFunc(func(params []float64, c *Chain) interface{} {
		return params[0] + c.RNG().NormFloat64()*0.1
	})
	c.SetSummaryFunc(func(data interface{}, c *Chain) []float64 {
		return []float64{data.(float64)}
	})
	c.SetKernelFunc(KernelGaussian)
	c.SetObserved(observed)
	return c
}

func TestRunRecoversApproximateMean(t *testing.T) {
	c := meanChain(t, 5.0, 1)
	samples, err := c.Run([]float64{0.0}, 500, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 500 {
		t.Fatalf("expected 500 samples, got %d", len(samples))
	}
	summary, err := c.ParamSummary(0, 100)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(summary.Mean-5.0) > 1.5 {
		t.Fatalf("expected posterior mean near 5.0, got %v", summary.Mean)
	}
	if summary.Lower > summary.Upper {
		t.Fatalf("expected lower <= upper, got %v > %v", summary.Lower, summary.Upper)
	}
}

func TestRunRequiresAllFunctions(t *testing.T) {
	c := NewChain(1)
	if _, err := c.Run([]float64{0}, 10, 1); err == nil {
		t.Fatal("expected error when functions are unset")
	}
}

func TestParamSummaryRejectsBurninTooLarge(t *testing.T) {
	c := meanChain(t, 1.0, 2)
	if _, err := c.Run([]float64{0}, 20, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := c.ParamSummary(0, 20); err == nil {
		t.Fatal("expected error when burnin >= n_samples")
	}
}

func TestSeedReproducesSameTrajectory(t *testing.T) {
	c1 := meanChain(t, 2.0, 99)
	s1, _ := c1.Run([]float64{0}, 50, 0.5)

	c2 := meanChain(t, 2.0, 99)
	s2, _ := c2.Run([]float64{0}, 50, 0.5)

	for i := range s1 {
		if s1[i].Params[0] != s2[i].Params[0] {
			t.Fatalf("expected identical trajectories with the same seed, diverged at sample %d", i)
		}
	}
}
