package lfmcmc

import "testing"

func TestNormReflectiveStaysInBounds(t *testing.T) {
	c := NewChain(1)
	prop := NormReflectiveProposal(5.0, 0.0, 1.0)
	for i := 0; i < 1000; i++ {
		out := prop([]float64{0.5}, c)
		if out[0] < 0.0 || out[0] > 1.0 {
			t.Fatalf("expected reflected value within [0,1], got %v", out[0])
		}
	}
}

func TestReflectEvenBounceLandsNearOrigin(t *testing.T) {
	// half a span above upper is zero (even) full-span bounces, so it is
	// reflected back from upper: 1 - 0.5 = 0.5.
	got := reflect(1.5, 0, 1, 1)
	if got != 0.5 {
		t.Fatalf("expected value reflected back from upper to 0.5, got %v", got)
	}
}

func TestProposalUniformRange(t *testing.T) {
	c := NewChain(2)
	for i := 0; i < 100; i++ {
		out := ProposalUniform([]float64{0}, c)
		if out[0] < -1 || out[0] > 1 {
			t.Fatalf("expected perturbation within [-1,1] of 0, got %v", out[0])
		}
	}
}
