package lfmcmc

import "testing"

func TestKernelUniformThreshold(t *testing.T) {
	if got := KernelUniform([]float64{0}, []float64{0.05}, 0.1, nil); got != 1.0 {
		t.Fatalf("expected 1.0 within epsilon, got %v", got)
	}
	if got := KernelUniform([]float64{0}, []float64{1.0}, 0.1, nil); got != 0.0 {
		t.Fatalf("expected 0.0 outside epsilon, got %v", got)
	}
}

func TestKernelGaussianPeaksAtZeroDistance(t *testing.T) {
	atZero := KernelGaussian([]float64{1, 2}, []float64{1, 2}, 1.0, nil)
	atFar := KernelGaussian([]float64{10, 20}, []float64{1, 2}, 1.0, nil)
	if atZero <= atFar {
		t.Fatalf("expected kernel score to be higher at zero distance: %v vs %v", atZero, atFar)
	}
}
