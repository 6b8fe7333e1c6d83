package epiworld

import "testing"

func TestComplementaryProductMixerEmpty(t *testing.T) {
	if got := ComplementaryProductMixer(nil); got != 0 {
		t.Fatalf("expected 0 for no tools, got %v", got)
	}
}

func TestComplementaryProductMixerCombines(t *testing.T) {
	got := ComplementaryProductMixer([]float64{0.5, 0.5})
	want := 1 - 0.5*0.5
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestComplementaryProductMixerSaturates(t *testing.T) {
	got := ComplementaryProductMixer([]float64{1.0, 0.2})
	if got != 1 {
		t.Fatalf("expected full blocking once one value is 1, got %v", got)
	}
}
