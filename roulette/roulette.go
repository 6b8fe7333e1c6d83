// Package roulette implements the weighted categorical draw used to pick an
// infecting contact out of a set of candidate probabilities, with an
// explicit "none of the above" outcome.
package roulette

import "math/rand"

// None is the sentinel index returned when the draw selects no candidate.
const None = -1

// epsilon is how close a probability must be to 1 before it is treated as a
// certain event, avoiding division by (1-p) underflow.
const epsilon = 1e-10

// Draw runs the roulette algorithm over probs (each expected in [0,1], not
// required to sum to 1) using rng as the source of randomness. It returns an
// index in [0,len(probs)) or None.
//
// The draw simulates len(probs) independent Bernoulli trials and conditions
// on at most one success: p_none is the probability that every trial fails,
// and each candidate's conditional weight is p_i * p_none / (1 - p_i). If any
// p_i is within epsilon of 1, the draw is forced among that certain set
// instead, picked uniformly.
func Draw(probs []float64, rng *rand.Rand) int {
	n := len(probs)
	if n == 0 {
		return None
	}

	var certain []int
	pNone := 1.0
	for i, p := range probs {
		if p > 1-epsilon {
			certain = append(certain, i)
			continue
		}
		pNone *= 1 - p
	}
	if len(certain) > 0 {
		return certain[rng.Intn(len(certain))]
	}

	weights := make([]float64, n)
	total := pNone
	for i, p := range probs {
		w := p * pNone / (1 - p)
		weights[i] = w
		total += w
	}

	r := rng.Float64()
	if r < pNone/total {
		return None
	}

	cumulative := pNone
	for i, w := range weights {
		cumulative += w
		if r < cumulative/total {
			return i
		}
	}
	// Rounding can leave a sliver unaccounted for; fall back to the last
	// candidate rather than report "none" for an r that was >= pNone/total.
	return n - 1
}
