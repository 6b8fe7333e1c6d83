package epiworld

// Mixer combines a set of per-tool multipliers for one channel
// (susceptibility, transmission, recovery, death) into a single effective
// multiplier for an (agent, virus) pair. See spec.md §4.3's glossary entry.
type Mixer func(values []float64) float64

// ComplementaryProductMixer is the default mixer for every channel:
// 1 - prod(1-x_i). It treats each tool's contribution as an independent
// chance of blocking the channel's effect.
func ComplementaryProductMixer(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	product := 1.0
	for _, x := range values {
		product *= 1 - x
	}
	return 1 - product
}
