package network

import (
	"math/rand"

	rv "github.com/kentwait/randomvariate"
)

// Bernoulli builds a G(n,p) random graph: the expected edge count m is drawn
// from Binomial(n(n-1)/d, p), with d=1 for directed graphs and d=2 for
// undirected ones, then m random edges are placed, rejecting self-loops and
// (for undirected graphs) duplicate unordered pairs.
//
// The edge *count* is sampled through github.com/kentwait/randomvariate,
// following the teacher's convention of reaching for that package for
// Binomial draws; edge *placement* uses rng directly so placement is
// reproducible from the Model's own owned RNG.
func Bernoulli(n int, p float64, directed bool, rng *rand.Rand) *AdjList {
	a := New(directed).WithBounds(0, n-1)
	if n < 2 || p <= 0 {
		return a
	}

	d := 2.0
	if directed {
		d = 1.0
	}
	trials := int(float64(n*(n-1)) / d)
	m := int(rv.Binomial(trials, p))

	placed := 0
	attempts := 0
	maxAttempts := m * 10 + 1000
	for placed < m && attempts < maxAttempts {
		attempts++
		i := rng.Intn(n)
		j := rng.Intn(n)
		if i == j {
			continue
		}
		if !directed && i > j {
			i, j = j, i
		}
		if a.HasEdge(i, j) {
			continue
		}
		a.AddEdge(i, j)
		placed++
	}
	return a
}

// Ring builds a ring lattice: each node i connects to the k nearest nodes
// clockwise, (i+1)..(i+k) mod n.
func Ring(n, k int, directed bool) *AdjList {
	a := New(directed).WithBounds(0, n-1)
	if n < 2 {
		return a
	}
	for i := 0; i < n; i++ {
		for d := 1; d <= k; d++ {
			j := (i + d) % n
			if i == j {
				continue
			}
			if !a.HasEdge(i, j) {
				a.AddEdge(i, j)
			}
		}
	}
	return a
}

// SmallWorld builds a Watts-Strogatz small-world network: a ring lattice
// followed by a degree-preserving rewire of proportion prop.
func SmallWorld(n, k int, prop float64, directed bool, rng *rand.Rand) *AdjList {
	a := Ring(n, k, directed)
	Rewire(a, prop, rng)
	return a
}
