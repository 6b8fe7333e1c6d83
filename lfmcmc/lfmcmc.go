// Package lfmcmc implements likelihood-free Markov chain Monte Carlo: a
// simulate/summarize/kernel-score/accept-reject loop over a user-supplied
// simulator, used to fit a model's parameters against observed summary
// statistics without an explicit likelihood function. Ported from
// original_source/include/epiworld/math/lfmcmc/lfmcmc-meat.hpp's run loop
// into the composition style of epiworldgo/epiworld's Model (C10).
package lfmcmc

import (
	"math"
	"math/rand"
	"sort"

	"github.com/pkg/errors"
)

// SimulationFunc draws one simulated dataset for the given parameter
// vector.
type SimulationFunc func(params []float64, c *Chain) interface{}

// SummaryFunc reduces a dataset to its sufficient statistics.
type SummaryFunc func(data interface{}, c *Chain) []float64

// KernelFunc scores how close simulated statistics are to the observed
// ones, at bandwidth epsilon; larger is closer.
type KernelFunc func(simulated, observed []float64, epsilon float64, c *Chain) float64

// ProposalFunc draws a new parameter vector from the current accepted one.
type ProposalFunc func(old []float64, c *Chain) []float64

// Sample is one iteration's recorded draw: its proposed parameters,
// statistics, kernel score, the uniform draw used for acceptance, and
// whether it was accepted.
type Sample struct {
	Params   []float64
	Stats    []float64
	Score    float64
	DrawProb float64
	Accepted bool
}

// Chain runs one LFMCMC fit. It owns its own RNG, separate from any
// epiworld.Model, so that likelihood-free fitting is independent of
// whatever simulation engine SimulationFunc wraps (often an
// *epiworld.Model run to completion and reduced to summary statistics).
type Chain struct {
	rng *rand.Rand

	simulate ProposalFunc
	sim      SimulationFunc
	summary  SummaryFunc
	kernel   KernelFunc

	observedData  interface{}
	observedStats []float64

	nParams int
	samples []Sample

	acceptedParams [][]float64
	acceptedStats  [][]float64
}

// NewChain creates a Chain seeded with seed.
func NewChain(seed uint64) *Chain {
	return &Chain{rng: rand.New(rand.NewSource(int64(seed)))}
}

// Seed replaces the chain's random source outright, rather than mutating a
// seed field on an existing *rand.Rand — math/rand.Rand has no public reseed
// method on a source already in use by a Chain, so Seed constructs a fresh
// one. This matches the original library's run(..., seed) parameter, which
// likewise only takes effect at the start of a run.
func (c *Chain) Seed(seed uint64) { c.rng = rand.New(rand.NewSource(int64(seed))) }

// SetSimulationFunc installs the function that turns a parameter vector
// into a simulated dataset.
func (c *Chain) SetSimulationFunc(fn SimulationFunc) { c.sim = fn }

// SetSummaryFunc installs the function that reduces a dataset to summary
// statistics.
func (c *Chain) SetSummaryFunc(fn SummaryFunc) { c.summary = fn }

// SetKernelFunc installs the kernel scoring function.
func (c *Chain) SetKernelFunc(fn KernelFunc) { c.kernel = fn }

// SetProposalFunc installs the proposal function.
func (c *Chain) SetProposalFunc(fn ProposalFunc) { c.simulate = fn }

// RNG exposes the chain's random source to proposal/kernel functions.
func (c *Chain) RNG() *rand.Rand { return c.rng }

// SetObserved installs the real dataset the chain fits against; its summary
// statistics are computed once, at Run time, via the installed
// SummaryFunc.
func (c *Chain) SetObserved(data interface{}) { c.observedData = data }

// NumParams returns the dimensionality of the parameter vector.
func (c *Chain) NumParams() int { return c.nParams }

// Run executes nSamples iterations of the LFMCMC loop starting from
// initParams, at kernel bandwidth epsilon, and returns the full sample
// trace (both proposed and accepted paths collapse into one Sample list,
// since every iteration either copies the previous accepted state forward
// or replaces it).
func (c *Chain) Run(initParams []float64, nSamples int, epsilon float64) ([]Sample, error) {
	if c.sim == nil || c.summary == nil || c.kernel == nil || c.simulate == nil {
		return nil, errors.Wrap(errInvalid, "simulation, summary, kernel, and proposal functions must all be set")
	}
	if nSamples < 1 {
		return nil, errors.Wrap(errInvalid, "n_samples must be at least 1")
	}
	c.nParams = len(initParams)
	c.observedStats = c.summary(c.observedData, c)

	c.samples = make([]Sample, nSamples)
	c.acceptedParams = make([][]float64, nSamples)
	c.acceptedStats = make([][]float64, nSamples)

	accepted := append([]float64(nil), initParams...)
	data0 := c.sim(initParams, c)
	stats0 := c.summary(data0, c)
	score0 := c.kernel(stats0, c.observedStats, epsilon, c)

	c.samples[0] = Sample{Params: append([]float64(nil), initParams...), Stats: stats0, Score: score0, Accepted: true}
	c.acceptedParams[0] = c.samples[0].Params
	c.acceptedStats[0] = stats0

	prevScore := score0
	currentStats := stats0
	for i := 1; i < nSamples; i++ {
		proposed := c.simulate(accepted, c)
		data := c.sim(proposed, c)
		stats := c.summary(data, c)
		score := c.kernel(stats, c.observedStats, epsilon, c)

		drawProb := c.rng.Float64()
		ratio := score / prevScore
		if ratio > 1 {
			ratio = 1
		}
		acceptedNow := drawProb < ratio

		c.samples[i] = Sample{Params: proposed, Stats: stats, Score: score, DrawProb: drawProb, Accepted: acceptedNow}

		if acceptedNow {
			accepted = proposed
			currentStats = stats
			prevScore = score
		}
		c.acceptedParams[i] = accepted
		c.acceptedStats[i] = append([]float64(nil), currentStats...)
	}
	return c.samples, nil
}

// Summary is a posterior summary for one parameter or statistic: its
// post-burnin mean and the 2.5%/97.5% empirical quantiles.
type Summary struct {
	Mean, Lower, Upper float64
}

// ParamSummary summarizes the accepted-parameter trace for parameter k
// after discarding the first burnin samples.
func (c *Chain) ParamSummary(k, burnin int) (Summary, error) {
	return summarizeColumn(c.acceptedParams, k, burnin)
}

// StatSummary summarizes the accepted-statistic trace for statistic k
// after discarding the first burnin samples.
func (c *Chain) StatSummary(k, burnin int) (Summary, error) {
	return summarizeColumn(c.acceptedStats, k, burnin)
}

func summarizeColumn(rows [][]float64, k, burnin int) (Summary, error) {
	if burnin >= len(rows) {
		return Summary{}, errors.Wrap(errInvalid, "burnin must be less than the number of samples")
	}
	values := make([]float64, 0, len(rows)-burnin)
	var mean float64
	for i := burnin; i < len(rows); i++ {
		v := rows[i][k]
		values = append(values, v)
		mean += v
	}
	mean /= float64(len(values))

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	lowIdx := quantileIndex(0.025, len(sorted))
	upIdx := quantileIndex(0.975, len(sorted))
	return Summary{Mean: mean, Lower: sorted[lowIdx], Upper: sorted[upIdx]}, nil
}

func quantileIndex(q float64, n int) int {
	idx := int(math.Round(q * float64(n-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return idx
}

var errInvalid = errors.New("invalid lfmcmc configuration")

// proposalJitter is a stdlib-rand-backed standard normal draw shared by the
// built-in proposals: math/rand's NormFloat64 (a ziggurat sampler), since
// LFMCMC proposals need a continuous normal, not a discrete count.
func proposalJitter(rng *rand.Rand) float64 { return rng.NormFloat64() }
