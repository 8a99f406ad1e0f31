// Package dist implements the sampling layer: primitive distributions over a
// single seeded random stream, and the four models (time, workload,
// completion, due date) calibrated by the research benchmarks. Nothing here
// reseeds or owns the stream; the orchestrator passes one *rand.Rand down
// so a run is fully reproducible from (config, seed).
package dist

import (
	"math"
	"math/rand"
	"sort"
)

// IntBetween samples uniformly from [lo, hi] inclusive.
func IntBetween(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

// FloatBetween samples uniformly from [lo, hi).
func FloatBetween(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// Triangular samples from a triangular distribution on [lo, hi] with the
// given mode.
func Triangular(rng *rand.Rand, lo, hi, mode float64) float64 {
	if hi <= lo {
		return lo
	}
	u := rng.Float64()
	c := (mode - lo) / (hi - lo)
	if u < c {
		return lo + math.Sqrt(u*(hi-lo)*(mode-lo))
	}
	return hi - math.Sqrt((1-u)*(hi-lo)*(hi-mode))
}

// Beta samples from Beta(a, b) using Jöhnk's method. Fine for the small
// shape parameters used here.
func Beta(rng *rand.Rand, a, b float64) float64 {
	for {
		u := math.Pow(rng.Float64(), 1/a)
		v := math.Pow(rng.Float64(), 1/b)
		if s := u + v; s <= 1 && s > 0 {
			return u / s
		}
	}
}

// LogNormal samples exp(N(mu, sigma)).
func LogNormal(rng *rand.Rand, mu, sigma float64) float64 {
	return math.Exp(mu + sigma*rng.NormFloat64())
}

// Exponential samples from an exponential distribution with the given mean.
func Exponential(rng *rand.Rand, mean float64) float64 {
	return rng.ExpFloat64() * mean
}

// WeightedIndex picks an index proportionally to weights. Weights need not
// sum to one.
func WeightedIndex(rng *rand.Rand, weights []float64) int {
	var total float64
	for _, w := range weights {
		total += w
	}
	r := rng.Float64() * total
	for i, w := range weights {
		r -= w
		if r < 0 {
			return i
		}
	}
	return len(weights) - 1
}

// Pick returns a uniformly chosen element.
func Pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.Intn(len(items))]
}

// WeightedCategory picks a key from a weight map. Keys are visited in
// sorted order so the draw consumes the stream deterministically.
func WeightedCategory(rng *rand.Rand, weights map[string]float64) string {
	keys := make([]string, 0, len(weights))
	for k := range weights {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	vals := make([]float64, len(keys))
	for i, k := range keys {
		vals[i] = weights[k]
	}
	return keys[WeightedIndex(rng, vals)]
}
