// Package grid provides value statistics for square scalar fields stored
// row-major in a flat slice.
//
// The functions here are pure: they never retain or modify their inputs.
package grid

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Default histogram settings used for field entropy.
const (
	DefaultBins = 20
	DefaultLo   = 0.0
	DefaultHi   = 1.0
)

// Stats holds the global statistics of a field.
type Stats struct {
	Count    int
	Entropy  float64 // bits, DefaultBins histogram over [DefaultLo, DefaultHi]
	Mean     float64
	Variance float64 // population variance
	Max      float64
	Min      float64
}

// Calculate computes all global statistics of values.
// An empty input yields the zero Stats.
func Calculate(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}

	mean, variance := stat.PopMeanVariance(values, nil)

	return Stats{
		Count:    len(values),
		Entropy:  Entropy(values),
		Mean:     mean,
		Variance: variance,
		Max:      floats.Max(values),
		Min:      floats.Min(values),
	}
}

// Histogram counts values into bins equal-width bins spanning [lo, hi].
//
// Bins are half-open except the last one, which also includes hi. Values
// outside [lo, hi] and NaNs are ignored. The second return value is the
// number of values that were counted.
func Histogram(values []float64, bins int, lo, hi float64) ([]int, int) {
	if bins <= 0 || !(hi > lo) {
		return nil, 0
	}

	counts := make([]int, bins)
	total := 0
	scale := float64(bins) / (hi - lo)

	for _, v := range values {
		if !(v >= lo && v <= hi) {
			continue
		}
		idx := int((v - lo) * scale)
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
		total++
	}

	return counts, total
}

// Probabilities converts histogram counts into a probability distribution.
// A zero total yields all-zero probabilities.
func Probabilities(counts []int, total int) []float64 {
	p := make([]float64, len(counts))
	if total == 0 {
		return p
	}
	inv := 1 / float64(total)
	for i, c := range counts {
		p[i] = float64(c) * inv
	}
	return p
}

// Entropy returns the Shannon entropy in bits of the DefaultBins histogram
// of values over [DefaultLo, DefaultHi]. Empty bins contribute nothing; a
// histogram with no counted values has entropy 0.
func Entropy(values []float64) float64 {
	return HistogramEntropy(values, DefaultBins, DefaultLo, DefaultHi)
}

// HistogramEntropy is Entropy with explicit histogram settings.
func HistogramEntropy(values []float64, bins int, lo, hi float64) float64 {
	counts, total := Histogram(values, bins, lo, hi)
	if total == 0 {
		return 0
	}

	// stat.Entropy uses the natural log and skips zero-probability bins.
	h := stat.Entropy(Probabilities(counts, total)) / math.Ln2
	if h <= 0 {
		// A single occupied bin yields -0.
		return 0
	}
	return h
}

// Variance returns the population variance of values, or 0 for empty input.
func Variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	_, v := stat.PopMeanVariance(values, nil)
	return v
}

// Max returns the largest value, or 0 for empty input.
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return floats.Max(values)
}
