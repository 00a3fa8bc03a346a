// Package frequency provides shape descriptors of a magnitude spectrum.
package frequency

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-fieldlab/dsp/spectrum"
)

// DefaultRolloff is the energy fraction used by Calculate for Rolloff.
const DefaultRolloff = 0.85

// Stats holds frequency-domain statistics of a magnitude spectrum.
type Stats struct {
	Energy   float64 `json:"energy"`      // sum of squared magnitudes
	PeakHz   float64 `json:"peak_hz"`     // frequency of the largest bin
	Centroid float64 `json:"centroid_hz"` // magnitude-weighted mean frequency
	Spread   float64 `json:"spread_hz"`   // magnitude-weighted standard deviation
	Flatness float64 `json:"flatness"`    // Wiener entropy, 0..1
	Rolloff  float64 `json:"rolloff_hz"`
}

// FromFrame computes Stats for a spectrum frame.
func FromFrame(f spectrum.Frame) Stats {
	return Calculate(f.Magnitude(), f.Freqs)
}

// Calculate computes all statistics from a linear magnitude spectrum and
// the frequency of each bin. Mismatched or empty input yields zero Stats.
func Calculate(magnitude, freqs []float64) Stats {
	if len(magnitude) == 0 || len(magnitude) != len(freqs) {
		return Stats{}
	}

	s := Stats{
		Energy:   floats.Dot(magnitude, magnitude),
		PeakHz:   freqs[floats.MaxIdx(magnitude)],
		Flatness: Flatness(magnitude),
		Rolloff:  Rolloff(magnitude, freqs, DefaultRolloff),
	}
	if floats.Sum(magnitude) > 0 {
		mean, variance := stat.PopMeanVariance(freqs, magnitude)
		s.Centroid = mean
		s.Spread = math.Sqrt(math.Max(variance, 0))
	}
	return s
}

// Centroid returns the magnitude-weighted mean frequency, or 0 for a
// silent spectrum.
func Centroid(magnitude, freqs []float64) float64 {
	if len(magnitude) == 0 || len(magnitude) != len(freqs) || floats.Sum(magnitude) == 0 {
		return 0
	}
	return stat.Mean(freqs, magnitude)
}

// Flatness returns the spectral flatness (Wiener entropy) in the range 0..1:
// the geometric over the arithmetic mean of the magnitudes.
//
// The DC bin is excluded. Any zero bin makes the flatness zero.
func Flatness(magnitude []float64) float64 {
	if len(magnitude) < 2 {
		return 0
	}

	bins := magnitude[1:]
	if floats.Min(bins) <= 0 {
		return 0
	}
	return stat.GeometricMean(bins, nil) / stat.Mean(bins, nil)
}

// Rolloff returns the frequency below which the given fraction (0..1) of
// the spectral energy lies.
func Rolloff(magnitude, freqs []float64, percent float64) float64 {
	if len(magnitude) == 0 || len(magnitude) != len(freqs) {
		return 0
	}

	energy := make([]float64, len(magnitude))
	floats.MulTo(energy, magnitude, magnitude)
	floats.CumSum(energy, energy)

	total := energy[len(energy)-1]
	if total == 0 {
		return 0
	}
	threshold := percent * total
	for i, e := range energy {
		if e >= threshold {
			return freqs[i]
		}
	}
	return freqs[len(freqs)-1]
}
