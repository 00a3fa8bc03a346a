// Package time provides time-domain descriptors of a signal.
package time

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats holds time-domain signal statistics.
type Stats struct {
	Length        int     `json:"length"`
	DC            float64 `json:"dc"` // mean
	RMS           float64 `json:"rms"`
	Peak          float64 `json:"peak"`         // max |x|
	CrestFactor   float64 `json:"crest_factor"` // peak / RMS
	Variance      float64 `json:"variance"`
	ZeroCrossings int     `json:"zero_crossings"`
}

// Calculate computes all time-domain statistics. Empty input yields the
// zero Stats.
func Calculate(signal []float64) Stats {
	if len(signal) == 0 {
		return Stats{}
	}

	mean, variance := stat.PopMeanVariance(signal, nil)
	rms := RMS(signal)
	peak := floats.Norm(signal, math.Inf(1))

	s := Stats{
		Length:        len(signal),
		DC:            mean,
		RMS:           rms,
		Peak:          peak,
		Variance:      variance,
		ZeroCrossings: ZeroCrossings(signal),
	}
	if rms > 0 {
		s.CrestFactor = peak / rms
	}
	return s
}

// RMS returns the root-mean-square of the signal.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}
	return floats.Norm(signal, 2) / math.Sqrt(float64(len(signal)))
}

// ZeroCrossings returns the number of zero crossings in the signal.
// A crossing is counted when consecutive samples have opposite signs.
func ZeroCrossings(signal []float64) int {
	count := 0
	for i := 1; i < len(signal); i++ {
		if signal[i-1]*signal[i] < 0 {
			count++
		}
	}
	return count
}
