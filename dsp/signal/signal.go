package signal

import (
	"fmt"

	"github.com/cwbudde/algo-fieldlab/dsp/core"
)

// Signal is a mono sequence of samples at a fixed rate.
//
// Signals are treated as immutable: operations return new values and never
// write into Samples.
type Signal struct {
	SampleRate float64
	Samples    []float64
}

// New wraps samples as a Signal. The slice is not copied.
func New(sampleRate float64, samples []float64) Signal {
	return Signal{SampleRate: sampleRate, Samples: samples}
}

// Len returns the number of samples.
func (s Signal) Len() int { return len(s.Samples) }

// Duration returns the length in seconds, or 0 for a non-positive rate.
func (s Signal) Duration() float64 {
	if s.SampleRate <= 0 {
		return 0
	}
	return float64(len(s.Samples)) / s.SampleRate
}

// Peak returns max(|x|) over the samples.
func (s Signal) Peak() float64 { return core.PeakAbs(s.Samples) }

// Clone returns a copy with independent sample storage.
func (s Signal) Clone() Signal {
	return Signal{SampleRate: s.SampleRate, Samples: core.Clone(s.Samples)}
}

// Normalized returns a copy scaled so that its peak is 1. A silent signal is
// returned unchanged (as a copy).
func (s Signal) Normalized() Signal {
	return Signal{SampleRate: s.SampleRate, Samples: PeakNormalize(s.Samples)}
}

// Validate reports an empty signal or a non-positive sample rate.
func (s Signal) Validate() error {
	if len(s.Samples) == 0 {
		return fmt.Errorf("signal must not be empty")
	}
	if s.SampleRate <= 0 {
		return fmt.Errorf("signal sample rate must be > 0: %f", s.SampleRate)
	}
	return nil
}

// PeakNormalize returns data divided by its peak absolute value. Silent
// input is copied as is.
func PeakNormalize(data []float64) []float64 {
	out := core.Clone(data)
	peak := core.PeakAbs(out)
	if peak == 0 {
		return out
	}
	inv := 1 / peak
	for i := range out {
		out[i] *= inv
	}
	return out
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("normalize input must not be empty")
	}

	maxAbs := core.PeakAbs(data)

	out := make([]float64, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	scale := targetPeak / maxAbs
	for i, v := range data {
		out[i] = v * scale
	}
	return out, nil
}

// Sum adds equally long sample slices element-wise into a new slice.
func Sum(parts ...[]float64) ([]float64, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("sum requires at least one input")
	}
	out := make([]float64, len(parts[0]))
	for i, p := range parts {
		if len(p) != len(out) {
			return nil, fmt.Errorf("sum input %d length mismatch: %d != %d", i, len(p), len(out))
		}
		for j, v := range p {
			out[j] += v
		}
	}
	return out, nil
}
