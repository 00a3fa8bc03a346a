package spectrum

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fieldlab/dsp/signal"
)

// Frame is the non-negative-frequency spectrum of a real signal.
//
// Bins[k] is the DFT value at Freqs[k] = k*SampleRate/N. A Frame owns its
// slices; callers that modify them should Clone first.
type Frame struct {
	SampleRate float64
	N          int // time-domain length
	Bins       []complex128
	Freqs      []float64
}

// Forward transforms samples recorded at sampleRate into a Frame.
func Forward(samples []float64, sampleRate float64) (Frame, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return Frame{}, fmt.Errorf("%w: sample rate must be > 0: %v", ErrInvalidInput, sampleRate)
	}

	bins, err := RealForward(samples)
	if err != nil {
		return Frame{}, err
	}

	return Frame{
		SampleRate: sampleRate,
		N:          len(samples),
		Bins:       bins,
		Freqs:      BinFrequencies(len(samples), sampleRate),
	}, nil
}

// Analyze is Forward for a Signal.
func Analyze(sig signal.Signal) (Frame, error) {
	return Forward(sig.Samples, sig.SampleRate)
}

// BinFrequencies returns the centre frequency in Hz of each of the
// BinCount(n) bins of a length-n transform at sampleRate.
func BinFrequencies(n int, sampleRate float64) []float64 {
	if n <= 0 {
		return nil
	}

	step := 1 / (float64(n) * (1 / sampleRate))
	freqs := make([]float64, BinCount(n))
	for k := range freqs {
		freqs[k] = float64(k) * step
	}
	return freqs
}

// Len returns the number of bins.
func (f Frame) Len() int { return len(f.Bins) }

// Resolution returns the bin spacing in Hz.
func (f Frame) Resolution() float64 {
	if f.N == 0 {
		return 0
	}
	return f.SampleRate / float64(f.N)
}

// Clone returns a deep copy of f.
func (f Frame) Clone() Frame {
	out := f
	out.Bins = append([]complex128(nil), f.Bins...)
	out.Freqs = append([]float64(nil), f.Freqs...)
	return out
}

// Magnitude returns |Bins[k]| for every bin.
func (f Frame) Magnitude() []float64 { return Magnitude(f.Bins) }

// NearestBin returns the index of the bin whose frequency is closest to hz.
// Ties resolve to the lower bin. An empty frame returns -1.
func (f Frame) NearestBin(hz float64) int {
	best := -1
	bestDist := math.Inf(1)
	for k, fk := range f.Freqs {
		if d := math.Abs(fk - hz); d < bestDist {
			best, bestDist = k, d
		}
	}
	return best
}

// BandRange returns the half-open bin range [lo, hi) whose frequencies lie
// inside b. lo == hi when no bin falls in the band.
func (f Frame) BandRange(b Band) (lo, hi int) {
	lo = len(f.Freqs)
	for k, fk := range f.Freqs {
		if b.Contains(fk) {
			if k < lo {
				lo = k
			}
			hi = k + 1
		}
	}
	if hi == 0 {
		return 0, 0
	}
	return lo, hi
}

// Synthesize converts the frame back into a Signal of length N.
func (f Frame) Synthesize() (signal.Signal, error) {
	samples, err := Inverse(f.Bins, f.N)
	if err != nil {
		return signal.Signal{}, err
	}
	return signal.New(f.SampleRate, samples), nil
}

// BandEnergy returns Σ|X[k]|² over the bins of f inside b.
func BandEnergy(f Frame, b Band) float64 {
	lo, hi := f.BandRange(b)
	sum := 0.0
	for _, p := range Power(f.Bins[lo:hi]) {
		sum += p
	}
	return sum
}

// PeakFrequency returns the frequency and magnitude of the strongest bin of
// f inside b. It returns (0, 0) when no bin falls in the band.
func PeakFrequency(f Frame, b Band) (hz, magnitude float64) {
	lo, hi := f.BandRange(b)
	if lo == hi {
		return 0, 0
	}

	best := lo
	mags := Magnitude(f.Bins[lo:hi])
	for i, m := range mags {
		if m > mags[best-lo] {
			best = lo + i
		}
	}
	return f.Freqs[best], mags[best-lo]
}
