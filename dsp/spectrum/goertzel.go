package spectrum

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fieldlab/dsp/signal"
)

// Goertzel evaluates a single DFT term without computing a full transform.
//
// It is used to probe how much of a few known frequencies (the marker tone,
// the slow components of a generated signal) survives a transform. The
// analyzer accumulates every sample passed to ProcessBlock since the last
// Reset; Power is |X[k]|² for that block.
type Goertzel struct {
	frequency  float64
	sampleRate float64
	coeff      float64
	s0, s1     float64
	n          int
}

// NewGoertzel creates an analyzer for frequency, which must lie in
// [0, sampleRate/2].
func NewGoertzel(frequency, sampleRate float64) (*Goertzel, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("%w: goertzel sample rate must be > 0: %v", ErrInvalidInput, sampleRate)
	}

	if frequency < 0 || frequency > sampleRate/2 || math.IsNaN(frequency) || math.IsInf(frequency, 0) {
		return nil, fmt.Errorf("%w: goertzel frequency must be between 0 and sampleRate/2: %v", ErrInvalidInput, frequency)
	}

	return &Goertzel{
		frequency:  frequency,
		sampleRate: sampleRate,
		coeff:      2 * math.Cos(2*math.Pi*frequency/sampleRate),
	}, nil
}

// Reset clears the internal state.
func (g *Goertzel) Reset() {
	g.s0, g.s1, g.n = 0, 0, 0
}

// ProcessBlock updates the internal state with a block of samples.
func (g *Goertzel) ProcessBlock(input []float64) {
	s0, s1 := g.s0, g.s1

	coeff := g.coeff
	for _, x := range input {
		s := x + coeff*s0 - s1
		s1 = s0
		s0 = s
	}

	g.s0, g.s1 = s0, s1
	g.n += len(input)
}

// Power returns the squared magnitude of the frequency component.
func (g *Goertzel) Power() float64 {
	p := g.s0*g.s0 + g.s1*g.s1 - g.coeff*g.s0*g.s1
	if p < 0 {
		return 0
	}
	return p
}

// Magnitude returns the magnitude of the frequency component.
func (g *Goertzel) Magnitude() float64 { return math.Sqrt(g.Power()) }

// Amplitude returns the estimated peak amplitude of a sinusoid at the
// analyzer frequency, 2|X|/N. A sine of amplitude A whose frequency fits a
// whole number of cycles into the block reads as A.
func (g *Goertzel) Amplitude() float64 {
	if g.n == 0 {
		return 0
	}
	return 2 * g.Magnitude() / float64(g.n)
}

// ToneLevels returns the Amplitude of each frequency in sig.
func ToneLevels(sig signal.Signal, freqs ...float64) ([]float64, error) {
	levels := make([]float64, len(freqs))
	for i, f := range freqs {
		g, err := NewGoertzel(f, sig.SampleRate)
		if err != nil {
			return nil, err
		}
		g.ProcessBlock(sig.Samples)
		levels[i] = g.Amplitude()
	}
	return levels, nil
}
