package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-fieldlab/dsp/core"
)

// Generator creates signals from a shared configuration.
//
// Noise draws come from one random source created from the configured seed,
// so a seeded Generator replays the same sequence of signals.
type Generator struct {
	cfg core.ProcessorConfig
	rng *rand.Rand
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	cfg := core.ApplyProcessorOptions(opts...)
	return &Generator{
		cfg: cfg,
		rng: cfg.NewRand(),
	}
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Samples returns the sample count for a duration in seconds, truncated.
func (g *Generator) Samples(seconds float64) int {
	return int(seconds * g.cfg.SampleRate)
}

// Sine generates a sine wave starting at phase 0.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", samples)
	}
	if g.cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("sine sample rate must be > 0: %f", g.cfg.SampleRate)
	}
	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out, nil
}

// WhiteNoise generates uniform white noise in [-amplitude, amplitude).
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	for i := range out {
		out[i] = (g.rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// GaussianNoise generates normally distributed noise with standard
// deviation sigma.
func (g *Generator) GaussianNoise(sigma float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if sigma < 0 {
		return nil, fmt.Errorf("noise sigma must be >= 0: %f", sigma)
	}
	out := make([]float64, samples)
	for i := range out {
		out[i] = g.rng.NormFloat64() * sigma
	}
	return out, nil
}

// partial is one sine component of a preset.
type partial struct {
	freqHz    float64
	amplitude float64
}

func (g *Generator) mix(seconds float64, partials []partial, noiseSigma float64) ([]float64, error) {
	n := g.Samples(seconds)
	if n <= 0 {
		return nil, fmt.Errorf("duration too short: %f s at %f Hz", seconds, g.cfg.SampleRate)
	}

	parts := make([][]float64, 0, len(partials)+1)
	for _, p := range partials {
		s, err := g.Sine(p.freqHz, p.amplitude, n)
		if err != nil {
			return nil, err
		}
		parts = append(parts, s)
	}
	noise, err := g.GaussianNoise(noiseSigma, n)
	if err != nil {
		return nil, err
	}
	parts = append(parts, noise)

	return Sum(parts...)
}

// LowActivity generates a slow, repetitive test input dominated by 3 Hz and
// 6 Hz components with a little gaussian noise, clipped to [-1,1].
func (g *Generator) LowActivity(seconds float64) (Signal, error) {
	out, err := g.mix(seconds, []partial{{3, 0.7}, {6, 0.5}}, 0.1)
	if err != nil {
		return Signal{}, fmt.Errorf("low activity: %w", err)
	}
	core.ClampSlice(out, -1, 1)
	return New(g.cfg.SampleRate, out), nil
}

// Activation generates the reference counter-wave: an audible 440 Hz tone,
// 25 Hz and 50 Hz components and gaussian noise, normalised to peak 1.
func (g *Generator) Activation(seconds float64) (Signal, error) {
	out, err := g.mix(seconds, []partial{{440, 0.6}, {25, 0.3}, {50, 0.2}}, 0.1)
	if err != nil {
		return Signal{}, fmt.Errorf("activation: %w", err)
	}
	return New(g.cfg.SampleRate, PeakNormalize(out)), nil
}

// Tone generates a peak-normalised sine of the given frequency and duration.
func (g *Generator) Tone(freqHz, seconds float64) (Signal, error) {
	out, err := g.Sine(freqHz, 1, g.Samples(seconds))
	if err != nil {
		return Signal{}, fmt.Errorf("tone: %w", err)
	}
	return New(g.cfg.SampleRate, PeakNormalize(out)), nil
}
