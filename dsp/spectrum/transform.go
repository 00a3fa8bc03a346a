package spectrum

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-fieldlab/dsp/signal"
)

// ErrInvalidInput is returned for empty signals, bad sample rates and bad
// transform settings.
var ErrInvalidInput = errors.New("spectrum: invalid input")

// Default transform settings.
const (
	DefaultAmplification = 5.0
	DefaultToneHz        = 440.0
	DefaultToneGain      = 2.0
)

// Config holds the band transform settings.
type Config struct {
	Band          Band
	Amplification float64
	ToneHz        float64 // audible marker tone
	ToneGain      float64 // tone level relative to the input's peak bin magnitude
}

// DefaultConfig returns the activation band with the default gains.
func DefaultConfig() Config {
	return Config{
		Band:          BandActivation,
		Amplification: DefaultAmplification,
		ToneHz:        DefaultToneHz,
		ToneGain:      DefaultToneGain,
	}
}

// Validate checks the band and gains.
func (c Config) Validate() error {
	if err := c.Band.Validate(); err != nil {
		return err
	}
	checks := []struct {
		name string
		v    float64
	}{
		{"amplification", c.Amplification},
		{"tone frequency", c.ToneHz},
		{"tone gain", c.ToneGain},
	}
	for _, chk := range checks {
		if chk.v < 0 || math.IsNaN(chk.v) || math.IsInf(chk.v, 0) {
			return fmt.Errorf("%w: %s must be finite and >= 0: %v", ErrInvalidInput, chk.name, chk.v)
		}
	}
	return nil
}

// Option mutates a transform Config.
type Option func(*Config)

// WithBand selects the band that is kept and amplified.
func WithBand(b Band) Option {
	return func(c *Config) { c.Band = b }
}

// WithAmplification sets the in-band gain.
func WithAmplification(gain float64) Option {
	return func(c *Config) { c.Amplification = gain }
}

// WithTone sets the marker tone frequency and its relative gain.
func WithTone(hz, gain float64) Option {
	return func(c *Config) {
		c.ToneHz = hz
		c.ToneGain = gain
	}
}

// Transformer turns a signal into a band-limited counter-signal.
// It holds no state between calls and is safe for concurrent use.
type Transformer struct {
	cfg Config
}

// NewTransformer builds a Transformer from DefaultConfig and opts.
func NewTransformer(opts ...Option) (*Transformer, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Transformer{cfg: cfg}, nil
}

// Config returns the active settings.
func (t *Transformer) Config() Config { return t.cfg }

// Result is the outcome of a band transform.
type Result struct {
	Signal   signal.Signal // counter-signal, same length and rate as the input
	Input    Frame
	Output   Frame
	ToneBin  int
	ToneGain float64 // absolute value added to the tone bin
}

// TransformBand computes the counter-signal of sig.
//
// Bins of the input spectrum inside the band are copied to a zeroed output
// spectrum scaled by Amplification; every other bin stays zero. The bin
// nearest ToneHz then receives ToneGain*max|X| on top of whatever it holds.
// The output spectrum is inverted back to exactly len(sig.Samples) samples.
func (t *Transformer) TransformBand(sig signal.Signal) (Result, error) {
	if len(sig.Samples) == 0 {
		return Result{}, fmt.Errorf("%w: empty signal", ErrInvalidInput)
	}

	in, err := Analyze(sig)
	if err != nil {
		return Result{}, err
	}

	out := Frame{
		SampleRate: in.SampleRate,
		N:          in.N,
		Bins:       make([]complex128, len(in.Bins)),
		Freqs:      append([]float64(nil), in.Freqs...),
	}

	gain := complex(t.cfg.Amplification, 0)
	lo, hi := in.BandRange(t.cfg.Band)
	for k := lo; k < hi; k++ {
		out.Bins[k] = in.Bins[k] * gain
	}

	toneBin := in.NearestBin(t.cfg.ToneHz)
	toneGain := t.cfg.ToneGain * MaxMagnitude(in.Bins)
	out.Bins[toneBin] += complex(toneGain, 0)

	counter, err := out.Synthesize()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Signal:   counter,
		Input:    in,
		Output:   out,
		ToneBin:  toneBin,
		ToneGain: toneGain,
	}, nil
}

// TransformBand runs a one-off transform of sig towards band with opts
// applied on top of the default gains.
func TransformBand(sig signal.Signal, band Band, opts ...Option) (signal.Signal, error) {
	t, err := NewTransformer(append([]Option{WithBand(band)}, opts...)...)
	if err != nil {
		return signal.Signal{}, err
	}
	res, err := t.TransformBand(sig)
	if err != nil {
		return signal.Signal{}, err
	}
	return res.Signal, nil
}
