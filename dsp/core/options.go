package core

import (
	"math/rand"
	"time"
)

// DefaultSampleRate is the lab's audio rate (CD quality).
const DefaultSampleRate = 44100

// ProcessorConfig defines settings shared by generators and transforms.
//
// Seed drives every random draw made on behalf of the config; a zero seed
// means "seed from the clock".
type ProcessorConfig struct {
	SampleRate float64
	Seed       int64
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns the lab defaults.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate: DefaultSampleRate,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithSeed fixes the random seed for reproducible runs.
func WithSeed(seed int64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		cfg.Seed = seed
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// NewRand returns a random source for cfg.Seed.
func (cfg ProcessorConfig) NewRand() *rand.Rand {
	return NewRand(cfg.Seed)
}

// NewRand returns a *rand.Rand seeded with seed, or with the current time
// when seed is zero.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
