// Package config loads the lab's YAML configuration.
//
// A file only needs the keys it changes; everything else keeps the
// values of Default.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-fieldlab/dsp/core"
	"github.com/cwbudde/algo-fieldlab/dsp/spectrum"
	"github.com/cwbudde/algo-fieldlab/field"
	"github.com/cwbudde/algo-fieldlab/internal/logging"
)

// Config is the root configuration.
type Config struct {
	Field    FieldConfig    `yaml:"field"`
	Spectral SpectralConfig `yaml:"spectral"`
	Report   ReportConfig   `yaml:"report"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// FieldConfig configures the diffusion engine.
type FieldConfig struct {
	Size          int     `yaml:"size"`
	Alpha         float64 `yaml:"alpha"`
	AnxietyRadius int     `yaml:"anxiety_radius"`
	Workers       int     `yaml:"workers"`
	Seed          int64   `yaml:"seed"` // 0 seeds from the clock
}

// SpectralConfig configures audio handling and the band transform.
type SpectralConfig struct {
	SampleRate    float64       `yaml:"sample_rate"`
	Band          spectrum.Band `yaml:"band"`
	Amplification float64       `yaml:"amplification"`
	ToneHz        float64       `yaml:"tone_hz"`
	ToneGain      float64       `yaml:"tone_gain"`
}

// ReportConfig configures the pattern-injection experiment.
type ReportConfig struct {
	Steps int `yaml:"steps"`
	X     int `yaml:"x"`
	Y     int `yaml:"y"`
}

// LoggingConfig configures the CLI logger.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	NoColor bool   `yaml:"no_color"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Field: FieldConfig{
			Size:          field.DefaultSize,
			Alpha:         field.DefaultAlpha,
			AnxietyRadius: field.DefaultAnxietyRadius,
			Workers:       1,
		},
		Spectral: SpectralConfig{
			SampleRate:    core.DefaultSampleRate,
			Band:          spectrum.BandActivation,
			Amplification: spectrum.DefaultAmplification,
			ToneHz:        spectrum.DefaultToneHz,
			ToneGain:      spectrum.DefaultToneGain,
		},
		Report: ReportConfig{
			Steps: 25,
			X:     21,
			Y:     21,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the YAML file at path on top of Default and validates the
// result. Unknown keys are rejected.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Read is Load for an open stream. An empty stream yields Default.
func Read(r io.Reader) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings the engine or transform would reject.
func (c Config) Validate() error {
	switch {
	case c.Field.Size <= 0:
		return fmt.Errorf("config: field.size must be > 0: %d", c.Field.Size)
	case c.Field.Alpha < 0 || c.Field.Alpha > 1:
		return fmt.Errorf("config: field.alpha must be in [0,1]: %v", c.Field.Alpha)
	case c.Field.AnxietyRadius < 0:
		return fmt.Errorf("config: field.anxiety_radius must be >= 0: %d", c.Field.AnxietyRadius)
	case c.Field.Workers < 1:
		return fmt.Errorf("config: field.workers must be >= 1: %d", c.Field.Workers)
	case c.Spectral.SampleRate <= 0:
		return fmt.Errorf("config: spectral.sample_rate must be > 0: %v", c.Spectral.SampleRate)
	case c.Report.Steps < 0:
		return fmt.Errorf("config: report.steps must be >= 0: %d", c.Report.Steps)
	case c.Report.X < 0 || c.Report.Y < 0:
		return fmt.Errorf("config: report.x and report.y must be >= 0: (%d,%d)", c.Report.X, c.Report.Y)
	}

	if err := c.Transform().Validate(); err != nil {
		return fmt.Errorf("config: spectral: %w", err)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Transform returns the band transform settings.
func (c Config) Transform() spectrum.Config {
	return spectrum.Config{
		Band:          c.Spectral.Band,
		Amplification: c.Spectral.Amplification,
		ToneHz:        c.Spectral.ToneHz,
		ToneGain:      c.Spectral.ToneGain,
	}
}

// EngineOptions returns the field engine options for c.
func (c Config) EngineOptions() []field.Option {
	opts := []field.Option{
		field.WithSize(c.Field.Size),
		field.WithAlpha(c.Field.Alpha),
		field.WithAnxietyRadius(c.Field.AnxietyRadius),
		field.WithWorkers(c.Field.Workers),
	}
	if c.Field.Seed != 0 {
		opts = append(opts, field.WithSeed(c.Field.Seed))
	}
	return opts
}

// TransformOptions returns the transformer options for c.
func (c Config) TransformOptions() []spectrum.Option {
	return []spectrum.Option{
		spectrum.WithBand(c.Spectral.Band),
		spectrum.WithAmplification(c.Spectral.Amplification),
		spectrum.WithTone(c.Spectral.ToneHz, c.Spectral.ToneGain),
	}
}
