package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-fieldlab/dsp/core"
	"github.com/cwbudde/algo-fieldlab/dsp/signal"
	"github.com/cwbudde/algo-fieldlab/internal/wavio"
)

// Synthetic file names written by synth.
const (
	synthLowActivity = "input_low_activity.wav"
	synthActivation  = "counterwave_activation.wav"
	synthTone        = "tone_reference.wav"
)

func (a *app) synthCmd() *cobra.Command {
	var (
		outDir   string
		duration float64
		seed     int64
	)

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Write the synthetic low-activity input and reference counter-waves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if duration <= 0 {
				return fmt.Errorf("--duration must be > 0: %v", duration)
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("synth: %w", err)
			}

			if !cmd.Flags().Changed("seed") {
				seed = a.cfg.Field.Seed
			}
			gen := signal.NewGenerator(
				core.WithSampleRate(a.cfg.Spectral.SampleRate),
				core.WithSeed(seed),
			)

			outputs := []struct {
				name  string
				build func() (signal.Signal, error)
			}{
				{synthLowActivity, func() (signal.Signal, error) { return gen.LowActivity(duration) }},
				{synthActivation, func() (signal.Signal, error) { return gen.Activation(duration) }},
				{synthTone, func() (signal.Signal, error) { return gen.Tone(a.cfg.Spectral.ToneHz, duration) }},
			}

			for _, o := range outputs {
				sig, err := o.build()
				if err != nil {
					return err
				}
				path := filepath.Join(outDir, o.name)
				if err := wavio.Save(path, sig); err != nil {
					return err
				}
				a.log.Info("signal written", "path", path, "seconds", sig.Duration())
				fmt.Fprintln(a.stdout, path)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&outDir, "out-dir", ".", "directory for the generated files")
	f.Float64Var(&duration, "duration", 5, "length of each file in seconds")
	f.Int64Var(&seed, "seed", 0, "noise seed (0: from clock)")
	return cmd
}
