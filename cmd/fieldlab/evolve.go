package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-fieldlab/field"
	"github.com/cwbudde/algo-fieldlab/field/snapshot"
	"github.com/cwbudde/algo-fieldlab/internal/wavio"
)

func (a *app) evolveCmd() *cobra.Command {
	var (
		steps    int
		injectAt int
		size     int
		workers  int
		alpha    float64
		seed     int64
		snapOut  string
		snapIn   string
		wavIn    string
		chart    bool
	)

	cmd := &cobra.Command{
		Use:   "evolve",
		Short: "Run diffusion steps and report field metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if steps < 0 {
				return fmt.Errorf("--steps must be >= 0: %d", steps)
			}
			if snapIn != "" && wavIn != "" {
				return errors.New("--import and --from-wav are mutually exclusive")
			}

			fc := a.cfg.Field
			flags := cmd.Flags()
			if flags.Changed("size") {
				fc.Size = size
			}
			if flags.Changed("alpha") {
				fc.Alpha = alpha
			}
			if flags.Changed("workers") {
				fc.Workers = workers
			}
			if flags.Changed("seed") {
				fc.Seed = seed
			}
			cfg := a.cfg
			cfg.Field = fc
			if err := cfg.Validate(); err != nil {
				return err
			}

			e := field.New(cfg.EngineOptions()...)
			if snapIn != "" {
				if err := snapshot.ImportFile(e, snapIn); err != nil {
					return err
				}
				a.log.Info("snapshot imported", "path", snapIn, "size", e.Size())
			}
			if wavIn != "" {
				sig, _, err := wavio.Load(wavIn)
				if err != nil {
					return err
				}
				if err := e.SetGrid(field.GridFromSignal(sig.Samples, e.Size())); err != nil {
					return err
				}
				a.log.Info("field loaded from signal", "path", wavIn, "samples", sig.Len(), "size", e.Size())
			}

			ctx := cmd.Context()
			entropy := make([]float64, 0, steps)
			done := 0
			for step := range steps {
				if step == injectAt {
					e.InjectAnxietyPattern()
					a.log.Info("anxiety block injected", "step", step)
				}
				if err := e.StepContext(ctx); err != nil {
					a.log.Warn("interrupted", "completed_steps", done, "err", err)
					break
				}
				entropy = append(entropy, e.ComputeMetrics().Entropy)
				done++
			}

			m := e.ComputeMetrics()
			a.log.Info("evolution finished", "steps", done, "size", e.Size(), "alpha", e.Alpha())

			if chart && len(entropy) > 0 {
				fmt.Fprintln(a.stdout, asciigraph.Plot(entropy,
					asciigraph.Height(10),
					asciigraph.Caption("entropy per step (bits)"),
				))
			}
			if err := printMetrics(a.stdout, done, m); err != nil {
				return err
			}

			if snapOut != "" {
				if err := snapshot.ExportFile(e, snapOut); err != nil {
					return err
				}
				a.log.Info("snapshot written", "path", snapOut)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&steps, "steps", 100, "number of diffusion steps")
	f.IntVar(&injectAt, "inject-anxiety-at", -1, "step before which the anxiety block is injected (-1: never)")
	f.IntVar(&size, "size", field.DefaultSize, "field edge length")
	f.IntVar(&workers, "workers", 1, "row bands evolved in parallel")
	f.Float64Var(&alpha, "alpha", field.DefaultAlpha, "diffusion rate")
	f.Int64Var(&seed, "seed", 0, "random seed (0: from clock)")
	f.StringVar(&snapOut, "snapshot", "", "write the final field to this JSON file")
	f.StringVar(&snapIn, "import", "", "start from this snapshot instead of a random field")
	f.StringVar(&wavIn, "from-wav", "", "start from the samples of this WAV file laid out as the field")
	f.BoolVar(&chart, "chart", false, "plot the entropy curve in the terminal")
	return cmd
}

func printMetrics(w io.Writer, steps int, m field.Metrics) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "steps\tentropia\tvarianza\tmaximo\n")
	fmt.Fprintf(tw, "%d\t%.6f\t%.6f\t%.6f\n", steps, m.Entropy, m.Variance, m.Maximum)
	return tw.Flush()
}
