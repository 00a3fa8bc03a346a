package main

import (
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-fieldlab/internal/resultio"
	"github.com/cwbudde/algo-fieldlab/measure/resonance"
)

func (a *app) compareCmd() *cobra.Command {
	var (
		steps int
		seed  int64
		out   string
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the field response to the anxiety and calm patterns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			base := resonance.DefaultConfig()
			base.Size = a.cfg.Field.Size
			base.Alpha = a.cfg.Field.Alpha
			base.Workers = a.cfg.Field.Workers
			base.Seed = a.cfg.Field.Seed
			base.Steps = a.cfg.Report.Steps
			base.X, base.Y = a.cfg.Report.X, a.cfg.Report.Y

			if cmd.Flags().Changed("steps") {
				base.Steps = steps
			}
			if cmd.Flags().Changed("seed") {
				base.Seed = seed
			}

			reports, err := resonance.Compare(base)
			if err != nil {
				return err
			}
			for _, r := range reports {
				a.log.Info("experiment finished",
					"pattern", r.Pattern,
					"variance", r.GlobalEntropy,
					"resonance", r.Resonance,
					"dissolution", r.DissolutionTime,
				)
			}

			if out != "" {
				if err := resultio.WriteJSON(out, reports); err != nil {
					return err
				}
				a.log.Info("comparison written", "path", out)
			}
			return resultio.Encode(a.stdout, reports)
		},
	}

	f := cmd.Flags()
	f.IntVar(&steps, "steps", 25, "diffusion steps after injection")
	f.Int64Var(&seed, "seed", 0, "random seed shared by both runs (0: from clock)")
	f.StringVar(&out, "out", "", "write the reports to this JSON file")
	return cmd
}
