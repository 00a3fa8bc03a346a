package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-fieldlab/field"
	"github.com/cwbudde/algo-fieldlab/field/snapshot"
)

func (a *app) metricsCmd() *cobra.Command {
	var update bool

	cmd := &cobra.Command{
		Use:   "metrics <snapshot.json>",
		Short: "Print the stored and recomputed metrics of a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := args[0]

			e := field.New(a.cfg.EngineOptions()...)
			if err := snapshot.ImportFile(e, path); err != nil {
				return err
			}
			stored, hasStored := e.LastMetrics()
			fresh := e.ComputeMetrics()

			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "source\tentropia\tvarianza\tmaximo\n")
			if hasStored {
				fmt.Fprintf(tw, "stored\t%.6f\t%.6f\t%.6f\n", stored.Entropy, stored.Variance, stored.Maximum)
			} else {
				fmt.Fprintf(tw, "stored\t-\t-\t-\n")
			}
			fmt.Fprintf(tw, "computed\t%.6f\t%.6f\t%.6f\n", fresh.Entropy, fresh.Variance, fresh.Maximum)
			if err := tw.Flush(); err != nil {
				return err
			}

			if hasStored && stored != fresh {
				a.log.Warn("stored metrics are stale", "path", path)
			}
			if update {
				if err := snapshot.ExportFile(e, path); err != nil {
					return err
				}
				a.log.Info("snapshot updated", "path", path, "size", e.Size())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&update, "update", false, "write the recomputed metrics back to the snapshot")
	return cmd
}
