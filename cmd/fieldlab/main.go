// Command fieldlab drives the diffusion field and the counter-signal
// transform from the command line.
//
// Usage:
//
//	fieldlab [--config file.yaml] [--log-level info] <command> [flags]
//
// Commands:
//
//	evolve    run diffusion steps, optionally injecting the anxiety block
//	counter   turn a WAV file (or a field snapshot) into a counter-signal
//	compare   run the anxiety and calm injection experiments
//	synth     write the synthetic test inputs as WAV files
//	metrics   print and refresh the metrics stored in a snapshot
//
// Examples:
//
//	fieldlab evolve --steps 200 --inject-anxiety-at 50 --snapshot field.json --chart
//	fieldlab counter --in input.wav --out counter.wav --band 15-60 --plot spectra.png
//	fieldlab compare --seed 7 --out comparison.json
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/cwbudde/algo-fieldlab/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()
	if err != nil {
		log, lerr := logging.New(os.Stderr, "error", false)
		if lerr == nil {
			log.Error("fieldlab failed", "err", err)
		}
		os.Exit(1)
	}
}
