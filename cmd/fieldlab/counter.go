package main

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-fieldlab/dsp/signal"
	"github.com/cwbudde/algo-fieldlab/dsp/spectrum"
	"github.com/cwbudde/algo-fieldlab/field/snapshot"
	"github.com/cwbudde/algo-fieldlab/internal/plot"
	"github.com/cwbudde/algo-fieldlab/internal/resultio"
	"github.com/cwbudde/algo-fieldlab/internal/wavio"
	frequencystats "github.com/cwbudde/algo-fieldlab/stats/frequency"
	timestats "github.com/cwbudde/algo-fieldlab/stats/time"
)

// probeFrequencies are reported for every counter-signal: the slow
// components of the low-activity input. The marker tone is added per run.
var probeFrequencies = []float64{3, 6}

// counterSummary is the result document of the counter command.
type counterSummary struct {
	Input         string             `json:"input"`
	Output        string             `json:"output"`
	SampleRate    float64            `json:"sample_rate"`
	Samples       int                `json:"samples"`
	Band          spectrum.Band      `json:"band"`
	Amplification float64            `json:"amplification"`
	ToneHz        float64            `json:"tone_hz"`
	ToneGain      float64            `json:"tone_gain"`
	BandEnergyIn  float64            `json:"band_energy_in"`
	BandEnergyOut float64            `json:"band_energy_out"`
	PeakHz        float64            `json:"peak_hz"`
	ToneLevels    map[string]float64 `json:"tone_levels"`

	OutputLevel timestats.Stats      `json:"output_level"`
	SpectrumIn  frequencystats.Stats `json:"spectrum_in"`
	SpectrumOut frequencystats.Stats `json:"spectrum_out"`
}

func (a *app) counterCmd() *cobra.Command {
	var (
		in         string
		fromSnap   string
		out        string
		plotPath   string
		resultPath string
		amp        float64
		toneHz     float64
		toneGain   float64
	)
	band := spectrum.BandActivation

	cmd := &cobra.Command{
		Use:   "counter",
		Short: "Transform a signal into its band-limited counter-signal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (in == "") == (fromSnap == "") {
				return errors.New("exactly one of --in and --from-snapshot is required")
			}
			if out == "" {
				return errors.New("--out is required")
			}

			sc := a.cfg.Spectral
			flags := cmd.Flags()
			if flags.Changed("band") {
				sc.Band = band
			}
			if flags.Changed("amplification") {
				sc.Amplification = amp
			}
			if flags.Changed("tone-hz") {
				sc.ToneHz = toneHz
			}
			if flags.Changed("tone-gain") {
				sc.ToneGain = toneGain
			}
			cfg := a.cfg
			cfg.Spectral = sc

			sig, source, err := a.loadCounterInput(in, fromSnap, sc.SampleRate)
			if err != nil {
				return err
			}

			tr, err := spectrum.NewTransformer(cfg.TransformOptions()...)
			if err != nil {
				return err
			}
			res, err := tr.TransformBand(sig)
			if err != nil {
				return err
			}

			if err := wavio.Save(out, res.Signal); err != nil {
				return err
			}
			a.log.Info("counter-signal written", "path", out, "samples", res.Signal.Len(), "band", sc.Band)

			if plotPath != "" {
				opts := plot.Options{Bands: []spectrum.Band{sc.Band}}
				if err := plot.Spectra(plotPath, res.Input, res.Output, opts); err != nil {
					return err
				}
				a.log.Info("spectrum plot written", "path", plotPath)
			}

			summary, err := summarize(source, out, tr.Config(), res)
			if err != nil {
				return err
			}
			if resultPath != "" {
				if err := resultio.WriteJSON(resultPath, summary); err != nil {
					return err
				}
				a.log.Info("result written", "path", resultPath)
			}
			return resultio.Encode(a.stdout, summary)
		},
	}

	f := cmd.Flags()
	f.StringVar(&in, "in", "", "input WAV file")
	f.StringVar(&fromSnap, "from-snapshot", "", "use the flattened field of this snapshot as input")
	f.StringVar(&out, "out", "", "output WAV file")
	f.StringVar(&plotPath, "plot", "", "write a spectrum comparison PNG")
	f.StringVar(&resultPath, "result", "", "write a JSON summary")
	f.Var(&band, "band", "target band in Hz, lo-hi")
	f.Float64Var(&amp, "amplification", spectrum.DefaultAmplification, "gain applied inside the band")
	f.Float64Var(&toneHz, "tone-hz", spectrum.DefaultToneHz, "marker tone frequency")
	f.Float64Var(&toneGain, "tone-gain", spectrum.DefaultToneGain, "marker tone gain relative to the peak bin")
	return cmd
}

// loadCounterInput returns the input signal and a description of its
// source.
func (a *app) loadCounterInput(in, fromSnap string, rate float64) (signal.Signal, string, error) {
	if in != "" {
		sig, info, err := wavio.Load(in)
		if err != nil {
			return signal.Signal{}, "", err
		}
		if float64(info.SampleRate) != rate {
			a.log.Warn("sample rate differs from configuration",
				"path", in, "file_rate", info.SampleRate, "configured_rate", rate)
		}
		a.log.Info("signal loaded", "path", in, "samples", sig.Len(),
			"channels", info.Channels, "bit_depth", info.BitDepth)
		return sig, in, nil
	}

	snap, err := snapshot.ReadFile(fromSnap)
	if err != nil {
		return signal.Signal{}, "", err
	}
	if snap.Grid == nil {
		return signal.Signal{}, "", fmt.Errorf("%w: %s has no grid", snapshot.ErrFormat, fromSnap)
	}
	sig := signal.New(rate, snap.Grid.Values())
	a.log.Info("field loaded as signal", "path", fromSnap, "samples", sig.Len(), "rate", rate)
	return sig, fromSnap, nil
}

func summarize(source, out string, cfg spectrum.Config, res spectrum.Result) (counterSummary, error) {
	freqs := append([]float64(nil), probeFrequencies...)
	freqs = append(freqs, cfg.ToneHz)

	levels := make(map[string]float64, len(freqs))
	nyquist := res.Signal.SampleRate / 2
	for _, hz := range freqs {
		if hz > nyquist {
			continue
		}
		l, err := spectrum.ToneLevels(res.Signal, hz)
		if err != nil {
			return counterSummary{}, err
		}
		levels[strconv.FormatFloat(hz, 'g', -1, 64)+" Hz"] = round(l[0])
	}

	peakHz, _ := spectrum.PeakFrequency(res.Output, spectrum.Band{Lo: 0, Hi: plot.DefaultMaxHz})

	return counterSummary{
		Input:         source,
		Output:        out,
		SampleRate:    res.Signal.SampleRate,
		Samples:       res.Signal.Len(),
		Band:          cfg.Band,
		Amplification: cfg.Amplification,
		ToneHz:        cfg.ToneHz,
		ToneGain:      cfg.ToneGain,
		BandEnergyIn:  spectrum.BandEnergy(res.Input, cfg.Band),
		BandEnergyOut: spectrum.BandEnergy(res.Output, cfg.Band),
		PeakHz:        round(peakHz),
		ToneLevels:    levels,
		OutputLevel:   timestats.Calculate(res.Signal.Samples),
		SpectrumIn:    frequencystats.FromFrame(res.Input),
		SpectrumOut:   frequencystats.FromFrame(res.Output),
	}, nil
}

// round keeps six decimals so summaries do not carry floating-point noise.
func round(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
