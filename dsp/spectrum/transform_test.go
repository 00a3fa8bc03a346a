package spectrum

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-fieldlab/dsp/signal"
	"github.com/cwbudde/algo-fieldlab/internal/testutil"
)

func toneLevel(t *testing.T, sig signal.Signal, hz float64) float64 {
	t.Helper()
	levels, err := ToneLevels(sig, hz)
	if err != nil {
		t.Fatalf("ToneLevels(%v): %v", hz, err)
	}
	return levels[0]
}

func TestTransformBandInBandSineAmplified(t *testing.T) {
	// 1 s at 1 kHz: every integer frequency is an exact bin.
	in := signal.New(1000, testutil.Sine(30, 1000, 1, 1000))

	res, err := mustTransformer(t).TransformBand(in)
	if err != nil {
		t.Fatalf("TransformBand: %v", err)
	}
	if res.Signal.Len() != in.Len() || res.Signal.SampleRate != in.SampleRate {
		t.Fatalf("output shape = (%d, %v), want (%d, %v)",
			res.Signal.Len(), res.Signal.SampleRate, in.Len(), in.SampleRate)
	}
	if got := toneLevel(t, res.Signal, 30); math.Abs(got-5) > 1e-6 {
		t.Fatalf("30 Hz level = %v, want 5", got)
	}
	// Tone gain 2 of max|X| = 500 adds 1000 to the 440 Hz bin: amplitude 2.
	if got := toneLevel(t, res.Signal, 440); math.Abs(got-2) > 1e-6 {
		t.Fatalf("440 Hz level = %v, want 2", got)
	}
	if res.ToneBin != 440 || math.Abs(res.ToneGain-1000) > 1e-6 {
		t.Fatalf("tone bin/gain = %d/%v, want 440/1000", res.ToneBin, res.ToneGain)
	}
}

func TestTransformBandOutOfBandSineRemoved(t *testing.T) {
	in := signal.New(1000, testutil.Sine(5, 1000, 1, 1000))

	out, err := TransformBand(in, BandActivation)
	if err != nil {
		t.Fatalf("TransformBand: %v", err)
	}
	if got := toneLevel(t, out, 5); got > 1e-6 {
		t.Fatalf("5 Hz level = %v, want ~0", got)
	}
	if got := toneLevel(t, out, 440); math.Abs(got-2) > 1e-6 {
		t.Fatalf("440 Hz level = %v, want 2", got)
	}

	f, err := Analyze(out)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if e := BandEnergy(f, BandActivation); e > 1e-12 {
		t.Fatalf("band energy = %v, want ~0", e)
	}
}

func TestTransformBandSlowWavesScenario(t *testing.T) {
	const rate = 44100.0
	n := int(5 * rate)
	in := signal.New(rate, testutil.SineMix(rate, n,
		testutil.Partial{FreqHz: 3, Amplitude: 0.7},
		testutil.Partial{FreqHz: 6, Amplitude: 0.5},
	))

	res, err := mustTransformer(t).TransformBand(in)
	if err != nil {
		t.Fatalf("TransformBand: %v", err)
	}
	if res.Signal.Len() != n {
		t.Fatalf("output length = %d, want %d", res.Signal.Len(), n)
	}

	for _, hz := range []float64{3, 6} {
		if b := res.Output.Bins[res.Output.NearestBin(hz)]; b != 0 {
			t.Fatalf("%v Hz bin = %v, want 0", hz, b)
		}
	}

	out, err := Analyze(res.Signal)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	peak := MaxMagnitude(out.Bins)
	for _, hz := range []float64{3, 6} {
		if m := cmplx.Abs(out.Bins[out.NearestBin(hz)]); m > 1e-9*peak {
			t.Fatalf("%v Hz survived the round trip: %v (peak %v)", hz, m, peak)
		}
	}

	// max|X| = 0.7*N/2, so the tone amplitude is 2*2*0.7/2 = 1.4.
	if got := toneLevel(t, res.Signal, 440); math.Abs(got-1.4) > 1e-6 {
		t.Fatalf("440 Hz level = %v, want 1.4", got)
	}

	hz, _ := PeakFrequency(res.Output, Band{Lo: 0, Hi: 500})
	if math.Abs(hz-440) > 1e-9 {
		t.Fatalf("output peak at %v Hz, want 440", hz)
	}
	if e := BandEnergy(res.Output, BandActivation); e > 1e-6*BandEnergy(res.Output, Band{Lo: 439, Hi: 441}) {
		t.Fatalf("band energy %v not negligible", e)
	}
}

func TestTransformBandToneAddsToBandContent(t *testing.T) {
	in := signal.New(1000, testutil.Sine(40, 1000, 1, 1000))

	tr, err := NewTransformer(WithTone(40, 1), WithAmplification(1))
	if err != nil {
		t.Fatalf("NewTransformer: %v", err)
	}
	res, err := tr.TransformBand(in)
	if err != nil {
		t.Fatalf("TransformBand: %v", err)
	}

	if math.Abs(res.ToneGain-500) > 1e-6 {
		t.Fatalf("tone gain = %v, want 500", res.ToneGain)
	}
	want := res.Input.Bins[40] + complex(res.ToneGain, 0)
	if res.Output.Bins[40] != want {
		t.Fatalf("tone bin = %v, want %v", res.Output.Bins[40], want)
	}
}

func TestTransformBandOddLength(t *testing.T) {
	in := signal.New(999, testutil.Noise(9, 1, 999))
	out, err := TransformBand(in, Band{Lo: 0, Hi: 100})
	if err != nil {
		t.Fatalf("TransformBand: %v", err)
	}
	if out.Len() != 999 {
		t.Fatalf("len = %d, want 999", out.Len())
	}
	testutil.RequireFinite(t, out.Samples)
}

func TestTransformBandDeterministic(t *testing.T) {
	in := signal.New(800, testutil.Noise(5, 1, 800))
	tr := mustTransformer(t)

	a, err := tr.TransformBand(in)
	if err != nil {
		t.Fatalf("TransformBand: %v", err)
	}
	b, err := tr.TransformBand(in)
	if err != nil {
		t.Fatalf("TransformBand: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, a.Signal.Samples, b.Signal.Samples, 0)
}

func TestTransformBandErrors(t *testing.T) {
	tr := mustTransformer(t)

	if _, err := tr.TransformBand(signal.Signal{SampleRate: 1000}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty signal err = %v", err)
	}
	if _, err := tr.TransformBand(signal.New(0, []float64{1, 2})); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("zero rate err = %v", err)
	}
	if _, err := NewTransformer(WithBand(Band{Lo: 60, Hi: 15})); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("inverted band err = %v", err)
	}
	if _, err := NewTransformer(WithAmplification(math.NaN())); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("NaN gain err = %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := mustTransformer(t).Config()
	if cfg != (Config{Band: BandActivation, Amplification: 5, ToneHz: 440, ToneGain: 2}) {
		t.Fatalf("default config = %+v", cfg)
	}
}

func mustTransformer(t *testing.T) *Transformer {
	t.Helper()
	tr, err := NewTransformer()
	if err != nil {
		t.Fatalf("NewTransformer: %v", err)
	}
	return tr
}
