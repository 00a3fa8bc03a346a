package spectrum

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-fieldlab/dsp/signal"
	"github.com/cwbudde/algo-fieldlab/internal/testutil"
)

func TestGoertzelMatchesDFT(t *testing.T) {
	sampleRate := 48000.0
	freq0 := 1000.0
	sig := testutil.Sine(freq0, sampleRate, 1.0, 1024)

	g, err := NewGoertzel(freq0, sampleRate)
	if err != nil {
		t.Fatalf("NewGoertzel: %v", err)
	}
	g.ProcessBlock(sig)

	var dft complex128
	for n, x := range sig {
		angle := -2 * math.Pi * freq0 / sampleRate * float64(n)
		dft += complex(x, 0) * cmplx.Exp(complex(0, angle))
	}

	wantP := real(dft)*real(dft) + imag(dft)*imag(dft)
	if math.Abs(g.Power()-wantP) > 1e-7*wantP {
		t.Fatalf("Power = %v, want %v", g.Power(), wantP)
	}
	if wantMag := cmplx.Abs(dft); math.Abs(g.Magnitude()-wantMag) > 1e-7*wantMag {
		t.Fatalf("Magnitude = %v, want %v", g.Magnitude(), wantMag)
	}
}

func TestGoertzelBlocksAccumulate(t *testing.T) {
	sig := testutil.Sine(50, 1000, 0.8, 1000)

	whole, _ := NewGoertzel(50, 1000)
	whole.ProcessBlock(sig)

	split, _ := NewGoertzel(50, 1000)
	split.ProcessBlock(sig[:300])
	split.ProcessBlock(sig[300:])

	if math.Abs(whole.Power()-split.Power()) > 1e-9*whole.Power() {
		t.Fatalf("split power %v != whole power %v", split.Power(), whole.Power())
	}
	if math.Abs(split.Amplitude()-0.8) > 1e-9 {
		t.Fatalf("Amplitude = %v, want 0.8", split.Amplitude())
	}
}

func TestGoertzelReset(t *testing.T) {
	g, _ := NewGoertzel(1000, 48000)
	g.ProcessBlock([]float64{1})
	if g.Power() == 0 {
		t.Fatal("Power should be non-zero after processing")
	}

	g.Reset()
	if g.Power() != 0 || g.Amplitude() != 0 {
		t.Fatalf("after Reset: power=%v amplitude=%v", g.Power(), g.Amplitude())
	}
}

func TestGoertzelInvalidArgs(t *testing.T) {
	tests := []struct {
		name       string
		freq, rate float64
	}{
		{name: "zero rate", freq: 10, rate: 0},
		{name: "NaN rate", freq: 10, rate: math.NaN()},
		{name: "negative freq", freq: -1, rate: 1000},
		{name: "above nyquist", freq: 501, rate: 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewGoertzel(tt.freq, tt.rate); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestToneLevels(t *testing.T) {
	sig := signal.New(1000, testutil.SineMix(1000, 1000,
		testutil.Partial{FreqHz: 3, Amplitude: 0.7},
		testutil.Partial{FreqHz: 6, Amplitude: 0.5},
	))

	levels, err := ToneLevels(sig, 3, 6, 100)
	if err != nil {
		t.Fatalf("ToneLevels: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, levels, []float64{0.7, 0.5, 0}, 1e-6)

	if _, err := ToneLevels(sig, 900); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("above nyquist err = %v", err)
	}
}
