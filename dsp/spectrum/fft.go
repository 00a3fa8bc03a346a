package spectrum

import (
	"fmt"
	"math/bits"

	algofft "github.com/MeKo-Christian/algo-fft"
	"gonum.org/v1/gonum/dsp/fourier"
)

// BinCount returns the number of non-negative-frequency bins of a length-n
// real transform.
func BinCount(n int) int { return n/2 + 1 }

func isPowerOf2(n int) bool {
	return n > 0 && bits.OnesCount(uint(n)) == 1
}

// RealForward returns the BinCount(len(x)) non-negative-frequency bins of
// the unnormalised DFT of x.
func RealForward(x []float64) ([]complex128, error) {
	switch n := len(x); {
	case n == 0:
		return nil, fmt.Errorf("%w: empty transform input", ErrInvalidInput)
	case n == 1:
		return []complex128{complex(x[0], 0)}, nil
	case isPowerOf2(n):
		return forwardPlan(x)
	default:
		return forwardGonum(x), nil
	}
}

// Inverse reconstructs n real samples from BinCount(n) bins.
//
// The imaginary parts of the DC bin and, for even n, the Nyquist bin are
// ignored. Inverse(RealForward(x), len(x)) reproduces x.
func Inverse(bins []complex128, n int) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: inverse length must be > 0: %d", ErrInvalidInput, n)
	}
	if len(bins) != BinCount(n) {
		return nil, fmt.Errorf("%w: %d bins for length %d, want %d", ErrInvalidInput, len(bins), n, BinCount(n))
	}

	switch {
	case n == 1:
		return []float64{real(bins[0])}, nil
	case isPowerOf2(n):
		return inversePlan(bins, n)
	default:
		return inverseGonum(bins, n), nil
	}
}

func forwardPlan(x []float64) ([]complex128, error) {
	n := len(x)
	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("spectrum: failed to create FFT plan: %w", err)
	}

	in := make([]complex128, n)
	for i, v := range x {
		in[i] = complex(v, 0)
	}
	out := make([]complex128, n)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("spectrum: forward FFT failed: %w", err)
	}
	return out[:BinCount(n)], nil
}

func inversePlan(bins []complex128, n int) ([]float64, error) {
	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("spectrum: failed to create FFT plan: %w", err)
	}

	half := n / 2
	full := make([]complex128, n)
	copy(full, bins)
	full[0] = complex(real(full[0]), 0)
	full[half] = complex(real(full[half]), 0)
	for k := 1; k < half; k++ {
		v := bins[k]
		full[n-k] = complex(real(v), -imag(v))
	}

	time := make([]complex128, n)
	if err := plan.Inverse(time, full); err != nil {
		return nil, fmt.Errorf("spectrum: inverse FFT failed: %w", err)
	}

	out := make([]float64, n)
	for i := range out {
		out[i] = real(time[i])
	}
	return out, nil
}

func forwardGonum(x []float64) []complex128 {
	return fourier.NewFFT(len(x)).Coefficients(nil, x)
}

func inverseGonum(bins []complex128, n int) []float64 {
	out := fourier.NewFFT(n).Sequence(nil, bins)
	inv := 1 / float64(n)
	for i := range out {
		out[i] *= inv
	}
	return out
}
