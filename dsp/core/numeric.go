package core

import "math"

const defaultEpsilon = 1e-12

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// ClampSlice clamps every element of buf in place to [min, max].
func ClampSlice(buf []float64, min, max float64) {
	for i, v := range buf {
		buf[i] = Clamp(v, min, max)
	}
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// PeakAbs returns max(|x|) over data, or 0 for empty input.
func PeakAbs(data []float64) float64 {
	peak := 0.0
	for _, v := range data {
		if av := math.Abs(v); av > peak {
			peak = av
		}
	}
	return peak
}

// MinMax returns the smallest and largest element of data.
// Empty input returns (0, 0).
func MinMax(data []float64) (lo, hi float64) {
	if len(data) == 0 {
		return 0, 0
	}
	lo, hi = data[0], data[0]
	for _, v := range data[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
