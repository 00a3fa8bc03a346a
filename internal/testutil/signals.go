// Package testutil holds deterministic fixtures and tolerance checks shared
// by the package tests.
package testutil

import (
	"math"
	"math/rand"
)

// Sine generates amplitude*sin(2π f t) starting at phase 0.
func Sine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// Partial is one sine component of a SineMix.
type Partial struct {
	FreqHz    float64
	Amplitude float64
}

// SineMix sums the given partials sample by sample.
func SineMix(sampleRate float64, length int, partials ...Partial) []float64 {
	out := make([]float64, length)
	for _, p := range partials {
		for i, v := range Sine(p.FreqHz, sampleRate, p.Amplitude, length) {
			out[i] += v
		}
	}
	return out
}

// Noise generates uniform noise in [-amplitude, amplitude) with a fixed seed.
func Noise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// ConstantRows returns an n x n matrix filled with v.
func ConstantRows(n int, v float64) [][]float64 {
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
		for j := range rows[i] {
			rows[i][j] = v
		}
	}
	return rows
}

// RandomRows returns an n x n matrix of uniform values in [lo, hi) drawn
// from a source seeded with seed.
func RandomRows(seed int64, n int, lo, hi float64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
		for j := range rows[i] {
			rows[i][j] = lo + rng.Float64()*(hi-lo)
		}
	}
	return rows
}
