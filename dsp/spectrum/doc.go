// Package spectrum provides real-input spectral analysis and the band
// transform that turns a signal into a counter-signal.
//
// A [Frame] holds the ⌊N/2⌋+1 non-negative-frequency bins of a length-N
// real signal. Power-of-two lengths are transformed with algo-fft plans;
// every other length goes through gonum's real FFT, so audio of arbitrary
// duration keeps its exact frequency resolution of sampleRate/N.
//
// [Transformer.TransformBand] keeps only the bins inside a target band,
// scales them, adds a fixed audible tone and converts back to a signal of
// the original length.
package spectrum
