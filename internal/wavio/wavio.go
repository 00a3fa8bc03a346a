// Package wavio reads and writes PCM WAV files as mono signals.
package wavio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-fieldlab/dsp/signal"
)

// ErrDecode is returned when an audio source is missing or cannot be
// parsed as PCM WAV.
var ErrDecode = errors.New("wavio: cannot decode audio")

// BitDepth is the sample width written by Encode.
const BitDepth = 16

// FullScale is the largest 16-bit sample magnitude written by Encode.
const FullScale = 32767

// wavFormatPCM is the WAVE format tag for integer PCM.
const wavFormatPCM = 1

// Info describes the source of a decoded signal.
type Info struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Frames     int
}

// Load decodes the WAV file at path. See Decode.
func Load(path string) (signal.Signal, Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return signal.Signal{}, Info{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads a PCM WAV stream, averages its channels into one and
// divides by the peak absolute sample. Silent input is returned as zeros.
func Decode(r io.ReadSeeker) (signal.Signal, Info, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return signal.Signal{}, Info{}, fmt.Errorf("%w: not a PCM WAV stream", ErrDecode)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return signal.Signal{}, Info{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	channels := int(d.NumChans)
	if channels <= 0 || d.SampleRate == 0 {
		return signal.Signal{}, Info{}, fmt.Errorf("%w: invalid format (%d channels at %d Hz)",
			ErrDecode, channels, d.SampleRate)
	}

	info := Info{
		SampleRate: int(d.SampleRate),
		Channels:   channels,
		BitDepth:   int(d.BitDepth),
		Frames:     len(buf.Data) / channels,
	}
	if info.Frames == 0 {
		return signal.Signal{}, Info{}, fmt.Errorf("%w: no samples", ErrDecode)
	}

	mono := Downmix(buf.Data, channels)
	return signal.New(float64(info.SampleRate), signal.PeakNormalize(mono)), info, nil
}

// Downmix averages interleaved integer frames into one float channel.
// A trailing partial frame is dropped.
func Downmix(data []int, channels int) []float64 {
	if channels <= 0 {
		return nil
	}

	frames := len(data) / channels
	out := make([]float64, frames)
	inv := 1 / float64(channels)
	for i := range out {
		sum := 0
		for _, v := range data[i*channels : (i+1)*channels] {
			sum += v
		}
		out[i] = float64(sum) * inv
	}
	return out
}

// Save writes sig to path as 16-bit mono PCM. See Encode.
func Save(path string, sig signal.Signal) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavio: %w", err)
	}

	if err := Encode(f, sig); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("wavio: %w", err)
	}
	return nil
}

// Encode re-normalises sig by its peak (silent signals stay silent) and
// writes it as 16-bit mono PCM at sig.SampleRate. Samples are scaled by
// FullScale and truncated toward zero.
func Encode(w io.WriteSeeker, sig signal.Signal) error {
	if err := sig.Validate(); err != nil {
		return fmt.Errorf("wavio: %w", err)
	}
	rate := int(math.Round(sig.SampleRate))

	norm := signal.PeakNormalize(sig.Samples)
	data := make([]int, len(norm))
	for i, v := range norm {
		data[i] = int(v * FullScale)
	}

	enc := wav.NewEncoder(w, rate, BitDepth, 1, wavFormatPCM)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: rate},
		Data:           data,
		SourceBitDepth: BitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wavio: write samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("wavio: finalize header: %w", err)
	}
	return nil
}
