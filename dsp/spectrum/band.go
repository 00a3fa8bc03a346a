package spectrum

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Band is a closed frequency interval [Lo, Hi] in Hz.
type Band struct {
	Lo float64
	Hi float64
}

// Predefined target bands.
var (
	BandDepression = Band{Lo: 1, Hi: 8}
	BandActivation = Band{Lo: 15, Hi: 60}
)

// ParseBand parses "lo-hi" (for example "15-60") into a Band. A colon is
// accepted as separator too. Surrounding whitespace and a trailing "Hz" are
// ignored. Exponent forms such as "1e-3-5" are accepted.
func ParseBand(s string) (Band, error) {
	text := strings.TrimSpace(s)
	text = strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(text, "Hz"), "hz"))

	loText, hiText, ok := splitBand(text)
	if !ok {
		return Band{}, fmt.Errorf("%w: band %q must look like lo-hi", ErrInvalidInput, s)
	}

	lo, err := strconv.ParseFloat(loText, 64)
	if err != nil {
		return Band{}, fmt.Errorf("%w: band %q: %w", ErrInvalidInput, s, err)
	}
	hi, err := strconv.ParseFloat(hiText, 64)
	if err != nil {
		return Band{}, fmt.Errorf("%w: band %q: %w", ErrInvalidInput, s, err)
	}

	b := Band{Lo: lo, Hi: hi}
	if err := b.Validate(); err != nil {
		return Band{}, err
	}
	return b, nil
}

// splitBand splits text at a colon, or else at the first dash whose both
// sides are numbers. Without such a dash it falls back to the first dash so
// the caller reports the unparsable side.
func splitBand(text string) (lo, hi string, ok bool) {
	if i := strings.LastIndexByte(text, ':'); i > 0 {
		return strings.TrimSpace(text[:i]), strings.TrimSpace(text[i+1:]), true
	}

	first := -1
	for i := 1; i < len(text); i++ {
		if text[i] != '-' {
			continue
		}
		if first < 0 {
			first = i
		}
		lo, hi = strings.TrimSpace(text[:i]), strings.TrimSpace(text[i+1:])
		if isNumber(lo) && isNumber(hi) {
			return lo, hi, true
		}
	}
	if first < 0 {
		return "", "", false
	}
	return strings.TrimSpace(text[:first]), strings.TrimSpace(text[first+1:]), true
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// Validate reports a negative, inverted or non-finite band.
func (b Band) Validate() error {
	for _, v := range []float64{b.Lo, b.Hi} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: band edges must be finite: %v", ErrInvalidInput, b)
		}
	}
	if b.Lo < 0 || b.Lo > b.Hi {
		return fmt.Errorf("%w: band must satisfy 0 <= lo <= hi: %v", ErrInvalidInput, b)
	}
	return nil
}

// Contains reports whether hz lies in the closed interval [Lo, Hi].
func (b Band) Contains(hz float64) bool {
	return hz >= b.Lo && hz <= b.Hi
}

// Width returns Hi-Lo.
func (b Band) Width() float64 { return b.Hi - b.Lo }

// String formats b as "lo-hi", the form ParseBand accepts.
func (b Band) String() string {
	return strconv.FormatFloat(b.Lo, 'g', -1, 64) + "-" + strconv.FormatFloat(b.Hi, 'g', -1, 64)
}

// Set implements the flag value interface.
func (b *Band) Set(s string) error {
	parsed, err := ParseBand(s)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// Type implements the pflag value interface.
func (b *Band) Type() string { return "band" }

// MarshalText implements encoding.TextMarshaler.
func (b Band) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Band) UnmarshalText(text []byte) error { return b.Set(string(text)) }
