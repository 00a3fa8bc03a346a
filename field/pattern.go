package field

import (
	"fmt"
	"math"
	"math/rand"
)

// DefaultPatternSize is the edge length of the canonical patterns.
const DefaultPatternSize = 7

// Pattern is a small rectangular block of values written over a region of
// the field.
type Pattern struct {
	height int
	width  int
	cells  []float64
}

// NewPattern copies rows into a Pattern. All rows must share one length.
func NewPattern(rows [][]float64) (Pattern, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return Pattern{}, fmt.Errorf("%w: empty pattern", ErrShape)
	}

	h, w := len(rows), len(rows[0])
	p := Pattern{height: h, width: w, cells: make([]float64, h*w)}
	for r, row := range rows {
		if len(row) != w {
			return Pattern{}, fmt.Errorf("%w: pattern row %d has %d cells, want %d", ErrShape, r, len(row), w)
		}
		copy(p.cells[r*w:], row)
	}
	return p, nil
}

// Height returns the number of rows.
func (p Pattern) Height() int { return p.height }

// Width returns the number of columns.
func (p Pattern) Width() int { return p.width }

// At returns the value at row r, column c.
func (p Pattern) At(r, c int) float64 { return p.cells[r*p.width+c] }

// AnxietyPattern returns an n x n block of uniform random values in [0,1):
// a high-entropy disturbance.
func AnxietyPattern(rng *rand.Rand, n int) Pattern {
	p := squarePattern(n)
	for i := range p.cells {
		p.cells[i] = rng.Float64()
	}
	return p
}

// CalmPattern returns an n x n block following 0.5 + 0.1*sin((r+c)/2):
// a smooth, low-entropy disturbance.
func CalmPattern(n int) Pattern {
	p := squarePattern(n)
	for r := 0; r < p.height; r++ {
		for c := 0; c < p.width; c++ {
			p.cells[r*p.width+c] = 0.5 + 0.1*math.Sin(float64(r+c)/2)
		}
	}
	return p
}

func squarePattern(n int) Pattern {
	if n <= 0 {
		n = DefaultPatternSize
	}
	return Pattern{height: n, width: n, cells: make([]float64, n*n)}
}
