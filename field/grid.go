package field

import (
	"fmt"

	"github.com/cwbudde/algo-fieldlab/dsp/core"
)

// Grid is a square matrix of float64 cells stored row-major.
//
// Grids returned by [Engine.Field] are independent copies; writing to them
// never affects the engine.
type Grid struct {
	n     int
	cells []float64
}

// NewGrid returns an n x n grid of zeros. Non-positive n yields an empty grid.
func NewGrid(n int) Grid {
	if n <= 0 {
		return Grid{}
	}
	return Grid{n: n, cells: make([]float64, n*n)}
}

// GridFromRows builds a grid from nested rows. Every row must have exactly
// len(rows) entries.
func GridFromRows(rows [][]float64) (Grid, error) {
	n := len(rows)
	if n == 0 {
		return Grid{}, fmt.Errorf("%w: no rows", ErrShape)
	}

	g := NewGrid(n)
	for r, row := range rows {
		if len(row) != n {
			return Grid{}, fmt.Errorf("%w: row %d has %d cells, want %d", ErrShape, r, len(row), n)
		}
		copy(g.cells[r*n:(r+1)*n], row)
	}
	return g, nil
}

// Size returns the edge length N.
func (g Grid) Size() int { return g.n }

// Len returns the number of cells, N*N.
func (g Grid) Len() int { return len(g.cells) }

// At returns the cell at row r, column c.
func (g Grid) At(r, c int) float64 { return g.cells[r*g.n+c] }

// Set writes the cell at row r, column c.
func (g *Grid) Set(r, c int, v float64) { g.cells[r*g.n+c] = v }

// Fill sets every cell to v.
func (g *Grid) Fill(v float64) { core.Fill(g.cells, v) }

// Contains reports whether (r, c) addresses a cell of g.
func (g Grid) Contains(r, c int) bool {
	return r >= 0 && c >= 0 && r < g.n && c < g.n
}

// Clone returns a deep copy of g.
func (g Grid) Clone() Grid {
	return Grid{n: g.n, cells: core.Clone(g.cells)}
}

// Values returns a copy of the cells in row-major order.
func (g Grid) Values() []float64 {
	return core.Clone(g.cells)
}

// Rows returns a copy of the cells as nested rows.
func (g Grid) Rows() [][]float64 {
	rows := make([][]float64, g.n)
	for r := range rows {
		rows[r] = core.Clone(g.cells[r*g.n : (r+1)*g.n])
	}
	return rows
}

// Equal reports whether both grids have the same size and identical cells.
func (g Grid) Equal(o Grid) bool {
	if g.n != o.n || len(g.cells) != len(o.cells) {
		return false
	}
	for i, v := range g.cells {
		if o.cells[i] != v {
			return false
		}
	}
	return true
}

// GridFromSignal lays a sample sequence out as an n x n grid.
//
// The samples are truncated or zero-padded to n*n values, then min-max
// normalised into [0,1]. A small guard keeps constant input finite.
func GridFromSignal(samples []float64, n int) Grid {
	g := NewGrid(n)
	if g.n == 0 {
		return g
	}

	copy(g.cells, samples)

	lo, hi := core.MinMax(g.cells)
	span := hi - lo + 1e-8
	for i, v := range g.cells {
		g.cells[i] = (v - lo) / span
	}
	return g
}
