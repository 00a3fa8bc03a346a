package field

import (
	"context"
	"fmt"
	"math/rand"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-fieldlab/dsp/core"
	"github.com/cwbudde/algo-fieldlab/stats/grid"
)

// Engine defaults.
const (
	DefaultSize          = 50
	DefaultAlpha         = 0.05
	DefaultAnxietyRadius = 5

	// ResetCeiling bounds the random values drawn by Reset.
	ResetCeiling = 0.15
)

// bandsPerWorker is the number of row bands queued per worker in a
// parallel step.
const bandsPerWorker = 4

// Engine owns a square field and evolves it by neighbourhood averaging.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	grid    Grid
	scratch []float64
	rng     *rand.Rand
	alpha   float64
	radius  int
	workers int

	last    Metrics
	hasLast bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithSize sets the edge length of the field.
func WithSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.grid.n = n
		}
	}
}

// WithRand injects the random source used by Reset and random patterns.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

// WithSeed seeds a private random source for reproducible runs.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.rng = core.NewRand(seed)
	}
}

// WithAlpha sets the diffusion rate used by Step. Alpha 0 freezes the
// field; values outside [0,1] are ignored.
func WithAlpha(alpha float64) Option {
	return func(e *Engine) {
		if alpha >= 0 && alpha <= 1 {
			e.alpha = alpha
		}
	}
}

// WithAnxietyRadius sets the half-width of the block written by
// InjectAnxietyPattern. Radius 0 makes the block empty; negative values are
// ignored.
func WithAnxietyRadius(radius int) Option {
	return func(e *Engine) {
		if radius >= 0 {
			e.radius = radius
		}
	}
}

// WithWorkers splits each diffusion step into row bands evaluated
// concurrently. Values below 2 keep the step on the calling goroutine.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// New creates an engine and fills its field with low random activity.
func New(opts ...Option) *Engine {
	e := &Engine{
		grid:    Grid{n: DefaultSize},
		alpha:   DefaultAlpha,
		radius:  DefaultAnxietyRadius,
		workers: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	if e.rng == nil {
		e.rng = core.NewRand(0)
	}
	e.Reset()
	return e
}

// Size returns the edge length of the field.
func (e *Engine) Size() int { return e.grid.n }

// Alpha returns the diffusion rate used by Step.
func (e *Engine) Alpha() float64 { return e.alpha }

// Rand returns the engine's random source.
func (e *Engine) Rand() *rand.Rand { return e.rng }

// Reset refills the field with values drawn uniformly from [0, ResetCeiling).
func (e *Engine) Reset() {
	e.ResetSize(e.grid.n)
}

// ResetSize resizes the field to n x n and refills it like Reset.
// Non-positive n falls back to DefaultSize.
func (e *Engine) ResetSize(n int) {
	if n <= 0 {
		n = DefaultSize
	}
	if n != e.grid.n || len(e.grid.cells) != n*n {
		e.grid = NewGrid(n)
	}
	for i := range e.grid.cells {
		e.grid.cells[i] = e.rng.Float64() * ResetCeiling
	}
}

// Step runs one diffusion step with the configured alpha.
func (e *Engine) Step() {
	e.Evolve(e.alpha)
}

// StepContext is Step with cancellation.
func (e *Engine) StepContext(ctx context.Context) error {
	return e.EvolveContext(ctx, e.alpha)
}

// Evolve runs one diffusion step: every cell moves towards the mean of its
// clipped 3x3 neighbourhood by alpha, then the field is clamped to [0,1].
// Neighbourhood means are read from the pre-step field only.
func (e *Engine) Evolve(alpha float64) {
	// The background context is never cancelled, so the step always completes.
	_ = e.EvolveContext(context.Background(), alpha)
}

// EvolveContext is Evolve with cancellation. A step cancelled before all
// row bands finish returns the context error and leaves the field as it was.
func (e *Engine) EvolveContext(ctx context.Context, alpha float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	n := e.grid.n
	prev := e.grid.cells
	next := core.EnsureLen(e.scratch, len(prev))

	if e.workers > 1 && n > 1 {
		if err := evolveParallel(ctx, prev, next, n, alpha, e.workers); err != nil {
			e.scratch = next
			return err
		}
	} else {
		evolveRows(prev, next, n, 0, n, alpha)
	}

	e.grid.cells, e.scratch = next, prev
	return nil
}

func evolveRows(prev, next []float64, n, r0, r1 int, alpha float64) {
	for r := r0; r < r1; r++ {
		for c := 0; c < n; c++ {
			i := r*n + c
			v := prev[i] + alpha*(grid.NeighborhoodMean(prev, n, r, c)-prev[i])
			next[i] = core.Clamp(v, 0, 1)
		}
	}
}

// evolveParallel writes disjoint row bands of next from the shared,
// read-only prev, running at most workers bands at a time. Bands not yet
// started when ctx is cancelled are skipped.
func evolveParallel(ctx context.Context, prev, next []float64, n int, alpha float64, workers int) error {
	workers = min(workers, n)
	band := max(n/(bandsPerWorker*workers), 1)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for r0 := 0; r0 < n; r0 += band {
		r1 := min(r0+band, n)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			evolveRows(prev, next, n, r0, r1, alpha)
			return nil
		})
	}
	return g.Wait()
}

// LocalVariance returns the population variance of the clipped 3x3
// neighbourhood of cell (row, col).
func (e *Engine) LocalVariance(row, col int) (float64, error) {
	if !e.grid.Contains(row, col) {
		return 0, fmt.Errorf("%w: cell (%d,%d) outside %dx%d grid", ErrBounds, row, col, e.grid.n, e.grid.n)
	}
	return grid.NeighborhoodVariance(e.grid.cells, e.grid.n, row, col), nil
}

// MaxLocalVariance returns the largest local variance in the field and the
// first cell, in row-major order, where it occurs.
func (e *Engine) MaxLocalVariance() (value float64, row, col int) {
	return grid.MaxNeighborhoodVariance(e.grid.cells, e.grid.n)
}

// InjectAnxietyPattern sets the centred block [center-radius, center+radius)
// on both axes to 1.0, with center = N/2. The block is clipped to the grid.
func (e *Engine) InjectAnxietyPattern() {
	n := e.grid.n
	center := n / 2
	lo := max(center-e.radius, 0)
	hi := min(center+e.radius, n)

	for r := lo; r < hi; r++ {
		for c := lo; c < hi; c++ {
			e.grid.cells[r*n+c] = 1.0
		}
	}
}

// AnxietyBlock returns the half-open [lo, hi) range covered by
// InjectAnxietyPattern on both axes.
func (e *Engine) AnxietyBlock() (lo, hi int) {
	center := e.grid.n / 2
	return max(center-e.radius, 0), min(center+e.radius, e.grid.n)
}

// InjectPattern overwrites the region whose top-left cell is column x,
// row y with p. A pattern that does not fit entirely inside the grid
// returns ErrBounds and leaves the field untouched.
func (e *Engine) InjectPattern(p Pattern, x, y int) error {
	n := e.grid.n
	if p.height == 0 || p.width == 0 {
		return fmt.Errorf("%w: empty pattern", ErrShape)
	}
	if x < 0 || y < 0 || x+p.width > n || y+p.height > n {
		return fmt.Errorf("%w: %dx%d pattern at (x=%d,y=%d) exceeds %dx%d grid",
			ErrBounds, p.width, p.height, x, y, n, n)
	}

	for r := 0; r < p.height; r++ {
		copy(e.grid.cells[(y+r)*n+x:(y+r)*n+x+p.width], p.cells[r*p.width:(r+1)*p.width])
	}
	return nil
}

// ComputeMetrics measures the current field and caches the result as the
// last metrics.
func (e *Engine) ComputeMetrics() Metrics {
	cells := e.grid.cells
	m := Metrics{
		Entropy:  grid.Entropy(cells),
		Variance: grid.Variance(cells),
		Maximum:  grid.Max(cells),
	}
	e.last, e.hasLast = m, true
	return m
}

// LastMetrics returns the most recently computed or restored metrics.
func (e *Engine) LastMetrics() (Metrics, bool) {
	return e.last, e.hasLast
}

// Field returns an independent copy of the field.
func (e *Engine) Field() Grid {
	return e.grid.Clone()
}

// SetGrid replaces the field with a copy of g, resizing the engine to
// g's dimension. Cell values are taken as given.
func (e *Engine) SetGrid(g Grid) error {
	if g.n <= 0 || len(g.cells) != g.n*g.n {
		return fmt.Errorf("%w: grid of size %d with %d cells", ErrShape, g.n, len(g.cells))
	}
	e.grid = g.Clone()
	e.scratch = nil
	return nil
}

// RestoreMetrics sets the cached last metrics without recomputing them.
func (e *Engine) RestoreMetrics(m Metrics) {
	e.last, e.hasLast = m, true
}
