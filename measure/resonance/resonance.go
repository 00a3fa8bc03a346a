package resonance

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/cwbudde/algo-fieldlab/dsp/core"
	"github.com/cwbudde/algo-fieldlab/field"
	"github.com/cwbudde/algo-fieldlab/stats/grid"
)

// Report thresholds.
const (
	ResonanceThreshold = 0.006 // variance above which resonance is reported
	DissolutionBase    = 25
	DissolutionFloor   = 10
	DissolutionScale   = 10000
)

// Background range of the resting field.
const (
	RestLo = 0.4
	RestHi = 0.6
)

// ModeReplace is the only injection mode: patterns overwrite the field.
const ModeReplace = "reemplazar"

// Pattern labels used by Compare.
const (
	LabelAnxiety = "ansiedad"
	LabelCalm    = "calma"
)

// PatternFunc builds the disturbance for a run.
type PatternFunc func(rng *rand.Rand) field.Pattern

// Anxiety is the default 7x7 uniform random pattern.
func Anxiety(rng *rand.Rand) field.Pattern {
	return field.AnxietyPattern(rng, field.DefaultPatternSize)
}

// Calm is the default 7x7 smooth pattern.
func Calm(*rand.Rand) field.Pattern {
	return field.CalmPattern(field.DefaultPatternSize)
}

// Config holds the experiment parameters.
type Config struct {
	Size    int
	Steps   int
	Alpha   float64
	X, Y    int // top-left column and row of the injected pattern
	Label   string
	Pattern PatternFunc
	Seed    int64 // 0 seeds from the clock
	Workers int
	Now     func() time.Time
}

// DefaultConfig returns the anxiety experiment on a 50x50 field.
func DefaultConfig() Config {
	return Config{
		Size:    field.DefaultSize,
		Steps:   25,
		Alpha:   field.DefaultAlpha,
		X:       21,
		Y:       21,
		Label:   LabelAnxiety,
		Pattern: Anxiety,
		Workers: 1,
		Now:     time.Now,
	}
}

// Zone is the rectangle a pattern was written to.
type Zone struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"ancho"`
	Height int `json:"alto"`
}

// Position is a cell location; X is the column, Y the row.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Peak is the largest local variance and where it occurs.
type Peak struct {
	Value    float64  `json:"valor"`
	Position Position `json:"posicion"`
}

// Report summarises a field after an experiment.
type Report struct {
	Timestamp        string  `json:"timestamp"`
	Pattern          string  `json:"patron_inyectado"`
	Mode             string  `json:"modo_inyeccion"`
	Zone             Zone    `json:"zona_afectada"`
	GlobalEntropy    float64 `json:"entropia_global"` // population variance of the field
	MaxEntropy       Peak    `json:"max_entropia"`
	GlobalMean       float64 `json:"promedio_global"`
	DissolutionTime  string  `json:"tiempo_disolucion_estimado"`
	Resonance        bool    `json:"resonancia_detectada"`
	ExportedAsAudio  string  `json:"exportado_como_audio"`
	Notes            string  `json:"notas"`
	DissolutionSteps int     `json:"-"`
}

// DissolutionCycles estimates how many cycles a disturbance with the given
// field variance needs to fade: max(10, 25 - floor(variance*10000)).
func DissolutionCycles(variance float64) int {
	return max(DissolutionFloor, DissolutionBase-int(variance*DissolutionScale))
}

// Measure builds a Report from the current field of e.
func Measure(e *field.Engine, label string, zone Zone, now time.Time) Report {
	values := e.Field().Values()
	s := grid.Calculate(values)
	peak, row, col := e.MaxLocalVariance()
	cycles := DissolutionCycles(s.Variance)

	return Report{
		Timestamp:     now.UTC().Format("2006-01-02T15:04:05.000000"),
		Pattern:       label,
		Mode:          ModeReplace,
		Zone:          zone,
		GlobalEntropy: s.Variance,
		MaxEntropy: Peak{
			Value:    peak,
			Position: Position{X: col, Y: row},
		},
		GlobalMean:       s.Mean,
		DissolutionTime:  fmt.Sprintf("%d ciclos", cycles),
		Resonance:        s.Variance > ResonanceThreshold,
		ExportedAsAudio:  "no",
		Notes:            fmt.Sprintf("Respuesta al patrón '%s'.", label),
		DissolutionSteps: cycles,
	}
}

// Run initialises a resting field, injects the configured pattern, diffuses
// it for cfg.Steps steps and measures the result.
func Run(cfg Config) (Report, error) {
	e, zone, err := Prepare(cfg)
	if err != nil {
		return Report{}, err
	}

	for range cfg.Steps {
		e.Evolve(cfg.Alpha)
	}

	return Measure(e, cfg.Label, zone, cfg.now()), nil
}

// Prepare returns an engine holding the resting field with the configured
// pattern already injected, and the zone the pattern covers.
func Prepare(cfg Config) (*field.Engine, Zone, error) {
	if cfg.Size <= 0 {
		return nil, Zone{}, fmt.Errorf("resonance: size must be > 0: %d", cfg.Size)
	}
	if cfg.Steps < 0 {
		return nil, Zone{}, fmt.Errorf("resonance: steps must be >= 0: %d", cfg.Steps)
	}
	if cfg.Pattern == nil {
		return nil, Zone{}, errors.New("resonance: no pattern generator")
	}

	rng := core.NewRand(cfg.Seed)
	e := field.New(field.WithSize(cfg.Size), field.WithRand(rng), field.WithWorkers(cfg.Workers))

	rest := field.NewGrid(cfg.Size)
	for r := range cfg.Size {
		for c := range cfg.Size {
			rest.Set(r, c, RestLo+rng.Float64()*(RestHi-RestLo))
		}
	}
	if err := e.SetGrid(rest); err != nil {
		return nil, Zone{}, fmt.Errorf("resonance: %w", err)
	}

	p := cfg.Pattern(rng)
	if err := e.InjectPattern(p, cfg.X, cfg.Y); err != nil {
		return nil, Zone{}, fmt.Errorf("resonance: %w", err)
	}
	return e, Zone{X: cfg.X, Y: cfg.Y, Width: p.Width(), Height: p.Height()}, nil
}

func (cfg Config) now() time.Time {
	if cfg.Now == nil {
		return time.Now()
	}
	return cfg.Now()
}

// Compare runs the anxiety and calm experiments on identical resting
// fields and returns their reports in that order.
func Compare(base Config) ([]Report, error) {
	if base.Seed == 0 {
		base.Seed = time.Now().UnixNano()
	}

	runs := []struct {
		label   string
		pattern PatternFunc
	}{
		{LabelAnxiety, Anxiety},
		{LabelCalm, Calm},
	}

	reports := make([]Report, 0, len(runs))
	for _, run := range runs {
		cfg := base
		cfg.Label, cfg.Pattern = run.label, run.pattern
		rep, err := Run(cfg)
		if err != nil {
			return nil, fmt.Errorf("resonance: %s run: %w", run.label, err)
		}
		reports = append(reports, rep)
	}
	return reports, nil
}
