package resonance

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/cwbudde/algo-fieldlab/field"
	"github.com/cwbudde/algo-fieldlab/internal/testutil"
)

var fixedNow = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 250000000, time.UTC) }

func TestDissolutionCycles(t *testing.T) {
	tests := []struct {
		variance float64
		want     int
	}{
		{variance: 0, want: 25},
		{variance: 0.00011, want: 24},
		{variance: 0.00125, want: 13},
		{variance: 0.0016, want: 10},
		{variance: 0.25, want: 10},
	}
	for _, tt := range tests {
		if got := DissolutionCycles(tt.variance); got != tt.want {
			t.Fatalf("DissolutionCycles(%v) = %d, want %d", tt.variance, got, tt.want)
		}
	}
}

func TestMeasure(t *testing.T) {
	rows := testutil.ConstantRows(5, 0.5)
	rows[3][4] = 1

	g, err := field.GridFromRows(rows)
	if err != nil {
		t.Fatalf("GridFromRows: %v", err)
	}
	e := field.New(field.WithSize(5), field.WithSeed(1))
	if err := e.SetGrid(g); err != nil {
		t.Fatalf("SetGrid: %v", err)
	}

	got := Measure(e, "prueba", Zone{X: 1, Y: 2, Width: 3, Height: 3}, fixedNow())
	want := Report{
		Timestamp:        "2024-05-01T12:30:00.250000",
		Pattern:          "prueba",
		Mode:             ModeReplace,
		Zone:             Zone{X: 1, Y: 2, Width: 3, Height: 3},
		GlobalEntropy:    0.0096,
		MaxEntropy:       Peak{Value: 0.046875, Position: Position{X: 4, Y: 4}},
		GlobalMean:       0.52,
		DissolutionTime:  "10 ciclos",
		Resonance:        true,
		ExportedAsAudio:  "no",
		Notes:            "Respuesta al patrón 'prueba'.",
		DissolutionSteps: 10,
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Fatalf("Measure mismatch (-want +got):\n%s", diff)
	}
}

func TestReportJSONKeys(t *testing.T) {
	data, err := json.Marshal(Report{Pattern: "calma"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	keys := []string{
		"timestamp", "patron_inyectado", "modo_inyeccion", "zona_afectada",
		"entropia_global", "max_entropia", "promedio_global",
		"tiempo_disolucion_estimado", "resonancia_detectada",
		"exportado_como_audio", "notas",
	}
	for _, k := range keys {
		if _, ok := m[k]; !ok {
			t.Fatalf("missing key %q in %s", k, data)
		}
	}
	if len(m) != len(keys) {
		t.Fatalf("got %d keys, want %d: %s", len(m), len(keys), data)
	}

	zone := m["zona_afectada"].(map[string]any)
	for _, k := range []string{"x", "y", "ancho", "alto"} {
		if _, ok := zone[k]; !ok {
			t.Fatalf("missing zone key %q", k)
		}
	}
}

func TestRunDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 42
	cfg.Now = fixedNow

	a, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	b, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("runs with the same seed differ:\n%s", diff)
	}

	if a.Zone != (Zone{X: 21, Y: 21, Width: 7, Height: 7}) {
		t.Fatalf("Zone = %+v", a.Zone)
	}
	if a.Pattern != LabelAnxiety || a.Mode != ModeReplace || a.ExportedAsAudio != "no" {
		t.Fatalf("unexpected labels: %+v", a)
	}
	if !strings.HasSuffix(a.DissolutionTime, " ciclos") {
		t.Fatalf("DissolutionTime = %q", a.DissolutionTime)
	}
	if a.GlobalMean < RestLo || a.GlobalMean > RestHi {
		t.Fatalf("GlobalMean = %v outside the resting range", a.GlobalMean)
	}
	if p := a.MaxEntropy.Position; p.X < 0 || p.X >= 50 || p.Y < 0 || p.Y >= 50 {
		t.Fatalf("peak position %+v outside grid", p)
	}
}

func TestPrepareInjectsPattern(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 7
	cfg.Pattern = Calm

	e, zone, err := Prepare(cfg)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	calm := field.CalmPattern(field.DefaultPatternSize)
	f := e.Field()
	for r := range zone.Height {
		for c := range zone.Width {
			if got := f.At(zone.Y+r, zone.X+c); got != calm.At(r, c) {
				t.Fatalf("cell (%d,%d) = %v, want %v", zone.Y+r, zone.X+c, got, calm.At(r, c))
			}
		}
	}
	if v := f.At(0, 0); v < RestLo || v >= RestHi {
		t.Fatalf("background cell = %v outside [%v, %v)", v, RestLo, RestHi)
	}
}

func TestRunErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 1
	cfg.X = 45
	if _, err := Run(cfg); !errors.Is(err, field.ErrBounds) {
		t.Fatalf("out-of-grid pattern err = %v, want ErrBounds", err)
	}

	cfg = DefaultConfig()
	cfg.Size = 0
	if _, err := Run(cfg); err == nil {
		t.Fatal("expected error for zero size")
	}

	cfg = DefaultConfig()
	cfg.Pattern = nil
	if _, err := Run(cfg); err == nil {
		t.Fatal("expected error for missing pattern")
	}
}

func TestCompare(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 2024
	cfg.Now = fixedNow

	reports, err := Compare(cfg)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("got %d reports, want 2", len(reports))
	}

	anxiety, calm := reports[0], reports[1]
	if anxiety.Pattern != LabelAnxiety || calm.Pattern != LabelCalm {
		t.Fatalf("labels = %q, %q", anxiety.Pattern, calm.Pattern)
	}
	if calm.Notes != "Respuesta al patrón 'calma'." {
		t.Fatalf("Notes = %q", calm.Notes)
	}
	// Same resting field, so only the disturbance differs.
	if anxiety.GlobalEntropy <= calm.GlobalEntropy {
		t.Fatalf("anxiety variance %v <= calm variance %v", anxiety.GlobalEntropy, calm.GlobalEntropy)
	}
}
