package snapshot

import (
	"bytes"
	"errors"
	"io/fs"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cwbudde/algo-fieldlab/field"
)

func evolvedEngine(t *testing.T) *field.Engine {
	t.Helper()
	e := field.New(field.WithSize(12), field.WithSeed(7))
	e.InjectAnxietyPattern()
	for i := 0; i < 5; i++ {
		e.Step()
	}
	return e
}

func TestExportImportRoundTrip(t *testing.T) {
	src := evolvedEngine(t)

	var buf bytes.Buffer
	if err := Export(src, &buf); err != nil {
		t.Fatalf("Export error: %v", err)
	}
	wantMetrics, _ := src.LastMetrics()

	dst := field.New(field.WithSize(12), field.WithSeed(99))
	if err := Import(dst, &buf); err != nil {
		t.Fatalf("Import error: %v", err)
	}

	if !dst.Field().Equal(src.Field()) {
		t.Fatalf("grid not reproduced bit-for-bit:\n%s", cmp.Diff(src.Field().Rows(), dst.Field().Rows()))
	}
	gotMetrics, ok := dst.LastMetrics()
	if !ok || gotMetrics != wantMetrics {
		t.Fatalf("metrics = %+v (%v), want %+v", gotMetrics, ok, wantMetrics)
	}
	if recomputed := dst.ComputeMetrics(); recomputed != wantMetrics {
		t.Fatalf("recomputed metrics = %+v, want %+v", recomputed, wantMetrics)
	}
}

func TestExportFormat(t *testing.T) {
	e := field.New(field.WithSize(2), field.WithSeed(1))
	g := field.NewGrid(2)
	g.Fill(0.5)
	tenth, fifth := 0.1, 0.2
	g.Set(1, 1, tenth+fifth) // 0.30000000000000004 at run time
	if err := e.SetGrid(g); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Export(e, &buf); err != nil {
		t.Fatalf("Export error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"{\n  \"grid\": [\n    [\n      0.5,",
		"0.30000000000000004",
		"\"metrics\": {\n    \"entropia\":",
		"\"varianza\":",
		"\"maximo\": 0.5",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("export missing %q:\n%s", want, out)
		}
	}
}

func TestExportRejectsNonFiniteValues(t *testing.T) {
	e := field.New(field.WithSize(2), field.WithSeed(1))
	g := field.NewGrid(2)
	g.Set(0, 0, math.Inf(1))
	if err := e.SetGrid(g); err != nil {
		t.Fatal(err)
	}
	if err := Export(e, &bytes.Buffer{}); err == nil {
		t.Fatal("expected encode error for +Inf cell")
	}
}

func TestImportGridOnly(t *testing.T) {
	e := field.New(field.WithSize(4), field.WithSeed(1))
	if err := Import(e, strings.NewReader(`{"grid": [[0.1, 0.2], [0.3, 0.4]]}`)); err != nil {
		t.Fatalf("Import error: %v", err)
	}

	if e.Size() != 2 {
		t.Fatalf("Size() = %d, want 2 (engine resized to snapshot)", e.Size())
	}
	if diff := cmp.Diff([][]float64{{0.1, 0.2}, {0.3, 0.4}}, e.Field().Rows()); diff != "" {
		t.Fatalf("grid mismatch (-want +got):\n%s", diff)
	}
	if _, ok := e.LastMetrics(); ok {
		t.Fatal("grid-only import should not set last metrics")
	}
}

func TestImportMetricsOnlyDoesNotRecompute(t *testing.T) {
	e := field.New(field.WithSize(4), field.WithSeed(1))
	before := e.Field()

	in := `{"metrics": {"entropia": 3.25, "varianza": 0.5, "maximo": 7}}`
	if err := Import(e, strings.NewReader(in)); err != nil {
		t.Fatalf("Import error: %v", err)
	}

	m, ok := e.LastMetrics()
	want := field.Metrics{Entropy: 3.25, Variance: 0.5, Maximum: 7}
	if !ok || m != want {
		t.Fatalf("LastMetrics() = %+v (%v), want %+v", m, ok, want)
	}
	if !e.Field().Equal(before) {
		t.Fatal("metrics-only import changed the grid")
	}
}

func TestImportLegacyKeys(t *testing.T) {
	e := field.New(field.WithSize(4), field.WithSeed(1))
	in := `{"campo": [[1]], "metricas": {"entropia": 0, "varianza": 0, "maximo": 1}}`
	if err := Import(e, strings.NewReader(in)); err != nil {
		t.Fatalf("Import error: %v", err)
	}
	if e.Size() != 1 || e.Field().At(0, 0) != 1 {
		t.Fatalf("legacy grid not applied: %v", e.Field().Rows())
	}
	if m, ok := e.LastMetrics(); !ok || m.Maximum != 1 {
		t.Fatalf("legacy metrics not applied: %+v", m)
	}
}

func TestImportErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "malformed", in: `{"grid": [[0.1,`},
		{name: "trailing garbage", in: `{"grid": [[0.1, 0.2], [0.3, 0.4]]} not json at all`},
		{name: "two objects", in: `{"grid": [[0.1]]} {"grid": [[0.2]]}`},
		{name: "not an object", in: `[[0.1]]`},
		{name: "null", in: `null`},
		{name: "no known keys", in: `{"other": 1}`},
		{name: "empty object", in: `{}`},
		{name: "null keys", in: `{"grid": null, "metrics": null}`},
		{name: "ragged grid", in: `{"grid": [[0.1, 0.2], [0.3]]}`},
		{name: "non-square grid", in: `{"grid": [[0.1, 0.2, 0.3], [0.4, 0.5, 0.6]]}`},
		{name: "empty grid", in: `{"grid": []}`},
		{name: "non-numeric grid", in: `{"grid": [["a"]]}`},
		{name: "bad metrics", in: `{"metrics": {"entropia": "high"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := field.New(field.WithSize(3), field.WithSeed(1))
			before := e.Field()

			err := Import(e, strings.NewReader(tt.in))
			if !errors.Is(err, ErrFormat) {
				t.Fatalf("Import error = %v, want ErrFormat", err)
			}
			if !e.Field().Equal(before) {
				t.Fatal("failed import modified the grid")
			}
			if _, ok := e.LastMetrics(); ok {
				t.Fatal("failed import set last metrics")
			}
		})
	}
}

func TestFileRoundTrip(t *testing.T) {
	src := evolvedEngine(t)
	path := filepath.Join(t.TempDir(), "state.json")

	if err := ExportFile(src, path); err != nil {
		t.Fatalf("ExportFile error: %v", err)
	}

	snap, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if snap.Grid == nil || snap.Metrics == nil {
		t.Fatal("ReadFile should decode both keys")
	}

	dst := field.New(field.WithSize(30), field.WithSeed(2))
	if err := ImportFile(dst, path); err != nil {
		t.Fatalf("ImportFile error: %v", err)
	}
	if !dst.Field().Equal(src.Field()) {
		t.Fatal("file round trip changed the grid")
	}
}

func TestImportFileMissing(t *testing.T) {
	e := field.New(field.WithSize(3), field.WithSeed(1))
	err := ImportFile(e, filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("ImportFile error = %v, want fs.ErrNotExist", err)
	}
	if errors.Is(err, ErrFormat) {
		t.Fatal("file-system errors must not be reported as ErrFormat")
	}
}
