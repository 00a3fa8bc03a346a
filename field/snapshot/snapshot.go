// Package snapshot persists field engine state as a flat JSON object:
//
//	{"grid": [[...], ...], "metrics": {"entropia": ..., "varianza": ..., "maximo": ...}}
//
// Both keys are optional on import. The legacy keys "campo" and "metricas"
// are accepted as aliases.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/algo-fieldlab/field"
)

// ErrFormat reports snapshot data that is not a usable snapshot object.
var ErrFormat = errors.New("snapshot: invalid format")

const indent = "  "

// Snapshot is the decoded form of a snapshot file. Absent keys are nil.
type Snapshot struct {
	Grid    *field.Grid
	Metrics *field.Metrics
}

type wireSnapshot struct {
	Grid    [][]float64   `json:"grid"`
	Metrics field.Metrics `json:"metrics"`
}

// Export computes fresh metrics on e and writes the grid and metrics to w.
// Values keep full float64 precision.
func Export(e *field.Engine, w io.Writer) error {
	m := e.ComputeMetrics()

	data, err := json.MarshalIndent(wireSnapshot{Grid: e.Field().Rows(), Metrics: m}, "", indent)
	if err != nil {
		return fmt.Errorf("snapshot: encode: %w", err)
	}
	data = append(data, '\n')

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("snapshot: write: %w", err)
	}
	return nil
}

// ExportFile writes a snapshot of e to path, replacing any existing file.
func ExportFile(e *field.Engine, path string) error {
	var buf bytes.Buffer
	if err := Export(e, &buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	return nil
}

// Read decodes a snapshot without applying it.
//
// The input must be a single JSON object holding "grid", "metrics" or both.
// A grid must be a non-empty square matrix of numbers.
func Read(r io.Reader) (Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: read: %w", err)
	}

	// Unmarshal rejects trailing data after the object.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	if raw == nil {
		return Snapshot{}, fmt.Errorf("%w: expected a JSON object", ErrFormat)
	}

	var snap Snapshot

	if msg, ok := lookup(raw, "grid", "campo"); ok {
		var rows [][]float64
		if err := json.Unmarshal(msg, &rows); err != nil {
			return Snapshot{}, fmt.Errorf("%w: grid: %w", ErrFormat, err)
		}
		g, err := field.GridFromRows(rows)
		if err != nil {
			return Snapshot{}, fmt.Errorf("%w: grid: %w", ErrFormat, err)
		}
		snap.Grid = &g
	}

	if msg, ok := lookup(raw, "metrics", "metricas"); ok {
		var m field.Metrics
		if err := json.Unmarshal(msg, &m); err != nil {
			return Snapshot{}, fmt.Errorf("%w: metrics: %w", ErrFormat, err)
		}
		snap.Metrics = &m
	}

	if snap.Grid == nil && snap.Metrics == nil {
		return Snapshot{}, fmt.Errorf("%w: neither grid nor metrics present", ErrFormat)
	}
	return snap, nil
}

// lookup returns the first present key; an explicit null counts as absent.
func lookup(raw map[string]json.RawMessage, keys ...string) (json.RawMessage, bool) {
	for _, k := range keys {
		if msg, ok := raw[k]; ok && !bytes.Equal(bytes.TrimSpace(msg), []byte("null")) {
			return msg, true
		}
	}
	return nil, false
}

// Import reads a snapshot from r and applies it to e.
//
// A present grid replaces the field and resizes the engine to the grid's
// dimension. Present metrics become the engine's last metrics as stored,
// without recomputation. On error e is left unchanged.
func Import(e *field.Engine, r io.Reader) error {
	snap, err := Read(r)
	if err != nil {
		return err
	}
	return Apply(e, snap)
}

// Apply writes a decoded snapshot into e.
func Apply(e *field.Engine, snap Snapshot) error {
	if snap.Grid != nil {
		if err := e.SetGrid(*snap.Grid); err != nil {
			return fmt.Errorf("%w: %w", ErrFormat, err)
		}
	}
	if snap.Metrics != nil {
		e.RestoreMetrics(*snap.Metrics)
	}
	return nil
}

// ImportFile applies the snapshot stored at path to e.
func ImportFile(e *field.Engine, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	defer f.Close()

	return Import(e, f)
}

// ReadFile decodes the snapshot stored at path.
func ReadFile(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: %w", err)
	}
	defer f.Close()

	return Read(f)
}
