// Package resultio writes free-form result documents as JSON.
package resultio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Indent is the per-level indentation of result files.
const Indent = "  "

// Encode writes v to w as indented JSON followed by a newline. HTML
// characters and non-ASCII text are written as is.
func Encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", Indent)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("resultio: encode: %w", err)
	}
	return nil
}

// WriteJSON writes v to the file at path, replacing any existing file.
func WriteJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("resultio: %w", err)
	}

	if err := Encode(f, v); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("resultio: %w", err)
	}
	return nil
}
