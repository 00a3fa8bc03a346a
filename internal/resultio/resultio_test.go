package resultio

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeKeepsTextUnescaped(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, map[string]any{
		"notas":   "Respuesta al patrón 'calma' <ok> & más",
		"ejemplo": 123,
	}))

	want := "{\n  \"ejemplo\": 123,\n  \"notas\": \"Respuesta al patrón 'calma' <ok> & más\"\n}\n"
	require.Equal(t, want, buf.String())
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, WriteJSON(path, []int{1, 2}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "[\n  1,\n  2\n]\n", string(data))
}

func TestWriteJSONErrors(t *testing.T) {
	require.Error(t, WriteJSON(filepath.Join(t.TempDir(), "missing", "out.json"), 1))
	require.Error(t, WriteJSON(filepath.Join(t.TempDir(), "bad.json"), func() {}))
}
