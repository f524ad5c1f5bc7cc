package iojson

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalError(t *testing.T) {
	out := MarshalError("invalid toast", map[string]any{"message": "is required"})

	var e Error
	require.NoError(t, json.Unmarshal([]byte(out), &e))
	assert.Equal(t, "invalid toast", e.Message)
	assert.Equal(t, "is required", e.Data["message"])
}

func TestMarshalError_Unmarshalable(t *testing.T) {
	out := MarshalError("boom", map[string]any{"ch": make(chan int)})
	assert.Contains(t, out, `"json_error"`)
	assert.True(t, json.Valid([]byte(out)))
}

func TestWriteWith(t *testing.T) {
	var out, errOut bytes.Buffer
	require.NoError(t, WriteWith(&out, &errOut, map[string]int{"count": 2}))

	assert.Equal(t, "{\n  \"count\": 2\n}\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestWriteLine(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, WriteLine(&out, map[string]int{"a": 1}))
	require.NoError(t, WriteLine(&out, map[string]int{"a": 2}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, []string{`{"a":1}`, `{"a":2}`}, lines)
}

type sample struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

func TestFileReader_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: toast\ncount: 3\n"), 0o600))

	fr := &FileReader[sample]{}
	fr.SetFile(path)

	got, err := fr.Read()
	require.NoError(t, err)
	assert.Equal(t, sample{Name: "toast", Count: 3}, got)
}

func TestFileReader_JSONStdin(t *testing.T) {
	fr := &FileReader[sample]{stdin: strings.NewReader(`{"name":"piped","count":1}`)}

	got, err := fr.Read()
	require.NoError(t, err)
	assert.Equal(t, sample{Name: "piped", Count: 1}, got)
}

func TestFileReader_MissingFile(t *testing.T) {
	fr := &FileReader[sample]{}
	fr.SetFile(filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := fr.Read()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open file")
}
