package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/toasty/pkg/tuitest"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestValidateConfig(t *testing.T) {
	t.Run("missing file uses defaults", func(t *testing.T) {
		report, err := validateConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)

		assert.False(t, report.Found)
		assert.True(t, report.Valid)
		require.Contains(t, report.Config, "toast")

		toastSection, ok := report.Config["toast"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "3s", toastSection["default_duration"])
		assert.Equal(t, "bottom-right", toastSection["default_position"])
	})

	t.Run("valid file", func(t *testing.T) {
		path := writeConfig(t, "toast:\n  default_duration: 5s\n  default_status: success\n")

		report, err := validateConfig(path)
		require.NoError(t, err)

		assert.True(t, report.Found)
		assert.True(t, report.Valid)
		toastSection := report.Config["toast"].(map[string]any)
		assert.Equal(t, "5s", toastSection["default_duration"])
		assert.Equal(t, "success", toastSection["default_status"])
	})

	t.Run("every invalid field is reported", func(t *testing.T) {
		path := writeConfig(t, "toast:\n  default_position: middle\n  default_status: loud\n  max_per_group: -1\n")

		report, err := validateConfig(path)
		require.NoError(t, err)

		assert.False(t, report.Valid)
		assert.Nil(t, report.Config)

		fields := make([]string, 0, len(report.Errors))
		for _, fe := range report.Errors {
			fields = append(fields, fe.Field)
		}
		assert.ElementsMatch(t, []string{"toast.default_position", "toast.default_status", "toast.max_per_group"}, fields)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeConfig(t, "toast: [unclosed\n")

		report, err := validateConfig(path)
		require.NoError(t, err)

		assert.False(t, report.Valid)
		require.Len(t, report.Errors, 1)
		assert.Empty(t, report.Errors[0].Field)
		assert.Contains(t, report.Errors[0].Message, "parse config file")
	})
}

func TestWriteConfigReport(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		report, err := validateConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, writeConfigReport(&buf, report))

		out := tuitest.StripANSI(buf.String())
		assert.Contains(t, out, "not found, using defaults")
		assert.Contains(t, out, "default_duration: 3s")
		assert.Contains(t, out, "Configuration is valid")
	})

	t.Run("invalid", func(t *testing.T) {
		report := ConfigReport{
			Path:  "/etc/toasty.yaml",
			Found: true,
			Errors: []ConfigFieldError{
				{Field: "tui.tick", Message: "must be greater than 0"},
				{Message: "parse environment: bad value"},
			},
		}

		var buf bytes.Buffer
		require.NoError(t, writeConfigReport(&buf, report))

		out := tuitest.StripANSI(buf.String())
		assert.Contains(t, out, "/etc/toasty.yaml")
		assert.NotContains(t, out, "not found")
		assert.Contains(t, out, "tui.tick: must be greater than 0")
		assert.Contains(t, out, "parse environment: bad value")
		assert.Contains(t, out, "2 error(s) found")
	})
}
