package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/toasty/internal/core/toast"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.Toast.DefaultDuration)
	assert.Equal(t, "bottom-right", cfg.Toast.DefaultPosition)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.True(t, cfg.Server.Metrics)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
toast:
  default_duration: 5s
  default_position: top-center
  default_status: success
  max_per_group: 4
server:
  addr: "127.0.0.1:9000"
  metrics: false
tui:
  width: 60
  tick: 250ms
  theme: gruvbox
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Toast.DefaultDuration)
	assert.Equal(t, "top-center", cfg.Toast.DefaultPosition)
	assert.Equal(t, "success", cfg.Toast.DefaultStatus)
	assert.Equal(t, 4, cfg.Toast.MaxPerGroup)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.False(t, cfg.Server.Metrics)
	assert.Equal(t, 60, cfg.TUI.Width)
	assert.Equal(t, 250*time.Millisecond, cfg.TUI.Tick)
	assert.Equal(t, "gruvbox", cfg.TUI.Theme)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
toast:
  default_position: top-left
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "top-left", cfg.Toast.DefaultPosition)
	assert.Equal(t, 3*time.Second, cfg.Toast.DefaultDuration)
	assert.Equal(t, 100*time.Millisecond, cfg.TUI.Tick)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
toast:
  default_duration: 5s
server:
  addr: ":9000"
`)
	t.Setenv("TOASTY_TOAST_DEFAULT_DURATION", "1500ms")
	t.Setenv("TOASTY_SERVER_ADDR", ":7000")
	t.Setenv("TOASTY_TUI_THEME", "onedark")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, cfg.Toast.DefaultDuration)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, "onedark", cfg.TUI.Theme)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "toast: [")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("TOASTY_TUI_WIDTH", "wide")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse environment")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		fields []string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:   "zero duration",
			mutate: func(c *Config) { c.Toast.DefaultDuration = 0 },
			fields: []string{"toast.default_duration"},
		},
		{
			name:   "negative duration",
			mutate: func(c *Config) { c.Toast.DefaultDuration = -time.Second },
			fields: []string{"toast.default_duration"},
		},
		{
			name:   "unknown position",
			mutate: func(c *Config) { c.Toast.DefaultPosition = "middle" },
			fields: []string{"toast.default_position"},
		},
		{
			name:   "unknown status",
			mutate: func(c *Config) { c.Toast.DefaultStatus = "info" },
			fields: []string{"toast.default_status"},
		},
		{
			name:   "negative max per group",
			mutate: func(c *Config) { c.Toast.MaxPerGroup = -1 },
			fields: []string{"toast.max_per_group"},
		},
		{
			name:   "zero tick",
			mutate: func(c *Config) { c.TUI.Tick = 0 },
			fields: []string{"tui.tick"},
		},
		{
			name:   "narrow width",
			mutate: func(c *Config) { c.TUI.Width = 5 },
			fields: []string{"tui.width"},
		},
		{
			name:   "unknown theme",
			mutate: func(c *Config) { c.TUI.Theme = "solarized" },
			fields: []string{"tui.theme"},
		},
		{
			name: "every failure reported",
			mutate: func(c *Config) {
				c.Toast.DefaultDuration = 0
				c.Toast.DefaultStatus = "loud"
				c.TUI.Tick = 0
			},
			fields: []string{"toast.default_duration", "toast.default_status", "tui.tick"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if len(tt.fields) == 0 {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			var fe criterio.FieldErrors
			require.True(t, errors.As(err, &fe))

			got := make([]string, 0, len(fe))
			for _, f := range fe {
				got = append(got, f.Field)
			}
			assert.ElementsMatch(t, tt.fields, got)
		})
	}
}

func TestToastDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Toast.DefaultPosition = "top-right"
	cfg.Toast.DefaultStatus = "warning"
	cfg.Toast.DefaultDuration = 2 * time.Second

	d := cfg.ToastDefaults()
	assert.Equal(t, toast.TopRight, d.Position)
	assert.Equal(t, toast.StatusWarning, d.Status)
	assert.Equal(t, 2*time.Second, d.Duration)
}
