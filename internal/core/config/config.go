// Package config handles configuration loading and validation for toasty.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/hay-kot/toasty/internal/core/toast"
)

// Config holds the application configuration.
type Config struct {
	Toast  ToastConfig  `yaml:"toast"`
	Server ServerConfig `yaml:"server"`
	TUI    TUIConfig    `yaml:"tui"`
}

// ToastConfig holds the values applied to toasts that omit them.
type ToastConfig struct {
	DefaultDuration time.Duration `yaml:"default_duration" env:"TOASTY_TOAST_DEFAULT_DURATION"`
	DefaultPosition string        `yaml:"default_position" env:"TOASTY_TOAST_DEFAULT_POSITION"`
	DefaultStatus   string        `yaml:"default_status"   env:"TOASTY_TOAST_DEFAULT_STATUS"`
	MaxPerGroup     int           `yaml:"max_per_group"    env:"TOASTY_TOAST_MAX_PER_GROUP"` // 0 = unlimited
}

// ServerConfig configures `toasty serve`.
type ServerConfig struct {
	Addr    string `yaml:"addr"    env:"TOASTY_SERVER_ADDR"`
	Metrics bool   `yaml:"metrics" env:"TOASTY_SERVER_METRICS"`
}

// TUIConfig configures `toasty tui`.
type TUIConfig struct {
	Width int           `yaml:"width" env:"TOASTY_TUI_WIDTH"` // toast card width in cells
	Tick  time.Duration `yaml:"tick"  env:"TOASTY_TUI_TICK"`  // progress refresh interval
	Theme string        `yaml:"theme" env:"TOASTY_TUI_THEME"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Toast: ToastConfig{
			DefaultDuration: toast.DefaultDuration,
			DefaultPosition: string(toast.DefaultPosition),
			DefaultStatus:   string(toast.StatusDefault),
		},
		Server: ServerConfig{
			Addr:    ":8080",
			Metrics: true,
		},
		TUI: TUIConfig{
			Width: 44,
			Tick:  100 * time.Millisecond,
			Theme: "tokyo-night",
		},
	}
}

// Load reads configuration from the given path, then overlays TOASTY_*
// environment variables. If configPath is empty or doesn't exist, the
// defaults are used as the base.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	// Apply defaults for zero values
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Toast.DefaultPosition == "" {
		c.Toast.DefaultPosition = defaults.Toast.DefaultPosition
	}
	if c.Toast.DefaultStatus == "" {
		c.Toast.DefaultStatus = defaults.Toast.DefaultStatus
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
	if c.TUI.Width == 0 {
		c.TUI.Width = defaults.TUI.Width
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
}

// ToastDefaults converts the toast section into engine defaults. It assumes
// the config has been validated.
func (c *Config) ToastDefaults() toast.Defaults {
	return toast.Defaults{
		Position: toast.Position(c.Toast.DefaultPosition),
		Duration: c.Toast.DefaultDuration,
		Status:   toast.Status(c.Toast.DefaultStatus),
	}
}
