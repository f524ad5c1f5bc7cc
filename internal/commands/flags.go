package commands

import (
	"os"
	"path/filepath"

	"github.com/hay-kot/toasty/internal/core/config"
	"github.com/hay-kot/toasty/internal/core/eventbus"
	"github.com/hay-kot/toasty/internal/toaster"
)

type Flags struct {
	LogLevel     string
	LogFile      string
	ConfigPath   string
	ProfilerPort int

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config

	// Bus carries lifecycle events out of the engine
	Bus *eventbus.EventBus

	// Engine is the toast engine shared by every command
	Engine *toaster.Service
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "toasty", "config.yaml")
}
