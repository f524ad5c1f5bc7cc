package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/toasty/internal/core/styles"
	"github.com/hay-kot/toasty/internal/core/toast"
)

// Validate checks that the configuration is valid. Every failing field is
// reported, not only the first.
func (c *Config) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if c.Toast.DefaultDuration <= 0 {
		errs = errs.Append("toast.default_duration", fmt.Errorf("must be greater than 0, got %s", c.Toast.DefaultDuration))
	}
	if !toast.Position(c.Toast.DefaultPosition).Valid() {
		errs = errs.Append("toast.default_position", fmt.Errorf("unknown position %q", c.Toast.DefaultPosition))
	}
	if !toast.Status(c.Toast.DefaultStatus).Valid() {
		errs = errs.Append("toast.default_status", fmt.Errorf("unknown status %q", c.Toast.DefaultStatus))
	}
	if c.Toast.MaxPerGroup < 0 {
		errs = errs.Append("toast.max_per_group", errors.New("must not be negative"))
	}

	if c.TUI.Tick <= 0 {
		errs = errs.Append("tui.tick", fmt.Errorf("must be greater than 0, got %s", c.TUI.Tick))
	}
	if c.TUI.Width < 20 {
		errs = errs.Append("tui.width", fmt.Errorf("must be at least 20, got %d", c.TUI.Width))
	}
	if err := knownTheme(c.TUI.Theme); err != nil {
		errs = errs.Append("tui.theme", err)
	}

	return errs.ToError()
}

func knownTheme(name string) error {
	if !slices.Contains(styles.ThemeNames(), name) {
		return fmt.Errorf("unknown theme %q", name)
	}
	return nil
}
