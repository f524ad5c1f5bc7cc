package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/hay-kot/toasty/internal/core/config"
	"github.com/hay-kot/toasty/internal/core/styles"
	"github.com/hay-kot/toasty/pkg/iojson"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "toasty config validate [options]",
				Description: "Loads the configuration file with TOASTY_* overrides applied, reports every invalid field, and prints the effective configuration.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

// ConfigFieldError is one invalid configuration field.
type ConfigFieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ConfigReport is the outcome of loading a configuration file.
type ConfigReport struct {
	Path   string             `json:"path"`
	Found  bool               `json:"found"`
	Valid  bool               `json:"valid"`
	Errors []ConfigFieldError `json:"errors,omitempty"`
	Config map[string]any     `json:"config,omitempty"`
}

func (cmd *ConfigValidateCmd) run(_ context.Context, c *cli.Command) error {
	report, err := validateConfig(cmd.flags.ConfigPath)
	if err != nil {
		return err
	}

	w := c.Root().Writer
	if cmd.format == "json" {
		err = iojson.WriteWith(w, c.Root().ErrWriter, report)
	} else {
		err = writeConfigReport(w, report)
	}
	if err != nil {
		return err
	}

	if !report.Valid {
		return cli.Exit("", 1)
	}
	return nil
}

func validateConfig(path string) (ConfigReport, error) {
	report := ConfigReport{Path: path}
	if _, err := os.Stat(path); err == nil {
		report.Found = true
	}

	cfg, err := config.Load(path)
	if err != nil {
		var fieldErrs criterio.FieldErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				report.Errors = append(report.Errors, ConfigFieldError{Field: fe.Field, Message: fe.Err.Error()})
			}
		} else {
			report.Errors = append(report.Errors, ConfigFieldError{Message: err.Error()})
		}
		return report, nil
	}

	report.Valid = true
	report.Config, err = configMap(cfg)
	if err != nil {
		return report, fmt.Errorf("encode config: %w", err)
	}
	return report, nil
}

// configMap round trips cfg through YAML so durations print as "3s" in both
// output formats.
func configMap(cfg *config.Config) (map[string]any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func writeConfigReport(w io.Writer, report ConfigReport) error {
	var b strings.Builder

	source := report.Path
	if !report.Found {
		source += " (not found, using defaults)"
	}
	b.WriteString(styles.CommandHeaderStyle.Render("config") + " " + styles.CommandStyle.Render(source) + "\n")

	if !report.Valid {
		for _, fe := range report.Errors {
			line := fe.Message
			if fe.Field != "" {
				line = fe.Field + ": " + fe.Message
			}
			b.WriteString(styles.FieldErrorStyle.Render("✘ "+line) + "\n")
		}
		fmt.Fprintf(&b, "\n%d error(s) found\n", len(report.Errors))
		_, err := io.WriteString(w, b.String())
		return err
	}

	data, err := yaml.Marshal(report.Config)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	b.WriteString(styles.DividerStyle.Render(strings.Repeat("─", 32)) + "\n")
	b.Write(data)
	b.WriteString(styles.DividerStyle.Render(strings.Repeat("─", 32)) + "\n")
	b.WriteString("✔ Configuration is valid\n")

	_, err = io.WriteString(w, b.String())
	return err
}
