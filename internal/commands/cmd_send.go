package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/toasty/internal/core/clock"
	"github.com/hay-kot/toasty/internal/core/toast"
	"github.com/hay-kot/toasty/pkg/iojson"
)

type SendCmd struct {
	flags *Flags

	position string
	status   string
	duration time.Duration
	noExpiry bool
	format   string
}

// NewSendCmd creates a new send command.
func NewSendCmd(flags *Flags) *SendCmd {
	return &SendCmd{flags: flags}
}

// Register adds the send command to the application.
func (cmd *SendCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "send",
		Usage:     "Show one toast and follow it until it is gone",
		UsageText: "toasty send [options] MESSAGE",
		Description: `Shows MESSAGE in an in-process engine and prints every lifecycle event
until the toast expires. A toast without expiry is followed until the
command is interrupted.

Omitted options fall back to the toast section of the config file.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "position",
				Aliases:     []string{"p"},
				Usage:       "anchor (top-left, top-center, top-right, bottom-left, bottom-center, bottom-right)",
				Destination: &cmd.position,
			},
			&cli.StringFlag{
				Name:        "status",
				Aliases:     []string{"s"},
				Usage:       "severity (default, success, warning, error)",
				Destination: &cmd.status,
			},
			&cli.DurationFlag{
				Name:        "duration",
				Aliases:     []string{"d"},
				Usage:       "auto-dismiss delay (defaults to toast.default_duration)",
				Destination: &cmd.duration,
			},
			&cli.BoolFlag{
				Name:        "no-expiry",
				Usage:       "keep the toast until interrupted",
				Destination: &cmd.noExpiry,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *SendCmd) run(ctx context.Context, c *cli.Command) error {
	// A blank MESSAGE ends argument parsing and is not kept, so no
	// arguments means an empty message, which Show rejects.
	if c.Args().Len() > 1 {
		return fmt.Errorf("expected exactly one MESSAGE argument, got %d", c.Args().Len())
	}

	opts, err := cmd.options()
	if err != nil {
		return err
	}

	w := c.Root().Writer
	events := newEventLog(clock.Real{}, func(e LogEntry) {
		if err := writeEntry(w, cmd.format, e); err != nil {
			log.Warn().Err(err).Msg("failed to write event")
		}
	})
	events.attach(cmd.flags.Bus)

	rec, err := cmd.flags.Engine.Show(c.Args().First(), opts...)
	if err != nil {
		var verr *toast.ValidationError
		if errors.As(err, &verr) {
			return err
		}
		return fmt.Errorf("show toast: %w", err)
	}

	select {
	case <-events.Removed(rec.ID):
		return nil
	case <-ctx.Done():
		cmd.flags.Engine.Dismiss(rec.ID)
		return nil
	}
}

func (cmd *SendCmd) options() ([]toast.Option, error) {
	if cmd.noExpiry && cmd.duration != 0 {
		return nil, errors.New("--duration and --no-expiry are mutually exclusive")
	}

	var duration string
	switch {
	case cmd.noExpiry:
		duration = noExpiry
	case cmd.duration != 0:
		duration = cmd.duration.String()
	}

	return toastOptions(cmd.position, cmd.status, duration)
}

func writeEntry(w io.Writer, format string, e LogEntry) error {
	if format == "json" {
		return iojson.WriteLine(w, e)
	}

	line := fmt.Sprintf("%6dms  %-15s", e.AtMS, e.Event)
	if e.ID != 0 {
		line += " #" + e.ID.String()
	}
	if e.Position != "" {
		line += " " + string(e.Position)
	}
	if e.Reason != "" {
		line += " (" + string(e.Reason) + ")"
	}
	if e.RemainingMS != nil {
		line += fmt.Sprintf(" %dms left", *e.RemainingMS)
	}
	if e.Message != "" {
		line += fmt.Sprintf(" %q", e.Message)
	}
	for field, msg := range e.Fields {
		line += fmt.Sprintf(" %s: %s", field, msg)
	}

	_, err := fmt.Fprintln(w, line)
	return err
}
