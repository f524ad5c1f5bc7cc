package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/toasty/internal/tui"
	"github.com/hay-kot/toasty/pkg/logutils"
)

type TuiCmd struct {
	flags     *Flags
	nerdIcons bool
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags) *TuiCmd {
	return &TuiCmd{flags: flags}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		profilerFlag(cmd.flags),
		&cli.BoolFlag{
			Name:        "nerd-icons",
			Usage:       "use Nerd Font glyphs for status icons",
			Sources:     cli.EnvVars("TOASTY_NERD_ICONS"),
			Destination: &cmd.nerdIcons,
		},
	}
}

// Register adds the tui command to the application.
func (cmd *TuiCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "tui",
		Usage:     "Open the interactive toast playground",
		UsageText: "toasty tui [options]",
		Description: `Renders the six toast groups and lets you drive the engine by keyboard.

  1-6        show a demo toast at that position
  n          compose a toast
  tab, j, k  move focus; the focused toast is paused
  x          dismiss the focused toast
  c          clear the focused toast's group
  q          quit`,
		Flags:  cmd.Flags(),
		Action: cmd.Run,
	})

	return app
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, _ *cli.Command) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("tui requires an interactive terminal; use 'toasty send' or 'toasty replay' instead")
	}

	stop, err := startProfiler(ctx, cmd.flags.ProfilerPort)
	if err != nil {
		return err
	}
	defer stop()

	logutils.Stderr.Hold()
	defer func() {
		if err := logutils.Stderr.Release(); err != nil {
			log.Error().Err(err).Msg("failed to flush held logs")
		}
	}()

	cfg := cmd.flags.Config
	m := tui.New(cmd.flags.Engine, tui.Options{
		CardWidth: cfg.TUI.Width,
		Tick:      cfg.TUI.Tick,
		NerdIcons: cmd.nerdIcons,
		Defaults:  cfg.ToastDefaults(),
	})
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
