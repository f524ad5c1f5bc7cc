package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/toasty/internal/core/clock"
	"github.com/hay-kot/toasty/internal/core/logging"
	"github.com/hay-kot/toasty/internal/core/toast"
	"github.com/hay-kot/toasty/internal/toaster"
	"github.com/hay-kot/toasty/pkg/iojson"
)

type ReplayCmd struct {
	flags *Flags
	fr    *iojson.FileReader[ReplayInput]
}

// NewReplayCmd creates a new replay command.
func NewReplayCmd(flags *Flags) *ReplayCmd {
	return &ReplayCmd{
		flags: flags,
		fr:    &iojson.FileReader[ReplayInput]{},
	}
}

// Register adds the replay command to the application.
func (cmd *ReplayCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "replay",
		Usage: "Run a timeline of toast operations in real time",
		UsageText: `toasty replay [options] [FILE]

Read from a file:
  toasty replay timeline.yaml

Read from stdin:
  cat timeline.yaml | toasty replay`,
		Description: `Runs each step of a timeline against the engine at its offset from the
start, then prints every lifecycle event as JSON.

Timeline schema (YAML or JSON):
  drain: true            # after the last step, wait for running toasts to expire
  steps:
    - at: 0s
      action: show       # show, dismiss, pause, resume, clear
      name: saved        # label used by later steps
      message: Changes saved
      position: top-right
      status: success
      duration: 3s       # Go duration, or "none" to never expire
    - at: 1s
      action: pause
      toast: saved
    - at: 2s
      action: resume
      toast: saved
    - at: 2500ms
      action: clear
      position: top-right

Steps must be ordered by "at". Omitted show fields use the config defaults.`,
		Flags: []cli.Flag{
			cmd.fr.Flag(),
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ReplayCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() > 1 {
		return fmt.Errorf("expected at most one FILE argument, got %d", c.Args().Len())
	}
	if c.Args().Len() == 1 {
		cmd.fr.SetFile(c.Args().First())
	}

	input, err := cmd.fr.Read()
	if err != nil {
		return fmt.Errorf("read timeline: %w", err)
	}
	if err := input.Validate(); err != nil {
		return fmt.Errorf("invalid timeline: %w", err)
	}

	events := newEventLog(clock.Real{}, nil)
	events.attach(cmd.flags.Bus)

	r := &replayer{
		engine: cmd.flags.Engine,
		wait:   sleep,
		slack:  drainSlack,
		logger: logging.Component("replay"),
	}
	if err := r.run(ctx, input); err != nil {
		return err
	}

	return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, ReplayOutput{
		Steps:  len(input.Steps),
		Active: cmd.flags.Engine.Snapshot().Len(),
		Events: events.Entries(),
	})
}

const (
	ActionShow    = "show"
	ActionDismiss = "dismiss"
	ActionPause   = "pause"
	ActionResume  = "resume"
	ActionClear   = "clear"
)

// ReplayInput is the timeline schema read by replay.
type ReplayInput struct {
	Drain bool         `yaml:"drain"`
	Steps []ReplayStep `yaml:"steps"`
}

// ReplayStep is one operation at an offset from the start of the run.
type ReplayStep struct {
	At     time.Duration `yaml:"at"`
	Action string        `yaml:"action"`

	// show
	Name     string `yaml:"name"`
	Message  string `yaml:"message"`
	Status   string `yaml:"status"`
	Duration string `yaml:"duration"`

	// show and clear
	Position string `yaml:"position"`

	// dismiss, pause and resume
	Toast string `yaml:"toast"`
}

// ReplayOutput is the JSON printed after a run.
type ReplayOutput struct {
	Steps  int        `json:"steps"`
	Active int        `json:"active"`
	Events []LogEntry `json:"events"`
}

// Validate checks the whole timeline up front so a run never stops halfway
// on a malformed step. Show steps are checked field by field here; the
// engine applies its own validation when the step runs.
func (in ReplayInput) Validate() error {
	if len(in.Steps) == 0 {
		return criterio.NewFieldErrors("steps", errors.New("timeline has no steps"))
	}

	var (
		errs  criterio.FieldErrorsBuilder
		names = make(map[string]bool)
		prev  time.Duration
	)

	for i, step := range in.Steps {
		field := fmt.Sprintf("steps[%d]", i)

		switch {
		case step.At < 0:
			errs = errs.Append(field+".at", errors.New("must not be negative"))
		case step.At < prev:
			errs = errs.Append(field+".at", fmt.Errorf("%s is before the previous step at %s", step.At, prev))
		default:
			prev = step.At
		}

		switch step.Action {
		case ActionShow:
			if strings.TrimSpace(step.Message) == "" {
				errs = errs.Append(field+".message", errors.New("cannot be blank"))
			}
			if _, err := toastOptions(step.Position, step.Status, step.Duration); err != nil {
				errs = errs.Append(field+stepField(err), err)
			}
			if step.Name != "" {
				if names[step.Name] {
					errs = errs.Append(field+".name", fmt.Errorf("duplicate name %q", step.Name))
				}
				names[step.Name] = true
			}
		case ActionDismiss, ActionPause, ActionResume:
			switch {
			case step.Toast == "":
				errs = errs.Append(field+".toast", errors.New("is required"))
			case !names[step.Toast]:
				errs = errs.Append(field+".toast", fmt.Errorf("no earlier show step is named %q", step.Toast))
			}
		case ActionClear:
			if _, err := toast.ParsePosition(step.Position); err != nil {
				errs = errs.Append(field+".position", err)
			}
		default:
			errs = errs.Append(field+".action", fmt.Errorf("unknown action %q", step.Action))
		}
	}

	return errs.ToError()
}

// stepField names the show field an option error belongs to.
func stepField(err error) string {
	var verr *toast.ValidationError
	if errors.As(err, &verr) {
		for f := range verr.Fields() {
			return "." + f
		}
	}
	return ".duration"
}

// drainSlack covers the gap between reading a countdown and its timer firing.
const drainSlack = 50 * time.Millisecond

type replayer struct {
	engine toaster.Engine
	wait   func(ctx context.Context, d time.Duration) error
	slack  time.Duration
	logger zerolog.Logger

	ids map[string]toast.ID
}

// run executes the steps in order, waiting out the gap before each one.
// Rejected shows are logged and the run continues.
func (r *replayer) run(ctx context.Context, in ReplayInput) error {
	r.ids = make(map[string]toast.ID)

	var elapsed time.Duration
	for i, step := range in.Steps {
		if gap := step.At - elapsed; gap > 0 {
			if err := r.wait(ctx, gap); err != nil {
				return err
			}
			elapsed = step.At
		}

		r.logger.Debug().Int("step", i).Str("action", step.Action).Dur("at", step.At).Msg("replay step")
		r.apply(step)
	}

	if !in.Drain {
		return nil
	}
	if d := longestRemaining(r.engine.Snapshot()); d > 0 {
		return r.wait(ctx, d+r.slack)
	}
	return nil
}

func (r *replayer) apply(step ReplayStep) {
	switch step.Action {
	case ActionShow:
		opts, err := toastOptions(step.Position, step.Status, step.Duration)
		if err != nil {
			r.logger.Warn().Err(err).Msg("show step skipped")
			return
		}
		rec, err := r.engine.Show(step.Message, opts...)
		if err != nil {
			r.logger.Warn().Err(err).Str("name", step.Name).Msg("show step rejected")
			return
		}
		if step.Name != "" {
			r.ids[step.Name] = rec.ID
		}
	case ActionDismiss:
		if id, ok := r.ids[step.Toast]; ok {
			r.engine.Dismiss(id)
		}
	case ActionPause:
		if id, ok := r.ids[step.Toast]; ok {
			r.engine.Pause(id)
		}
	case ActionResume:
		if id, ok := r.ids[step.Toast]; ok {
			r.engine.Resume(id)
		}
	case ActionClear:
		if p, err := toast.ParsePosition(step.Position); err == nil {
			r.engine.ClearGroup(p)
		}
	}
}

// longestRemaining is how long until every running countdown has fired.
// Paused toasts and toasts without expiry are ignored.
func longestRemaining(snap toaster.Snapshot) time.Duration {
	var longest time.Duration
	for _, v := range snap.Toasts {
		if !v.Toast.Expires() || v.Paused {
			continue
		}
		longest = max(longest, v.Remaining)
	}
	return longest
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
