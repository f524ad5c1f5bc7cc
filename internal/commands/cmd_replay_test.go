package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/toasty/internal/core/clock"
	"github.com/hay-kot/toasty/internal/core/eventbus"
	"github.com/hay-kot/toasty/internal/core/toast"
	"github.com/hay-kot/toasty/internal/toaster"
)

type replayFixture struct {
	clock  *clock.Fake
	engine *toaster.Service
	events *eventLog
	r      *replayer
}

func newReplayFixture(t *testing.T) *replayFixture {
	t.Helper()

	fake := clock.NewFake(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	bus := eventbus.New(256)
	engine := toaster.New(
		toaster.WithClock(fake),
		toaster.WithBus(bus),
		toaster.WithLogger(zerolog.Nop()),
	)
	t.Cleanup(engine.Close)

	events := newEventLog(fake, nil)
	events.attach(bus)

	return &replayFixture{
		clock:  fake,
		engine: engine,
		events: events,
		r: &replayer{
			engine: engine,
			logger: zerolog.Nop(),
			wait: func(_ context.Context, d time.Duration) error {
				fake.Advance(d)
				return nil
			},
		},
	}
}

func eventNames(entries []LogEntry) []eventbus.Event {
	out := make([]eventbus.Event, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Event)
	}
	return out
}

func TestReplay_PauseResumeShiftsExpiry(t *testing.T) {
	f := newReplayFixture(t)

	in := ReplayInput{
		Drain: true,
		Steps: []ReplayStep{
			{At: 0, Action: ActionShow, Name: "saved", Message: "Changes saved", Duration: "3s"},
			{At: time.Second, Action: ActionPause, Toast: "saved"},
			{At: 2 * time.Second, Action: ActionResume, Toast: "saved"},
		},
	}
	require.NoError(t, in.Validate())
	require.NoError(t, f.r.run(context.Background(), in))

	entries := f.events.Entries()
	require.Equal(t, []eventbus.Event{
		eventbus.EventToastShown,
		eventbus.EventToastPaused,
		eventbus.EventToastResumed,
		eventbus.EventToastRemoved,
	}, eventNames(entries))

	assert.Equal(t, int64(0), entries[0].AtMS)
	assert.Equal(t, int64(1000), entries[1].AtMS)
	require.NotNil(t, entries[1].RemainingMS)
	assert.Equal(t, int64(2000), *entries[1].RemainingMS)
	assert.Equal(t, int64(2000), entries[2].AtMS)
	assert.Equal(t, int64(4000), entries[3].AtMS, "one second paused pushes expiry from 3s to 4s")
	assert.Equal(t, toast.ReasonExpired, entries[3].Reason)
	assert.Zero(t, f.engine.Snapshot().Len())
}

func TestReplay_ClearAndDismiss(t *testing.T) {
	f := newReplayFixture(t)

	in := ReplayInput{
		Steps: []ReplayStep{
			{At: 0, Action: ActionShow, Name: "a", Message: "first", Position: "top-right", Duration: "none"},
			{At: 0, Action: ActionShow, Name: "b", Message: "second", Position: "top-right", Duration: "none"},
			{At: 0, Action: ActionShow, Name: "c", Message: "third", Position: "bottom-left", Duration: "none"},
			{At: 100 * time.Millisecond, Action: ActionDismiss, Toast: "c"},
			{At: 500 * time.Millisecond, Action: ActionClear, Position: "top-right"},
		},
	}
	require.NoError(t, in.Validate())
	require.NoError(t, f.r.run(context.Background(), in))

	entries := f.events.Entries()
	require.Equal(t, []eventbus.Event{
		eventbus.EventToastShown,
		eventbus.EventToastShown,
		eventbus.EventToastShown,
		eventbus.EventToastRemoved,
		eventbus.EventToastRemoved,
		eventbus.EventToastRemoved,
		eventbus.EventGroupCleared,
	}, eventNames(entries))

	assert.Equal(t, toast.ReasonDismissed, entries[3].Reason)
	assert.Equal(t, int64(100), entries[3].AtMS)
	assert.Equal(t, toast.ReasonCleared, entries[4].Reason)
	assert.Equal(t, toast.ReasonCleared, entries[5].Reason)
	assert.Equal(t, toast.TopRight, entries[6].Position)
	assert.Len(t, entries[6].IDs, 2)
	assert.Zero(t, f.engine.Snapshot().Len())
}

func TestReplay_NoDrainLeavesToastsRunning(t *testing.T) {
	f := newReplayFixture(t)

	in := ReplayInput{
		Steps: []ReplayStep{
			{At: 0, Action: ActionShow, Message: "hello", Duration: "3s"},
		},
	}
	require.NoError(t, f.r.run(context.Background(), in))

	assert.Equal(t, 1, f.engine.Snapshot().Len())
	assert.Len(t, f.events.Entries(), 1)
}

func TestReplay_DrainSkipsPausedAndPersistent(t *testing.T) {
	f := newReplayFixture(t)

	in := ReplayInput{
		Drain: true,
		Steps: []ReplayStep{
			{At: 0, Action: ActionShow, Name: "held", Message: "held", Duration: "3s"},
			{At: 0, Action: ActionShow, Message: "sticky", Duration: "none"},
			{At: 0, Action: ActionShow, Message: "short", Duration: "1s"},
			{At: 0, Action: ActionPause, Toast: "held"},
		},
	}
	require.NoError(t, f.r.run(context.Background(), in))

	assert.Equal(t, 2, f.engine.Snapshot().Len(), "paused and persistent toasts survive the drain")
}

func TestReplay_RejectedShowContinues(t *testing.T) {
	f := newReplayFixture(t)

	in := ReplayInput{
		Steps: []ReplayStep{
			{At: 0, Action: ActionShow, Name: "bad", Message: "zero", Duration: "0s"},
			{At: 0, Action: ActionShow, Message: "good"},
			{At: 10 * time.Millisecond, Action: ActionDismiss, Toast: "bad"},
		},
	}
	require.NoError(t, f.r.run(context.Background(), in))

	assert.Equal(t, []eventbus.Event{
		eventbus.EventToastRejected,
		eventbus.EventToastShown,
	}, eventNames(f.events.Entries()))
	assert.Equal(t, 1, f.engine.Snapshot().Len())
}

func TestReplay_WaitErrorStopsRun(t *testing.T) {
	f := newReplayFixture(t)
	f.r.wait = func(context.Context, time.Duration) error { return context.Canceled }

	in := ReplayInput{
		Steps: []ReplayStep{
			{At: 0, Action: ActionShow, Message: "first"},
			{At: time.Second, Action: ActionShow, Message: "never"},
		},
	}
	err := f.r.run(context.Background(), in)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, f.engine.Snapshot().Len())
}

func TestReplayInput_Validate(t *testing.T) {
	tests := []struct {
		name   string
		input  ReplayInput
		fields []string
	}{
		{
			name:   "no steps",
			input:  ReplayInput{},
			fields: []string{"steps"},
		},
		{
			name: "valid",
			input: ReplayInput{Steps: []ReplayStep{
				{Action: ActionShow, Name: "a", Message: "hi", Position: "top-left", Status: "error", Duration: "2s"},
				{At: time.Second, Action: ActionPause, Toast: "a"},
				{At: time.Second, Action: ActionClear, Position: "top-left"},
			}},
		},
		{
			name: "out of order",
			input: ReplayInput{Steps: []ReplayStep{
				{At: 2 * time.Second, Action: ActionShow, Message: "a"},
				{At: time.Second, Action: ActionShow, Message: "b"},
			}},
			fields: []string{"steps[1].at"},
		},
		{
			name: "negative offset",
			input: ReplayInput{Steps: []ReplayStep{
				{At: -time.Second, Action: ActionShow, Message: "a"},
			}},
			fields: []string{"steps[0].at"},
		},
		{
			name: "unknown action",
			input: ReplayInput{Steps: []ReplayStep{
				{Action: "explode"},
			}},
			fields: []string{"steps[0].action"},
		},
		{
			name: "blank message",
			input: ReplayInput{Steps: []ReplayStep{
				{Action: ActionShow, Message: "   "},
			}},
			fields: []string{"steps[0].message"},
		},
		{
			name: "bad show fields",
			input: ReplayInput{Steps: []ReplayStep{
				{Action: ActionShow, Message: "a", Position: "middle"},
				{Action: ActionShow, Message: "b", Status: "loud"},
				{Action: ActionShow, Message: "c", Duration: "soon"},
			}},
			fields: []string{"steps[0].position", "steps[1].status", "steps[2].duration"},
		},
		{
			name: "duplicate name",
			input: ReplayInput{Steps: []ReplayStep{
				{Action: ActionShow, Name: "a", Message: "one"},
				{Action: ActionShow, Name: "a", Message: "two"},
			}},
			fields: []string{"steps[1].name"},
		},
		{
			name: "unknown and missing toast reference",
			input: ReplayInput{Steps: []ReplayStep{
				{Action: ActionDismiss, Toast: "ghost"},
				{Action: ActionResume},
			}},
			fields: []string{"steps[0].toast", "steps[1].toast"},
		},
		{
			name: "reference before show",
			input: ReplayInput{Steps: []ReplayStep{
				{Action: ActionPause, Toast: "late"},
				{Action: ActionShow, Name: "late", Message: "x"},
			}},
			fields: []string{"steps[0].toast"},
		},
		{
			name: "clear needs a position",
			input: ReplayInput{Steps: []ReplayStep{
				{Action: ActionClear},
			}},
			fields: []string{"steps[0].position"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if len(tt.fields) == 0 {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			var fieldErrs criterio.FieldErrors
			require.ErrorAs(t, err, &fieldErrs)

			got := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				got = append(got, fe.Field)
			}
			assert.ElementsMatch(t, tt.fields, got)
		})
	}
}

func TestLongestRemaining(t *testing.T) {
	snap := toaster.Snapshot{Toasts: []toaster.ToastView{
		{Toast: toast.Record{Duration: 3 * time.Second}, Remaining: 1500 * time.Millisecond},
		{Toast: toast.Record{Duration: 5 * time.Second}, Remaining: 4 * time.Second, Paused: true},
		{Toast: toast.Record{Duration: toast.NoExpiry}, Remaining: toast.NoExpiry},
		{Toast: toast.Record{Duration: 2 * time.Second}, Remaining: 2 * time.Second},
	}}

	assert.Equal(t, 2*time.Second, longestRemaining(snap))
	assert.Zero(t, longestRemaining(toaster.Snapshot{}))
}

func TestReplayCmd_Run(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
drain: true
steps:
  - at: 0s
    action: show
    name: quick
    message: hello
    duration: 20ms
  - at: 5ms
    action: show
    message: gone soon
    position: top-left
    duration: 10ms
`), 0o644))

	flags := newCmdFlags(t)
	var out bytes.Buffer
	app := &cli.Command{Name: "toasty", Writer: &out, ErrWriter: &out}
	app = NewReplayCmd(flags).Register(app)

	require.NoError(t, app.Run(context.Background(), []string{"toasty", "replay", path}))

	var got ReplayOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, 2, got.Steps)
	assert.Zero(t, got.Active)
	assert.Len(t, got.Events, 4)
}

func TestReplayCmd_InvalidTimeline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timeline.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"steps":[{"action":"pause","toast":"nope"}]}`), 0o644))

	flags := newCmdFlags(t)
	app := &cli.Command{Name: "toasty", Writer: &bytes.Buffer{}, ErrWriter: &bytes.Buffer{}}
	app = NewReplayCmd(flags).Register(app)

	err := app.Run(context.Background(), []string{"toasty", "replay", path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid timeline")
}
