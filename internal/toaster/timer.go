package toaster

import (
	"time"

	"github.com/hay-kot/toasty/internal/core/clock"
	"github.com/hay-kot/toasty/internal/core/toast"
)

type timerState int

const (
	stateIdle timerState = iota
	stateRunning
	statePaused
	stateExpired
	stateCancelled
)

func (s timerState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateRunning:
		return "running"
	case statePaused:
		return "paused"
	case stateExpired:
		return "expired"
	case stateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

type pauseResult int

const (
	pauseNoop pauseResult = iota
	pausePaused
	pauseExpired
)

// timer is the countdown for one record. It is not safe for concurrent use;
// the Service guards every timer with its own mutex.
//
// Each scheduled deadline carries the generation it was scheduled under.
// Stopping the timer bumps the generation, so a callback that already left
// the clock but has not yet acquired the engine lock is recognized as stale
// and discarded.
type timer struct {
	duration  time.Duration
	remaining time.Duration
	startedAt time.Time
	state     timerState
	gen       uint64
	pending   clock.Timer
}

func newTimer(d time.Duration) *timer {
	return &timer{duration: d, remaining: d}
}

func (t *timer) inert() bool {
	return t.duration == toast.NoExpiry
}

func (t *timer) terminal() bool {
	return t.state == stateExpired || t.state == stateCancelled
}

// start schedules the deadline for the remaining time. It reports whether a
// deadline was scheduled; a running timer is never scheduled twice.
func (t *timer) start(clk clock.Clock, fire func(gen uint64)) bool {
	if t.inert() {
		return false
	}
	if t.state != stateIdle && t.state != statePaused {
		return false
	}

	t.gen++
	gen := t.gen
	t.startedAt = clk.Now()
	t.state = stateRunning
	t.pending = clk.AfterFunc(t.remaining, func() { fire(gen) })
	return true
}

// resume restarts a paused countdown.
func (t *timer) resume(clk clock.Clock, fire func(gen uint64)) bool {
	if t.state != statePaused {
		return false
	}
	return t.start(clk, fire)
}

// pause stops a running countdown and keeps what is left of it. When nothing
// is left the deadline is treated as having fired first.
func (t *timer) pause(now time.Time) pauseResult {
	if t.state != stateRunning {
		return pauseNoop
	}

	t.stop()
	t.remaining = max(t.remaining-now.Sub(t.startedAt), 0)
	if t.remaining == 0 {
		t.state = stateExpired
		return pauseExpired
	}

	t.state = statePaused
	return pausePaused
}

// expire is the deadline callback body. It reports false for stale
// generations and for timers that are no longer running.
func (t *timer) expire(gen uint64) bool {
	if t.state != stateRunning || gen != t.gen {
		return false
	}
	t.pending = nil
	t.remaining = 0
	t.state = stateExpired
	return true
}

func (t *timer) cancel() {
	if t.terminal() {
		return
	}
	t.stop()
	t.state = stateCancelled
}

func (t *timer) stop() {
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
	t.gen++
}

// remainingAt returns the time left at now without changing state.
func (t *timer) remainingAt(now time.Time) time.Duration {
	if t.inert() {
		return toast.NoExpiry
	}
	if t.state != stateRunning {
		return t.remaining
	}
	return max(t.remaining-now.Sub(t.startedAt), 0)
}

// progress returns the elapsed fraction of the original duration in [0, 1].
func (t *timer) progress(now time.Time) float64 {
	if t.inert() || t.duration <= 0 {
		return 0
	}
	left := t.remainingAt(now)
	p := 1 - float64(left)/float64(t.duration)
	return min(max(p, 0), 1)
}
