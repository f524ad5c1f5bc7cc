// Package testbus records toast lifecycle events from a running EventBus so
// tests can assert on what the engine published.
package testbus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hay-kot/toasty/internal/core/eventbus"
)

// RecordedEvent holds a captured event name and payload.
type RecordedEvent struct {
	Event   eventbus.Event
	Payload any
}

// Bus wraps a real EventBus with event recording for tests.
type Bus struct {
	*eventbus.EventBus
	cancel context.CancelFunc

	mu     sync.Mutex
	events []RecordedEvent
}

// New creates a test bus, starts it in a background goroutine, and
// subscribes to all event types for recording. The bus is stopped
// when the test completes.
func New(t *testing.T) *Bus {
	t.Helper()

	bus := eventbus.New(256)
	ctx, cancel := context.WithCancel(context.Background())

	tb := &Bus{
		EventBus: bus,
		cancel:   cancel,
	}

	bus.SubscribeToastShown(func(p eventbus.ToastShownPayload) {
		tb.record(eventbus.EventToastShown, p)
	})
	bus.SubscribeToastRemoved(func(p eventbus.ToastRemovedPayload) {
		tb.record(eventbus.EventToastRemoved, p)
	})
	bus.SubscribeToastPaused(func(p eventbus.ToastPausedPayload) {
		tb.record(eventbus.EventToastPaused, p)
	})
	bus.SubscribeToastResumed(func(p eventbus.ToastResumedPayload) {
		tb.record(eventbus.EventToastResumed, p)
	})
	bus.SubscribeToastRejected(func(p eventbus.ToastRejectedPayload) {
		tb.record(eventbus.EventToastRejected, p)
	})
	bus.SubscribeGroupCleared(func(p eventbus.GroupClearedPayload) {
		tb.record(eventbus.EventGroupCleared, p)
	})

	go bus.Start(ctx)
	t.Cleanup(cancel)

	return tb
}

func (tb *Bus) record(event eventbus.Event, payload any) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.events = append(tb.events, RecordedEvent{Event: event, Payload: payload})
}

// Events returns a copy of all recorded events.
func (tb *Bus) Events() []RecordedEvent {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	out := make([]RecordedEvent, len(tb.events))
	copy(out, tb.events)
	return out
}

// Removals returns the recorded toast.removed payloads in publish order.
func (tb *Bus) Removals() []eventbus.ToastRemovedPayload {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	var out []eventbus.ToastRemovedPayload
	for _, e := range tb.events {
		if p, ok := e.Payload.(eventbus.ToastRemovedPayload); ok {
			out = append(out, p)
		}
	}
	return out
}

// Count returns how many events of the given type were recorded.
func (tb *Bus) Count(event eventbus.Event) int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	n := 0
	for _, e := range tb.events {
		if e.Event == event {
			n++
		}
	}
	return n
}

// WaitFor blocks until an event of the given type is recorded or the timeout expires.
// Returns true if the event was found.
func (tb *Bus) WaitFor(event eventbus.Event, timeout time.Duration) bool {
	return tb.WaitForCount(event, 1, timeout)
}

// WaitForCount blocks until at least n events of the given type are recorded.
func (tb *Bus) WaitForCount(event eventbus.Event, n int, timeout time.Duration) bool {
	deadline := time.After(timeout)
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()

	for {
		if tb.Count(event) >= n {
			return true
		}
		select {
		case <-deadline:
			return false
		case <-ticker.C:
		}
	}
}

// AssertPublished asserts that an event of the given type was recorded.
func (tb *Bus) AssertPublished(t *testing.T, event eventbus.Event) {
	t.Helper()
	if !tb.WaitFor(event, 500*time.Millisecond) {
		t.Errorf("expected event %q to be published, but it was not", event)
	}
}

// AssertNotPublished asserts that an event of the given type was NOT recorded
// within the given wait period.
func (tb *Bus) AssertNotPublished(t *testing.T, event eventbus.Event, wait time.Duration) {
	t.Helper()
	time.Sleep(wait)
	if tb.Count(event) > 0 {
		t.Errorf("expected event %q to NOT be published, but it was", event)
	}
}
