package commands

import (
	"sync"
	"time"

	"github.com/hay-kot/toasty/internal/core/clock"
	"github.com/hay-kot/toasty/internal/core/eventbus"
	"github.com/hay-kot/toasty/internal/core/toast"
)

// LogEntry is one lifecycle event as printed by send and replay.
type LogEntry struct {
	AtMS        int64             `json:"at_ms"`
	Event       eventbus.Event    `json:"event"`
	ID          toast.ID          `json:"id,omitempty"`
	IDs         []toast.ID        `json:"ids,omitempty"`
	Position    toast.Position    `json:"position,omitempty"`
	Status      toast.Status      `json:"status,omitempty"`
	Message     string            `json:"message,omitempty"`
	Reason      toast.Reason      `json:"reason,omitempty"`
	RemainingMS *int64            `json:"remaining_ms,omitempty"`
	Fields      map[string]string `json:"fields,omitempty"`
}

// eventLog records bus events in publish order, on the publishing
// goroutine. Dropped events are recorded too, so the log does not depend on
// the bus dispatcher keeping up.
type eventLog struct {
	clock   clock.Clock
	start   time.Time
	onEntry func(LogEntry)

	mu      sync.Mutex
	entries []LogEntry
	removed map[toast.ID]chan struct{}
}

func newEventLog(clk clock.Clock, onEntry func(LogEntry)) *eventLog {
	if onEntry == nil {
		onEntry = func(LogEntry) {}
	}
	return &eventLog{
		clock:   clk,
		start:   clk.Now(),
		onEntry: onEntry,
		removed: make(map[toast.ID]chan struct{}),
	}
}

func (l *eventLog) attach(bus *eventbus.EventBus) {
	bus.OnPublish(l.record)
	bus.OnDrop(l.record)
}

func (l *eventLog) record(event eventbus.Event, payload any) {
	entry := LogEntry{
		AtMS:  l.clock.Now().Sub(l.start).Milliseconds(),
		Event: event,
	}

	var removedID toast.ID
	switch p := payload.(type) {
	case eventbus.ToastShownPayload:
		entry.ID = p.Record.ID
		entry.Position = p.Record.Position
		entry.Status = p.Record.Status
		entry.Message = p.Record.Message
	case eventbus.ToastRemovedPayload:
		entry.ID = p.Record.ID
		entry.Position = p.Record.Position
		entry.Reason = p.Reason
		removedID = p.Record.ID
	case eventbus.ToastPausedPayload:
		entry.ID = p.ID
		entry.RemainingMS = millis(p.Remaining)
	case eventbus.ToastResumedPayload:
		entry.ID = p.ID
		entry.RemainingMS = millis(p.Remaining)
	case eventbus.ToastRejectedPayload:
		entry.Message = p.Message
		entry.Fields = p.Fields
	case eventbus.GroupClearedPayload:
		entry.Position = p.Position
		entry.IDs = p.IDs
	}

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()

	l.onEntry(entry)

	if removedID != 0 {
		l.mu.Lock()
		close(l.removedLocked(removedID))
		l.mu.Unlock()
	}
}

// Entries returns a copy of everything recorded so far.
func (l *eventLog) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Removed returns a channel that is closed once id has left the engine,
// including when that happened before the call.
func (l *eventLog) Removed(id toast.ID) <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.removedLocked(id)
}

func (l *eventLog) removedLocked(id toast.ID) chan struct{} {
	ch, ok := l.removed[id]
	if !ok {
		ch = make(chan struct{})
		l.removed[id] = ch
	}
	return ch
}

func millis(d time.Duration) *int64 {
	if d == toast.NoExpiry {
		return nil
	}
	ms := d.Milliseconds()
	return &ms
}
