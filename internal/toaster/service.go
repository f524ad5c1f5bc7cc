// Package toaster is the toast lifecycle engine. It owns the active records,
// runs one countdown per record, and removes records on expiry, dismissal,
// or when their group is cleared.
package toaster

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hay-kot/toasty/internal/core/clock"
	"github.com/hay-kot/toasty/internal/core/eventbus"
	"github.com/hay-kot/toasty/internal/core/logging"
	"github.com/hay-kot/toasty/internal/core/toast"
)

// ErrClosed is returned by Show after Close.
var ErrClosed = errors.New("toaster: closed")

// Engine is the capability handed to presentation code.
type Engine interface {
	Show(message string, opts ...toast.Option) (toast.Record, error)
	Dismiss(id toast.ID)
	ClearGroup(p toast.Position)
	Pause(id toast.ID)
	Resume(id toast.ID)
	Snapshot() Snapshot
	Subscribe(fn func(Snapshot)) (unsubscribe func())
}

var _ Engine = (*Service)(nil)

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the wall clock.
func WithClock(c clock.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithLogger sets the logger used for lifecycle logging.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithBus publishes lifecycle events to bus.
func WithBus(bus *eventbus.EventBus) Option {
	return func(s *Service) { s.bus = bus }
}

// WithDefaults sets the values applied to omitted show options.
func WithDefaults(d toast.Defaults) Option {
	return func(s *Service) { s.defaults = d }
}

// WithMaxPerGroup caps how many toasts a position holds. When a show would
// exceed the cap the oldest toast at that position is evicted. Zero means
// no cap.
func WithMaxPerGroup(n int) Option {
	return func(s *Service) { s.maxPerGroup = max(n, 0) }
}

// Service is the single entry point for showing and removing toasts.
//
// All state is guarded by one mutex, and deadline callbacks take the same
// mutex, so every operation observes and leaves a consistent store.
// Subscribers and bus events are notified after the mutex is released and
// may call back into the Service.
type Service struct {
	clock       clock.Clock
	logger      zerolog.Logger
	bus         *eventbus.EventBus
	defaults    toast.Defaults
	maxPerGroup int

	mu      sync.Mutex
	store   store
	timers  map[toast.ID]*timer
	version uint64
	closed  bool

	subMu   sync.Mutex
	subs    map[int]*subscriber
	nextSub int
}

// New creates a Service. Defaults: wall clock, component logger, no bus.
func New(opts ...Option) *Service {
	s := &Service{
		clock:  clock.Real{},
		logger: logging.Component("toaster"),
		timers: make(map[toast.ID]*timer),
		subs:   make(map[int]*subscriber),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// batch collects the side effects of one locked operation.
type batch struct {
	changed bool
	emit    []func(*eventbus.EventBus)
}

func (b *batch) publish(fn func(*eventbus.EventBus)) {
	b.emit = append(b.emit, fn)
}

// apply runs fn under the engine lock, then delivers the resulting snapshot
// and events with the lock released.
func (s *Service) apply(fn func(b *batch)) {
	var b batch

	s.mu.Lock()
	fn(&b)
	var snap Snapshot
	if b.changed {
		s.version++
		snap = s.snapshotLocked()
	}
	s.mu.Unlock()

	if s.bus != nil {
		for _, e := range b.emit {
			e(s.bus)
		}
	}
	if b.changed {
		s.deliver(snap)
	}
}

// Show validates the request, adds the record and starts its countdown.
// Validation failures are returned as *toast.ValidationError and add nothing.
func (s *Service) Show(message string, opts ...toast.Option) (toast.Record, error) {
	var (
		rec toast.Record
		err error
	)

	s.apply(func(b *batch) {
		if s.closed {
			err = ErrClosed
			return
		}

		base := []toast.Option{toast.WithDefaults(s.defaults), toast.WithCreatedAt(s.clock.Now())}
		rec, err = toast.New(message, append(base, opts...)...)
		if err != nil {
			s.logger.Warn().Err(err).Msg("toast rejected")

			payload := eventbus.ToastRejectedPayload{Message: message}
			var verr *toast.ValidationError
			if errors.As(err, &verr) {
				payload.Fields = verr.Fields()
			}
			b.publish(func(bus *eventbus.EventBus) { bus.PublishToastRejected(payload) })
			return
		}

		s.store.add(rec)
		t := newTimer(rec.Duration)
		s.timers[rec.ID] = t
		s.startLocked(rec.ID, t)

		l := logging.ForToast(s.logger, rec)
		l.Debug().
			Dur("duration", rec.Duration).
			Bool("expires", rec.Expires()).
			Msg("toast shown")

		shown := rec
		b.publish(func(bus *eventbus.EventBus) {
			bus.PublishToastShown(eventbus.ToastShownPayload{Record: shown})
		})
		b.changed = true

		s.evictLocked(b, rec.Position)
	})

	return rec, err
}

// Dismiss removes the toast with the given id and cancels its countdown.
// Dismissing an unknown or already removed id does nothing.
func (s *Service) Dismiss(id toast.ID) {
	s.apply(func(b *batch) {
		s.removeLocked(b, id, toast.ReasonDismissed)
	})
}

// ClearGroup removes every toast at p in one step.
func (s *Service) ClearGroup(p toast.Position) {
	s.apply(func(b *batch) {
		removed := s.store.clearGroup(p)
		if len(removed) == 0 {
			return
		}

		ids := make([]toast.ID, 0, len(removed))
		for _, rec := range removed {
			if t, ok := s.timers[rec.ID]; ok {
				t.cancel()
				delete(s.timers, rec.ID)
			}
			ids = append(ids, rec.ID)

			gone := rec
			b.publish(func(bus *eventbus.EventBus) {
				bus.PublishToastRemoved(eventbus.ToastRemovedPayload{Record: gone, Reason: toast.ReasonCleared})
			})
		}

		s.logger.Debug().Str("position", string(p)).Int("count", len(ids)).Msg("group cleared")
		b.publish(func(bus *eventbus.EventBus) {
			bus.PublishGroupCleared(eventbus.GroupClearedPayload{Position: p, IDs: ids})
		})
		b.changed = true
	})
}

// Pause freezes the countdown of a running toast, as when the pointer
// enters it. Toasts without expiry, unknown ids and toasts that are not
// running are left alone.
func (s *Service) Pause(id toast.ID) {
	s.apply(func(b *batch) {
		t, ok := s.timers[id]
		if !ok {
			return
		}

		switch t.pause(s.clock.Now()) {
		case pausePaused:
			remaining := t.remaining
			b.publish(func(bus *eventbus.EventBus) {
				bus.PublishToastPaused(eventbus.ToastPausedPayload{ID: id, Remaining: remaining})
			})
			b.changed = true
		case pauseExpired:
			s.removeLocked(b, id, toast.ReasonExpired)
		}
	})
}

// Resume restarts a paused countdown with the time it had left.
func (s *Service) Resume(id toast.ID) {
	s.apply(func(b *batch) {
		t, ok := s.timers[id]
		if !ok || t.state != statePaused {
			return
		}

		s.startLocked(id, t)
		remaining := t.remaining
		b.publish(func(bus *eventbus.EventBus) {
			bus.PublishToastResumed(eventbus.ToastResumedPayload{ID: id, Remaining: remaining})
		})
		b.changed = true
	})
}

// Snapshot returns the current records grouped by position. It does not
// touch any countdown.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to receive the snapshot produced by every mutation.
// When mutations race across goroutines a subscriber never receives a
// snapshot older than one it has already seen.
func (s *Service) Subscribe(fn func(Snapshot)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = &subscriber{fn: fn}
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

// Close cancels every countdown. Records stay in place so a final snapshot
// can still be read; Show returns ErrClosed afterwards.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	for _, t := range s.timers {
		t.cancel()
	}
	s.logger.Debug().Int("active", s.store.len()).Msg("toaster closed")
}

func (s *Service) startLocked(id toast.ID, t *timer) {
	fire := func(gen uint64) { s.expire(id, gen) }
	if t.state == statePaused {
		t.resume(s.clock, fire)
		return
	}
	t.start(s.clock, fire)
}

func (s *Service) expire(id toast.ID, gen uint64) {
	s.apply(func(b *batch) {
		t, ok := s.timers[id]
		if !ok || !t.expire(gen) {
			return
		}
		s.removeLocked(b, id, toast.ReasonExpired)
	})
}

func (s *Service) removeLocked(b *batch, id toast.ID, reason toast.Reason) {
	rec, ok := s.store.remove(id)
	if !ok {
		return
	}
	if t, ok := s.timers[id]; ok {
		t.cancel()
		delete(s.timers, id)
	}

	l := logging.ForToast(s.logger, rec)
	l.Debug().Str("reason", string(reason)).Msg("toast removed")
	b.publish(func(bus *eventbus.EventBus) {
		bus.PublishToastRemoved(eventbus.ToastRemovedPayload{Record: rec, Reason: reason})
	})
	b.changed = true
}

func (s *Service) evictLocked(b *batch, p toast.Position) {
	if s.maxPerGroup == 0 {
		return
	}
	group := s.store.group(p)
	for i := 0; i < len(group)-s.maxPerGroup; i++ {
		s.removeLocked(b, group[i].ID, toast.ReasonEvicted)
	}
}

func (s *Service) snapshotLocked() Snapshot {
	return buildSnapshot(s.version, s.store.list(), s.timers, s.clock.Now())
}

func (s *Service) deliver(snap Snapshot) {
	s.subMu.Lock()
	subs := make([]*subscriber, 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.subMu.Unlock()

	for _, sub := range subs {
		sub.offer(snap)
	}
}

// subscriber serializes deliveries to one callback. Offers made while the
// callback runs collapse into the newest pending snapshot, which the running
// goroutine delivers before returning.
type subscriber struct {
	fn func(Snapshot)

	mu       sync.Mutex
	seen     uint64
	pending  *Snapshot
	draining bool
}

func (sub *subscriber) offer(snap Snapshot) {
	sub.mu.Lock()
	if snap.Version <= sub.seen || (sub.pending != nil && snap.Version <= sub.pending.Version) {
		sub.mu.Unlock()
		return
	}
	sub.pending = &snap
	if sub.draining {
		sub.mu.Unlock()
		return
	}
	sub.draining = true

	for sub.pending != nil {
		next := *sub.pending
		sub.pending = nil
		sub.seen = next.Version
		sub.mu.Unlock()

		sub.fn(next)

		sub.mu.Lock()
	}
	sub.draining = false
	sub.mu.Unlock()
}
