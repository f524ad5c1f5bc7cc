package eventbus

import (
	"context"
	"sync"
)

type envelope struct {
	event   Event
	payload any
}

// EventBus delivers events to subscribers on a single dispatch goroutine, in
// publish order. Publishing never blocks: when the buffer is full the event
// is dropped and the OnDrop hooks fire.
type EventBus struct {
	ch    chan envelope
	hooks hooks

	mu   sync.RWMutex
	subs map[Event][]func(any)
}

// New creates a bus with the given buffer size. Start must be called for
// events to be delivered.
func New(buffer int) *EventBus {
	if buffer <= 0 {
		buffer = 64
	}
	return &EventBus{
		ch:   make(chan envelope, buffer),
		subs: make(map[Event][]func(any)),
	}
}

// Start dispatches events until ctx is canceled.
func (bus *EventBus) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-bus.ch:
			bus.dispatch(env)
		}
	}
}

func (bus *EventBus) dispatch(env envelope) {
	bus.mu.RLock()
	subs := make([]func(any), len(bus.subs[env.event]))
	copy(subs, bus.subs[env.event])
	bus.mu.RUnlock()

	for _, fn := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					bus.runOnPanic(env.event, env.payload, r)
				}
			}()
			fn(env.payload)
		}()
	}
}

func (bus *EventBus) subscribe(event Event, fn func(any)) {
	bus.mu.Lock()
	bus.subs[event] = append(bus.subs[event], fn)
	bus.mu.Unlock()

	for _, h := range copyHooks(&bus.hooks.mu, &bus.hooks.onSubscribe) {
		h(event)
	}
}

// Typed publish/subscribe pairs, one per event.

func (bus *EventBus) PublishGroupCleared(p GroupClearedPayload) { bus.send(EventGroupCleared, p) }

func (bus *EventBus) SubscribeGroupCleared(fn func(GroupClearedPayload)) {
	bus.subscribe(EventGroupCleared, func(p any) { fn(p.(GroupClearedPayload)) })
}

func (bus *EventBus) PublishToastPaused(p ToastPausedPayload) { bus.send(EventToastPaused, p) }

func (bus *EventBus) SubscribeToastPaused(fn func(ToastPausedPayload)) {
	bus.subscribe(EventToastPaused, func(p any) { fn(p.(ToastPausedPayload)) })
}

func (bus *EventBus) PublishToastRejected(p ToastRejectedPayload) { bus.send(EventToastRejected, p) }

func (bus *EventBus) SubscribeToastRejected(fn func(ToastRejectedPayload)) {
	bus.subscribe(EventToastRejected, func(p any) { fn(p.(ToastRejectedPayload)) })
}

func (bus *EventBus) PublishToastRemoved(p ToastRemovedPayload) { bus.send(EventToastRemoved, p) }

func (bus *EventBus) SubscribeToastRemoved(fn func(ToastRemovedPayload)) {
	bus.subscribe(EventToastRemoved, func(p any) { fn(p.(ToastRemovedPayload)) })
}

func (bus *EventBus) PublishToastResumed(p ToastResumedPayload) { bus.send(EventToastResumed, p) }

func (bus *EventBus) SubscribeToastResumed(fn func(ToastResumedPayload)) {
	bus.subscribe(EventToastResumed, func(p any) { fn(p.(ToastResumedPayload)) })
}

func (bus *EventBus) PublishToastShown(p ToastShownPayload) { bus.send(EventToastShown, p) }

func (bus *EventBus) SubscribeToastShown(fn func(ToastShownPayload)) {
	bus.subscribe(EventToastShown, func(p any) { fn(p.(ToastShownPayload)) })
}
