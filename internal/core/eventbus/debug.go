package eventbus

import (
	"fmt"

	"github.com/rs/zerolog"
)

// RegisterDebugLogger registers bus hooks that log all event activity at debug level.
// Dropped events are logged at warn and subscriber panics at error.
func RegisterDebugLogger(bus *EventBus, logger zerolog.Logger) {
	bus.OnPublish(func(event Event, payload any) {
		e := logger.Debug().Str("event", string(event))
		switch p := payload.(type) {
		case ToastShownPayload:
			e = e.Stringer("toast_id", p.Record.ID).Str("position", string(p.Record.Position))
		case ToastRemovedPayload:
			e = e.Stringer("toast_id", p.Record.ID).Str("reason", string(p.Reason))
		case ToastPausedPayload:
			e = e.Stringer("toast_id", p.ID).Dur("remaining", p.Remaining)
		case ToastResumedPayload:
			e = e.Stringer("toast_id", p.ID).Dur("remaining", p.Remaining)
		case GroupClearedPayload:
			e = e.Str("position", string(p.Position)).Int("count", len(p.IDs))
		}
		e.Msg("event fired")
	})

	bus.OnDrop(func(event Event, _ any) {
		logger.Warn().Str("event", string(event)).Msg("event dropped: buffer full")
	})

	bus.OnPanic(func(event Event, _ any, recovered any) {
		logger.Error().
			Str("event", string(event)).
			Str("panic", fmt.Sprint(recovered)).
			Msg("subscriber panicked")
	})
}
