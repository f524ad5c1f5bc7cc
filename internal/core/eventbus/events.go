// Package eventbus provides a typed publish/subscribe event bus for toast
// lifecycle events.
package eventbus

import (
	"time"

	"github.com/hay-kot/toasty/internal/core/toast"
)

// Event names a lifecycle event.
type Event string

// Keep list sorted A-Z
const (
	EventGroupCleared  Event = "group.cleared"
	EventToastPaused   Event = "toast.paused"
	EventToastRejected Event = "toast.rejected"
	EventToastRemoved  Event = "toast.removed"
	EventToastResumed  Event = "toast.resumed"
	EventToastShown    Event = "toast.shown"
)

// GroupClearedPayload is emitted when every toast at a position is removed at once.
type GroupClearedPayload struct {
	Position toast.Position
	IDs      []toast.ID
}

// ToastPausedPayload is emitted when a running countdown is paused.
type ToastPausedPayload struct {
	ID        toast.ID
	Remaining time.Duration
}

// ToastRejectedPayload is emitted when a show request fails validation.
type ToastRejectedPayload struct {
	Message string
	Fields  map[string]string
}

// ToastRemovedPayload is emitted once per toast when it leaves the store.
type ToastRemovedPayload struct {
	Record toast.Record
	Reason toast.Reason
}

// ToastResumedPayload is emitted when a paused countdown starts again.
type ToastResumedPayload struct {
	ID        toast.ID
	Remaining time.Duration
}

// ToastShownPayload is emitted when a toast is added to the store.
type ToastShownPayload struct {
	Record toast.Record
}
