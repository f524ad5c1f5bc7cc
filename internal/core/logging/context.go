package logging

import (
	"context"

	"github.com/hay-kot/toasty/internal/core/toast"
)

type contextKey string

const (
	toastIDKey  contextKey = "toast_id"
	positionKey contextKey = "position"
)

// WithToastID adds a toast ID to the context.
func WithToastID(ctx context.Context, id toast.ID) context.Context {
	return context.WithValue(ctx, toastIDKey, id)
}

// WithPosition adds a toast position to the context.
func WithPosition(ctx context.Context, p toast.Position) context.Context {
	return context.WithValue(ctx, positionKey, p)
}

// GetToastID retrieves the toast ID from the context.
func GetToastID(ctx context.Context) (toast.ID, bool) {
	id, ok := ctx.Value(toastIDKey).(toast.ID)
	return id, ok
}

// GetPosition retrieves the position from the context.
// Returns the empty position if not present.
func GetPosition(ctx context.Context) toast.Position {
	if p, ok := ctx.Value(positionKey).(toast.Position); ok {
		return p
	}
	return ""
}
