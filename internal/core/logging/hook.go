package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook extracts toast_id and position from context and adds them to log events.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == context.Background() || ctx == nil {
		return
	}

	if id, ok := GetToastID(ctx); ok {
		e.Stringer("toast_id", id)
	}

	if p := GetPosition(ctx); p != "" {
		e.Str("position", string(p))
	}
}
