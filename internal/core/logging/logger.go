package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hay-kot/toasty/internal/core/toast"
)

// Component creates a new logger with a component identifier.
// Uses the "cmp" key for consistency with zerolog conventions.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}

// ForToast returns a child of l carrying the record's identifying fields.
func ForToast(l zerolog.Logger, rec toast.Record) zerolog.Logger {
	return l.With().
		Stringer("toast_id", rec.ID).
		Str("position", string(rec.Position)).
		Str("status", string(rec.Status)).
		Logger()
}
