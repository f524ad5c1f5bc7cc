package toast

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/hay-kot/criterio"
)

// ValidationError is returned by New when the request cannot produce a
// record. It unwraps to criterio.FieldErrors.
type ValidationError struct {
	errs error
}

func newValidationError(field string, err error) *ValidationError {
	return &ValidationError{errs: criterio.NewFieldErrors(field, err)}
}

func (e *ValidationError) Error() string {
	return "invalid toast: " + e.errs.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.errs
}

// Fields returns the failing fields mapped to their error text.
func (e *ValidationError) Fields() map[string]string {
	out := map[string]string{}

	var fieldErrs criterio.FieldErrors
	if errors.As(e.errs, &fieldErrs) {
		for _, fe := range fieldErrs {
			out[fe.Field] = fe.Err.Error()
		}
		return out
	}

	out["toast"] = e.errs.Error()
	return out
}

// Defaults are the values applied to options a caller leaves out.
type Defaults struct {
	Position Position
	Duration time.Duration
	Status   Status
}

type settings struct {
	defaults    Defaults
	position    Position
	status      Status
	duration    time.Duration
	durationErr error
	hasDuration bool
	createdAt   time.Time
}

// Option customizes a record built by New.
type Option func(*settings)

// WithPosition sets the anchor. The empty position means the default.
func WithPosition(p Position) Option {
	return func(s *settings) { s.position = p }
}

// WithDuration sets the auto-dismiss delay. It must be positive, or NoExpiry.
func WithDuration(d time.Duration) Option {
	return func(s *settings) {
		s.duration = d
		s.durationErr = nil
		s.hasDuration = true
	}
}

// MaxDurationMillis is the largest millisecond count a time.Duration can hold.
const MaxDurationMillis = math.MaxInt64 / int64(time.Millisecond)

// WithDurationMillis sets the auto-dismiss delay from a millisecond count,
// as received from external input. Counts that are not positive or do not
// fit a time.Duration fail validation on the duration field.
func WithDurationMillis(ms int64) Option {
	return func(s *settings) {
		s.hasDuration = true
		s.duration = 0
		switch {
		case ms > MaxDurationMillis:
			s.durationErr = fmt.Errorf("must be at most %dms, got %dms", MaxDurationMillis, ms)
		case ms <= 0:
			s.durationErr = fmt.Errorf("must be positive, got %dms", ms)
		default:
			s.duration = time.Duration(ms) * time.Millisecond
			s.durationErr = nil
		}
	}
}

// WithoutExpiry keeps the toast until it is dismissed or its group is cleared.
func WithoutExpiry() Option {
	return WithDuration(NoExpiry)
}

// WithStatus sets the severity. The empty status means the default.
func WithStatus(st Status) Option {
	return func(s *settings) { s.status = st }
}

// WithDefaults replaces the package defaults for options that are not set.
func WithDefaults(d Defaults) Option {
	return func(s *settings) { s.defaults = d }
}

// WithCreatedAt stamps the record with t instead of the wall clock.
func WithCreatedAt(t time.Time) Option {
	return func(s *settings) { s.createdAt = t }
}

// New validates the request and builds a record with a fresh ID. It does not
// register the record anywhere.
func New(message string, opts ...Option) (Record, error) {
	s := settings{}
	for _, opt := range opts {
		opt(&s)
	}

	position := s.position
	if position == "" {
		position = s.defaults.Position
	}
	if position == "" {
		position = DefaultPosition
	}

	status := s.status
	if status == "" {
		status = s.defaults.Status
	}
	if status == "" {
		status = StatusDefault
	}

	duration := s.duration
	if !s.hasDuration {
		duration = s.defaults.Duration
		if duration == 0 {
			duration = DefaultDuration
		}
	}

	var errs criterio.FieldErrorsBuilder
	if err := notBlank(message); err != nil {
		errs = errs.Append("message", err)
	}
	if s.durationErr != nil {
		errs = errs.Append("duration", s.durationErr)
	} else if duration != NoExpiry && duration <= 0 {
		errs = errs.Append("duration", fmt.Errorf("must be positive, got %s", duration))
	}
	if !position.Valid() {
		errs = errs.Append("position", fmt.Errorf("unknown position %q", position))
	}
	if !status.Valid() {
		errs = errs.Append("status", fmt.Errorf("unknown status %q", status))
	}
	if err := errs.ToError(); err != nil {
		return Record{}, &ValidationError{errs: err}
	}

	createdAt := s.createdAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return Record{
		ID:        nextID(),
		Message:   message,
		Position:  position,
		Duration:  duration,
		Status:    status,
		CreatedAt: createdAt,
	}, nil
}

func notBlank(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("must not be empty")
	}
	return nil
}
