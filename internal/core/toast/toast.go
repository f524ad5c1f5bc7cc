// Package toast defines the toast notification record and its validated factory.
package toast

import (
	"encoding/json"
	"math"
	"strconv"
	"sync/atomic"
	"time"
)

// ID identifies a toast. IDs are handed out from a process-wide counter and
// are never reused.
type ID uint64

func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseID parses the decimal form produced by ID.String.
func ParseID(s string) (ID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return ID(v), nil
}

var lastID atomic.Uint64

func nextID() ID {
	return ID(lastID.Add(1))
}

// NoExpiry is the duration of a toast that is never dismissed automatically.
const NoExpiry time.Duration = math.MinInt64

// DefaultDuration is the auto-dismiss delay used when none is given.
const DefaultDuration = 3 * time.Second

// Record is a single toast. Records are values: the engine only ever hands out
// copies, and nothing about a record changes after it is created.
type Record struct {
	ID        ID
	Message   string
	Position  Position
	Duration  time.Duration
	Status    Status
	CreatedAt time.Time
}

// Expires reports whether the record has an auto-dismiss timer.
func (r Record) Expires() bool {
	return r.Duration != NoExpiry
}

type recordJSON struct {
	ID         ID        `json:"id"`
	Message    string    `json:"message"`
	Position   Position  `json:"position"`
	DurationMS *int64    `json:"duration_ms"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// MarshalJSON encodes the duration in milliseconds, with null for NoExpiry.
func (r Record) MarshalJSON() ([]byte, error) {
	out := recordJSON{
		ID:        r.ID,
		Message:   r.Message,
		Position:  r.Position,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
	}
	if r.Expires() {
		ms := r.Duration.Milliseconds()
		out.DurationMS = &ms
	}
	return json.Marshal(out)
}
