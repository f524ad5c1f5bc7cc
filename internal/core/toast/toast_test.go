package toast

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_defaults(t *testing.T) {
	rec, err := New("Saved")
	require.NoError(t, err)

	assert.NotZero(t, rec.ID)
	assert.Equal(t, "Saved", rec.Message)
	assert.Equal(t, BottomRight, rec.Position)
	assert.Equal(t, 3*time.Second, rec.Duration)
	assert.Equal(t, StatusDefault, rec.Status)
	assert.True(t, rec.Expires())
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestNew_options(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	rec, err := New("Failed!",
		WithPosition(TopCenter),
		WithoutExpiry(),
		WithStatus(StatusError),
		WithCreatedAt(at),
	)
	require.NoError(t, err)

	assert.Equal(t, TopCenter, rec.Position)
	assert.Equal(t, StatusError, rec.Status)
	assert.False(t, rec.Expires())
	assert.Equal(t, at, rec.CreatedAt)
}

func TestNew_configured_defaults(t *testing.T) {
	defaults := Defaults{Position: TopLeft, Duration: 5 * time.Second, Status: StatusWarning}

	rec, err := New("hi", WithDefaults(defaults))
	require.NoError(t, err)
	assert.Equal(t, TopLeft, rec.Position)
	assert.Equal(t, 5*time.Second, rec.Duration)
	assert.Equal(t, StatusWarning, rec.Status)

	// Explicit options win regardless of order.
	rec, err = New("hi", WithPosition(BottomLeft), WithDuration(time.Second), WithDefaults(defaults))
	require.NoError(t, err)
	assert.Equal(t, BottomLeft, rec.Position)
	assert.Equal(t, time.Second, rec.Duration)
}

func TestNew_unique_ids(t *testing.T) {
	seen := map[ID]bool{}
	for range 100 {
		rec, err := New("same message")
		require.NoError(t, err)
		assert.False(t, seen[rec.ID], "duplicate id %d", rec.ID)
		seen[rec.ID] = true
	}
}

func TestNew_validation(t *testing.T) {
	tests := []struct {
		name    string
		message string
		opts    []Option
		field   string
	}{
		{name: "empty message", message: "", field: "message"},
		{name: "whitespace message", message: "   \t", field: "message"},
		{name: "zero duration", message: "x", opts: []Option{WithDuration(0)}, field: "duration"},
		{name: "negative duration", message: "x", opts: []Option{WithDuration(-5 * time.Millisecond)}, field: "duration"},
		{name: "zero millis", message: "x", opts: []Option{WithDurationMillis(0)}, field: "duration"},
		{name: "millis past duration range", message: "x", opts: []Option{WithDurationMillis(MaxDurationMillis + 1)}, field: "duration"},
		{name: "millis wrapping to no expiry", message: "x", opts: []Option{WithDurationMillis(1 << 57)}, field: "duration"},
		{name: "unknown position", message: "x", opts: []Option{WithPosition("middle")}, field: "position"},
		{name: "unknown status", message: "x", opts: []Option{WithStatus("fatal")}, field: "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.message, tt.opts...)
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields(), tt.field)

			var fieldErrs criterio.FieldErrors
			require.ErrorAs(t, err, &fieldErrs)
			assert.Equal(t, tt.field, fieldErrs[0].Field)
		})
	}
}

func TestWithDurationMillis(t *testing.T) {
	rec, err := New("x", WithDurationMillis(1500))
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, rec.Duration)

	rec, err = New("x", WithDurationMillis(MaxDurationMillis))
	require.NoError(t, err)
	assert.True(t, rec.Expires())
	assert.Equal(t, MaxDurationMillis, rec.Duration.Milliseconds())

	// A later option replaces a rejected count.
	rec, err = New("x", WithDurationMillis(-1), WithDuration(time.Second))
	require.NoError(t, err)
	assert.Equal(t, time.Second, rec.Duration)
}

func TestNew_reports_every_field(t *testing.T) {
	_, err := New(" ", WithDuration(-1), WithStatus("nope"))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	fields := verr.Fields()
	assert.Len(t, fields, 3)
	assert.Contains(t, fields, "message")
	assert.Contains(t, fields, "duration")
	assert.Contains(t, fields, "status")
}

func TestParsePosition(t *testing.T) {
	for _, p := range Positions() {
		got, err := ParsePosition(string(p))
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	_, err := ParsePosition("left")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestParseStatus(t *testing.T) {
	got, err := ParseStatus("warning")
	require.NoError(t, err)
	assert.Equal(t, StatusWarning, got)

	_, err = ParseStatus("")
	assert.Error(t, err)
}

func TestPosition_IsTop(t *testing.T) {
	assert.True(t, TopCenter.IsTop())
	assert.False(t, BottomCenter.IsTop())
}

func TestPositions_returns_copy(t *testing.T) {
	ps := Positions()
	require.Len(t, ps, 6)
	ps[0] = "mutated"
	assert.Equal(t, TopLeft, Positions()[0])
}

func TestRecord_MarshalJSON(t *testing.T) {
	rec, err := New("hello", WithDuration(1500*time.Millisecond))
	require.NoError(t, err)

	bits, err := json.Marshal(rec)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(bits, &out))
	assert.InDelta(t, 1500, out["duration_ms"], 0)
	assert.Equal(t, "bottom-right", out["position"])

	rec, err = New("sticky", WithoutExpiry())
	require.NoError(t, err)
	bits, err = json.Marshal(rec)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(bits, &out))
	assert.Nil(t, out["duration_ms"])
}

func TestParseID(t *testing.T) {
	id, err := ParseID("42")
	require.NoError(t, err)
	assert.Equal(t, ID(42), id)
	assert.Equal(t, "42", id.String())

	_, err = ParseID("abc")
	assert.Error(t, err)
}
