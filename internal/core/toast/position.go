package toast

import (
	"fmt"
	"strings"
)

// Position is the screen anchor a toast stacks at.
type Position string

const (
	TopLeft      Position = "top-left"
	TopCenter    Position = "top-center"
	TopRight     Position = "top-right"
	BottomLeft   Position = "bottom-left"
	BottomCenter Position = "bottom-center"
	BottomRight  Position = "bottom-right"
)

// DefaultPosition is used when no position is given.
const DefaultPosition = BottomRight

var positions = []Position{TopLeft, TopCenter, TopRight, BottomLeft, BottomCenter, BottomRight}

// Positions returns every anchor in display order: the top row left to
// right, then the bottom row.
func Positions() []Position {
	out := make([]Position, len(positions))
	copy(out, positions)
	return out
}

// Valid reports whether p is one of the six anchors.
func (p Position) Valid() bool {
	for _, v := range positions {
		if v == p {
			return true
		}
	}
	return false
}

// IsTop reports whether the anchor sits on the top edge.
func (p Position) IsTop() bool {
	return strings.HasPrefix(string(p), "top-")
}

// ParsePosition parses an anchor name. The empty string is rejected; callers
// that want the default should not parse at all.
func ParsePosition(s string) (Position, error) {
	p := Position(strings.TrimSpace(s))
	if !p.Valid() {
		return "", newValidationError("position", fmt.Errorf("unknown position %q", s))
	}
	return p, nil
}

// Status is the presentational severity of a toast.
type Status string

const (
	StatusDefault Status = "default"
	StatusSuccess Status = "success"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDefault, StatusSuccess, StatusWarning, StatusError:
		return true
	}
	return false
}

// ParseStatus parses a status name.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.TrimSpace(s))
	if !st.Valid() {
		return "", newValidationError("status", fmt.Errorf("unknown status %q", s))
	}
	return st, nil
}
