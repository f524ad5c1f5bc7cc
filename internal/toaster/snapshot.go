package toaster

import (
	"encoding/json"
	"time"

	"github.com/hay-kot/toasty/internal/core/toast"
)

// Placement says where a group's "clear all" control sits relative to its
// stack. Top anchors put it below the toasts, bottom anchors above them, so
// it always sits on the side facing the middle of the screen.
type Placement string

const (
	PlacementAbove Placement = "above"
	PlacementBelow Placement = "below"
)

// ToastView is a record plus its countdown state at snapshot time.
type ToastView struct {
	Toast     toast.Record
	Paused    bool
	Remaining time.Duration // toast.NoExpiry when the record never expires
	Progress  float64       // elapsed fraction of the duration, 0 for no-expiry records
}

func (v ToastView) MarshalJSON() ([]byte, error) {
	out := struct {
		Toast       toast.Record `json:"toast"`
		Paused      bool         `json:"paused"`
		RemainingMS *int64       `json:"remaining_ms"`
		Progress    float64      `json:"progress"`
	}{
		Toast:    v.Toast,
		Paused:   v.Paused,
		Progress: v.Progress,
	}
	if v.Toast.Expires() {
		ms := v.Remaining.Milliseconds()
		out.RemainingMS = &ms
	}
	return json.Marshal(out)
}

// Group is the stack of toasts at one position.
type Group struct {
	Position          toast.Position `json:"position"`
	Toasts            []ToastView    `json:"toasts"`
	ShowClearAll      bool           `json:"show_clear_all"`
	ClearAllPlacement Placement      `json:"clear_all_placement"`
}

// Visible reports whether the group has anything to render.
func (g Group) Visible() bool {
	return len(g.Toasts) > 0
}

// Snapshot is a consistent view of the engine. Version increases with every
// mutation.
type Snapshot struct {
	Version uint64      `json:"version"`
	Toasts  []ToastView `json:"toasts"`
	Groups  []Group     `json:"groups"`
}

// Group returns the group at p. Empty positions are not part of a snapshot.
func (s Snapshot) Group(p toast.Position) (Group, bool) {
	for _, g := range s.Groups {
		if g.Position == p {
			return g, true
		}
	}
	return Group{}, false
}

// Len returns the number of active toasts.
func (s Snapshot) Len() int {
	return len(s.Toasts)
}

// Find returns the view of the toast with the given id.
func (s Snapshot) Find(id toast.ID) (ToastView, bool) {
	for _, v := range s.Toasts {
		if v.Toast.ID == id {
			return v, true
		}
	}
	return ToastView{}, false
}

func buildSnapshot(version uint64, records []toast.Record, timers map[toast.ID]*timer, now time.Time) Snapshot {
	snap := Snapshot{
		Version: version,
		Toasts:  make([]ToastView, 0, len(records)),
	}

	byPos := make(map[toast.Position][]ToastView, 6)
	for _, rec := range records {
		v := ToastView{Toast: rec, Remaining: rec.Duration}
		if t, ok := timers[rec.ID]; ok {
			v.Paused = t.state == statePaused
			v.Remaining = t.remainingAt(now)
			v.Progress = t.progress(now)
		}
		snap.Toasts = append(snap.Toasts, v)
		byPos[rec.Position] = append(byPos[rec.Position], v)
	}

	for _, p := range toast.Positions() {
		views := byPos[p]
		if len(views) == 0 {
			continue
		}
		placement := PlacementAbove
		if p.IsTop() {
			placement = PlacementBelow
		}
		snap.Groups = append(snap.Groups, Group{
			Position:          p,
			Toasts:            views,
			ShowClearAll:      len(views) >= 2,
			ClearAllPlacement: placement,
		})
	}

	return snap
}
