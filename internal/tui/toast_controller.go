package tui

import (
	"github.com/hay-kot/toasty/internal/core/toast"
	"github.com/hay-kot/toasty/internal/toaster"
)

// ToastController tracks the latest snapshot and which toast has focus.
// Focus stands in for the pointer: the focused toast is paused, and moving
// focus away resumes it.
type ToastController struct {
	engine   toaster.Engine
	snap     toaster.Snapshot
	focused  toast.ID
	hasFocus bool
}

func NewToastController(engine toaster.Engine) *ToastController {
	return &ToastController{
		engine: engine,
		snap:   engine.Snapshot(),
	}
}

// Apply replaces the snapshot unless it is older than the current one. A
// focused toast that left the store loses focus.
func (c *ToastController) Apply(snap toaster.Snapshot) {
	if snap.Version < c.snap.Version {
		return
	}
	c.snap = snap
	if c.hasFocus {
		if _, ok := snap.Find(c.focused); !ok {
			c.hasFocus = false
		}
	}
}

// Refresh re-reads the snapshot so countdowns advance on screen.
func (c *ToastController) Refresh() {
	c.Apply(c.engine.Snapshot())
}

func (c *ToastController) Snapshot() toaster.Snapshot {
	return c.snap
}

// Focused returns the focused toast.
func (c *ToastController) Focused() (toaster.ToastView, bool) {
	if !c.hasFocus {
		return toaster.ToastView{}, false
	}
	return c.snap.Find(c.focused)
}

// IsFocused reports whether id has focus.
func (c *ToastController) IsFocused(id toast.ID) bool {
	return c.hasFocus && c.focused == id
}

// order lists toast ids in on-screen order: groups in anchor order, then
// each stack oldest first.
func (c *ToastController) order() []toast.ID {
	ids := make([]toast.ID, 0, c.snap.Len())
	for _, g := range c.snap.Groups {
		for _, v := range g.Toasts {
			ids = append(ids, v.Toast.ID)
		}
	}
	return ids
}

// Next moves focus to the following toast, wrapping around.
func (c *ToastController) Next() {
	c.step(1)
}

// Prev moves focus to the preceding toast, wrapping around.
func (c *ToastController) Prev() {
	c.step(-1)
}

func (c *ToastController) step(delta int) {
	ids := c.order()
	if len(ids) == 0 {
		c.Blur()
		return
	}

	idx := -1
	if c.hasFocus {
		for i, id := range ids {
			if id == c.focused {
				idx = i
				break
			}
		}
	}

	var next int
	switch {
	case idx == -1 && delta > 0:
		next = 0
	case idx == -1:
		next = len(ids) - 1
	default:
		next = (idx + delta + len(ids)) % len(ids)
	}
	c.focus(ids[next])
}

func (c *ToastController) focus(id toast.ID) {
	if c.hasFocus && c.focused == id {
		return
	}
	if c.hasFocus {
		c.engine.Resume(c.focused)
	}
	c.focused = id
	c.hasFocus = true
	c.engine.Pause(id)
	c.Refresh()
}

// Blur drops focus and resumes the toast that had it.
func (c *ToastController) Blur() {
	if !c.hasFocus {
		return
	}
	c.hasFocus = false
	c.engine.Resume(c.focused)
	c.Refresh()
}

// DismissFocused closes the focused toast.
func (c *ToastController) DismissFocused() bool {
	v, ok := c.Focused()
	if !ok {
		return false
	}
	c.hasFocus = false
	c.engine.Dismiss(v.Toast.ID)
	c.Refresh()
	return true
}

// ClearFocusedGroup clears the group holding the focused toast. The control
// is only offered for groups of two or more, so smaller groups are left
// alone.
func (c *ToastController) ClearFocusedGroup() bool {
	v, ok := c.Focused()
	if !ok {
		return false
	}
	g, ok := c.snap.Group(v.Toast.Position)
	if !ok || !g.ShowClearAll {
		return false
	}
	c.hasFocus = false
	c.engine.ClearGroup(g.Position)
	c.Refresh()
	return true
}
