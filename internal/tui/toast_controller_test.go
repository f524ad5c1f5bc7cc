package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/toasty/internal/core/toast"
)

func TestToastController_NextWrapsAcrossGroups(t *testing.T) {
	svc, _ := newTestService(t)
	c := NewToastController(svc)

	br, err := svc.Show("br", toast.WithPosition(toast.BottomRight))
	require.NoError(t, err)
	tl, err := svc.Show("tl", toast.WithPosition(toast.TopLeft))
	require.NoError(t, err)
	c.Refresh()

	// On-screen order follows anchors, not insertion.
	c.Next()
	v, ok := c.Focused()
	require.True(t, ok)
	assert.Equal(t, tl.ID, v.Toast.ID)

	c.Next()
	v, _ = c.Focused()
	assert.Equal(t, br.ID, v.Toast.ID)

	c.Next()
	v, _ = c.Focused()
	assert.Equal(t, tl.ID, v.Toast.ID)

	c.Prev()
	v, _ = c.Focused()
	assert.Equal(t, br.ID, v.Toast.ID)
}

func TestToastController_PrevFromNothingFocusesLast(t *testing.T) {
	svc, _ := newTestService(t)
	c := NewToastController(svc)

	_, err := svc.Show("a")
	require.NoError(t, err)
	last, err := svc.Show("b")
	require.NoError(t, err)
	c.Refresh()

	c.Prev()
	assert.True(t, c.IsFocused(last.ID))
}

func TestToastController_NextWithNoToasts(t *testing.T) {
	svc, _ := newTestService(t)
	c := NewToastController(svc)

	c.Next()
	_, ok := c.Focused()
	assert.False(t, ok)
}

func TestToastController_FocusLostWhenRemovedElsewhere(t *testing.T) {
	svc, _ := newTestService(t)
	c := NewToastController(svc)

	rec, err := svc.Show("a")
	require.NoError(t, err)
	c.Refresh()
	c.Next()
	require.True(t, c.IsFocused(rec.ID))

	svc.Dismiss(rec.ID)
	c.Refresh()

	_, ok := c.Focused()
	assert.False(t, ok)
}

func TestToastController_DismissAndClearNeedFocus(t *testing.T) {
	svc, _ := newTestService(t)
	c := NewToastController(svc)

	_, err := svc.Show("a")
	require.NoError(t, err)
	_, err = svc.Show("b")
	require.NoError(t, err)
	c.Refresh()

	assert.False(t, c.DismissFocused())
	assert.False(t, c.ClearFocusedGroup())
	assert.Equal(t, 2, svc.Snapshot().Len())

	c.Next()
	assert.True(t, c.ClearFocusedGroup())
	assert.Equal(t, 0, svc.Snapshot().Len())
}
