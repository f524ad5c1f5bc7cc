package tuitest

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestStripANSI(t *testing.T) {
	in := "\x1b[31mred\x1b[0m   \nplain  \n\n"
	assert.Equal(t, "red\nplain", StripANSI(in))
}

func TestKeyPress(t *testing.T) {
	msg, ok := KeyPress('x').(tea.KeyMsg)
	assert.True(t, ok)
	assert.Equal(t, "x", msg.String())

	assert.Equal(t, "tab", KeyTab().(tea.KeyMsg).String())
	assert.Equal(t, "esc", KeyEsc().(tea.KeyMsg).String())
	assert.Equal(t, "enter", KeyEnter().(tea.KeyMsg).String())
}
