// Package tui implements the Bubble Tea TUI for toasty.
package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/hay-kot/toasty/internal/core/logging"
	"github.com/hay-kot/toasty/internal/core/styles"
	"github.com/hay-kot/toasty/internal/core/toast"
	"github.com/hay-kot/toasty/internal/toaster"
	"github.com/hay-kot/toasty/internal/tui/notify"
)

const footerHeight = 2

// Options configures the TUI behavior.
type Options struct {
	CardWidth int            // toast card width in cells
	Tick      time.Duration  // progress refresh interval
	NerdIcons bool           // use nerd font glyphs instead of plain ones
	Defaults  toast.Defaults // prefilled values for the compose form
	Logger    *zerolog.Logger // defaults to the "tui" component logger
}

func (o Options) withDefaults() Options {
	if o.CardWidth <= 0 {
		o.CardWidth = 44
	}
	if o.Tick <= 0 {
		o.Tick = 100 * time.Millisecond
	}
	return o
}

type demoToast struct {
	message string
	status  toast.Status
}

var demoToasts = []demoToast{
	{"Changes saved", toast.StatusSuccess},
	{"New message from the build server", toast.StatusDefault},
	{"Battery below 15%", toast.StatusWarning},
	{"Upload failed: connection reset", toast.StatusError},
}

// Model is the Bubble Tea model for the toast playground.
type Model struct {
	engine     toaster.Engine
	relay      *notify.Relay
	opts       Options
	logger     zerolog.Logger
	keys       keyMap
	help       help.Model
	controller *ToastController
	view       *ToastView

	compose       *huh.Form
	composeValues *composeValues

	width, height int
	demoSeq       int
	status        string
	statusErr     bool
	quitting      bool
}

// New creates a Model over engine. Close must be called once the program
// exits.
func New(engine toaster.Engine, opts Options) Model {
	opts = opts.withDefaults()

	logger := logging.Component("tui")
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	controller := NewToastController(engine)

	return Model{
		engine:     engine,
		relay:      notify.NewRelay(engine),
		opts:       opts,
		logger:     logger,
		keys:       defaultKeyMap(),
		help:       help.New(),
		controller: controller,
		view:       NewToastView(controller, opts.CardWidth, opts.NerdIcons),
	}
}

// Close releases the engine subscription and resumes any toast left paused
// by focus.
func (m Model) Close() {
	m.controller.Blur()
	m.relay.Close()
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.relay.Wait(), scheduleToastTick(m.opts.Tick))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil
	case notify.SnapshotMsg:
		m.controller.Apply(msg.Snapshot)
		return m, m.relay.Wait()
	case toastTickMsg:
		m.controller.Refresh()
		return m, scheduleToastTick(m.opts.Tick)
	}

	if m.compose != nil {
		return m.updateCompose(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.controller.Blur()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Demo):
		return m.showDemo(msg.String())
	case key.Matches(msg, m.keys.Compose):
		return m.openCompose()
	case key.Matches(msg, m.keys.Next):
		m.controller.Next()
	case key.Matches(msg, m.keys.Prev):
		m.controller.Prev()
	case key.Matches(msg, m.keys.Blur):
		m.controller.Blur()
	case key.Matches(msg, m.keys.Dismiss):
		if v, ok := m.controller.Focused(); ok && m.controller.DismissFocused() {
			m.setStatus(fmt.Sprintf("dismissed #%s", v.Toast.ID))
		}
	case key.Matches(msg, m.keys.Clear):
		if v, ok := m.controller.Focused(); ok {
			if m.controller.ClearFocusedGroup() {
				m.setStatus(fmt.Sprintf("cleared %s", v.Toast.Position))
			} else {
				m.setStatus("clear all needs two or more toasts in the group")
			}
		}
	}
	return m, nil
}

func (m Model) showDemo(keyStr string) (tea.Model, tea.Cmd) {
	idx := int(keyStr[0] - '1')
	positions := toast.Positions()
	if idx < 0 || idx >= len(positions) {
		return m, nil
	}

	demo := demoToasts[m.demoSeq%len(demoToasts)]
	m.demoSeq++

	rec, err := m.engine.Show(demo.message,
		toast.WithPosition(positions[idx]),
		toast.WithStatus(demo.status),
	)
	if err != nil {
		m.setError(err)
		return m, nil
	}

	m.controller.Refresh()
	m.setStatus(fmt.Sprintf("shown #%s at %s", rec.ID, rec.Position))
	return m, nil
}

func (m Model) openCompose() (tea.Model, tea.Cmd) {
	m.controller.Blur()
	m.composeValues = newComposeValues(m.opts.Defaults)
	m.compose = newComposeForm(m.composeValues, m.opts.CardWidth+8)
	return m, m.compose.Init()
}

func (m Model) updateCompose(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.compose.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.compose = f
	}

	switch m.compose.State {
	case huh.StateCompleted:
		m.submitCompose()
		m.compose, m.composeValues = nil, nil
		return m, nil
	case huh.StateAborted:
		m.compose, m.composeValues = nil, nil
		m.setStatus("compose cancelled")
		return m, nil
	}
	return m, cmd
}

func (m *Model) submitCompose() {
	opts, err := m.composeValues.options()
	if err != nil {
		m.setError(err)
		return
	}

	rec, err := m.engine.Show(m.composeValues.Message, opts...)
	if err != nil {
		m.setError(err)
		return
	}

	m.controller.Refresh()
	m.setStatus(fmt.Sprintf("shown #%s at %s", rec.ID, rec.Position))
}

func (m *Model) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *Model) setError(err error) {
	var verr *toast.ValidationError
	if errors.As(err, &verr) {
		m.logger.Debug().Err(err).Msg("show rejected")
	} else {
		m.logger.Error().Err(err).Msg("show failed")
	}
	m.status, m.statusErr = err.Error(), true
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	bodyH := max(m.height-footerHeight, 0)

	var body string
	if m.compose != nil {
		modal := styles.ModalStyle.Render(
			styles.ModalTitleStyle.Render("New toast") + "\n\n" + m.compose.View(),
		)
		if m.width > 0 && bodyH > 0 {
			body = lipgloss.Place(m.width, bodyH, lipgloss.Center, lipgloss.Center, modal)
		} else {
			body = modal
		}
	} else {
		body = m.view.View(m.width, bodyH)
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, m.statusLine(), m.help.View(m.keys))
}

func (m Model) statusLine() string {
	snap := m.controller.Snapshot()

	line := fmt.Sprintf("%d active", snap.Len())
	if v, ok := m.controller.Focused(); ok {
		line += fmt.Sprintf(" · focus #%s", v.Toast.ID)
	}
	if m.status == "" {
		return styles.StatusBarStyle.Render(line)
	}
	if m.statusErr {
		return styles.StatusBarStyle.Render(line+" · ") + styles.StatusBarErrorStyle.Render(m.status)
	}
	return styles.StatusBarStyle.Render(line + " · " + m.status)
}
