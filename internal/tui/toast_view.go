package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/toasty/internal/core/styles"
	"github.com/hay-kot/toasty/internal/core/toast"
	"github.com/hay-kot/toasty/internal/toaster"
)

type toastTickMsg time.Time

func scheduleToastTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return toastTickMsg(t)
	})
}

// ToastView renders the six anchor groups as a 2x3 grid.
type ToastView struct {
	controller *ToastController
	bar        progress.Model
	cardWidth  int
	nerdIcons  bool
}

func NewToastView(controller *ToastController, cardWidth int, nerdIcons bool) *ToastView {
	return &ToastView{
		controller: controller,
		bar:        progress.New(progress.WithoutPercentage(), progress.WithSolidFill(string(styles.ColorPrimary))),
		cardWidth:  cardWidth,
		nerdIcons:  nerdIcons,
	}
}

var gridRows = [2][3]toast.Position{
	{toast.TopLeft, toast.TopCenter, toast.TopRight},
	{toast.BottomLeft, toast.BottomCenter, toast.BottomRight},
}

func align(p toast.Position) lipgloss.Position {
	switch p {
	case toast.TopLeft, toast.BottomLeft:
		return lipgloss.Left
	case toast.TopCenter, toast.BottomCenter:
		return lipgloss.Center
	default:
		return lipgloss.Right
	}
}

// View renders the grid into width x height cells. A zero size renders each
// group at its natural size.
func (v *ToastView) View(width, height int) string {
	snap := v.controller.Snapshot()

	cellW := v.cardWidth + 2
	if width > 0 {
		cellW = max(width/3, 1)
	}
	cardW := min(v.cardWidth, max(cellW-2, 10))

	rows := make([]string, 0, 2)
	for r, row := range gridRows {
		rowH := 0
		if height > 0 {
			rowH = height / 2
			if r == 1 {
				rowH = height - height/2
			}
		}

		vAlign := lipgloss.Top
		if r == 1 {
			vAlign = lipgloss.Bottom
		}

		cells := make([]string, 0, 3)
		for _, p := range row {
			content := ""
			if g, ok := snap.Group(p); ok {
				content = v.renderGroup(g, cardW)
			}
			if rowH > 0 {
				cells = append(cells, lipgloss.Place(cellW, rowH, align(p), vAlign, content))
			} else {
				cells = append(cells, lipgloss.PlaceHorizontal(cellW, align(p), content))
			}
		}
		rows = append(rows, lipgloss.JoinHorizontal(vAlign, cells...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderGroup stacks the group's toasts oldest first. The clear-all control
// sits on the side facing the middle of the screen.
func (v *ToastView) renderGroup(g toaster.Group, cardW int) string {
	parts := make([]string, 0, len(g.Toasts)+1)
	for _, tv := range g.Toasts {
		parts = append(parts, v.renderToast(tv, cardW))
	}

	if g.ShowClearAll {
		button := v.renderClearAll(g)
		if g.ClearAllPlacement == toaster.PlacementAbove {
			parts = append([]string{button}, parts...)
		} else {
			parts = append(parts, button)
		}
	}

	return lipgloss.JoinVertical(align(g.Position), parts...)
}

func (v *ToastView) renderClearAll(g toaster.Group) string {
	icon := styles.PlainClear
	if v.nerdIcons {
		icon = styles.IconClear
	}
	label := fmt.Sprintf("%s Clear all (%d)", icon, len(g.Toasts))

	if f, ok := v.controller.Focused(); ok && f.Toast.Position == g.Position {
		return styles.ClearAllFocusedStyle.Render(label + " [c]")
	}
	return styles.ClearAllStyle.Render(label)
}

func (v *ToastView) renderToast(tv toaster.ToastView, cardW int) string {
	rec := tv.Toast
	focused := v.controller.IsFocused(rec.ID)
	style := styles.ToastStyle(rec.Status, focused)
	inner := max(cardW-style.GetHorizontalFrameSize(), 1)

	icon := lipgloss.NewStyle().Foreground(styles.StatusColor(rec.Status)).Render(styles.StatusIcon(rec.Status, v.nerdIcons))
	msg := styles.ToastMessageStyle.Width(max(inner-lipgloss.Width(icon)-1, 1)).Render(rec.Message)
	lines := []string{lipgloss.JoinHorizontal(lipgloss.Top, icon, " ", msg)}

	lines = append(lines, v.renderMeta(tv, inner))

	return style.Width(cardW - style.GetHorizontalBorderSize()).Render(strings.Join(lines, "\n"))
}

func (v *ToastView) renderMeta(tv toaster.ToastView, inner int) string {
	var marker string
	if tv.Paused {
		icon := styles.PlainPause
		if v.nerdIcons {
			icon = styles.IconPause
		}
		marker = styles.ToastPausedStyle.Render(icon + " paused")
	}

	if !tv.Toast.Expires() {
		meta := styles.ToastMetaStyle.Render("no expiry")
		if marker != "" {
			meta += " " + marker
		}
		return meta
	}

	left := styles.ToastMetaStyle.Render(formatRemaining(tv.Remaining))
	if marker != "" {
		left += " " + marker
	}

	bar := v.bar
	bar.FullColor = string(styles.StatusColor(tv.Toast.Status))
	bar.EmptyColor = string(styles.ColorSurface)
	bar.Width = max(inner-lipgloss.Width(left)-1, 4)

	return lipgloss.JoinHorizontal(lipgloss.Top, bar.ViewAs(1-tv.Progress), " ", left)
}

func formatRemaining(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
