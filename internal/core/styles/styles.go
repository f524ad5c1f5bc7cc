// Package styles provides shared lipgloss styles for CLI and TUI components.
package styles

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/toasty/internal/core/toast"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Exported color aliases for convenience.
var (
	ColorPrimary    lipgloss.Color
	ColorSecondary  lipgloss.Color
	ColorForeground lipgloss.Color
	ColorMuted      lipgloss.Color
	ColorBackground lipgloss.Color
	ColorSurface    lipgloss.Color
	ColorSuccess    lipgloss.Color
	ColorWarning    lipgloss.Color
	ColorError      lipgloss.Color
)

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	CommandStyle       lipgloss.Style
	DividerStyle       lipgloss.Style
	FieldErrorStyle    lipgloss.Style

	// Toast card styles. The border color is set per status by ToastStyle.
	ToastCardStyle     lipgloss.Style
	ToastMessageStyle  lipgloss.Style
	ToastMetaStyle     lipgloss.Style
	ToastPausedStyle   lipgloss.Style
	ToastFocusedBorder lipgloss.Border

	// Group chrome.
	ClearAllStyle        lipgloss.Style
	ClearAllFocusedStyle lipgloss.Style
	StatusBarStyle       lipgloss.Style
	StatusBarErrorStyle  lipgloss.Style
	ModalStyle           lipgloss.Style
	ModalTitleStyle      lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error

	CommandHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	CommandStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	DividerStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	FieldErrorStyle = lipgloss.NewStyle().
		Foreground(ColorError)

	ToastCardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorMuted).
		Padding(0, 1)
	ToastMessageStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	ToastMetaStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	ToastPausedStyle = lipgloss.NewStyle().
		Foreground(ColorWarning).
		Italic(true)
	ToastFocusedBorder = lipgloss.ThickBorder()

	ClearAllStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(ColorSurface).
		Foreground(ColorMuted)
	ClearAllFocusedStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(ColorPrimary).
		Foreground(ColorBackground).
		Bold(true)
	StatusBarStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	StatusBarErrorStyle = lipgloss.NewStyle().
		Foreground(ColorError)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)
	ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorForeground)
}

// StatusColor returns the accent color for s.
func StatusColor(s toast.Status) lipgloss.Color {
	switch s {
	case toast.StatusSuccess:
		return ColorSuccess
	case toast.StatusWarning:
		return ColorWarning
	case toast.StatusError:
		return ColorError
	default:
		return ColorPrimary
	}
}

// ToastStyle returns the card style for a toast with status s.
func ToastStyle(s toast.Status, focused bool) lipgloss.Style {
	style := ToastCardStyle.BorderForeground(StatusColor(s))
	if focused {
		style = style.Border(ToastFocusedBorder)
	}
	return style
}

// FormTheme returns a form theme derived from the active palette.
func FormTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Base = t.Focused.Base.BorderForeground(ColorPrimary)
	t.Focused.Title = t.Focused.Title.Foreground(ColorPrimary).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(ColorMuted)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(ColorError)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(ColorError)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(ColorSecondary)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(ColorSuccess)
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(ColorSecondary)
	t.Focused.TextInput.Prompt = t.Focused.TextInput.Prompt.Foreground(ColorSecondary)

	t.Blurred = t.Focused
	t.Blurred.Base = t.Blurred.Base.BorderStyle(lipgloss.HiddenBorder())
	t.Blurred.Title = t.Blurred.Title.Foreground(ColorMuted).Bold(false)

	return t
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}
