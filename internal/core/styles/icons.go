package styles

import "github.com/hay-kot/toasty/internal/core/toast"

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconInfo    = "" // 
	IconSuccess = "" // 
	IconWarning = "" // 
	IconError   = "" // 
	IconPause   = "" // 
	IconClose   = "" // 
	IconClear   = "\U000F0E1D"
)

// ASCII fallbacks for terminals without a nerd font.
var (
	PlainInfo    = "i"
	PlainSuccess = "✔"
	PlainWarning = "⚠"
	PlainError   = "✘"
	PlainPause   = "‖"
	PlainClose   = "×"
	PlainClear   = "⌫"
)

// StatusIcon returns the icon for s. When nerd is false the plain glyph is
// used.
func StatusIcon(s toast.Status, nerd bool) string {
	switch s {
	case toast.StatusSuccess:
		return pick(nerd, IconSuccess, PlainSuccess)
	case toast.StatusWarning:
		return pick(nerd, IconWarning, PlainWarning)
	case toast.StatusError:
		return pick(nerd, IconError, PlainError)
	default:
		return pick(nerd, IconInfo, PlainInfo)
	}
}

func pick(nerd bool, icon, plain string) string {
	if nerd {
		return icon
	}
	return plain
}
