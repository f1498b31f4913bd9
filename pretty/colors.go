package pretty

import (
	"os"
	"strings"

	"github.com/joshyorko/btmgr/logbuf"
)

// ColorMode represents the level of color support available in the terminal
type ColorMode int

const (
	ColorModeNone ColorMode = iota
	ColorModeBasic
	ColorMode256
	ColorModeTrueColor
)

// DetectColorMode checks NO_COLOR, COLORTERM and TERM, in that order.
func DetectColorMode() ColorMode {
	if os.Getenv("NO_COLOR") != "" {
		return ColorModeNone
	}
	colorterm := os.Getenv("COLORTERM")
	if colorterm == "truecolor" || colorterm == "24bit" {
		return ColorModeTrueColor
	}
	term := os.Getenv("TERM")
	switch {
	case term == "" || term == "dumb":
		return ColorModeNone
	case strings.Contains(term, "256color"):
		return ColorMode256
	}
	return ColorModeBasic
}

// KindColor gives the color of one line of console output.
func KindColor(kind logbuf.Kind) string {
	if Colorless || Disabled {
		return ""
	}
	switch kind {
	case logbuf.KindCommand:
		return Bold
	case logbuf.KindNotification:
		return Cyan
	case logbuf.KindLog:
		return Grey
	case logbuf.KindWarning:
		return Yellow
	case logbuf.KindError:
		return Red
	default:
		return ""
	}
}

// Colorize wraps message in the color of kind. Uncolored kinds come back
// as is.
func Colorize(kind logbuf.Kind, message string) string {
	color := KindColor(kind)
	if len(color) == 0 {
		return message
	}
	return color + message + Reset
}
