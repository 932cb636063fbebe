package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Palette used by the pretty handler.
var (
	colorDebug = lipgloss.Color("#8B5CF6")
	colorInfo  = lipgloss.Color("#667085")
	colorWarn  = lipgloss.Color("#F59E0B")
	colorError = lipgloss.Color("#D93025")
)

// Level icons.
const (
	iconDebug = "·"
	iconWarn  = "!"
	iconError = "✗"
)

// colorProfile returns Ascii when NO_COLOR is set and the detected profile otherwise.
func colorProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// newOutput creates a termenv.Output for w honoring NO_COLOR.
func newOutput(w io.Writer) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}
	return termenv.NewOutput(w, termenv.WithProfile(colorProfile()), termenv.WithTTY(true))
}
