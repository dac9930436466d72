// Package render provides the line-mode output primitives: colors, display
// width and the cursor moves used to overwrite a prompt.
package render

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
)

var (
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// Red colors s as an error.
func Red(s string) string { return red.Render(s) }

// Green colors s as a success or an ordinal.
func Green(s string) string { return green.Render(s) }

// Yellow colors s as a notice or prompt.
func Yellow(s string) string { return yellow.Render(s) }

// SetColor enables or disables colored output globally.
func SetColor(on bool) {
	if on {
		lipgloss.SetColorProfile(termenv.ANSI)
		return
	}
	lipgloss.SetColorProfile(termenv.Ascii)
}

// StringWidth returns the number of terminal cells s occupies, ignoring
// escape sequences.
func StringWidth(s string) int {
	return ansi.StringWidth(s)
}

// Truncate shortens plain text to width cells, marking the cut with tail.
func Truncate(s string, width int, tail string) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, tail)
}
