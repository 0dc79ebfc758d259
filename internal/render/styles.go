// Package render draws simulation reports, distributions and query results
// as styled terminal text.
package render

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Palette used across the report.
var (
	ColorTitle     = lipgloss.Color("#F4D03F")
	ColorAccent    = lipgloss.Color("#2CD7C7")
	ColorBar       = lipgloss.Color("#1D9DA0")
	ColorHighlight = lipgloss.Color("#E67E22")
	ColorMuted     = lipgloss.Color("#5D6D7E")
	ColorError     = lipgloss.Color("#E74C3C")
)

// Styles holds the pre-configured lipgloss styles.
var Styles = struct {
	Title     lipgloss.Style
	Label     lipgloss.Style
	Bar       lipgloss.Style
	Highlight lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
	Prompt    lipgloss.Style
}{
	Title:     lipgloss.NewStyle().Bold(true).Foreground(ColorTitle),
	Label:     lipgloss.NewStyle().Bold(true).Foreground(ColorAccent),
	Bar:       lipgloss.NewStyle().Foreground(ColorBar),
	Highlight: lipgloss.NewStyle().Bold(true).Foreground(ColorHighlight),
	Muted:     lipgloss.NewStyle().Foreground(ColorMuted),
	Error:     lipgloss.NewStyle().Foreground(ColorError),
	Prompt:    lipgloss.NewStyle().Foreground(ColorAccent),
}

// StripANSI removes every ANSI escape sequence (SGR, cursor control, OSC
// hyperlinks) from a string. Plain output when color is disabled uses it.
func StripANSI(s string) string {
	return ansi.Strip(s)
}
