package style

import "github.com/charmbracelet/lipgloss"

// Interface palette, independent of the colors being picked.
var (
	Base    = lipgloss.Color("#1e1e2e")
	Subtext = lipgloss.Color("#a6adc8")

	Mauve = lipgloss.Color("#cba6f7")
	Red   = lipgloss.Color("#f38ba8")
	Green = lipgloss.Color("#a6e3a1")

	AccentColor  = Mauve
	SuccessColor = Green
	ErrorColor   = Red
)
