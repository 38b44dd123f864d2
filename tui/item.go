// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
	"github.com/eyedrop-cli/eyedrop/colormath"
	"github.com/eyedrop-cli/eyedrop/icon"
	"github.com/samber/lo"
)

// listItem wraps a saved color for the favorites list.
type listItem struct {
	color   colormath.Color
	current bool
}

// Title renders a swatch next to the hex value.
func (t *listItem) Title() string {
	title := fmt.Sprintf("%s %s", swatch(t.color, 4), t.color)
	if t.current {
		title = fmt.Sprintf("%s %s", title, icon.Get(icon.Favorite))
	}
	return title
}

// Description shows the other notations of the color.
func (t *listItem) Description() string {
	return fmt.Sprintf(
		"%s  %s",
		colormath.Render(t.color, colormath.FormatRGB),
		colormath.Render(t.color, colormath.FormatHSL),
	)
}

// FilterValue is used by the list to filter items.
func (t *listItem) FilterValue() string {
	return string(t.color)
}

func toItems(colors []colormath.Color, current colormath.Color) []list.Item {
	return lo.Map(colors, func(c colormath.Color, _ int) list.Item {
		return &listItem{color: c, current: c == current}
	})
}

// swatch is a block of width cells painted with c, its text in the contrasting color.
func swatch(c colormath.Color, width int) string {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(c)).
		Foreground(lipgloss.Color(colormath.TextColor(string(c)))).
		Width(width).
		Render("")
}
