// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/eyedrop-cli/eyedrop/colormath"
	"github.com/eyedrop-cli/eyedrop/icon"
	"github.com/eyedrop-cli/eyedrop/style"
	"github.com/eyedrop-cli/eyedrop/surface"
	"github.com/muesli/reflow/wrap"
)

const (
	labelWidth = 8
	tabsHeight = 2
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)

	activeTabStyle   = lipgloss.NewStyle().Foreground(style.Base).Background(style.AccentColor).Padding(0, 1)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(style.Subtext).Padding(0, 1)
	labelStyle       = lipgloss.NewStyle().Width(labelWidth).Foreground(style.Subtext)
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case pickerState, editingState:
		output = b.viewPicker()
	case favoritesState:
		output = b.viewFavorites()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewTabs() string {
	tab := func(name string, t surface.Tab) string {
		if b.snapshot.Tab == t {
			return activeTabStyle.Render(name)
		}
		return inactiveTabStyle.Render(name)
	}

	where := "local"
	if b.options.Remote {
		where = "daemon"
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		tab("Picker", surface.TabPicker),
		tab(fmt.Sprintf("Favorites (%d)", len(b.snapshot.Favorites)), surface.TabFavorites),
		" "+style.Faint(where),
	)
}

func (b *statefulBubble) viewPicker() string {
	snap := b.snapshot

	status := icon.Get(icon.NotFavorite) + " not saved"
	if snap.IsFavorite {
		status = style.Fg(style.AccentColor)(icon.Get(icon.Favorite) + " saved")
	}
	if snap.Active {
		status = b.spinnerC.View() + " picking, esc to stop"
	}

	lines := []string{
		b.viewTabs(),
		"",
		b.viewSwatch(),
		"",
		status,
		"",
	}

	copied, hasCopied := snap.Copied.Get()
	for i, f := range colormath.Formats {
		marker := "  "
		if i == b.focused {
			marker = style.Fg(style.AccentColor)("> ")
		}

		line := marker + labelStyle.Render(strings.ToUpper(string(f))) + b.inputsC[i].View()
		if hasCopied && copied == f {
			line += " " + style.Fg(style.SuccessColor)(icon.Get(icon.Copied))
		}
		lines = append(lines, line)
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewSwatch() string {
	c := b.snapshot.Color
	width := b.width
	if width <= 0 || width > 32 {
		width = 32
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(c)).
		Foreground(lipgloss.Color(b.snapshot.TextColor)).
		Bold(true).
		Width(width).
		Height(3).
		Align(lipgloss.Center, lipgloss.Center).
		Render(string(c))
}

func (b *statefulBubble) viewFavorites() string {
	return listExtraPaddingStyle.Render(b.viewTabs() + "\n\n" + b.favoritesC.View())
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(style.ErrorColor).Bold(true)
	errorMsg := wrap.String(errorStyle.Render(b.lastError.Error()), b.width)
	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " Lost the connection to the color hub:",
			"",
			errorMsg,
		},
	)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	l := strings.Join(lines, "\n")
	if addHelp {
		if h := lipgloss.Height(l); b.height > h+1 {
			l += strings.Repeat("\n", b.height-h-1)
		}
		l += "\n" + b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
