// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/eyedrop-cli/eyedrop/bus"
	"github.com/eyedrop-cli/eyedrop/surface"
)

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	Surface *surface.Surface

	// Notifications are the messages the hub addresses to surfaces.
	Notifications <-chan bus.Message

	// Alerts are shown as transient notifications. May be nil.
	Alerts <-chan string

	// Remote is set when the hub runs in another process.
	Remote bool
}

// Run initializes and executes the primary Bubble Tea application loop.
func Run(ctx context.Context, options *Options) error {
	bubble := newBubble(ctx, options)
	_, err := tea.NewProgram(bubble, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
