// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/eyedrop-cli/eyedrop/bus"
)

type (
	// notificationMsg carries a message the hub sent to surfaces.
	notificationMsg bus.Message

	// hubGoneMsg reports that the notification stream ended.
	hubGoneMsg struct{}

	// alertMsg is shown as a transient notification.
	alertMsg string

	// refreshMsg asks for a new snapshot after an asynchronous operation.
	refreshMsg struct{ err error }

	// copiedExpiredMsg rerenders once the copied mark has gone.
	copiedExpiredMsg struct{}
)

// Init loads the hub state and starts listening for notifications.
func (b *statefulBubble) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		b.spinnerC.Tick,
		b.load(),
		b.waitForNotification(),
		b.waitForAlert(),
	)
}

func (b *statefulBubble) load() tea.Cmd {
	return func() tea.Msg {
		return refreshMsg{err: b.surface.Load(b.ctx)}
	}
}

func (b *statefulBubble) waitForNotification() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg, ok := <-b.options.Notifications:
			if !ok {
				return hubGoneMsg{}
			}
			return notificationMsg(msg)
		case <-b.ctx.Done():
			return nil
		}
	}
}

func (b *statefulBubble) waitForAlert() tea.Cmd {
	if b.options.Alerts == nil {
		return nil
	}

	return func() tea.Msg {
		select {
		case text, ok := <-b.options.Alerts:
			if !ok {
				return nil
			}
			return alertMsg(text)
		case <-b.ctx.Done():
			return nil
		}
	}
}
