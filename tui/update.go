// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"context"
	"errors"
	"time"

	bubblesKey "github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/eyedrop-cli/eyedrop/bus"
	"github.com/eyedrop-cli/eyedrop/colormath"
	"github.com/eyedrop-cli/eyedrop/internal/ui"
	"github.com/eyedrop-cli/eyedrop/surface"
)

// copiedMsg is the outcome of a clipboard write.
type copiedMsg struct {
	text string
	err  error
}

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if uiCmd := b.notifier.Update(msg); uiCmd != nil {
		cmd = tea.Batch(cmd, uiCmd)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
		return b, cmd
	case notificationMsg:
		b.surface.Handle(msg.asMessage())
		b.refresh()
		return b, tea.Batch(cmd, b.waitForNotification())
	case hubGoneMsg:
		b.raiseError(errors.New("the hub went away"))
		return b, cmd
	case alertMsg:
		return b, tea.Batch(cmd, ui.Notify(string(msg)), b.waitForAlert())
	case refreshMsg:
		b.refresh()
		if msg.err != nil {
			cmd = tea.Batch(cmd, ui.Notify(msg.err.Error()))
		}
		return b, cmd
	case copiedMsg:
		b.refresh()
		if msg.err != nil {
			return b, tea.Batch(cmd, ui.Notify("copy failed: "+msg.err.Error()))
		}
		return b, tea.Batch(cmd, ui.Notify("copied "+msg.text), tea.Tick(b.surface.CopyFeedback(), func(_ time.Time) tea.Msg {
			return copiedExpiredMsg{}
		}))
	case copiedExpiredMsg:
		b.refresh()
		return b, cmd
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}
	}

	var spinnerCmd tea.Cmd
	b.spinnerC, spinnerCmd = b.spinnerC.Update(msg)
	cmd = tea.Batch(cmd, spinnerCmd)

	switch b.state {
	case pickerState:
		return b.updatePicker(msg, cmd)
	case editingState:
		return b.updateEditing(msg, cmd)
	case favoritesState:
		return b.updateFavorites(msg, cmd)
	case errorState:
		return b.updateError(msg, cmd)
	}

	return b, cmd
}

func (m notificationMsg) asMessage() bus.Message {
	return bus.Message(m)
}

// run performs op against the surface off the update loop.
func (b *statefulBubble) run(op func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return refreshMsg{err: op(b.ctx)}
	}
}

func (b *statefulBubble) copyFormat(f colormath.Format) tea.Cmd {
	return func() tea.Msg {
		text, err := b.surface.Copy(f)
		return copiedMsg{text: text, err: err}
	}
}

func (b *statefulBubble) switchTab() {
	if b.snapshot.Tab == surface.TabPicker {
		b.surface.SetTab(surface.TabFavorites)
	} else {
		b.surface.SetTab(surface.TabPicker)
	}
	b.refresh()
}

func (b *statefulBubble) updatePicker(msg tea.Msg, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return b, cmd
	}

	switch {
	case bubblesKey.Matches(keyMsg, b.keymap.quit):
		return b, tea.Quit
	case bubblesKey.Matches(keyMsg, b.keymap.startPicker):
		if b.snapshot.Active {
			return b, cmd
		}
		return b, tea.Batch(cmd, b.run(b.surface.StartPicker), b.spinnerC.Tick)
	case bubblesKey.Matches(keyMsg, b.keymap.stopPicker):
		if !b.snapshot.Active {
			return b, cmd
		}
		return b, tea.Batch(cmd, b.run(b.surface.StopPicker))
	case bubblesKey.Matches(keyMsg, b.keymap.nextTab):
		b.switchTab()
	case bubblesKey.Matches(keyMsg, b.keymap.up):
		b.focused = (b.focused + len(b.inputsC) - 1) % len(b.inputsC)
	case bubblesKey.Matches(keyMsg, b.keymap.down):
		b.focused = (b.focused + 1) % len(b.inputsC)
	case bubblesKey.Matches(keyMsg, b.keymap.edit):
		b.setState(editingState)
		cmd = tea.Batch(cmd, b.inputsC[b.focused].Focus())
	case bubblesKey.Matches(keyMsg, b.keymap.copy):
		cmd = tea.Batch(cmd, b.copyFormat(b.focusedFormat()))
	case bubblesKey.Matches(keyMsg, b.keymap.copyHex):
		cmd = tea.Batch(cmd, b.copyFormat(colormath.FormatHex))
	case bubblesKey.Matches(keyMsg, b.keymap.toggleFavorite):
		cmd = tea.Batch(cmd, b.run(b.surface.ToggleFavorite))
	}

	return b, cmd
}

func (b *statefulBubble) updateEditing(msg tea.Msg, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && bubblesKey.Matches(keyMsg, b.keymap.done) {
		b.inputsC[b.focused].Blur()
		b.setState(pickerState)
		b.refresh()
		return b, cmd
	}

	input := &b.inputsC[b.focused]
	before := input.Value()

	var inputCmd tea.Cmd
	*input, inputCmd = input.Update(msg)

	if input.Value() != before {
		b.surface.Input(b.focusedFormat(), input.Value())
		b.refresh()
	}

	return b, tea.Batch(cmd, inputCmd)
}

func (b *statefulBubble) updateFavorites(msg tea.Msg, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	selected := func() (colormath.Color, bool) {
		item, ok := b.favoritesC.SelectedItem().(*listItem)
		if !ok {
			return "", false
		}
		return item.color, true
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(keyMsg, b.keymap.nextTab):
			b.switchTab()
			return b, cmd
		case bubblesKey.Matches(keyMsg, b.keymap.selectColor):
			if c, ok := selected(); ok {
				b.surface.Select(c)
				b.refresh()
			}
			return b, cmd
		case bubblesKey.Matches(keyMsg, b.keymap.remove):
			if c, ok := selected(); ok {
				cmd = tea.Batch(cmd, b.run(func(ctx context.Context) error {
					return b.surface.RemoveFavorite(ctx, c)
				}))
			}
			return b, cmd
		}
	}

	var listCmd tea.Cmd
	b.favoritesC, listCmd = b.favoritesC.Update(msg)
	return b, tea.Batch(cmd, listCmd)
}

func (b *statefulBubble) updateError(msg tea.Msg, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && bubblesKey.Matches(keyMsg, b.keymap.quit) {
		return b, tea.Quit
	}
	return b, cmd
}
