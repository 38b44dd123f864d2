// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/eyedrop-cli/eyedrop/colormath"
	"github.com/eyedrop-cli/eyedrop/internal/ui"
	"github.com/eyedrop-cli/eyedrop/key"
	"github.com/eyedrop-cli/eyedrop/style"
	"github.com/eyedrop-cli/eyedrop/surface"
	"github.com/eyedrop-cli/eyedrop/util"
	"github.com/spf13/viper"
)

// statefulBubble holds the component models around one surface.
type statefulBubble struct {
	ctx     context.Context
	state   state
	keymap  *statefulKeymap
	surface *surface.Surface
	options *Options

	// components
	spinnerC   spinner.Model
	inputsC    []textinput.Model
	favoritesC list.Model
	helpC      help.Model

	// focused is the index of the selected format field
	focused   int
	snapshot  surface.Snapshot
	lastError error

	width, height int
	notifier      *ui.Model
}

// raiseError dispatches a terminal error and transitions the application to the failure view.
func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.setState(errorState)
}

// setState performs a synchronous transition of both the application workflow and its associated keymap.
func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// focusedFormat is the format of the selected field.
func (b *statefulBubble) focusedFormat() colormath.Format {
	return colormath.Formats[b.focused]
}

// refresh takes a new snapshot of the surface and mirrors it into the components.
func (b *statefulBubble) refresh() {
	b.snapshot = b.surface.Snapshot()

	for i, f := range colormath.Formats {
		if text := b.snapshot.Inputs[f]; b.inputsC[i].Value() != text {
			b.inputsC[i].SetValue(text)
		}
	}

	b.favoritesC.SetItems(toItems(b.snapshot.Favorites, b.snapshot.Color))

	switch {
	case b.state == errorState || b.state == editingState:
	case b.snapshot.Tab == surface.TabFavorites:
		b.setState(favoritesState)
	default:
		b.setState(pickerState)
	}
}

// resize propagates terminal dimension changes to all child component models.
func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	listWidth := width - xx
	listHeight := height - yy - tabsHeight

	b.favoritesC.SetSize(listWidth, listHeight)
	b.favoritesC.Help.Width = listWidth

	for i := range b.inputsC {
		b.inputsC[i].Width = util.Clamp(width-x-labelWidth, 10, 40)
	}

	b.width = width - x
	b.height = height - y
	b.helpC.Width = listWidth
	b.notifier.Width = b.width
}

// newBubble performs a complete initialization of the application's primary UI model.
func newBubble(ctx context.Context, options *Options) *statefulBubble {
	keymap := newStatefulKeymap(viper.GetString(key.ShortcutStartPicker))
	bubble := statefulBubble{
		ctx:      ctx,
		keymap:   keymap,
		surface:  options.Surface,
		options:  options,
		notifier: &ui.Model{},
	}

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(style.AccentColor)

	for _, f := range colormath.Formats {
		input := textinput.New()
		input.Prompt = ""
		input.CharLimit = 32
		input.Placeholder = string(f)
		bubble.inputsC = append(bubble.inputsC, input)
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(style.AccentColor).
		Foreground(style.AccentColor).
		Padding(0, 0, 0, 1)
	delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(lipgloss.Color("7"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

	bubble.favoritesC = list.New(nil, delegate, 0, 0)
	bubble.favoritesC.KeyMap = keymap.forList()
	bubble.favoritesC.AdditionalShortHelpKeys = keymap.ShortHelp
	bubble.favoritesC.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
		return keymap.FullHelp()[0]
	}
	bubble.favoritesC.SetShowTitle(false)
	bubble.favoritesC.SetShowStatusBar(false)
	bubble.favoritesC.SetShowPagination(false)
	bubble.favoritesC.SetFilteringEnabled(false)
	bubble.favoritesC.SetStatusBarItemName("color", "colors")
	bubble.favoritesC.Styles.NoItems = paddingStyle

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	bubble.setState(pickerState)
	bubble.refresh()

	return &bubble
}
