package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/eyedrop-cli/eyedrop/bus"
	"github.com/eyedrop-cli/eyedrop/clipboard"
	"github.com/eyedrop-cli/eyedrop/colormath"
	"github.com/eyedrop-cli/eyedrop/surface"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

// fakePort answers like a hub with an in-memory favorites list.
type fakePort struct {
	sent      []bus.Message
	favorites []colormath.Color
	sendErr   error
}

func (p *fakePort) Send(_ context.Context, msg bus.Message) error {
	p.sent = append(p.sent, msg)
	return p.sendErr
}

func (p *fakePort) Request(_ context.Context, msg bus.Message) (bus.Response, error) {
	switch msg.Kind {
	case bus.GetColor:
		return bus.Response{Color: "#336699"}, nil
	case bus.GetFavorites:
		return bus.Response{Favorites: p.favorites}, nil
	case bus.AddFavorite:
		p.favorites = append(p.favorites, msg.Color)
		return bus.Response{Success: true}, nil
	case bus.RemoveFavorite:
		p.favorites = lo.Without(p.favorites, msg.Color)
		return bus.Response{Success: true}, nil
	}
	return bus.Response{}, errors.New("unexpected")
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+p":
		return tea.KeyMsg{Type: tea.KeyCtrlP}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// drive feeds msg to the bubble and runs the returned command once, feeding
// surface outcomes back. Timers are never run.
func drive(b *statefulBubble, msg tea.Msg) {
	_, cmd := b.Update(msg)
	if cmd == nil {
		return
	}
	feed := func(m tea.Msg) {
		switch m.(type) {
		case refreshMsg, copiedMsg:
			b.Update(m)
		}
	}

	out := cmd()
	batch, ok := out.(tea.BatchMsg)
	if !ok {
		feed(out)
		return
	}
	for _, c := range batch {
		if c != nil {
			feed(c())
		}
	}
}

func TestBubble(t *testing.T) {
	Convey("Given a bubble over a surface", t, func() {
		port := &fakePort{}
		var clipped string
		s := surface.New(surface.Options{
			Port:         port,
			InitialColor: "#FF0000",
			Clipboard: clipboard.Func(func(text string) error {
				clipped = text
				return nil
			}),
		})
		b := newBubble(context.Background(), &Options{Surface: s})
		So(s.Load(context.Background()), ShouldBeNil)
		b.refresh()

		Convey("It shows the hub color", func() {
			So(b.state, ShouldEqual, pickerState)
			So(b.snapshot.Color, ShouldEqual, colormath.Color("#336699"))
			So(b.inputsC[0].Value(), ShouldEqual, "#336699")
			So(b.View(), ShouldContainSubstring, "#336699")
		})

		Convey("The pick shortcut asks the page to start", func() {
			drive(b, keyPress("ctrl+p"))
			So(port.sent, ShouldResemble, []bus.Message{{Kind: bus.StartPicker}})
			So(b.snapshot.Active, ShouldBeTrue)

			Convey("and a picked color ends the pick", func() {
				b.Update(notificationMsg{Kind: bus.ColorUpdated, Color: "#00FF00"})
				So(b.snapshot.Active, ShouldBeFalse)
				So(b.snapshot.Color, ShouldEqual, colormath.Color("#00FF00"))
				So(b.inputsC[1].Value(), ShouldEqual, "rgb(0, 255, 0)")
			})
		})

		Convey("A failed start leaves the picker idle", func() {
			port.sendErr = bus.ErrUnreachable
			drive(b, keyPress("ctrl+p"))
			So(b.snapshot.Active, ShouldBeFalse)
		})

		Convey("Editing a field commits valid text", func() {
			drive(b, keyPress("enter"))
			So(b.state, ShouldEqual, editingState)

			b.inputsC[0].SetValue("")
			for _, r := range "#abcdef" {
				b.Update(keyPress(string(r)))
			}
			So(b.snapshot.Color, ShouldEqual, colormath.Color("#ABCDEF"))

			drive(b, keyPress("esc"))
			So(b.state, ShouldEqual, pickerState)
		})

		Convey("Copy writes the focused format", func() {
			drive(b, keyPress("down"))
			drive(b, keyPress("c"))
			So(clipped, ShouldEqual, "rgb(51, 102, 153)")
		})

		Convey("Favorites can be saved, listed, selected and removed", func() {
			drive(b, keyPress("f"))
			So(port.favorites, ShouldResemble, []colormath.Color{"#336699"})
			So(b.snapshot.IsFavorite, ShouldBeTrue)

			drive(b, keyPress("tab"))
			So(b.state, ShouldEqual, favoritesState)
			So(b.favoritesC.Items(), ShouldHaveLength, 1)

			drive(b, keyPress("enter"))
			So(b.state, ShouldEqual, pickerState)

			drive(b, keyPress("tab"))
			drive(b, keyPress("d"))
			So(port.favorites, ShouldBeEmpty)
			So(b.favoritesC.Items(), ShouldBeEmpty)
		})

		Convey("A closed notification stream is an error", func() {
			drive(b, hubGoneMsg{})
			So(b.state, ShouldEqual, errorState)
			So(b.View(), ShouldContainSubstring, "went away")
		})
	})
}
