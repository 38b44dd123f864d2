package hub

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/eyedrop-cli/eyedrop/bus"
	"github.com/eyedrop-cli/eyedrop/colormath"
	"github.com/eyedrop-cli/eyedrop/favorites"
	"github.com/eyedrop-cli/eyedrop/filesystem"
	"github.com/eyedrop-cli/eyedrop/kv"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func next(ep *bus.Endpoint) (bus.Message, bool) {
	select {
	case env := <-ep.Inbox():
		return env.Message, true
	case <-time.After(time.Second):
		return bus.Message{}, false
	}
}

func quiet(ep *bus.Endpoint) bool {
	select {
	case <-ep.Inbox():
		return false
	case <-time.After(50 * time.Millisecond):
		return true
	}
}

func TestNew(t *testing.T) {
	Convey("A non canonical default color falls back", t, func() {
		h := New(Options{DefaultColor: "red"})
		So(h.Color(), ShouldEqual, FallbackColor)

		h = New(Options{DefaultColor: "#FF0000"})
		So(h.Color(), ShouldEqual, colormath.Color("#FF0000"))
	})
}

func TestHub(t *testing.T) {
	Convey("Given a running hub", t, func() {
		b := bus.New(8)
		store := favorites.New(kv.NewFile(filepath.Join(t.TempDir(), "store.json")), "")
		h := New(Options{DefaultColor: "#000000", Favorites: store, Router: b})

		ep, err := b.Attach(bus.HubAddr)
		So(err, ShouldBeNil)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			h.Run(ctx, ep)
			close(done)
		}()
		Reset(func() {
			cancel()
			<-done
		})

		request := func(msg bus.Message) bus.Response {
			r, err := b.Request(ctx, msg)
			So(err, ShouldBeNil)
			return r
		}

		Convey("getColor returns the default color", func() {
			So(request(bus.Message{Kind: bus.GetColor}).Color, ShouldEqual, colormath.Color("#000000"))
		})

		Convey("Given an open surface", func() {
			surface, _ := b.Attach(bus.SurfaceAddr("popup"))

			Convey("colorPicked updates the color and notifies the surface", func() {
				So(b.Send(ctx, bus.Message{Kind: bus.ColorPicked, Color: "#C0FFEE"}), ShouldBeNil)

				msg, ok := next(surface)
				So(ok, ShouldBeTrue)
				So(msg, ShouldResemble, bus.Message{Kind: bus.ColorUpdated, Color: "#C0FFEE"})
				So(request(bus.Message{Kind: bus.GetColor}).Color, ShouldEqual, colormath.Color("#C0FFEE"))
			})

			Convey("pickerCancelled is relayed without touching the color", func() {
				So(b.Send(ctx, bus.Message{Kind: bus.PickerCancelled}), ShouldBeNil)

				msg, ok := next(surface)
				So(ok, ShouldBeTrue)
				So(msg.Kind, ShouldEqual, bus.PickerCancelled)
				So(h.Color(), ShouldEqual, colormath.Color("#000000"))
			})

			Convey("Malformed picks are dropped", func() {
				So(b.Send(ctx, bus.Message{Kind: bus.ColorPicked, Color: "#nothex"}), ShouldBeNil)
				So(quiet(surface), ShouldBeTrue)
				So(h.Color(), ShouldEqual, colormath.Color("#000000"))
			})
		})

		Convey("colorPicked without any surface still updates the color", func() {
			So(b.Send(ctx, bus.Message{Kind: bus.ColorPicked, Color: "#123456"}), ShouldBeNil)
			So(request(bus.Message{Kind: bus.GetColor}).Color, ShouldEqual, colormath.Color("#123456"))
		})

		Convey("Favorites", func() {
			So(request(bus.Message{Kind: bus.GetFavorites}).Favorites, ShouldBeEmpty)

			Convey("Adding twice keeps one entry", func() {
				So(request(bus.Message{Kind: bus.AddFavorite, Color: "#ABCDEF"}).Success, ShouldBeTrue)
				So(request(bus.Message{Kind: bus.AddFavorite, Color: "#ABCDEF"}).Success, ShouldBeTrue)
				So(request(bus.Message{Kind: bus.GetFavorites}).Favorites, ShouldResemble, []colormath.Color{"#ABCDEF"})
			})

			Convey("Removing an absent color succeeds and changes nothing", func() {
				So(request(bus.Message{Kind: bus.AddFavorite, Color: "#ABCDEF"}).Success, ShouldBeTrue)
				So(request(bus.Message{Kind: bus.RemoveFavorite, Color: "#FEDCBA"}).Success, ShouldBeTrue)
				So(request(bus.Message{Kind: bus.GetFavorites}).Favorites, ShouldResemble, []colormath.Color{"#ABCDEF"})
			})

			Convey("Removing a saved color drops it", func() {
				So(request(bus.Message{Kind: bus.AddFavorite, Color: "#ABCDEF"}).Success, ShouldBeTrue)
				So(request(bus.Message{Kind: bus.RemoveFavorite, Color: "#ABCDEF"}).Success, ShouldBeTrue)
				So(request(bus.Message{Kind: bus.GetFavorites}).Favorites, ShouldBeEmpty)
			})

			Convey("Non canonical colors are refused", func() {
				r := request(bus.Message{Kind: bus.AddFavorite, Color: "#abcdef"})
				So(r.Success, ShouldBeFalse)
				So(r.Error, ShouldNotBeEmpty)
				So(request(bus.Message{Kind: bus.GetFavorites}).Favorites, ShouldBeEmpty)
			})
		})

		Convey("Given a focused page", func() {
			page, _ := b.Attach(bus.PageAddr("tab"))
			b.Focus("tab")

			Convey("The start-picker shortcut reaches the page", func() {
				So(h.Command(ctx, CommandStartPicker), ShouldBeNil)

				msg, ok := next(page)
				So(ok, ShouldBeTrue)
				So(msg.Kind, ShouldEqual, bus.StartPicker)
			})

			Convey("stopPicker sent to the hub is forwarded", func() {
				So(b.SendTo(ctx, bus.HubAddr, bus.Message{Kind: bus.StopPicker}), ShouldBeNil)

				msg, ok := next(page)
				So(ok, ShouldBeTrue)
				So(msg.Kind, ShouldEqual, bus.StopPicker)
			})
		})

		Convey("Starting the picker without any page fails quietly", func() {
			So(h.StartPicker(ctx), ShouldWrap, bus.ErrUnreachable)
			So(h.Command(ctx, CommandStartPicker), ShouldBeNil)
		})

		Convey("Unknown commands are rejected", func() {
			So(h.Command(ctx, "open-sesame"), ShouldWrap, ErrUnknownCommand)
		})
	})
}

func TestBackpressure(t *testing.T) {
	Convey("Given a hub whose favorites worker is stalled", t, func() {
		b := bus.New(queueSize + 8)
		store := favorites.New(kv.NewFile(filepath.Join(t.TempDir(), "store.json")), "")
		h := New(Options{DefaultColor: "#000000", Favorites: store, Router: b})

		ep, err := b.Attach(bus.HubAddr)
		So(err, ShouldBeNil)

		ctx, cancel := context.WithCancel(context.Background())
		Reset(cancel)

		// handle messages without starting the worker
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case env := <-ep.Inbox():
					h.Handle(ctx, env)
				}
			}
		}()

		for range queueSize {
			So(b.SendTo(ctx, bus.HubAddr, bus.Message{Kind: bus.AddFavorite, Color: "#111111"}), ShouldBeNil)
		}

		Convey("getColor is still answered", func() {
			short, stop := context.WithTimeout(ctx, time.Second)
			defer stop()
			r, err := b.Request(short, bus.Message{Kind: bus.GetColor})
			So(err, ShouldBeNil)
			So(r.Color, ShouldEqual, colormath.Color("#000000"))
		})

		Convey("Further favorites requests fail as busy", func() {
			short, stop := context.WithTimeout(ctx, time.Second)
			defer stop()

			r, err := b.Request(short, bus.Message{Kind: bus.AddFavorite, Color: "#222222"})
			So(err, ShouldBeNil)
			So(r.Success, ShouldBeFalse)
			So(r.Error, ShouldEqual, ErrBusy.Error())

			r, err = b.Request(short, bus.Message{Kind: bus.GetFavorites})
			So(err, ShouldBeNil)
			So(r.Favorites, ShouldBeEmpty)
			So(r.Error, ShouldEqual, ErrBusy.Error())
		})
	})
}
