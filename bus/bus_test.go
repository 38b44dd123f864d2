package bus

import (
	"context"
	"testing"
	"time"

	"github.com/eyedrop-cli/eyedrop/colormath"
	. "github.com/smartystreets/goconvey/convey"
)

func receive(ep *Endpoint) (Envelope, bool) {
	select {
	case env := <-ep.Inbox():
		return env, true
	case <-time.After(time.Second):
		return Envelope{}, false
	}
}

func TestAttach(t *testing.T) {
	Convey("Given a bus", t, func() {
		b := New(4)

		Convey("An address can be attached once", func() {
			ep, err := b.Attach(HubAddr)
			So(err, ShouldBeNil)
			So(b.Attached(HubAddr), ShouldBeTrue)

			_, err = b.Attach(HubAddr)
			So(err, ShouldWrap, ErrAddressInUse)

			Convey("And again after it was closed", func() {
				ep.Close()
				So(b.Attached(HubAddr), ShouldBeFalse)

				_, err := b.Attach(HubAddr)
				So(err, ShouldBeNil)
			})
		})

		Convey("Closing twice is harmless", func() {
			ep, _ := b.Attach(SurfaceAddr("a"))
			ep.Close()
			ep.Close()
			select {
			case <-ep.Done():
			default:
				So("endpoint still open", ShouldBeEmpty)
			}
		})
	})
}

func TestSend(t *testing.T) {
	ctx := context.Background()

	Convey("Given a bus with a hub attached", t, func() {
		b := New(4)
		hub, _ := b.Attach(HubAddr)

		Convey("Hub kinds are routed to the hub", func() {
			So(b.Send(ctx, Message{Kind: ColorPicked, Color: "#ABCDEF"}), ShouldBeNil)

			env, ok := receive(hub)
			So(ok, ShouldBeTrue)
			So(env.Kind, ShouldEqual, ColorPicked)
			So(env.Color, ShouldEqual, colormath.Color("#ABCDEF"))
			So(env.ExpectsReply(), ShouldBeFalse)
		})

		Convey("Sending to a missing context fails with ErrUnreachable", func() {
			err := b.SendTo(ctx, PageAddr("nope"), Message{Kind: StartPicker})
			So(err, ShouldWrap, ErrUnreachable)
		})

		Convey("Page kinds need a focused page", func() {
			err := b.Send(ctx, Message{Kind: StartPicker})
			So(err, ShouldWrap, ErrUnreachable)

			page, _ := b.Attach(PageAddr("1"))
			b.Focus("1")
			So(b.Focused().MustGet(), ShouldResemble, PageAddr("1"))
			So(b.Send(ctx, Message{Kind: StartPicker}), ShouldBeNil)

			env, ok := receive(page)
			So(ok, ShouldBeTrue)
			So(env.Kind, ShouldEqual, StartPicker)

			Convey("A focused page that went away is unreachable", func() {
				page.Close()
				So(b.Send(ctx, Message{Kind: StopPicker}), ShouldWrap, ErrUnreachable)
			})
		})

		Convey("A full inbox honours the context", func() {
			for i := 0; i < 4; i++ {
				So(b.SendTo(ctx, HubAddr, Message{Kind: PickerCancelled}), ShouldBeNil)
			}

			short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
			defer cancel()
			So(b.SendTo(short, HubAddr, Message{Kind: PickerCancelled}), ShouldEqual, context.DeadlineExceeded)
		})
	})
}

func TestBroadcast(t *testing.T) {
	ctx := context.Background()

	Convey("Given two surfaces", t, func() {
		b := New(4)
		first, _ := b.Attach(SurfaceAddr("1"))
		second, _ := b.Attach(SurfaceAddr("2"))

		Convey("Both receive colorUpdated", func() {
			So(b.Send(ctx, Message{Kind: ColorUpdated, Color: "#111111"}), ShouldBeNil)

			_, ok := receive(first)
			So(ok, ShouldBeTrue)
			_, ok = receive(second)
			So(ok, ShouldBeTrue)
		})

		Convey("Nobody listening is unreachable", func() {
			first.Close()
			second.Close()
			So(b.Broadcast(ctx, RoleSurface, Message{Kind: PickerCancelled}), ShouldWrap, ErrUnreachable)
		})
	})
}

func TestRequest(t *testing.T) {
	ctx := context.Background()

	Convey("Given a hub answering getColor", t, func() {
		b := New(4)
		hub, _ := b.Attach(HubAddr)

		go func() {
			for {
				select {
				case env := <-hub.Inbox():
					env.Reply(Response{Color: "#000000"})
				case <-hub.Done():
					return
				}
			}
		}()
		Reset(hub.Close)

		Convey("Request returns the answer", func() {
			r, err := b.Request(ctx, Message{Kind: GetColor})
			So(err, ShouldBeNil)
			So(r.Color, ShouldEqual, colormath.Color("#000000"))
		})

		Convey("Fire-and-forget kinds cannot be requested", func() {
			_, err := b.Request(ctx, Message{Kind: ColorPicked, Color: "#000000"})
			So(err, ShouldWrap, ErrNotRequest)
		})
	})

	Convey("Given a hub that never answers", t, func() {
		b := New(4)
		hub, _ := b.Attach(HubAddr)

		Convey("Request gives up with the context", func() {
			short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
			defer cancel()

			_, err := b.Request(short, Message{Kind: GetFavorites})
			So(err, ShouldWrap, ErrNoResponse)
		})

		Convey("Request fails when the hub goes away", func() {
			go func() {
				<-hub.Inbox()
				hub.Close()
			}()

			_, err := b.Request(ctx, Message{Kind: GetFavorites})
			So(err, ShouldWrap, ErrNoResponse)
		})
	})
}

func TestKinds(t *testing.T) {
	Convey("Only queries expect responses", t, func() {
		expecting := 0
		for _, k := range Kinds {
			if k.Expects() {
				expecting++
				So(k.Target(), ShouldEqual, RoleHub)
			}
		}
		So(expecting, ShouldEqual, 4)
		So(StartPicker.Target(), ShouldEqual, RolePage)
		So(ColorUpdated.Target(), ShouldEqual, RoleSurface)
	})
}
