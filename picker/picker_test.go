package picker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/eyedrop-cli/eyedrop/bus"
	"github.com/eyedrop-cli/eyedrop/colormath"
	"github.com/eyedrop-cli/eyedrop/sampler"
	. "github.com/smartystreets/goconvey/convey"
)

type outcome struct {
	color colormath.Color
	err   error
}

type fakeSampler struct {
	available bool
	calls     atomic.Int32
	outcomes  chan outcome
}

func newFakeSampler() *fakeSampler {
	return &fakeSampler{available: true, outcomes: make(chan outcome, 1)}
}

func (f *fakeSampler) Name() string    { return "fake" }
func (f *fakeSampler) Available() bool { return f.available }

func (f *fakeSampler) Sample(ctx context.Context) (colormath.Color, error) {
	f.calls.Add(1)
	select {
	case o := <-f.outcomes:
		return o.color, o.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

type recorder struct {
	mu   sync.Mutex
	sent []bus.Message
	fail bool
}

func (r *recorder) Send(_ context.Context, msg bus.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return bus.ErrUnreachable
	}
	r.sent = append(r.sent, msg)
	return nil
}

func (r *recorder) messages() []bus.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bus.Message(nil), r.sent...)
}

func eventually(cond func() bool) bool {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func TestSession(t *testing.T) {
	Convey("Given an idle session", t, func() {
		fake := newFakeSampler()
		out := &recorder{}
		var alerts []string

		session := New(Options{
			ID:       "1",
			Sampler:  fake,
			Notifier: out,
			Alert:    func(msg string) { alerts = append(alerts, msg) },
		})
		Reset(session.Close)

		So(session.State(), ShouldEqual, Idle)

		Convey("When started", func() {
			So(session.Start(), ShouldBeNil)
			So(session.State(), ShouldEqual, Engaging)
			So(eventually(func() bool { return fake.calls.Load() == 1 }), ShouldBeTrue)

			Convey("A second start does not engage again", func() {
				So(session.Start(), ShouldBeNil)
				time.Sleep(20 * time.Millisecond)
				So(fake.calls.Load(), ShouldEqual, 1)
				So(session.State(), ShouldEqual, Engaging)
			})

			Convey("A captured color is reported and the session settles", func() {
				fake.outcomes <- outcome{color: "#C0FFEE"}

				So(eventually(func() bool { return len(out.messages()) == 1 }), ShouldBeTrue)
				So(out.messages()[0], ShouldResemble, bus.Message{Kind: bus.ColorPicked, Color: "#C0FFEE"})
				So(session.State(), ShouldEqual, Idle)

				Convey("And it can be started again", func() {
					So(session.Start(), ShouldBeNil)
					So(eventually(func() bool { return fake.calls.Load() == 2 }), ShouldBeTrue)
				})
			})

			Convey("A user abort is reported as a cancellation", func() {
				fake.outcomes <- outcome{err: sampler.ErrAborted}

				So(eventually(func() bool { return len(out.messages()) == 1 }), ShouldBeTrue)
				So(out.messages()[0].Kind, ShouldEqual, bus.PickerCancelled)
				So(session.State(), ShouldEqual, Idle)
			})

			Convey("A refused engagement is reported as a cancellation", func() {
				fake.outcomes <- outcome{err: sampler.ErrNotAllowed}

				So(eventually(func() bool { return len(out.messages()) == 1 }), ShouldBeTrue)
				So(out.messages()[0].Kind, ShouldEqual, bus.PickerCancelled)
			})

			Convey("Any other failure still releases the surface", func() {
				fake.outcomes <- outcome{err: errors.New("boom")}

				So(eventually(func() bool { return len(out.messages()) == 1 }), ShouldBeTrue)
				So(out.messages()[0].Kind, ShouldEqual, bus.PickerCancelled)
				So(session.State(), ShouldEqual, Idle)
			})

			Convey("A non canonical color is not forwarded", func() {
				fake.outcomes <- outcome{color: "#c0ffee"}

				So(eventually(func() bool { return len(out.messages()) == 1 }), ShouldBeTrue)
				So(out.messages()[0].Kind, ShouldEqual, bus.PickerCancelled)
			})

			Convey("Stop cancels the engagement once", func() {
				session.Stop()
				So(session.State(), ShouldEqual, Idle)
				So(out.messages(), ShouldResemble, []bus.Message{{Kind: bus.PickerCancelled}})

				time.Sleep(20 * time.Millisecond)
				So(out.messages(), ShouldHaveLength, 1)
			})

			Convey("Close discards the engagement silently", func() {
				session.Close()
				So(session.State(), ShouldEqual, Idle)
				So(out.messages(), ShouldBeEmpty)
			})

			Convey("An unreachable hub does not stop the session from settling", func() {
				out.mu.Lock()
				out.fail = true
				out.mu.Unlock()

				fake.outcomes <- outcome{color: "#000000"}
				So(eventually(func() bool { return session.State() == Idle }), ShouldBeTrue)
			})
		})

		Convey("Stop while idle does nothing", func() {
			session.Stop()
			So(out.messages(), ShouldBeEmpty)
		})

		Convey("When the sampler is unavailable", func() {
			fake.available = false
			err := session.Start()

			Convey("The user is alerted and the session stays idle", func() {
				So(err, ShouldWrap, sampler.ErrUnavailable)
				So(alerts, ShouldResemble, []string{UnsupportedMessage})
				So(session.State(), ShouldEqual, Idle)
				So(fake.calls.Load(), ShouldEqual, 0)
				So(out.messages(), ShouldBeEmpty)
			})
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a session attached to a bus", t, func() {
		b := bus.New(4)
		hub, _ := b.Attach(bus.HubAddr)
		page, _ := b.Attach(bus.PageAddr("tab"))
		b.Focus("tab")

		fake := newFakeSampler()
		session := New(Options{ID: "tab", Sampler: fake, Notifier: page})

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			session.Run(ctx, page)
			close(done)
		}()
		Reset(func() {
			cancel()
			<-done
		})

		Convey("startPicker engages and the pick reaches the hub", func() {
			So(b.Send(ctx, bus.Message{Kind: bus.StartPicker}), ShouldBeNil)
			So(eventually(func() bool { return session.State() == Engaging }), ShouldBeTrue)

			fake.outcomes <- outcome{color: "#ABCDEF"}

			select {
			case env := <-hub.Inbox():
				So(env.Message, ShouldResemble, bus.Message{Kind: bus.ColorPicked, Color: "#ABCDEF"})
			case <-time.After(time.Second):
				So("no message reached the hub", ShouldBeEmpty)
			}
		})

		Convey("stopPicker cancels and the hub hears about it", func() {
			So(b.Send(ctx, bus.Message{Kind: bus.StartPicker}), ShouldBeNil)
			So(eventually(func() bool { return session.State() == Engaging }), ShouldBeTrue)
			So(b.Send(ctx, bus.Message{Kind: bus.StopPicker}), ShouldBeNil)

			select {
			case env := <-hub.Inbox():
				So(env.Kind, ShouldEqual, bus.PickerCancelled)
			case <-time.After(time.Second):
				So("no message reached the hub", ShouldBeEmpty)
			}
		})

		Convey("Closing the endpoint ends the session", func() {
			So(b.Send(ctx, bus.Message{Kind: bus.StartPicker}), ShouldBeNil)
			So(eventually(func() bool { return session.State() == Engaging }), ShouldBeTrue)

			page.Close()
			select {
			case <-done:
			case <-time.After(time.Second):
				So("session did not stop", ShouldBeEmpty)
			}
			So(session.State(), ShouldEqual, Idle)
		})
	})
}
