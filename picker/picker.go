// Package picker runs the picker session of a page context.
//
// A session is either idle or engaging the sampler. Start requests while
// engaging are ignored, so at most one engagement exists per session.
// Outcomes are reported as fire-and-forget messages; a failed send is logged
// and otherwise ignored.
package picker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/eyedrop-cli/eyedrop/bus"
	"github.com/eyedrop-cli/eyedrop/colormath"
	"github.com/eyedrop-cli/eyedrop/log"
	"github.com/eyedrop-cli/eyedrop/sampler"
)

// State of a session.
type State int

const (
	Idle State = iota
	Engaging
)

func (s State) String() string {
	if s == Engaging {
		return "engaging"
	}
	return "idle"
}

// UnsupportedMessage is shown to the user when the environment has no sampler.
const UnsupportedMessage = "No color sampler is available here. Install hyprpicker, xcolor or gpick, or set picker.command"

const sendTimeout = 2 * time.Second

// Notifier delivers outcome messages. *bus.Endpoint satisfies it.
type Notifier interface {
	Send(ctx context.Context, msg bus.Message) error
}

// Options configure a Session.
type Options struct {
	ID       string
	Sampler  sampler.Sampler
	Notifier Notifier

	// Alert reports problems directly to the user, outside the message protocol.
	Alert func(string)
}

// Session is the picker state of one page context.
type Session struct {
	id      string
	sampler sampler.Sampler
	out     Notifier
	alert   func(string)
	log     *log.Logger

	mu         sync.Mutex
	state      State
	generation uint64
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

// New returns an idle session.
func New(opts Options) *Session {
	alert := opts.Alert
	if alert == nil {
		alert = func(string) {}
	}

	return &Session{
		id:      opts.ID,
		sampler: opts.Sampler,
		out:     opts.Notifier,
		alert:   alert,
		log:     log.For("picker").With("page", opts.ID),
	}
}

// Sampler names the capability the session engages.
func (s *Session) Sampler() string {
	if s.sampler == nil {
		return sampler.ModeNone
	}
	return s.sampler.Name()
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start engages the sampler. It is a no-op while already engaging.
// When the environment has no sampler the user is alerted, the session stays
// idle and an error wrapping sampler.ErrUnavailable is returned.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Engaging {
		s.log.Debugf("start ignored, already engaging")
		return nil
	}

	if s.sampler == nil || !s.sampler.Available() {
		s.alert(UnsupportedMessage)
		return fmt.Errorf("%w: page %s", sampler.ErrUnavailable, s.id)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.generation++
	s.state = Engaging
	s.cancel = cancel

	s.wg.Add(1)
	go s.engage(ctx, s.generation)

	s.log.Infof("engaged %s", s.sampler.Name())
	return nil
}

func (s *Session) engage(ctx context.Context, generation uint64) {
	defer s.wg.Done()

	color, err := s.sampler.Sample(ctx)

	s.mu.Lock()
	if s.generation != generation {
		s.mu.Unlock()
		s.log.Debugf("dropped outcome of a stopped engagement")
		return
	}
	s.state = Idle
	s.cancel()
	s.cancel = nil
	s.mu.Unlock()

	if err == nil && !color.Valid() {
		err = fmt.Errorf("%w: %q", colormath.ErrMalformedHex, color)
	}

	switch {
	case err == nil:
		s.emit(bus.Message{Kind: bus.ColorPicked, Color: color})
	case sampler.IsCancellation(err):
		s.emit(bus.Message{Kind: bus.PickerCancelled})
	default:
		s.log.Warnf("sampler failed: %v", err)
		s.emit(bus.Message{Kind: bus.PickerCancelled})
	}
}

// Stop cancels the current engagement and reports the cancellation.
// It is a no-op while idle.
func (s *Session) Stop() {
	if !s.settle() {
		return
	}
	s.emit(bus.Message{Kind: bus.PickerCancelled})
}

// Close discards the session silently, as when the page goes away.
func (s *Session) Close() {
	s.settle()
	s.wg.Wait()
}

// settle returns the session to idle, invalidating any engagement in flight.
func (s *Session) settle() (wasEngaging bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Engaging {
		return false
	}

	s.generation++
	s.state = Idle
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	return true
}

func (s *Session) emit(msg bus.Message) {
	if s.out == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := s.out.Send(ctx, msg); err != nil {
		s.log.Debugf("send %s: %v", msg, err)
	}
}

// Run serves start and stop requests from the page's endpoint until ctx ends
// or the endpoint is closed, then closes the session.
func (s *Session) Run(ctx context.Context, ep *bus.Endpoint) {
	defer s.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ep.Done():
			return
		case env := <-ep.Inbox():
			switch env.Kind {
			case bus.StartPicker:
				if err := s.Start(); err != nil {
					s.log.Infof("start: %v", err)
				}
			case bus.StopPicker:
				s.Stop()
			default:
				s.log.Debugf("ignored %s", env.Message)
			}
		}
	}
}
