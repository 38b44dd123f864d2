// Package hub implements the coordination hub: the long-lived context that
// owns the current color, brokers favorites and relays picker outcomes to
// whichever surfaces are listening.
package hub

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/eyedrop-cli/eyedrop/bus"
	"github.com/eyedrop-cli/eyedrop/colormath"
	"github.com/eyedrop-cli/eyedrop/favorites"
	"github.com/eyedrop-cli/eyedrop/log"
)

var (
	// ErrUnknownCommand is returned by Command for names that are not bound to anything.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrBusy is reported for favorites requests arriving while the queue is full.
	ErrBusy = errors.New("favorites queue full")
)

// CommandStartPicker is the global shortcut command.
const CommandStartPicker = "start-picker"

// Commands lists every name accepted by Command.
var Commands = []string{CommandStartPicker}

// FallbackColor is used when the configured default color is not canonical.
const FallbackColor colormath.Color = "#000000"

const (
	notifyTimeout = time.Second
	queueSize     = 64
)

// Router reaches the other contexts. *bus.Bus satisfies it.
type Router interface {
	Broadcast(ctx context.Context, role bus.Role, msg bus.Message) error
	SendFocused(ctx context.Context, msg bus.Message) error
}

// Options configure a Hub.
type Options struct {
	DefaultColor colormath.Color
	Favorites    *favorites.Store
	Router       Router
}

// Hub is the coordination hub. The current color lives only in memory and
// starts from the default color every time a Hub is created.
type Hub struct {
	mu      sync.RWMutex
	current colormath.Color

	store  *favorites.Store
	router Router

	notify chan bus.Message
	jobs   chan func(context.Context)
	log    *log.Logger
}

func New(opts Options) *Hub {
	h := &Hub{
		current: opts.DefaultColor,
		store:   opts.Favorites,
		router:  opts.Router,
		notify:  make(chan bus.Message, queueSize),
		jobs:    make(chan func(context.Context), queueSize),
		log:     log.For("hub"),
	}

	if !h.current.Valid() {
		h.log.Warnf("default color %q is not canonical, using %s", h.current, FallbackColor)
		h.current = FallbackColor
	}
	return h
}

// Color returns the current color.
func (h *Hub) Color() colormath.Color {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// ColorPicked makes c the current color and tells the surfaces about it.
func (h *Hub) ColorPicked(c colormath.Color) error {
	if !c.Valid() {
		return fmt.Errorf("color picked: %w: %q", colormath.ErrMalformedHex, c)
	}

	h.mu.Lock()
	h.current = c
	h.mu.Unlock()

	h.log.Infof("color picked %s", c)
	h.announce(bus.Message{Kind: bus.ColorUpdated, Color: c})
	return nil
}

// PickerCancelled tells the surfaces the picker was cancelled. The current color is kept.
func (h *Hub) PickerCancelled() {
	h.announce(bus.Message{Kind: bus.PickerCancelled})
}

// StartPicker asks the active page to start its picker.
// An unreachable page is not an error for the hub; the result may be discarded.
func (h *Hub) StartPicker(ctx context.Context) error {
	return h.forward(ctx, bus.Message{Kind: bus.StartPicker})
}

// StopPicker asks the active page to stop its picker.
func (h *Hub) StopPicker(ctx context.Context) error {
	return h.forward(ctx, bus.Message{Kind: bus.StopPicker})
}

func (h *Hub) forward(ctx context.Context, msg bus.Message) error {
	if h.router == nil {
		return bus.ErrUnreachable
	}
	if err := h.router.SendFocused(ctx, msg); err != nil {
		h.log.Debugf("forward %s: %v", msg, err)
		return err
	}
	return nil
}

// Command runs a named shortcut command.
func (h *Hub) Command(ctx context.Context, name string) error {
	switch name {
	case CommandStartPicker:
		_ = h.StartPicker(ctx)
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
}

func (h *Hub) Favorites(ctx context.Context) ([]colormath.Color, error) {
	return h.store.Load(ctx)
}

// AddFavorite saves c. Adding a saved color is a no-op.
func (h *Hub) AddFavorite(ctx context.Context, c colormath.Color) error {
	return h.store.Add(ctx, c)
}

// RemoveFavorite forgets c. Removing an unsaved color is a no-op.
func (h *Hub) RemoveFavorite(ctx context.Context, c colormath.Color) error {
	if !c.Valid() {
		return fmt.Errorf("remove favorite: %w: %q", colormath.ErrMalformedHex, c)
	}
	return h.store.Remove(ctx, c)
}

// announce queues a notification for the surfaces without waiting for delivery.
func (h *Hub) announce(msg bus.Message) {
	select {
	case h.notify <- msg:
	default:
		h.log.Warnf("notification queue full, dropped %s", msg)
	}
}

func (h *Hub) notifier(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-h.notify:
			if h.router == nil {
				continue
			}

			sendCtx, cancel := context.WithTimeout(ctx, notifyTimeout)
			if err := h.router.Broadcast(sendCtx, bus.RoleSurface, msg); err != nil {
				// no surface open
				h.log.Debugf("broadcast %s: %v", msg, err)
			}
			cancel()
		}
	}
}

// worker runs favorites jobs one at a time in arrival order.
func (h *Hub) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-h.jobs:
			job(ctx)
		}
	}
}

// enqueue hands job to the worker. It never blocks, so a slow store cannot
// hold up the receive loop.
func (h *Hub) enqueue(job func(context.Context)) error {
	select {
	case h.jobs <- job:
		return nil
	default:
		return ErrBusy
	}
}

func failure(err error) bus.Response {
	return bus.Response{Success: false, Error: err.Error()}
}

// Handle dispatches one message received on the hub's endpoint.
// Favorites requests are answered asynchronously by the worker started in Run.
func (h *Hub) Handle(ctx context.Context, env bus.Envelope) {
	switch env.Kind {
	case bus.GetColor:
		env.Reply(bus.Response{Color: h.Color()})

	case bus.ColorPicked:
		if err := h.ColorPicked(env.Color); err != nil {
			h.log.Warnf("%v", err)
		}

	case bus.PickerCancelled:
		h.PickerCancelled()

	case bus.StartPicker:
		_ = h.StartPicker(ctx)

	case bus.StopPicker:
		_ = h.StopPicker(ctx)

	case bus.GetFavorites:
		err := h.enqueue(func(ctx context.Context) {
			list, err := h.Favorites(ctx)
			if err != nil {
				h.log.Errorf("%v", err)
				env.Reply(bus.Response{Favorites: []colormath.Color{}, Error: err.Error()})
				return
			}
			env.Reply(bus.Response{Favorites: list})
		})
		if err != nil {
			h.log.Warnf("%s: %v", env.Message, err)
			env.Reply(bus.Response{Favorites: []colormath.Color{}, Error: err.Error()})
		}

	case bus.AddFavorite, bus.RemoveFavorite:
		err := h.enqueue(func(ctx context.Context) {
			var err error
			if env.Kind == bus.AddFavorite {
				err = h.AddFavorite(ctx, env.Color)
			} else {
				err = h.RemoveFavorite(ctx, env.Color)
			}

			if err != nil {
				h.log.Errorf("%s: %v", env.Message, err)
				env.Reply(failure(err))
				return
			}
			env.Reply(bus.Response{Success: true})
		})
		if err != nil {
			h.log.Warnf("%s: %v", env.Message, err)
			env.Reply(failure(err))
		}

	default:
		h.log.Debugf("ignored %s", env.Message)
		env.Reply(failure(fmt.Errorf("unsupported message %q", env.Kind)))
	}
}

// Run serves the hub's endpoint until ctx ends or the endpoint is closed.
func (h *Hub) Run(ctx context.Context, ep *bus.Endpoint) {
	ctx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		h.notifier(ctx)
	}()
	go func() {
		defer wg.Done()
		h.worker(ctx)
	}()

	defer func() {
		cancel()
		wg.Wait()
	}()

	h.log.Infof("running with color %s", h.Color())
	for {
		select {
		case <-ctx.Done():
			return
		case <-ep.Done():
			return
		case env := <-ep.Inbox():
			h.Handle(ctx, env)
		}
	}
}
