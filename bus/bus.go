// Package bus connects independent contexts through message passing.
//
// Every context (the hub, surfaces and pages) attaches an Endpoint and reads
// its inbox; nothing is shared between contexts except the messages themselves.
// Delivery is not guaranteed: sending to an address with no endpoint fails with
// ErrUnreachable and callers are expected to carry on.
package bus

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/eyedrop-cli/eyedrop/log"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

var (
	// ErrUnreachable is returned when no endpoint received a message.
	ErrUnreachable = errors.New("context unreachable")

	// ErrAddressInUse is returned by Attach for an address that already has an endpoint.
	ErrAddressInUse = errors.New("address already in use")

	// ErrNoResponse is returned by Request when the receiver never answered.
	ErrNoResponse = errors.New("no response")

	// ErrNotRequest is returned by Request for kinds that are never answered.
	ErrNotRequest = errors.New("message kind expects no response")
)

// Port is what a context uses to reach the others.
type Port interface {
	// Send delivers a fire-and-forget message, routed by its kind.
	Send(ctx context.Context, msg Message) error

	// Request delivers a message routed by its kind and waits for the answer.
	Request(ctx context.Context, msg Message) (Response, error)
}

// Envelope is a message as seen by its receiver.
type Envelope struct {
	Message
	From  Address
	reply chan<- Response
}

// ExpectsReply reports whether the sender waits for Reply.
func (e Envelope) ExpectsReply() bool {
	return e.reply != nil
}

// Reply answers the sender. It never blocks and only the first reply counts.
func (e Envelope) Reply(r Response) {
	if e.reply == nil {
		return
	}
	select {
	case e.reply <- r:
	default:
	}
}

// Bus is an in-process message bus.
type Bus struct {
	mu        sync.RWMutex
	endpoints map[Address]*Endpoint
	focused   mo.Option[string]
	buffer    int
	log       *log.Logger
}

// New returns a bus whose endpoints buffer up to buffer messages each.
func New(buffer int) *Bus {
	if buffer < 1 {
		buffer = 1
	}
	return &Bus{
		endpoints: make(map[Address]*Endpoint),
		buffer:    buffer,
		log:       log.For("bus"),
	}
}

// Attach creates the endpoint for addr.
func (b *Bus) Attach(addr Address) (*Endpoint, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.endpoints[addr]; ok {
		return nil, fmt.Errorf("%w: %s", ErrAddressInUse, addr)
	}

	ep := &Endpoint{
		bus:   b,
		addr:  addr,
		inbox: make(chan Envelope, b.buffer),
		done:  make(chan struct{}),
	}
	b.endpoints[addr] = ep
	b.log.Debugf("attached %s", addr)
	return ep, nil
}

func (b *Bus) detach(ep *Endpoint) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.endpoints[ep.addr] == ep {
		delete(b.endpoints, ep.addr)
		b.log.Debugf("detached %s", ep.addr)
	}
}

// Focus marks the page with the given id as the active one.
func (b *Bus) Focus(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.focused = mo.Some(id)
}

// Focused returns the address of the active page, if any was focused.
// The page may have gone away since.
func (b *Bus) Focused() mo.Option[Address] {
	b.mu.RLock()
	defer b.mu.RUnlock()

	id, ok := b.focused.Get()
	if !ok {
		return mo.None[Address]()
	}
	return mo.Some(PageAddr(id))
}

// Attached reports whether addr currently has an endpoint.
func (b *Bus) Attached(addr Address) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.endpoints[addr]
	return ok
}

func (b *Bus) lookup(addr Address) (*Endpoint, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ep, ok := b.endpoints[addr]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnreachable, addr)
	}
	return ep, nil
}

func (b *Bus) role(role Role) []*Endpoint {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return lo.Filter(lo.Values(b.endpoints), func(ep *Endpoint, _ int) bool {
		return ep.addr.Role == role
	})
}

func (b *Bus) deliver(ctx context.Context, ep *Endpoint, env Envelope) error {
	select {
	case <-ep.done:
		return fmt.Errorf("%w: %s", ErrUnreachable, ep.addr)
	default:
	}

	select {
	case ep.inbox <- env:
		return nil
	case <-ep.done:
		return fmt.Errorf("%w: %s", ErrUnreachable, ep.addr)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SendTo delivers a fire-and-forget message to addr.
func (b *Bus) SendTo(ctx context.Context, to Address, msg Message) error {
	ep, err := b.lookup(to)
	if err != nil {
		return err
	}
	return b.deliver(ctx, ep, Envelope{Message: msg})
}

// RequestTo delivers msg to addr and waits for its answer.
func (b *Bus) RequestTo(ctx context.Context, to Address, msg Message) (Response, error) {
	if !msg.Kind.Expects() {
		return Response{}, fmt.Errorf("%w: %s", ErrNotRequest, msg.Kind)
	}

	ep, err := b.lookup(to)
	if err != nil {
		return Response{}, err
	}

	reply := make(chan Response, 1)
	if err := b.deliver(ctx, ep, Envelope{Message: msg, reply: reply}); err != nil {
		return Response{}, err
	}

	select {
	case r := <-reply:
		return r, nil
	case <-ep.done:
		return Response{}, fmt.Errorf("%w: %s went away", ErrNoResponse, to)
	case <-ctx.Done():
		return Response{}, fmt.Errorf("%w: %w", ErrNoResponse, ctx.Err())
	}
}

// Broadcast delivers msg to every endpoint of role.
// It fails with ErrUnreachable only when nobody received it.
func (b *Bus) Broadcast(ctx context.Context, role Role, msg Message) error {
	var delivered int
	for _, ep := range b.role(role) {
		if err := b.deliver(ctx, ep, Envelope{Message: msg}); err != nil {
			b.log.Debugf("broadcast %s to %s: %v", msg, ep.addr, err)
			continue
		}
		delivered++
	}

	if delivered == 0 {
		return fmt.Errorf("%w: no %s listening", ErrUnreachable, role)
	}
	return nil
}

// SendFocused delivers msg to the active page.
func (b *Bus) SendFocused(ctx context.Context, msg Message) error {
	addr, ok := b.Focused().Get()
	if !ok {
		return fmt.Errorf("%w: no active page", ErrUnreachable)
	}
	return b.SendTo(ctx, addr, msg)
}

// Send routes msg by its kind: page kinds go to the active page,
// colorUpdated to every surface and everything else to the hub.
func (b *Bus) Send(ctx context.Context, msg Message) error {
	switch msg.Kind.Target() {
	case RolePage:
		return b.SendFocused(ctx, msg)
	case RoleSurface:
		return b.Broadcast(ctx, RoleSurface, msg)
	default:
		return b.SendTo(ctx, HubAddr, msg)
	}
}

// Request sends msg to the hub and waits for its answer.
func (b *Bus) Request(ctx context.Context, msg Message) (Response, error) {
	return b.RequestTo(ctx, HubAddr, msg)
}

// Endpoint is the attachment point of one context.
type Endpoint struct {
	bus   *Bus
	addr  Address
	inbox chan Envelope
	done  chan struct{}
	once  sync.Once
}

func (e *Endpoint) Address() Address {
	return e.addr
}

// Inbox yields the messages addressed to this endpoint.
// Readers should also watch Done, the inbox itself is never closed.
func (e *Endpoint) Inbox() <-chan Envelope {
	return e.inbox
}

// Done is closed once the endpoint is detached.
func (e *Endpoint) Done() <-chan struct{} {
	return e.done
}

func (e *Endpoint) Send(ctx context.Context, msg Message) error {
	return e.bus.Send(ctx, msg)
}

func (e *Endpoint) Request(ctx context.Context, msg Message) (Response, error) {
	return e.bus.Request(ctx, msg)
}

// Close detaches the endpoint. Messages still in the inbox are dropped.
func (e *Endpoint) Close() {
	e.once.Do(func() {
		e.bus.detach(e)
		close(e.done)
	})
}
