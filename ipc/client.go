package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eyedrop-cli/eyedrop/bus"
	"github.com/eyedrop-cli/eyedrop/log"
)

// Client talks to a daemon. It implements bus.Port, so a surface can use it
// in place of an in-process endpoint.
type Client struct {
	path    string
	timeout time.Duration
	seq     atomic.Uint64
	log     *log.Logger

	mu     sync.Mutex
	subs   []net.Conn
	closed bool
}

// Dial checks that a daemon listens on path and returns a client for it.
func Dial(path string, timeout time.Duration) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, timeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotRunning, err)
	}
	_ = conn.Close()

	return &Client{
		path:    path,
		timeout: timeout,
		log:     log.For("ipc-client"),
	}, nil
}

func (c *Client) dial(ctx context.Context) (net.Conn, error) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}

	dialer := net.Dialer{Timeout: c.timeout}
	conn, err := dialer.DialContext(ctx, "unix", c.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", bus.ErrUnreachable, err)
	}
	return conn, nil
}

// roundTrip sends f on a fresh connection and reads the answer.
func (c *Client) roundTrip(ctx context.Context, f Frame) (Frame, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return Frame{}, err
	}
	defer conn.Close()

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return Frame{}, fmt.Errorf("set deadline: %w", err)
	}

	f.ID = c.seq.Add(1)
	answer, err := exchange(conn, bufio.NewReader(conn), f)
	if err != nil {
		return Frame{}, err
	}

	if answer.Type == FrameError {
		return Frame{}, answer.asError()
	}
	if answer.Type != FrameResponse || answer.Response == nil {
		return Frame{}, fmt.Errorf("%w: got %q frame", ErrProtocol, answer.Type)
	}
	return answer, nil
}

func exchange(conn net.Conn, r *bufio.Reader, f Frame) (Frame, error) {
	payload, err := json.Marshal(f)
	if err != nil {
		return Frame{}, fmt.Errorf("marshal: %w", err)
	}

	if _, err := conn.Write(append(payload, '\n')); err != nil {
		return Frame{}, fmt.Errorf("write: %w", err)
	}

	line, err := r.ReadBytes('\n')
	if err != nil {
		return Frame{}, fmt.Errorf("read: %w", err)
	}

	var answer Frame
	if err := json.Unmarshal(line, &answer); err != nil {
		return Frame{}, fmt.Errorf("unmarshal: %w", err)
	}
	return answer, nil
}

// Send delivers a fire-and-forget message through the daemon's bus.
func (c *Client) Send(ctx context.Context, msg bus.Message) error {
	_, err := c.roundTrip(ctx, Frame{Type: FrameSend, Message: &msg})
	return err
}

// Request asks the daemon's hub and returns its answer.
func (c *Client) Request(ctx context.Context, msg bus.Message) (bus.Response, error) {
	answer, err := c.roundTrip(ctx, Frame{Type: FrameRequest, Message: &msg})
	if err != nil {
		return bus.Response{}, err
	}
	return *answer.Response, nil
}

// Command runs a shortcut command on the daemon.
func (c *Client) Command(ctx context.Context, name string) error {
	_, err := c.roundTrip(ctx, Frame{Type: FrameCommand, Command: name})
	return err
}

// Subscribe registers as a surface and returns the notifications addressed to
// surfaces. The channel is closed when ctx ends, the client is closed or the
// daemon goes away.
func (c *Client) Subscribe(ctx context.Context) (<-chan bus.Message, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}

	if err := conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		conn.Close()
		return nil, err
	}

	r := bufio.NewReader(conn)
	answer, err := exchange(conn, r, Frame{ID: c.seq.Add(1), Type: FrameSubscribe})
	if err != nil {
		conn.Close()
		return nil, err
	}
	if answer.Type == FrameError {
		conn.Close()
		return nil, answer.asError()
	}

	// notifications may arrive at any time from now on
	if err := conn.SetDeadline(time.Time{}); err != nil {
		conn.Close()
		return nil, err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		conn.Close()
		return nil, ErrClosed
	}
	c.subs = append(c.subs, conn)
	c.mu.Unlock()

	out := make(chan bus.Message)
	go c.readLoop(ctx, conn, r, out)
	return out, nil
}

func (c *Client) readLoop(ctx context.Context, conn net.Conn, r *bufio.Reader, out chan<- bus.Message) {
	defer close(out)

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-stop:
		}
	}()

	for {
		line, err := r.ReadBytes('\n')
		if err != nil {
			c.log.Debugf("subscription ended: %v", err)
			_ = conn.Close()
			return
		}

		var f Frame
		if err := json.Unmarshal(line, &f); err != nil {
			c.log.Warnf("skipping unparseable frame: %v", err)
			continue
		}
		if f.Type != FrameNotification || f.Message == nil {
			continue
		}

		select {
		case out <- *f.Message:
		case <-ctx.Done():
			return
		}
	}
}

// Close ends every subscription. Further calls fail with ErrClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	for _, conn := range c.subs {
		_ = conn.Close()
	}
	c.subs = nil
	return nil
}
