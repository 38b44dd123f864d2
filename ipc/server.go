package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eyedrop-cli/eyedrop/bus"
	"github.com/eyedrop-cli/eyedrop/log"
)

const maxFrameSize = 64 * 1024

// Commander runs shortcut commands. *hub.Hub satisfies it.
type Commander interface {
	Command(ctx context.Context, name string) error
}

// Server exposes a bus to other processes.
type Server struct {
	bus       *bus.Bus
	commander Commander
	listener  net.Listener
	timeout   time.Duration
	log       *log.Logger

	subscribers atomic.Uint64
	wg          sync.WaitGroup
}

// Listen binds the socket at path. A stale socket left by a dead daemon is
// replaced; a live one yields bus.ErrAddressInUse.
func Listen(path string, b *bus.Bus, commander Commander, timeout time.Duration) (*Server, error) {
	if _, err := os.Stat(path); err == nil {
		if conn, err := net.DialTimeout("unix", path, timeout); err == nil {
			_ = conn.Close()
			return nil, fmt.Errorf("%w: %s", bus.ErrAddressInUse, path)
		}
		if err := os.Remove(path); err != nil {
			return nil, fmt.Errorf("remove stale socket: %w", err)
		}
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}

	return &Server{
		bus:       b,
		commander: commander,
		listener:  listener,
		timeout:   timeout,
		log:       log.For("ipc").With("socket", path),
	}, nil
}

// Addr is the socket path.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Serve accepts connections until ctx ends, then waits for them to finish.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-ctx.Done()
		_ = s.listener.Close()
	}()

	s.log.Infof("listening")
	defer s.wg.Wait()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handle(ctx, conn)
		}()
	}
}

// Close stops accepting connections.
func (s *Server) Close() error {
	return s.listener.Close()
}

// connWriter serialises frames written to one connection.
type connWriter struct {
	mu   sync.Mutex
	conn net.Conn
	enc  *json.Encoder
}

func (w *connWriter) write(f Frame) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	// Encode terminates the frame with a newline
	return w.enc.Encode(f)
}

func (s *Server) handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	w := &connWriter{conn: conn, enc: json.NewEncoder(conn)}
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), maxFrameSize)

	var subscription *bus.Endpoint
	defer func() {
		if subscription != nil {
			subscription.Close()
		}
	}()

	for scanner.Scan() {
		var f Frame
		if err := json.Unmarshal(scanner.Bytes(), &f); err != nil {
			_ = w.write(errorFrame(0, fmt.Errorf("%w: %v", ErrProtocol, err)))
			continue
		}

		if f.Type == FrameSubscribe {
			if subscription != nil {
				_ = w.write(errorFrame(f.ID, fmt.Errorf("%w: already subscribed", ErrProtocol)))
				continue
			}

			ep, err := s.subscribe(ctx, w)
			if err != nil {
				_ = w.write(errorFrame(f.ID, err))
				continue
			}
			subscription = ep
			_ = w.write(Frame{ID: f.ID, Type: FrameResponse, Response: &bus.Response{Success: true}})
			continue
		}

		if err := w.write(s.answer(ctx, f)); err != nil {
			s.log.Debugf("write: %v", err)
			return
		}
	}
}

// answer handles one request, send or command frame.
func (s *Server) answer(ctx context.Context, f Frame) Frame {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	switch f.Type {
	case FrameRequest:
		if f.Message == nil {
			return errorFrame(f.ID, fmt.Errorf("%w: request without message", ErrProtocol))
		}
		resp, err := s.bus.Request(ctx, *f.Message)
		if err != nil {
			return errorFrame(f.ID, err)
		}
		return Frame{ID: f.ID, Type: FrameResponse, Response: &resp}

	case FrameSend:
		if f.Message == nil {
			return errorFrame(f.ID, fmt.Errorf("%w: send without message", ErrProtocol))
		}
		if err := s.bus.Send(ctx, *f.Message); err != nil {
			return errorFrame(f.ID, err)
		}
		return Frame{ID: f.ID, Type: FrameResponse, Response: &bus.Response{Success: true}}

	case FrameCommand:
		if s.commander == nil {
			return errorFrame(f.ID, errors.New("commands are not served here"))
		}
		if err := s.commander.Command(ctx, f.Command); err != nil {
			return errorFrame(f.ID, err)
		}
		return Frame{ID: f.ID, Type: FrameResponse, Response: &bus.Response{Success: true}}

	default:
		return errorFrame(f.ID, fmt.Errorf("%w: unexpected frame %q", ErrProtocol, f.Type))
	}
}

// subscribe attaches a surface endpoint for the connection and pumps its
// notifications to the client.
func (s *Server) subscribe(ctx context.Context, w *connWriter) (*bus.Endpoint, error) {
	id := "ipc-" + strconv.FormatUint(s.subscribers.Add(1), 10)
	ep, err := s.bus.Attach(bus.SurfaceAddr(id))
	if err != nil {
		return nil, err
	}

	s.log.Debugf("subscribed %s", id)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ep.Done():
				return
			case env := <-ep.Inbox():
				msg := env.Message
				if err := w.write(Frame{Type: FrameNotification, Message: &msg}); err != nil {
					s.log.Debugf("notify %s: %v", id, err)
					ep.Close()
					return
				}
			}
		}
	}()
	return ep, nil
}
