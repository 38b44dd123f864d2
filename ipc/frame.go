// Package ipc carries the message protocol between OS processes over a unix socket.
//
// Every frame is one JSON object terminated by a newline. A client sends one
// request frame per connection and reads one answer, except after subscribe,
// when the connection stays open and the server pushes notification frames.
package ipc

import (
	"errors"
	"fmt"

	"github.com/eyedrop-cli/eyedrop/bus"
	"github.com/eyedrop-cli/eyedrop/hub"
)

// FrameType distinguishes frames.
type FrameType string

const (
	// Client to server.
	FrameRequest   FrameType = "request"
	FrameSend      FrameType = "send"
	FrameCommand   FrameType = "command"
	FrameSubscribe FrameType = "subscribe"

	// Server to client.
	FrameResponse     FrameType = "response"
	FrameNotification FrameType = "notification"
	FrameError        FrameType = "error"
)

// Error codes carried by error frames.
const (
	CodeBadRequest     = "bad_request"
	CodeUnreachable    = "unreachable"
	CodeNoResponse     = "no_response"
	CodeUnknownCommand = "unknown_command"
	CodeInternal       = "internal"
)

// Frame is the unit of the wire protocol.
type Frame struct {
	ID       uint64        `json:"id,omitempty"`
	Type     FrameType     `json:"type" jsonschema:"enum=request,enum=send,enum=command,enum=subscribe,enum=response,enum=notification,enum=error"`
	Message  *bus.Message  `json:"message,omitempty"`
	Response *bus.Response `json:"response,omitempty"`
	Command  string        `json:"command,omitempty"`
	Code     string        `json:"code,omitempty"`
	Error    string        `json:"error,omitempty"`
}

var (
	// ErrNotRunning is returned by Dial when no daemon listens on the socket.
	ErrNotRunning = errors.New("daemon is not running")

	// ErrClosed is returned by a closed client.
	ErrClosed = errors.New("client closed")

	// ErrProtocol is returned for frames that make no sense at that point.
	ErrProtocol = errors.New("protocol violation")
)

func codeOf(err error) string {
	switch {
	case errors.Is(err, bus.ErrUnreachable):
		return CodeUnreachable
	case errors.Is(err, bus.ErrNoResponse):
		return CodeNoResponse
	case errors.Is(err, hub.ErrUnknownCommand):
		return CodeUnknownCommand
	case errors.Is(err, bus.ErrNotRequest), errors.Is(err, ErrProtocol):
		return CodeBadRequest
	default:
		return CodeInternal
	}
}

func errorFrame(id uint64, err error) Frame {
	return Frame{ID: id, Type: FrameError, Code: codeOf(err), Error: err.Error()}
}

// asError turns an error frame back into an error matching the original sentinel.
func (f Frame) asError() error {
	var sentinel error
	switch f.Code {
	case CodeUnreachable:
		sentinel = bus.ErrUnreachable
	case CodeNoResponse:
		sentinel = bus.ErrNoResponse
	case CodeUnknownCommand:
		sentinel = hub.ErrUnknownCommand
	case CodeBadRequest:
		sentinel = ErrProtocol
	default:
		return fmt.Errorf("daemon: %s", f.Error)
	}
	return fmt.Errorf("%w (daemon: %s)", sentinel, f.Error)
}
