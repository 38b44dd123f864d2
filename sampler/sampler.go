// Package sampler wraps the environment's color sampling capability.
//
// A Sampler is engaged once per pick and resolves with either a color or an
// error. ErrAborted and ErrNotAllowed are user cancellations, not failures.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/eyedrop-cli/eyedrop/colormath"
	"github.com/eyedrop-cli/eyedrop/util"
	"github.com/samber/lo"
)

var (
	// ErrAborted means the user dismissed the sampler, e.g. with Escape.
	ErrAborted = errors.New("sampling aborted")

	// ErrNotAllowed means the environment refused to engage the sampler.
	ErrNotAllowed = errors.New("sampling not allowed")

	// ErrUnavailable means no sampler exists in this environment.
	ErrUnavailable = errors.New("no color sampler available")
)

// Modes accepted by Resolve.
const (
	ModeAuto    = "auto"
	ModeCommand = "command"
	ModePrompt  = "prompt"
	ModeNone    = "none"
)

// Modes lists every mode, in the order they are documented.
var Modes = []string{ModeAuto, ModeCommand, ModePrompt, ModeNone}

// Sampler is an environment-provided way to let the user pick a color.
type Sampler interface {
	Name() string

	// Available reports whether Sample can be engaged at all.
	Available() bool

	// Sample blocks until the user picked a color or cancelled.
	Sample(ctx context.Context) (colormath.Color, error)
}

// IsCancellation reports whether err is a user cancellation rather than a failure.
func IsCancellation(err error) bool {
	return errors.Is(err, ErrAborted) || errors.Is(err, ErrNotAllowed)
}

// Resolve picks the sampler for the given mode. commandLine is only used by
// the auto and command modes. The result may be unavailable.
func Resolve(mode, commandLine string) (Sampler, error) {
	return resolve(mode, commandLine, util.IsInteractive())
}

// ResolveHeld is Resolve for a process whose terminal is held by a full-screen
// UI. The prompt sampler would fight the UI for stdin, so it resolves to None.
func ResolveHeld(mode, commandLine string) (Sampler, error) {
	return resolve(mode, commandLine, false)
}

func resolve(mode, commandLine string, prompt bool) (Sampler, error) {
	switch strings.ToLower(mode) {
	case ModeNone:
		return None{}, nil
	case ModePrompt:
		if !prompt {
			return None{}, nil
		}
		return Prompt{}, nil
	case ModeCommand:
		if commandLine != "" {
			return NewCommand(commandLine)
		}
		return firstKnown().OrElse(&Command{name: Known[0][0], args: Known[0][1:]}), nil
	case ModeAuto, "":
		if commandLine != "" {
			return NewCommand(commandLine)
		}
		if c, ok := firstKnown().Get(); ok {
			return c, nil
		}
		if prompt {
			return Prompt{}, nil
		}
		return None{}, nil
	default:
		return nil, fmt.Errorf("unknown sampler mode %q", mode)
	}
}

// None is the sampler of environments without any capability.
type None struct{}

func (None) Name() string    { return ModeNone }
func (None) Available() bool { return false }

func (None) Sample(context.Context) (colormath.Color, error) {
	return "", ErrUnavailable
}

// Names lists the known sampler programs, for help output.
func Names() []string {
	return lo.Map(Known, func(argv []string, _ int) string {
		return argv[0]
	})
}
