// Package clipboard writes text to the system clipboard, falling back to the
// OSC 52 terminal escape when no clipboard utility is available.
package clipboard

import (
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
	"github.com/eyedrop-cli/eyedrop/log"
	"golang.org/x/term"
)

// Writer puts text on a clipboard.
type Writer interface {
	Write(text string) error
}

// System is the system clipboard.
type System struct {
	// Fallback receives the OSC 52 sequence. Defaults to stderr when it is a terminal.
	Fallback io.Writer
}

func (s System) Write(text string) error {
	if !clipboard.Unsupported {
		err := clipboard.WriteAll(text)
		if err == nil {
			return nil
		}
		log.For("clipboard").Debugf("system clipboard: %v", err)
	}

	out := s.Fallback
	if out == nil {
		if !term.IsTerminal(int(os.Stderr.Fd())) {
			return fmt.Errorf("no clipboard available")
		}
		out = os.Stderr
	}

	if _, err := osc52.New(text).WriteTo(out); err != nil {
		return fmt.Errorf("osc52: %w", err)
	}
	return nil
}

// Func adapts a function to Writer.
type Func func(text string) error

func (f Func) Write(text string) error {
	return f(text)
}
