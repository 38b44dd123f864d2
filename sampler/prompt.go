package sampler

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/eyedrop-cli/eyedrop/colormath"
	"github.com/eyedrop-cli/eyedrop/util"
)

// Prompt asks for a color on the terminal. It is the fallback when no picker program is installed.
type Prompt struct{}

func (Prompt) Name() string {
	return ModePrompt
}

func (Prompt) Available() bool {
	return util.IsInteractive()
}

func validate(answer any) error {
	text, _ := answer.(string)
	if colormath.ParseAny(text).IsAbsent() {
		return fmt.Errorf("%q is not a hex, rgb() or hsl() color", text)
	}
	return nil
}

// Sample shows the prompt. The prompt itself cannot be interrupted by ctx;
// when ctx ends first its answer is dropped.
func (p Prompt) Sample(ctx context.Context) (colormath.Color, error) {
	if !p.Available() {
		return "", fmt.Errorf("%w: not a terminal", ErrUnavailable)
	}

	type result struct {
		answer string
		err    error
	}
	done := make(chan result, 1)

	go func() {
		var answer string
		err := survey.AskOne(&survey.Input{
			Message: "Color",
			Help:    "#RRGGBB, rgb(r, g, b) or hsl(h, s%, l%)",
		}, &answer, survey.WithValidator(validate))
		done <- result{answer, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		if errors.Is(r.err, terminal.InterruptErr) {
			return "", ErrAborted
		}
		if r.err != nil {
			return "", r.err
		}
		return colormath.ParseAny(r.answer).MustGet(), nil
	}
}
