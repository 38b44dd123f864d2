package sampler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/eyedrop-cli/eyedrop/colormath"
	"github.com/kballard/go-shellquote"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Known are picker programs tried in order by the auto mode.
// Each prints the picked color to stdout and exits without output when dismissed.
var Known = [][]string{
	{"hyprpicker", "--format=hex"},
	{"xcolor", "--format", "hex"},
	{"gpick", "--pick", "--single", "--output", "--no-newline"},
	{"kcolorchooser", "--print"},
}

// Command samples by running an external picker program.
type Command struct {
	name string
	args []string
}

// NewCommand parses a shell-style command line.
func NewCommand(line string) (*Command, error) {
	argv, err := shellquote.Split(line)
	if err != nil {
		return nil, fmt.Errorf("parse sampler command: %w", err)
	}
	if len(argv) == 0 {
		return nil, errors.New("empty sampler command")
	}
	return &Command{name: argv[0], args: argv[1:]}, nil
}

func firstKnown() mo.Option[Sampler] {
	argv, ok := lo.Find(Known, func(argv []string) bool {
		_, err := exec.LookPath(argv[0])
		return err == nil
	})
	if !ok {
		return mo.None[Sampler]()
	}
	return mo.Some[Sampler](&Command{name: argv[0], args: argv[1:]})
}

func (c *Command) Name() string {
	return c.name
}

func (c *Command) Available() bool {
	_, err := exec.LookPath(c.name)
	return err == nil
}

func (c *Command) Sample(ctx context.Context) (colormath.Color, error) {
	if !c.Available() {
		return "", fmt.Errorf("%w: %s not found", ErrUnavailable, c.name)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.name, c.args...)
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}

	text := strings.TrimSpace(string(out))
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && text == "" {
			if strings.Contains(strings.ToLower(stderr.String()), "permission") {
				return "", fmt.Errorf("%w: %s", ErrNotAllowed, strings.TrimSpace(stderr.String()))
			}
			return "", fmt.Errorf("%w: %s exited with %d", ErrAborted, c.name, exitErr.ExitCode())
		}
		return "", fmt.Errorf("run %s: %w", c.name, err)
	}

	if text == "" {
		return "", fmt.Errorf("%w: %s printed nothing", ErrAborted, c.name)
	}

	color, ok := colormath.ParseAny(lastLine(text)).Get()
	if !ok {
		return "", fmt.Errorf("%s printed an unrecognised color %q", c.name, text)
	}
	return color, nil
}

func lastLine(text string) string {
	lines := strings.Split(text, "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
