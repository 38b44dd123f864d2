// Package surface holds the state of the transient user-facing view.
//
// A Surface renders nothing itself. It keeps the shown color, the raw text of
// every format field, the picker indicator and a cached copy of the favorites,
// and talks to the hub through a bus.Port. Front ends such as the TUI drive it
// and draw its Snapshot.
package surface

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/eyedrop-cli/eyedrop/bus"
	"github.com/eyedrop-cli/eyedrop/clipboard"
	"github.com/eyedrop-cli/eyedrop/colormath"
	"github.com/eyedrop-cli/eyedrop/log"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Tab is the visible page of the surface.
type Tab int

const (
	TabPicker Tab = iota
	TabFavorites
)

// DefaultInitialColor is shown until the hub answers.
const DefaultInitialColor colormath.Color = "#FF0000"

// Options configure a Surface.
type Options struct {
	Port         bus.Port
	Clipboard    clipboard.Writer
	InitialColor colormath.Color
	CopyOnPick   bool
	CopyFeedback time.Duration

	// Now is the clock used for the copied mark. Defaults to time.Now.
	Now func() time.Time
}

// Surface is the state of one open view.
type Surface struct {
	port       bus.Port
	clip       clipboard.Writer
	copyOnPick bool
	feedback   time.Duration
	now        func() time.Time
	log        *log.Logger

	mu        sync.Mutex
	color     colormath.Color
	active    bool
	inputs    map[colormath.Format]string
	copied    mo.Option[colormath.Format]
	copiedAt  time.Time
	favorites []colormath.Color
	tab       Tab
}

func New(opts Options) *Surface {
	s := &Surface{
		port:       opts.Port,
		clip:       opts.Clipboard,
		copyOnPick: opts.CopyOnPick,
		feedback:   opts.CopyFeedback,
		now:        opts.Now,
		log:        log.For("surface"),
		color:      opts.InitialColor,
		inputs:     make(map[colormath.Format]string),
		favorites:  []colormath.Color{},
	}

	if s.now == nil {
		s.now = time.Now
	}
	if !s.color.Valid() {
		s.color = DefaultInitialColor
	}
	s.derive()
	return s
}

// derive rewrites every field from the current color. Callers hold mu.
func (s *Surface) derive() {
	for _, f := range colormath.Formats {
		s.inputs[f] = colormath.Render(s.color, f)
	}
}

// setColor changes the shown color. Callers hold mu.
func (s *Surface) setColor(c colormath.Color) {
	if c == s.color {
		return
	}
	s.color = c
	s.derive()
}

// Load asks the hub for the current color and the favorites.
// Failures leave the previous values in place and are returned for logging only.
func (s *Surface) Load(ctx context.Context) error {
	return errors.Join(s.loadColor(ctx), s.ReloadFavorites(ctx))
}

func (s *Surface) loadColor(ctx context.Context) error {
	r, err := s.port.Request(ctx, bus.Message{Kind: bus.GetColor})
	if err != nil {
		return fmt.Errorf("get color: %w", err)
	}
	if !r.Color.Valid() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.setColor(r.Color)
	return nil
}

// ReloadFavorites refreshes the cached favorites.
func (s *Surface) ReloadFavorites(ctx context.Context) error {
	r, err := s.port.Request(ctx, bus.Message{Kind: bus.GetFavorites})
	if err != nil {
		return fmt.Errorf("get favorites: %w", err)
	}
	if r.Error != "" {
		return fmt.Errorf("get favorites: %s", r.Error)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.favorites = append([]colormath.Color{}, r.Favorites...)
	return nil
}

// Handle applies a notification from the hub and reports whether it changed anything.
func (s *Surface) Handle(msg bus.Message) bool {
	switch msg.Kind {
	case bus.ColorUpdated:
		if !msg.Color.Valid() {
			return false
		}

		s.mu.Lock()
		s.setColor(msg.Color)
		s.active = false
		s.mu.Unlock()

		if s.copyOnPick {
			s.write(string(msg.Color))
		}
		return true

	case bus.PickerCancelled:
		s.mu.Lock()
		defer s.mu.Unlock()
		s.active = false
		return true

	default:
		return false
	}
}

func (s *Surface) write(text string) bool {
	if s.clip == nil {
		return false
	}
	if err := s.clip.Write(text); err != nil {
		s.log.Debugf("clipboard: %v", err)
		return false
	}
	return true
}

// StartPicker marks the picker active and asks the active page to start it.
// When the page cannot be reached the mark is cleared again.
func (s *Surface) StartPicker(ctx context.Context) error {
	s.mu.Lock()
	s.active = true
	s.mu.Unlock()

	if err := s.port.Send(ctx, bus.Message{Kind: bus.StartPicker}); err != nil {
		s.mu.Lock()
		s.active = false
		s.mu.Unlock()
		return fmt.Errorf("start picker: %w", err)
	}
	return nil
}

// StopPicker clears the picker mark and asks the active page to stop.
func (s *Surface) StopPicker(ctx context.Context) error {
	s.mu.Lock()
	s.active = false
	s.mu.Unlock()

	if err := s.port.Send(ctx, bus.Message{Kind: bus.StopPicker}); err != nil {
		return fmt.Errorf("stop picker: %w", err)
	}
	return nil
}

// Input records text typed into the field of format f. The text is kept as
// typed; the shown color only changes when the text is a valid color in that
// format. It reports whether the text committed.
func (s *Surface) Input(f colormath.Format, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inputs[f] = text
	c, ok := colormath.Commit(f, text).Get()
	if !ok {
		return false
	}
	s.setColor(c)
	return true
}

// Copy puts the color rendered in format f on the clipboard and marks f as copied.
func (s *Surface) Copy(f colormath.Format) (string, error) {
	s.mu.Lock()
	text := colormath.Render(s.color, f)
	s.mu.Unlock()

	if s.clip == nil {
		return text, errors.New("no clipboard")
	}
	if err := s.clip.Write(text); err != nil {
		return text, err
	}

	s.mu.Lock()
	s.copied = mo.Some(f)
	s.copiedAt = s.now()
	s.mu.Unlock()
	return text, nil
}

// ToggleFavorite saves the shown color, or forgets it when already saved, then reloads the favorites.
func (s *Surface) ToggleFavorite(ctx context.Context) error {
	s.mu.Lock()
	c := s.color
	saved := lo.Contains(s.favorites, c)
	s.mu.Unlock()

	kind := bus.AddFavorite
	if saved {
		kind = bus.RemoveFavorite
	}

	if err := s.mutate(ctx, kind, c); err != nil {
		return err
	}
	return s.ReloadFavorites(ctx)
}

// RemoveFavorite forgets c and reloads the favorites.
func (s *Surface) RemoveFavorite(ctx context.Context, c colormath.Color) error {
	if err := s.mutate(ctx, bus.RemoveFavorite, c); err != nil {
		return err
	}
	return s.ReloadFavorites(ctx)
}

func (s *Surface) mutate(ctx context.Context, kind bus.Kind, c colormath.Color) error {
	r, err := s.port.Request(ctx, bus.Message{Kind: kind, Color: c})
	if err != nil {
		return fmt.Errorf("%s: %w", kind, err)
	}
	if !r.Success {
		return fmt.Errorf("%s: %s", kind, r.Error)
	}
	return nil
}

// Select shows a favorite and switches to the picker tab.
func (s *Surface) Select(c colormath.Color) {
	if !c.Valid() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.setColor(c)
	s.tab = TabPicker
}

// SetTab switches the visible tab.
func (s *Surface) SetTab(t Tab) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tab = t
}

// Snapshot is a consistent copy of the surface state for rendering.
type Snapshot struct {
	Color      colormath.Color
	TextColor  string
	Active     bool
	Inputs     map[colormath.Format]string
	Copied     mo.Option[colormath.Format]
	Favorites  []colormath.Color
	IsFavorite bool
	Tab        Tab
}

func (s *Surface) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := s.copied
	if copied.IsPresent() && s.now().Sub(s.copiedAt) >= s.feedback {
		s.copied = mo.None[colormath.Format]()
		copied = s.copied
	}

	return Snapshot{
		Color:      s.color,
		TextColor:  colormath.TextColor(string(s.color)),
		Active:     s.active,
		Inputs:     lo.Assign(s.inputs),
		Copied:     copied,
		Favorites:  append([]colormath.Color{}, s.favorites...),
		IsFavorite: lo.Contains(s.favorites, s.color),
		Tab:        s.tab,
	}
}

// CopyFeedback is how long the copied mark stays.
func (s *Surface) CopyFeedback() time.Duration {
	return s.feedback
}
