// Package favorites persists the ordered list of saved colors.
//
// The list is stored as a single value under one key and rewritten in full on every change.
package favorites

import (
	"context"
	"fmt"
	"sync"

	"github.com/eyedrop-cli/eyedrop/colormath"
	"github.com/eyedrop-cli/eyedrop/kv"
	"github.com/samber/lo"
)

// DefaultKey is the storage key used when none is configured.
const DefaultKey = "colorFavorites"

// Store owns the favorites entry of a kv.Store. No other component touches that key.
type Store struct {
	// mu serialises read-modify-write cycles issued through this Store.
	mu  sync.Mutex
	kv  kv.Store
	key string
}

// New returns a favorites store keeping its list under key.
func New(store kv.Store, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{kv: store, key: key}
}

// Load returns the saved list, or an empty list when nothing was saved yet.
func (s *Store) Load(ctx context.Context) ([]colormath.Color, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Store) load(ctx context.Context) ([]colormath.Color, error) {
	saved, err := kv.GetJSON[[]colormath.Color](ctx, s.kv, s.key)
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	return saved.OrElse([]colormath.Color{}), nil
}

// Save writes list back under the favorites key.
func (s *Store) Save(ctx context.Context, list []colormath.Color) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, list)
}

func (s *Store) save(ctx context.Context, list []colormath.Color) error {
	if list == nil {
		list = []colormath.Color{}
	}
	if err := kv.SetJSON(ctx, s.kv, s.key, list); err != nil {
		return fmt.Errorf("save favorites: %w", err)
	}
	return nil
}

// Add appends c unless it is already present.
func (s *Store) Add(ctx context.Context, c colormath.Color) error {
	if !c.Valid() {
		return fmt.Errorf("add favorite: %w: %q", colormath.ErrMalformedHex, c)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return err
	}

	if lo.Contains(list, c) {
		return nil
	}

	return s.save(ctx, append(list, c))
}

// Remove drops every entry equal to c. Removing an absent color is a no-op.
func (s *Store) Remove(ctx context.Context, c colormath.Color) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return err
	}

	if !lo.Contains(list, c) {
		return nil
	}

	return s.save(ctx, lo.Without(list, c))
}

// Contains reports whether c is saved.
func (s *Store) Contains(ctx context.Context, c colormath.Color) (bool, error) {
	list, err := s.Load(ctx)
	if err != nil {
		return false, err
	}
	return lo.Contains(list, c), nil
}
