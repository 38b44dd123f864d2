// Package kv provides the durable key-value store that backs favorites.
//
// Values are JSON documents replaced as a whole on every write; there is no partial update.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/eyedrop-cli/eyedrop/where"
	"github.com/samber/mo"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Store is a durable key-value store with atomic whole-value get and set.
type Store interface {
	// Get returns the value stored under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value json.RawMessage, ok bool, err error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value json.RawMessage) error

	Close() error
}

// Open returns the store for the named backend at its default location.
func Open(backend string) (Store, error) {
	switch strings.ToLower(backend) {
	case BackendFile, "":
		return NewFile(where.Store()), nil
	case BackendSQLite:
		return OpenSQLite(where.Database())
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, backend)
	}
}

// GetJSON decodes the value under key into T.
func GetJSON[T any](ctx context.Context, s Store, key string) (mo.Option[T], error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return mo.None[T](), err
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return mo.None[T](), fmt.Errorf("decode %s: %w", key, err)
	}
	return mo.Some(v), nil
}

// SetJSON encodes v and stores it under key.
func SetJSON[T any](ctx context.Context, s Store, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}
