package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/eyedrop-cli/eyedrop/filesystem"
	"github.com/metafates/gache"
)

// File keeps every key in a single JSON document on the afero backend.
type File struct {
	mu     sync.Mutex
	cacher *gache.Cache[map[string]json.RawMessage]
}

// NewFile returns a file store at path. The file is created on first write.
func NewFile(path string) *File {
	return &File{
		cacher: gache.New[map[string]json.RawMessage](&gache.Options{
			Path:       path,
			FileSystem: &filesystem.GacheFs{},
		}),
	}
}

func (f *File) load() (map[string]json.RawMessage, error) {
	data, expired, err := f.cacher.Get()
	if err != nil {
		return nil, fmt.Errorf("read store: %w", err)
	}
	if expired || data == nil {
		return make(map[string]json.RawMessage), nil
	}
	return data, nil
}

func (f *File) Get(ctx context.Context, key string) (json.RawMessage, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return nil, false, err
	}

	value, ok := data[key]
	return value, ok, nil
}

func (f *File) Set(ctx context.Context, key string, value json.RawMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return err
	}

	data[key] = value
	if err := f.cacher.Set(data); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	return nil
}

func (f *File) Close() error {
	return nil
}
