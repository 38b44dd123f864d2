// Package app assembles the contexts of one process: the hub, the page that
// owns the picker and the favorites storage, all connected by a bus.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/eyedrop-cli/eyedrop/bus"
	"github.com/eyedrop-cli/eyedrop/colormath"
	"github.com/eyedrop-cli/eyedrop/config"
	"github.com/eyedrop-cli/eyedrop/favorites"
	"github.com/eyedrop-cli/eyedrop/hub"
	"github.com/eyedrop-cli/eyedrop/ipc"
	"github.com/eyedrop-cli/eyedrop/key"
	"github.com/eyedrop-cli/eyedrop/kv"
	"github.com/eyedrop-cli/eyedrop/log"
	"github.com/eyedrop-cli/eyedrop/picker"
	"github.com/eyedrop-cli/eyedrop/sampler"
	"github.com/eyedrop-cli/eyedrop/where"
	"github.com/spf13/viper"
)

// PageID is the id of the page context hosted by every process.
const PageID = "active"

// Options configure an App. Zero values are taken from the configuration.
type Options struct {
	Store   kv.Store
	Sampler sampler.Sampler

	// Alert is shown to the user when the picker cannot be engaged.
	Alert func(string)

	// TerminalHeld is set when a full-screen UI owns the terminal, which rules
	// out samplers that prompt on it.
	TerminalHeld bool
}

// App is a running hub with its page.
type App struct {
	Bus       *bus.Bus
	Hub       *hub.Hub
	Favorites *favorites.Store
	Picker    *picker.Session

	store   kv.Store
	hubEp   *bus.Endpoint
	pageEp  *bus.Endpoint
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	once    sync.Once
	surface atomic.Uint64
	log     *log.Logger
}

// New builds an App from the configuration. Nothing runs until Start.
func New(opts Options) (*App, error) {
	store := opts.Store
	if store == nil {
		var err error
		store, err = kv.Open(viper.GetString(key.StorageBackend))
		if err != nil {
			return nil, err
		}
	}

	smp := opts.Sampler
	if smp == nil {
		var err error
		resolve := sampler.Resolve
		if opts.TerminalHeld {
			resolve = sampler.ResolveHeld
		}
		smp, err = resolve(viper.GetString(key.PickerSampler), viper.GetString(key.PickerCommand))
		if err != nil {
			store.Close()
			return nil, err
		}
	}

	b := bus.New(viper.GetInt(key.BusBuffer))

	hubEp, err := b.Attach(bus.HubAddr)
	if err != nil {
		store.Close()
		return nil, err
	}

	pageEp, err := b.Attach(bus.PageAddr(PageID))
	if err != nil {
		hubEp.Close()
		store.Close()
		return nil, err
	}
	b.Focus(PageID)

	favs := favorites.New(store, viper.GetString(key.StorageFavoritesKey))

	return &App{
		Bus:       b,
		Favorites: favs,
		Hub: hub.New(hub.Options{
			DefaultColor: colormath.Color(viper.GetString(key.HubDefaultColor)),
			Favorites:    favs,
			Router:       b,
		}),
		Picker: picker.New(picker.Options{
			ID:       PageID,
			Sampler:  smp,
			Notifier: pageEp,
			Alert:    opts.Alert,
		}),
		store:  store,
		hubEp:  hubEp,
		pageEp: pageEp,
		log:    log.For("app"),
	}, nil
}

// Start runs the hub and the page until ctx ends or Close is called.
func (a *App) Start(ctx context.Context) {
	ctx, a.cancel = context.WithCancel(ctx)

	a.wg.Add(2)
	go func() {
		defer a.wg.Done()
		a.Hub.Run(ctx, a.hubEp)
	}()
	go func() {
		defer a.wg.Done()
		a.Picker.Run(ctx, a.pageEp)
	}()

	a.log.Infof("started with sampler %s", a.Picker.Sampler())
}

// Attach connects a new surface to the bus and returns its port and notifications.
// The channel closes when ctx ends or the returned function is called.
func (a *App) Attach(ctx context.Context) (bus.Port, <-chan bus.Message, func(), error) {
	id := fmt.Sprintf("surface-%d", a.surface.Add(1))
	ep, err := a.Bus.Attach(bus.SurfaceAddr(id))
	if err != nil {
		return nil, nil, nil, err
	}

	return ep, pump(ctx, ep), ep.Close, nil
}

// pump forwards the messages arriving at ep until it closes.
func pump(ctx context.Context, ep *bus.Endpoint) <-chan bus.Message {
	out := make(chan bus.Message)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ep.Done():
				return
			case env := <-ep.Inbox():
				select {
				case out <- env.Message:
				case <-ctx.Done():
					return
				case <-ep.Done():
					return
				}
			}
		}
	}()
	return out
}

// Serve exposes the bus on the configured socket until ctx ends.
func (a *App) Serve(ctx context.Context) error {
	server, err := ipc.Listen(where.Socket(), a.Bus, a.Hub, config.Milliseconds(key.IPCTimeoutMs))
	if err != nil {
		return err
	}
	defer server.Close()

	return server.Serve(ctx)
}

// Close stops the contexts and releases the storage.
func (a *App) Close() error {
	var err error
	a.once.Do(func() {
		if a.cancel != nil {
			a.cancel()
		}
		a.hubEp.Close()
		a.pageEp.Close()
		a.wg.Wait()
		err = a.store.Close()
	})
	return err
}

// Link is a surface connection to a hub, local or remote.
type Link struct {
	Port          bus.Port
	Notifications <-chan bus.Message
	Remote        bool

	close func()
}

func (l *Link) Close() {
	if l.close != nil {
		l.close()
	}
}

// Connect links a surface to the running daemon. When no daemon listens, an
// App is started in this process instead.
func Connect(ctx context.Context, opts Options) (*Link, error) {
	client, err := ipc.Dial(where.Socket(), config.Milliseconds(key.IPCTimeoutMs))
	switch {
	case err == nil:
		notifications, err := client.Subscribe(ctx)
		if err != nil {
			client.Close()
			return nil, err
		}
		return &Link{
			Port:          client,
			Notifications: notifications,
			Remote:        true,
			close:         func() { _ = client.Close() },
		}, nil

	case !errors.Is(err, ipc.ErrNotRunning):
		return nil, err
	}

	a, err := New(opts)
	if err != nil {
		return nil, err
	}
	a.Start(ctx)

	port, notifications, detach, err := a.Attach(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	return &Link{
		Port:          port,
		Notifications: notifications,
		close: func() {
			detach()
			if err := a.Close(); err != nil {
				a.log.Errorf("close: %v", err)
			}
		},
	}, nil
}
