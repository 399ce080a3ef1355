// Package app wires the core components together and owns their lifecycle.
package app

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/mic-monitor/mic-monitor/internal/menu"
	"github.com/mic-monitor/mic-monitor/internal/models"
	"github.com/mic-monitor/mic-monitor/internal/monitor"
	"github.com/mic-monitor/mic-monitor/internal/registry"
	"github.com/mic-monitor/mic-monitor/internal/render"
	"github.com/mic-monitor/mic-monitor/internal/state"
	"github.com/mic-monitor/mic-monitor/internal/watch"
)

// DefaultShutdownTimeout bounds the wait for background loops on shutdown.
const DefaultShutdownTimeout = 5 * time.Second

// Gateway is everything the app needs from the sound server.
type Gateway interface {
	registry.Enumerator
	monitor.Loopbacks
	watch.MuteReader
	UnloadAllLoopbacks(ctx context.Context) bool
}

// Options configures an App.
type Options struct {
	Settings *models.Settings
	Prefs    *models.Prefs
	Gateway  Gateway

	// Capture starts the audio capture. Nil disables the activity watcher.
	Capture watch.StartFunc

	// SavePrefs persists preference changes. Nil skips persisting.
	SavePrefs func(*models.Prefs) error

	MuteInterval    time.Duration
	DeviceDir       string
	RefreshInterval time.Duration
	ShutdownTimeout time.Duration
}

// App is the running tool: shared state, render trigger, manager and
// background watchers.
type App struct {
	opts     Options
	store    *state.Store
	trigger  *render.Trigger
	registry *registry.Registry
	monitor  *monitor.Manager

	ctx    context.Context
	cancel context.CancelFunc

	// lifeMu orders Start against Shutdown. No watcher is added to wg
	// once stopped is set.
	lifeMu  sync.Mutex
	started bool
	stopped bool
	wg      sync.WaitGroup

	prefsMu sync.Mutex
	prefs   *models.Prefs

	quitOnce     sync.Once
	quit         chan struct{}
	shutdownOnce sync.Once
}

// New builds an App. Nothing runs until Start.
func New(opts Options) *App {
	if opts.Settings == nil {
		opts.Settings = models.NewSettings()
	}
	if opts.Prefs == nil {
		opts.Prefs = models.NewPrefs()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = DefaultShutdownTimeout
	}

	store := state.NewStore()
	store.SetLeftClickToggle(opts.Prefs.LeftClickToggle)
	trigger := render.NewTrigger(store, opts.Settings.Colors)

	prefs := *opts.Prefs
	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		opts:     opts,
		store:    store,
		trigger:  trigger,
		registry: registry.New(opts.Gateway, store, trigger),
		monitor:  monitor.NewManager(opts.Gateway, store, trigger),
		ctx:      ctx,
		cancel:   cancel,
		prefs:    &prefs,
		quit:     make(chan struct{}),
	}
}

// Store returns the shared state.
func (a *App) Store() *state.Store { return a.store }

// SetSink attaches the display that receives frames.
func (a *App) SetSink(s render.Sink) { a.trigger.SetSink(s) }

// Render pushes the current state to the sink.
func (a *App) Render() { a.trigger.Render() }

// Items returns the current menu layout.
func (a *App) Items() []menu.Item {
	return menu.Build(a.store.MenuView())
}

// Start cleans up stale loopback modules, loads the sources, draws the first
// frame and starts the background watchers. Cancelling ctx stops the watchers
// like Shutdown does. Start returns early once Shutdown has begun.
func (a *App) Start(ctx context.Context) {
	a.lifeMu.Lock()
	if a.started || a.stopped {
		a.lifeMu.Unlock()
		return
	}
	a.started = true
	a.lifeMu.Unlock()
	context.AfterFunc(ctx, a.cancel)

	if a.opts.Gateway.UnloadAllLoopbacks(a.ctx) {
		log.Println("[app] unloaded stale loopback modules")
	}
	if a.ctx.Err() != nil {
		return
	}
	a.registry.Refresh(a.ctx)
	if a.ctx.Err() != nil {
		return
	}
	a.trigger.Render()

	mute := watch.NewMuteWatcher(a.opts.Gateway, a.store, a.trigger, a.opts.MuteInterval)
	a.spawn("mute", mute.Run)

	if a.opts.Capture != nil {
		activity := watch.NewActivityWatcher(a.opts.Capture, a.store, a.trigger, a.opts.Settings.Audio.Threshold)
		a.spawn("activity", activity.Run)
	}

	devices := watch.NewDeviceWatcher(a.registry)
	if a.opts.DeviceDir != "" {
		devices.Dir = a.opts.DeviceDir
	}
	if a.opts.RefreshInterval > 0 {
		devices.Interval = a.opts.RefreshInterval
	}
	a.spawn("devices", devices.Run)
}

func (a *App) spawn(name string, run func(context.Context)) {
	a.lifeMu.Lock()
	defer a.lifeMu.Unlock()
	if a.stopped {
		return
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		run(a.ctx)
		log.Printf("[app] %s watcher stopped", name)
	}()
}

// Shutdown stops the watchers, unloads every loopback module and saves
// preferences. Safe to call more than once and from any goroutine.
func (a *App) Shutdown() {
	a.shutdownOnce.Do(func() {
		log.Println("[app] shutting down")
		a.lifeMu.Lock()
		a.stopped = true
		a.lifeMu.Unlock()
		a.cancel()

		ctx, cancel := context.WithTimeout(context.Background(), a.opts.ShutdownTimeout)
		defer cancel()
		a.monitor.Close(ctx)

		done := make(chan struct{})
		go func() {
			a.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(a.opts.ShutdownTimeout):
			log.Println("Warning: [app] background watchers did not stop in time")
		}

		a.savePrefs()
	})
}

// Quit asks the front end to exit. The front end then calls Shutdown.
func (a *App) Quit() {
	a.quitOnce.Do(func() {
		log.Println("[app] quit requested")
		close(a.quit)
	})
}

// QuitRequested is closed once Quit has been called.
func (a *App) QuitRequested() <-chan struct{} {
	return a.quit
}

// Toggle flips monitoring for source.
func (a *App) Toggle(source string) {
	a.monitor.Toggle(a.ctx, source)
}

// DisableAll stops monitoring every source.
func (a *App) DisableAll() {
	a.monitor.DisableAll(a.ctx)
}

// QuickToggle runs the left-click action and reports whether it acted.
func (a *App) QuickToggle() bool {
	return a.monitor.QuickToggle(a.ctx)
}

// Refresh re-enumerates sources in the background.
func (a *App) Refresh() {
	a.registry.RefreshAsync(a.ctx)
}

// LeftClickEnabled reports the left-click preference.
func (a *App) LeftClickEnabled() bool {
	return a.store.LeftClickToggle()
}

// ToggleLeftClick flips the left-click preference and persists it.
func (a *App) ToggleLeftClick() {
	v := a.store.FlipLeftClickToggle()
	log.Printf("[app] left-click toggle %v", v)

	a.prefsMu.Lock()
	a.prefs.LeftClickToggle = v
	a.prefsMu.Unlock()
	a.savePrefs()

	a.trigger.Render()
}

func (a *App) savePrefs() {
	if a.opts.SavePrefs == nil {
		return
	}
	a.prefsMu.Lock()
	prefs := *a.prefs
	a.prefsMu.Unlock()

	if err := a.opts.SavePrefs(&prefs); err != nil {
		log.Printf("Warning: [app] failed to save preferences: %v", err)
	}
}


var _ menu.Handlers = (*App)(nil)
