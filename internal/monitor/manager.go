// Package monitor manages loopback modules, one per monitored source.
//
// Each source is either Idle (no entry in the active map) or Monitoring
// (entry present). Operations on one source are serialized; operations on
// different sources run concurrently. The shared state lock is taken only
// around map reads and writes, never across a pactl call.
package monitor

import (
	"context"
	"log"
	"sync"

	"github.com/mic-monitor/mic-monitor/internal/state"
)

// Loopbacks loads and unloads loopback modules.
type Loopbacks interface {
	EnableLoopback(ctx context.Context, source string) (int, bool)
	DisableLoopback(ctx context.Context, id int) bool
}

// Renderer redraws after a state change.
type Renderer interface {
	Render()
}

// Manager toggles monitoring per source.
type Manager struct {
	gw     Loopbacks
	store  *state.Store
	render Renderer

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	closedMu sync.RWMutex
	closed   bool
}

// NewManager creates a Manager.
func NewManager(gw Loopbacks, store *state.Store, render Renderer) *Manager {
	return &Manager{
		gw:     gw,
		store:  store,
		render: render,
		locks:  make(map[string]*sync.Mutex),
	}
}

// sourceLock returns the mutex serializing operations on source.
func (m *Manager) sourceLock(source string) *sync.Mutex {
	m.locksMu.Lock()
	defer m.locksMu.Unlock()
	l, ok := m.locks[source]
	if !ok {
		l = &sync.Mutex{}
		m.locks[source] = l
	}
	return l
}

// Toggle flips monitoring for source and renders.
//
// Disabling forgets the module even if the unload fails: retrying forever
// would wedge the UI, so a failed unload may leak the external module.
// Enabling that fails leaves the source Idle.
func (m *Manager) Toggle(ctx context.Context, source string) {
	if source == "" {
		return
	}
	l := m.sourceLock(source)
	l.Lock()
	defer l.Unlock()

	if id, ok := m.store.ActiveModule(source); ok {
		m.disable(ctx, source, id)
	} else {
		m.enable(ctx, source)
	}
	m.render.Render()
}

// Enable starts monitoring source if it is Idle.
func (m *Manager) Enable(ctx context.Context, source string) bool {
	if source == "" {
		return false
	}
	l := m.sourceLock(source)
	l.Lock()
	defer l.Unlock()

	if _, ok := m.store.ActiveModule(source); ok {
		return true
	}
	ok := m.enable(ctx, source)
	m.render.Render()
	return ok
}

// Disable stops monitoring source if it is Monitoring.
func (m *Manager) Disable(ctx context.Context, source string) {
	l := m.sourceLock(source)
	l.Lock()
	defer l.Unlock()

	id, ok := m.store.ActiveModule(source)
	if !ok {
		return
	}
	m.disable(ctx, source, id)
	m.render.Render()
}

func (m *Manager) enable(ctx context.Context, source string) bool {
	m.closedMu.RLock()
	defer m.closedMu.RUnlock()
	if m.closed {
		log.Printf("[monitor] shutting down, not enabling %s", source)
		return false
	}

	id, ok := m.gw.EnableLoopback(ctx, source)
	if !ok {
		log.Printf("[monitor] failed to enable loopback for %s", source)
		return false
	}
	m.store.SetActiveModule(source, id)
	log.Printf("[monitor] enabled %s (module %d)", source, id)
	return true
}

func (m *Manager) disable(ctx context.Context, source string, id int) {
	if !m.gw.DisableLoopback(ctx, id) {
		log.Printf("Warning: [monitor] failed to unload module %d for %s; forgetting it", id, source)
	}
	m.store.RemoveActiveModuleIf(source, id)
	log.Printf("[monitor] disabled %s (module %d)", source, id)
}

// DisableAll unloads every active module. A failure on one module does not
// stop the others, and every snapshotted entry is forgotten.
func (m *Manager) DisableAll(ctx context.Context) {
	m.disableAll(ctx)
	m.render.Render()
}

func (m *Manager) disableAll(ctx context.Context) {
	active := m.store.ActiveModules()
	if len(active) == 0 {
		return
	}

	var wg sync.WaitGroup
	for source, id := range active {
		wg.Add(1)
		go func(source string, id int) {
			defer wg.Done()
			if !m.gw.DisableLoopback(ctx, id) {
				log.Printf("Warning: [monitor] failed to unload module %d for %s", id, source)
			}
		}(source, id)
	}
	wg.Wait()

	for source, id := range active {
		m.store.RemoveActiveModuleIf(source, id)
	}
	log.Printf("[monitor] disabled %d loopback(s)", len(active))
}

// QuickToggle is the left-click action: with anything monitored it turns
// everything off, otherwise it monitors the default source. It does nothing
// unless the left-click preference is on, and reports whether it acted.
func (m *Manager) QuickToggle(ctx context.Context) bool {
	v := m.store.QuickToggleView()
	if !v.Enabled {
		return false
	}

	switch {
	case v.AnyActive:
		m.DisableAll(ctx)
	case v.DefaultSource != "":
		m.Enable(ctx, v.DefaultSource)
	default:
		m.render.Render()
	}
	return true
}

// Close refuses further enables, unloads every module and leaves the active
// map empty. Unload failures are logged; Close always completes.
func (m *Manager) Close(ctx context.Context) {
	m.closedMu.Lock()
	m.closed = true
	m.closedMu.Unlock()

	m.disableAll(ctx)

	// Anything that slipped in between the snapshot and the close.
	for source, id := range m.store.ClearActiveModules() {
		if !m.gw.DisableLoopback(ctx, id) {
			log.Printf("Warning: [monitor] failed to unload module %d for %s during shutdown", id, source)
		}
	}
	m.render.Render()
}
