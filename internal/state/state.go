// Package state owns the process-wide shared state behind one mutex.
//
// Every field is read and written only through Store methods, each of which
// holds the lock for the duration of a single copy or assignment. No method
// performs I/O or calls back into other components, so the lock is never held
// across a pactl invocation or a render.
package state

import (
	"maps"
	"sync"

	"github.com/mic-monitor/mic-monitor/internal/models"
)

// RenderState is the projection needed to draw the icon and title.
type RenderState struct {
	ActiveCount int
	Muted       bool
	AudioActive bool
}

// Monitoring reports whether any loopback is active.
func (r RenderState) Monitoring() bool {
	return r.ActiveCount > 0
}

// MenuView is what the menu builder needs, captured under one lock.
type MenuView struct {
	Registry        models.Registry
	Active          map[string]int
	LeftClickToggle bool
}

// IsActive reports whether source has a loopback loaded.
func (v MenuView) IsActive(source string) bool {
	_, ok := v.Active[source]
	return ok
}

// QuickToggleView is what a left click on the icon needs to decide.
type QuickToggleView struct {
	Enabled       bool
	AnyActive     bool
	DefaultSource string
}

// Store is the single owner of shared state.
type Store struct {
	mu              sync.Mutex
	registry        models.Registry
	active          map[string]int // source name -> loopback module id
	muted           bool
	audioActive     bool
	leftClickToggle bool
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{active: make(map[string]int)}
}

// RenderState captures the icon-relevant fields atomically.
func (s *Store) RenderState() RenderState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return RenderState{
		ActiveCount: len(s.active),
		Muted:       s.muted,
		AudioActive: s.audioActive,
	}
}

// MenuView captures everything the menu shows.
func (s *Store) MenuView() MenuView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return MenuView{
		Registry:        s.registry.Clone(),
		Active:          maps.Clone(s.active),
		LeftClickToggle: s.leftClickToggle,
	}
}

// QuickToggleView captures the inputs of a left-click quick toggle.
func (s *Store) QuickToggleView() QuickToggleView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return QuickToggleView{
		Enabled:       s.leftClickToggle,
		AnyActive:     len(s.active) > 0,
		DefaultSource: s.registry.DefaultSource,
	}
}

// Registry returns a copy of the current registry snapshot.
func (s *Store) Registry() models.Registry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Clone()
}

// SetRegistry swaps in a new registry snapshot.
func (s *Store) SetRegistry(r models.Registry) {
	r = r.Clone()
	s.mu.Lock()
	s.registry = r
	s.mu.Unlock()
}

// DefaultSource returns the current default source name ("" if unknown).
func (s *Store) DefaultSource() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.DefaultSource
}

// ActiveModule returns the loopback module id for source.
func (s *Store) ActiveModule(source string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.active[source]
	return id, ok
}

// ActiveModules returns a copy of the active module map.
func (s *Store) ActiveModules() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.active)
}

// SetActiveModule records that source is monitored through module id.
func (s *Store) SetActiveModule(source string, id int) {
	s.mu.Lock()
	s.active[source] = id
	s.mu.Unlock()
}

// RemoveActiveModule forgets source's module, whatever its id.
func (s *Store) RemoveActiveModule(source string) {
	s.mu.Lock()
	delete(s.active, source)
	s.mu.Unlock()
}

// RemoveActiveModuleIf forgets source only while it still maps to id, so an
// entry re-created concurrently under a new id survives.
func (s *Store) RemoveActiveModuleIf(source string, id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.active[source]; ok && cur == id {
		delete(s.active, source)
		return true
	}
	return false
}

// ClearActiveModules empties the map and returns what it held.
func (s *Store) ClearActiveModules() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.active
	s.active = make(map[string]int)
	return old
}

// SetMuted stores the mute flag and reports whether it changed.
func (s *Store) SetMuted(muted bool) (changed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed = s.muted != muted
	s.muted = muted
	return changed
}

// Muted returns the mute flag.
func (s *Store) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}

// SetAudioActive stores the activity flag and reports whether it changed.
func (s *Store) SetAudioActive(active bool) (changed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed = s.audioActive != active
	s.audioActive = active
	return changed
}

// AudioActive returns the activity flag.
func (s *Store) AudioActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.audioActive
}

// LeftClickToggle returns the left-click preference.
func (s *Store) LeftClickToggle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leftClickToggle
}

// SetLeftClickToggle sets the left-click preference.
func (s *Store) SetLeftClickToggle(v bool) {
	s.mu.Lock()
	s.leftClickToggle = v
	s.mu.Unlock()
}

// FlipLeftClickToggle inverts the left-click preference and returns the new value.
func (s *Store) FlipLeftClickToggle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leftClickToggle = !s.leftClickToggle
	return s.leftClickToggle
}
