// Package registry maintains the snapshot of available input sources.
package registry

import (
	"context"
	"log"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/mic-monitor/mic-monitor/internal/models"
)

// Enumerator lists sources through the sound server.
type Enumerator interface {
	ListInputSources(ctx context.Context) []string
	DescribeSources(ctx context.Context) map[string]string
	DefaultSource(ctx context.Context) string
}

// Store receives new snapshots.
type Store interface {
	SetRegistry(models.Registry)
}

// Renderer redraws after a state change.
type Renderer interface {
	Render()
}

// Registry re-enumerates sources on demand.
type Registry struct {
	enum   Enumerator
	store  Store
	render Renderer
	group  singleflight.Group

	// pending is set by every caller and cleared when a build starts, so a
	// caller that joins a running build still gets one that started after it.
	pending atomic.Bool

	mu   sync.Mutex
	last models.Registry
}

// New creates a Registry.
func New(enum Enumerator, store Store, render Renderer) *Registry {
	return &Registry{enum: enum, store: store, render: render}
}

// Refresh enumerates sources and swaps the snapshot in. Calls made while a
// refresh is running share it, and the running refresh enumerates once more
// before returning so that no caller sees a listing older than its call.
func (r *Registry) Refresh(ctx context.Context) models.Registry {
	r.pending.Store(true)
	for {
		v, _, _ := r.group.Do("refresh", func() (any, error) {
			for r.pending.Swap(false) {
				snap := r.build(ctx)
				r.mu.Lock()
				r.last = snap
				r.mu.Unlock()
				r.store.SetRegistry(snap)
				r.render.Render()
			}
			r.mu.Lock()
			defer r.mu.Unlock()
			return r.last, nil
		})
		if !r.pending.Load() {
			return v.(models.Registry)
		}
	}
}

// RefreshAsync runs Refresh on its own goroutine.
func (r *Registry) RefreshAsync(ctx context.Context) {
	go r.Refresh(ctx)
}

// build queries the three views independently. The default may change
// between calls; the next refresh picks that up.
func (r *Registry) build(ctx context.Context) models.Registry {
	names := r.enum.ListInputSources(ctx)
	descriptions := r.enum.DescribeSources(ctx)
	def := r.enum.DefaultSource(ctx)

	sources := make([]models.Source, 0, len(names))
	for _, n := range names {
		desc, ok := descriptions[n]
		if !ok || desc == "" {
			desc = n
		}
		sources = append(sources, models.Source{Name: n, Description: desc})
	}

	log.Printf("[registry] %d input source(s), default %q", len(sources), def)
	return models.Registry{Sources: sources, DefaultSource: def}
}
