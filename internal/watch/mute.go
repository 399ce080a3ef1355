// Package watch runs the background observers that feed the shared state:
// mute polling, audio activity sampling and device hot-plug.
package watch

import (
	"context"
	"log"
	"time"

	"github.com/mic-monitor/mic-monitor/internal/state"
)

// DefaultMuteInterval is how often the default source's mute state is polled.
const DefaultMuteInterval = 1500 * time.Millisecond

// MuteReader reports whether a source is muted.
type MuteReader interface {
	SourceMuted(ctx context.Context, source string) bool
}

// Renderer redraws after a state change.
type Renderer interface {
	Render()
}

// MuteWatcher polls the default source's mute state.
type MuteWatcher struct {
	reader   MuteReader
	store    *state.Store
	render   Renderer
	interval time.Duration
}

// NewMuteWatcher creates a MuteWatcher. A zero interval uses
// DefaultMuteInterval.
func NewMuteWatcher(reader MuteReader, store *state.Store, render Renderer, interval time.Duration) *MuteWatcher {
	if interval <= 0 {
		interval = DefaultMuteInterval
	}
	return &MuteWatcher{reader: reader, store: store, render: render, interval: interval}
}

// Run polls until ctx is cancelled.
func (w *MuteWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

func (w *MuteWatcher) poll(ctx context.Context) {
	source := w.store.DefaultSource()

	muted := false
	if source != "" {
		muted = w.reader.SourceMuted(ctx, source)
	}
	if ctx.Err() != nil {
		return
	}

	if w.store.SetMuted(muted) {
		log.Printf("[watch] %s muted=%v", source, muted)
		w.render.Render()
	}
}
