// Package render turns shared state into tray frames.
package render

import (
	"fmt"
	"log"
	"sync"

	"github.com/mic-monitor/mic-monitor/internal/models"
	"github.com/mic-monitor/mic-monitor/internal/state"
)

// Frame is one rendered view of the state.
type Frame struct {
	State state.RenderState
	Icon  []byte // PNG
	Title string
}

// Sink displays frames (the tray icon, or the terminal UI).
type Sink interface {
	Update(Frame)
}

// StateSource provides atomic render snapshots.
type StateSource interface {
	RenderState() state.RenderState
}

// Title returns the tooltip text for s.
func Title(s state.RenderState) string {
	if s.Monitoring() {
		return fmt.Sprintf("Monitoring: ON (%d active)", s.ActiveCount)
	}
	return "Monitoring: OFF"
}

// Trigger is the single render entry point shared by every component.
type Trigger struct {
	src     StateSource
	palette models.ColorsConfig

	// mu orders renders so a sink never receives an older snapshot after a
	// newer one. It is not the shared state lock.
	mu    sync.Mutex
	sink  Sink
	icons map[Variant][]byte
}

// NewTrigger creates a render trigger reading from src.
func NewTrigger(src StateSource, palette models.ColorsConfig) *Trigger {
	return &Trigger{
		src:     src,
		palette: palette,
		icons:   make(map[Variant][]byte),
	}
}

// SetSink attaches the display. Renders before a sink is attached are dropped.
func (t *Trigger) SetSink(s Sink) {
	t.mu.Lock()
	t.sink = s
	t.mu.Unlock()
}

// Render captures a snapshot and pushes the resulting frame to the sink.
func (t *Trigger) Render() {
	t.mu.Lock()
	defer t.mu.Unlock()

	st := t.src.RenderState()
	if t.sink == nil {
		return
	}
	t.sink.Update(t.frame(st))
}

// Frame renders st without delivering it.
func (t *Trigger) Frame(st state.RenderState) Frame {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.frame(st)
}

func (t *Trigger) frame(st state.RenderState) Frame {
	v := VariantFor(st)
	icon, ok := t.icons[v]
	if !ok {
		var err error
		icon, err = EncodeIcon(v, t.palette)
		if err != nil {
			log.Printf("[render] failed to encode icon: %v", err)
		} else {
			t.icons[v] = icon
		}
	}
	return Frame{State: st, Icon: icon, Title: Title(st)}
}
