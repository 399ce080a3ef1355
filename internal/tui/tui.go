// Package tui implements the terminal front end used with --foreground.
package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mic-monitor/mic-monitor/internal/menu"
	"github.com/mic-monitor/mic-monitor/internal/render"
)

// Controller is what the TUI drives.
type Controller interface {
	menu.Handlers
	Items() []menu.Item
	QuickToggle() bool
	DisableAll()
}

// programRef is a shared reference to the tea.Program for goroutine sends.
// It's set after tea.NewProgram but before p.Run().
type programRef struct {
	mu sync.Mutex
	p  *tea.Program
}

func (r *programRef) Set(p *tea.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = p
}

func (r *programRef) Send(msg tea.Msg) {
	r.mu.Lock()
	p := r.p
	r.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// Clear nils out the program reference, preventing post-exit sends.
func (r *programRef) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = nil
}

// Update implements render.Sink by forwarding frames into the program.
func (r *programRef) Update(f render.Frame) {
	r.Send(FrameMsg{Frame: f})
}

// Options configures Run.
type Options struct {
	// Attach is called with the sink before Start. Frames sent to it reach
	// the UI.
	Attach func(render.Sink)
	// Start runs once the program loop is up, so its renders are delivered.
	Start func()
	// Quit is closed when the app wants the UI to exit.
	Quit <-chan struct{}
}

// Run runs the TUI until the user quits or opts.Quit is closed.
func Run(ctrl Controller, opts Options) error {
	ref := &programRef{}
	model := NewModel(ctrl, ref, opts.Start, opts.Quit)

	p := tea.NewProgram(model, tea.WithAltScreen())

	// Store program reference for goroutine sends
	ref.Set(p)
	if opts.Attach != nil {
		opts.Attach(ref)
	}

	_, err := p.Run()
	ref.Clear()
	return err
}
