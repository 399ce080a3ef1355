package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mic-monitor/mic-monitor/internal/menu"
	"github.com/mic-monitor/mic-monitor/internal/render"
	"github.com/mic-monitor/mic-monitor/internal/state"
)

// Model is the root Bubbletea model for the TUI.
type Model struct {
	ctrl  Controller
	start func()
	quit  <-chan struct{}

	// Latest frame and the menu it was drawn with
	frame   render.Frame
	items   []menu.Item
	started bool

	// UI state
	cursor   int // index into items; always a selectable item when any exist
	showHelp bool
	status   string
	width    int
	height   int
	help     help.Model

	// Program reference for goroutine Send()
	program *programRef
}

// NewModel creates the initial TUI model.
func NewModel(ctrl Controller, program *programRef, start func(), quit <-chan struct{}) Model {
	return Model{
		ctrl:    ctrl,
		start:   start,
		quit:    quit,
		help:    help.New(),
		program: program,
		frame:   render.Frame{Title: render.Title(state.RenderState{})},
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(startCmd(m.start), waitQuitCmd(m.quit))
}

func startCmd(start func()) tea.Cmd {
	return func() tea.Msg {
		if start != nil {
			start()
		}
		return StartedMsg{}
	}
}

func waitQuitCmd(quit <-chan struct{}) tea.Cmd {
	if quit == nil {
		return nil
	}
	return func() tea.Msg {
		<-quit
		return quitMsg{}
	}
}

// Update processes messages and returns an updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case FrameMsg:
		m.frame = msg.Frame
		m.setItems(m.ctrl.Items())
		return m, nil

	case StartedMsg:
		m.started = true
		m.setItems(m.ctrl.Items())
		return m, nil

	case statusMsg:
		m.status = msg.text
		return m, clearStatusAfter(3 * time.Second)

	case clearStatusMsg:
		m.status = ""
		return m, nil

	case quitMsg:
		return m, m.doQuit()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.showHelp {
		if key.Matches(msg, keys.Help) || msg.String() == "esc" {
			m.showHelp = false
			return nil
		}
		if !key.Matches(msg, keys.Quit) {
			return nil
		}
	}

	switch {
	case key.Matches(msg, keys.Quit):
		m.ctrl.Quit()
		return m.doQuit()
	case key.Matches(msg, keys.Help):
		m.showHelp = true
	case key.Matches(msg, keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, keys.Toggle):
		if m.cursor < len(m.items) {
			item := m.items[m.cursor]
			if item.Action == menu.ActionQuit {
				m.ctrl.Quit()
				return m.doQuit()
			}
			return dispatchCmd(m.ctrl, item)
		}
	case key.Matches(msg, keys.AllOff):
		return runCmd(m.ctrl.DisableAll)
	case key.Matches(msg, keys.QuickToggle):
		return quickToggleCmd(m.ctrl)
	case key.Matches(msg, keys.LeftClick):
		return runCmd(m.ctrl.ToggleLeftClick)
	case key.Matches(msg, keys.Refresh):
		m.ctrl.Refresh()
		return statusCmd("Refreshing sources...")
	}
	return nil
}

// dispatchCmd runs the click off the UI loop; the result arrives as a frame.
func dispatchCmd(ctrl Controller, item menu.Item) tea.Cmd {
	return func() tea.Msg {
		menu.Dispatch(ctrl, item)
		return nil
	}
}

func runCmd(fn func()) tea.Cmd {
	return func() tea.Msg {
		fn()
		return nil
	}
}

func quickToggleCmd(ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		if !ctrl.QuickToggle() {
			return statusMsg{text: "Quick toggle is off (press l to enable)"}
		}
		return nil
	}
}

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

func (m *Model) doQuit() tea.Cmd {
	m.program.Clear()
	return tea.Quit
}

// setItems replaces the list, keeping the cursor on the same entry when it
// still exists.
func (m *Model) setItems(items []menu.Item) {
	var prev menu.Item
	if m.cursor < len(m.items) {
		prev = m.items[m.cursor]
	}
	m.items = items

	for i, it := range items {
		if selectable(it) && it.Action == prev.Action && it.Source == prev.Source && it.Pinned == prev.Pinned {
			m.cursor = i
			return
		}
	}
	m.cursor = 0
	if len(items) > 0 && !selectable(items[0]) {
		m.moveCursor(1)
	}
}

// moveCursor steps over separators and disabled items.
func (m *Model) moveCursor(delta int) {
	for i := m.cursor + delta; i >= 0 && i < len(m.items); i += delta {
		if selectable(m.items[i]) {
			m.cursor = i
			return
		}
	}
}

func selectable(it menu.Item) bool {
	return it.Enabled && it.Action != menu.ActionSeparator
}

// View renders the full UI.
func (m Model) View() string {
	if !m.started {
		return lipgloss.NewStyle().
			Width(m.width).
			Foreground(colorDim).
			Render("Starting...")
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		renderHeader(m.frame),
		panelStyle.Render(renderItems(m.items, m.cursor, m.listWidth())),
		renderStatusBar(&m, m.width),
	)
	if m.showHelp {
		return renderOverlay(body, renderHelp(m.help, m.width), m.width, lipgloss.Height(body))
	}
	return body
}

func (m Model) listWidth() int {
	w := m.width - 4
	if w < 20 {
		w = 40
	}
	return w
}
