package tui

import "github.com/mic-monitor/mic-monitor/internal/render"

// FrameMsg carries a newly rendered frame.
type FrameMsg struct {
	Frame render.Frame
}

// StartedMsg signals that the core finished starting.
type StartedMsg struct{}

// quitMsg signals that the app asked the UI to exit.
type quitMsg struct{}

// statusMsg shows a transient note in the status bar.
type statusMsg struct {
	text string
}

// clearStatusMsg clears the note.
type clearStatusMsg struct{}
