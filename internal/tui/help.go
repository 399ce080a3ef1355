package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// renderHelp renders the help overlay content.
func renderHelp(h help.Model, width int) string {
	maxWidth := 60
	if width-4 < maxWidth {
		maxWidth = width - 4
	}
	if maxWidth < 30 {
		maxWidth = 30
	}

	h.ShowAll = true
	sections := []string{
		overlayTitleStyle.Render("Keyboard Shortcuts"),
		h.View(keys),
		"",
		lipgloss.NewStyle().Foreground(colorDim).Render("Press Esc or ? to close"),
	}
	return overlayStyle.Width(maxWidth).Render(strings.Join(sections, "\n"))
}
