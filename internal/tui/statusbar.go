package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func renderStatusBar(m *Model, width int) string {
	left := " " + m.help.ShortHelpView(keys.ShortHelp())
	if m.status != "" {
		left = " " + lipgloss.NewStyle().Foreground(colorYellow).Render(m.status)
	}

	right := ""
	if m.frame.State.Monitoring() {
		right = monitoringOnStyle.Render("ON") + " "
	} else {
		right = monitoringOffStyle.Render("OFF") + " "
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return statusBarStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
