package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/mic-monitor/mic-monitor/internal/menu"
	"github.com/mic-monitor/mic-monitor/internal/render"
)

func renderHeader(f render.Frame) string {
	title := monitoringOffStyle.Render(f.Title)
	if f.State.Monitoring() {
		title = monitoringOnStyle.Render(f.Title)
	}

	parts := []string{headerStyle.Render("mic-monitor"), title}
	if f.State.Muted {
		parts = append(parts, mutedStyle.Render("muted"))
	}
	if f.State.AudioActive {
		parts = append(parts, audioStyle.Render("audio"))
	}
	return strings.Join(parts, "  ")
}

// renderItems draws the menu as a list, one line per item.
func renderItems(items []menu.Item, cursor, width int) string {
	var lines []string
	for i, it := range items {
		if it.Action == menu.ActionSeparator {
			lines = append(lines, separatorStyle.Render(strings.Repeat("─", width)))
			continue
		}

		label := it.Label
		if it.Checkable {
			mark := "[ ] "
			if it.Checked {
				mark = "[x] "
			}
			label = mark + label
		}
		if width > 0 {
			label = ansi.Truncate(label, width, "…")
		}

		var style lipgloss.Style
		switch {
		case !it.Enabled:
			style = itemDisabledStyle
		case it.Checked && it.Action == menu.ActionToggleSource:
			style = itemActiveStyle
		default:
			style = itemStyle
		}

		line := style.Render(label)
		if i == cursor && selectable(it) {
			line = selectedItemStyle.Width(width).Render(label)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
