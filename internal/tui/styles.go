package tui

import "github.com/charmbracelet/lipgloss"

// Colors using AdaptiveColor for light/dark terminal support.
var (
	colorWhite  = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorDim    = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorGreen  = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	colorRed    = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	colorYellow = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
)

// Layout styles.
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Background(lipgloss.AdaptiveColor{Light: "235", Dark: "236"})

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
)

// Indicator styles.
var (
	monitoringOnStyle  = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	monitoringOffStyle = lipgloss.NewStyle().Foreground(colorDim)
	mutedStyle         = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	audioStyle         = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
)

// Item list styles.
var (
	itemStyle         = lipgloss.NewStyle().Foreground(colorWhite)
	itemActiveStyle   = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	itemDisabledStyle = lipgloss.NewStyle().Foreground(colorDim).Italic(true)
	separatorStyle    = lipgloss.NewStyle().Foreground(colorDim)

	selectedItemStyle = lipgloss.NewStyle().
				Background(lipgloss.AdaptiveColor{Light: "254", Dark: "237"})
)

// Overlay styles.
var (
	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorWhite).
			Padding(1, 2)

	overlayTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorWhite).
				MarginBottom(1)

	overlayDimStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)
