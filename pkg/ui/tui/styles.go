package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	neonCyan    = lipgloss.Color("#00FFFF")
	neonMagenta = lipgloss.Color("#FF00FF")
	neonGreen   = lipgloss.Color("#39FF14")
	neonYellow  = lipgloss.Color("#FFFF00")
	neonOrange  = lipgloss.Color("#FF6700")
	darkBg      = lipgloss.Color("#0A0E27")
	dimWhite    = lipgloss.Color("#B0B0B0")
	errorRed    = lipgloss.Color("#FF0000")

	logoStyle = lipgloss.NewStyle().
			Foreground(neonCyan).
			Bold(true).
			Padding(1, 0, 0, 0)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(neonMagenta).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Background(neonMagenta).
			Foreground(darkBg).
			Bold(true).
			Padding(0, 1)

	statsLabelStyle = lipgloss.NewStyle().
			Foreground(neonCyan).
			Bold(true)

	statsValueStyle = lipgloss.NewStyle().
			Foreground(neonYellow)

	successStyle = lipgloss.NewStyle().
			Foreground(neonGreen).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorRed).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(neonOrange).
			Bold(true)

	// Checklist rows
	itemStyle = lipgloss.NewStyle().
			Foreground(dimWhite).
			PaddingLeft(1)

	itemCursorStyle = lipgloss.NewStyle().
			Foreground(neonGreen).
			Bold(true).
			PaddingLeft(1)

	itemSelectedStyle = lipgloss.NewStyle().
				Foreground(neonCyan).
				PaddingLeft(1)

	groupStyle = lipgloss.NewStyle().
			Foreground(neonMagenta).
			Bold(true)

	logMessageStyle = lipgloss.NewStyle().
			Foreground(dimWhite)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Padding(1, 0, 0, 1)
)

// logLineStyle picks a color from the prefix the core uses for its log lines.
func logLineStyle(line string) lipgloss.Style {
	switch {
	case strings.HasPrefix(line, "Error"):
		return logMessageStyle.Foreground(errorRed)
	case strings.HasPrefix(line, "Skipped"):
		return logMessageStyle.Foreground(neonOrange)
	case strings.HasPrefix(line, "Saved"), strings.HasPrefix(line, "Found"):
		return logMessageStyle.Foreground(neonGreen)
	default:
		return logMessageStyle
	}
}

