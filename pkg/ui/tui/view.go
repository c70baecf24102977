package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const logo = `╦╔═╗╔═╗╔═╗╔╦╗╔═╗╦ ╦
║║ ╦╠╣ ║╣  ║ ║  ╠═╣
╩╚═╝╚  ╚═╝ ╩ ╚═╝╩ ╩`

// View renders the entire TUI
func (m *Model) View() string {
	sections := []string{logoStyle.Render(logo)}

	switch m.phase {
	case PhaseFetching:
		sections = append(sections, m.renderProgressPanel(" FETCHING PREVIEWS "))
	case PhaseSelecting:
		sections = append(sections, m.renderChecklist())
	case PhaseDownloading:
		sections = append(sections, m.renderProgressPanel(" DOWNLOADING "))
	case PhaseDone:
		sections = append(sections, m.renderSummary())
	}

	if len(m.logMessages) > 0 {
		sections = append(sections, m.renderLogs())
	}
	sections = append(sections, m.renderHelp())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderProgressPanel(title string) string {
	status := m.spinner.View() + " "
	if m.label != "" {
		status += m.label
	} else {
		status += "Starting..."
	}

	counts := fmt.Sprintf("%s %s",
		statsLabelStyle.Render("Progress:"),
		statsValueStyle.Render(fmt.Sprintf("%d/%d", m.completed, m.total)))

	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(title),
		status,
		m.progress.ViewAs(m.percent()),
		counts,
	))
}

func (m *Model) renderChecklist() string {
	title := titleStyle.Render(" SELECT MEDIA ")
	if len(m.rows) == 0 {
		return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			title, warningStyle.Render("No valid URLs found")))
	}

	start, end := m.visibleRange()
	lines := []string{title}
	lastURL := ""
	for i := start; i < end; i++ {
		r := m.rows[i]
		if r.url != lastURL {
			lines = append(lines, groupStyle.Render(r.url))
			lastURL = r.url
		}
		lines = append(lines, m.renderRow(i, r))
	}
	if start > 0 || end < len(m.rows) {
		lines = append(lines, logMessageStyle.Render(fmt.Sprintf("  (%d-%d of %d)", start+1, end, len(m.rows))))
	}

	stats := fmt.Sprintf("%s %s",
		statsLabelStyle.Render("Selected:"),
		statsValueStyle.Render(fmt.Sprintf("%d/%d", m.selectedCount(), m.itemCount())))
	lines = append(lines, "", stats)
	if m.notice != "" {
		lines = append(lines, warningStyle.Render(m.notice))
	}

	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) renderRow(i int, r row) string {
	if r.item == nil {
		return errorStyle.PaddingLeft(1).Render("  ✗ " + r.error)
	}

	pointer := " "
	if i == m.cursor {
		pointer = ">"
	}
	box := "[ ]"
	if m.manifest.IsSelected(r.item.ID) {
		box = "[x]"
	}
	text := fmt.Sprintf("%s %s %-5s %s", pointer, box, r.item.Type, r.item.Filename)

	switch {
	case i == m.cursor:
		return itemCursorStyle.Render(text)
	case m.manifest.IsSelected(r.item.ID):
		return itemSelectedStyle.Render(text)
	default:
		return itemStyle.Render(text)
	}
}

// visibleRange keeps the cursor on screen when the list is taller than the terminal.
func (m *Model) visibleRange() (int, int) {
	n := len(m.rows)
	window := n
	if m.height > 0 {
		window = clamp(m.height-20, 5, n)
	}
	if window >= n {
		return 0, n
	}
	start := m.cursor - window/2
	start = clamp(start, 0, n-window)
	return start, start + window
}

func (m *Model) renderSummary() string {
	lines := []string{titleStyle.Render(" DONE ")}
	if m.downloadErr != nil {
		lines = append(lines, errorStyle.Render("Download failed: "+m.downloadErr.Error()))
	} else {
		s := m.summary
		lines = append(lines,
			successStyle.Render(fmt.Sprintf("%s saved, %s skipped", pluralize(s.Saved, "file"), pluralize(s.Skipped, "file"))),
			fmt.Sprintf("%s %s", statsLabelStyle.Render("Location:"), statsValueStyle.Render(s.BaseDir)),
		)
		if s.Failed > 0 {
			lines = append(lines, errorStyle.Render(fmt.Sprintf("%d failed", s.Failed)))
		}
	}
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) renderLogs() string {
	var lines []string
	for _, line := range m.logMessages {
		lines = append(lines, logLineStyle(line).Render(line))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderHelp() string {
	switch m.phase {
	case PhaseSelecting:
		return helpStyle.Render("↑/↓ move • space toggle • a all • c clear • enter download selected • D download all • q quit")
	case PhaseDone:
		return helpStyle.Render("q quit")
	default:
		return helpStyle.Render("q cancel")
	}
}
