package tui

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"igfetch/pkg/models"
)

// Message types for the TUI

// ProgressMsg mirrors a progress hook event.
type ProgressMsg struct {
	Completed int
	Total     int
	Label     string
}

// LogMsg mirrors a log hook event.
type LogMsg struct {
	Line string
}

// BatchDoneMsg is sent when the preview batch returns.
type BatchDoneMsg struct {
	Result models.BatchResult
}

// DownloadDoneMsg is sent when the downloader returns.
type DownloadDoneMsg struct {
	Summary models.DownloadSummary
	Err     error
}

// Update handles all messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = clamp(msg.Width-20, 10, 60)
		return m, nil

	case spinner.TickMsg:
		if m.phase == PhaseDone {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		pm, cmd := m.progress.Update(msg)
		if p, ok := pm.(progress.Model); ok {
			m.progress = p
		}
		return m, cmd

	case ProgressMsg:
		m.completed = msg.Completed
		m.total = msg.Total
		m.label = msg.Label
		return m, nil

	case LogMsg:
		m.addLogMessage(msg.Line)
		return m, nil

	case BatchDoneMsg:
		m.setResult(msg.Result)
		m.completed, m.total, m.label = 0, 0, ""
		return m, nil

	case DownloadDoneMsg:
		m.summary = msg.Summary
		m.downloadErr = msg.Err
		m.downloaded = true
		m.phase = PhaseDone
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "q" || key == "Q" || key == "ctrl+c" || key == "esc" {
		m.cancel()
		return m, tea.Quit
	}

	if m.phase != PhaseSelecting {
		return m, nil
	}

	m.notice = ""
	switch key {
	case "up", "k":
		m.moveCursor(-1)

	case "down", "j":
		m.moveCursor(1)

	case " ", "space":
		if item := m.current(); item != nil {
			m.manifest.Toggle(item.ID)
		}

	case "a":
		m.manifest.SelectAll()

	case "c":
		m.manifest.ClearAll()

	case "enter":
		items := m.manifest.SelectedItems()
		if len(items) == 0 {
			m.notice = "Nothing selected"
			return m, nil
		}
		return m.startDownload(items)

	case "D":
		m.manifest.SelectAll()
		items := m.manifest.SelectedItems()
		if len(items) == 0 {
			m.notice = "No media to download"
			return m, nil
		}
		return m.startDownload(items)
	}

	return m, nil
}

func (m *Model) startDownload(items []models.MediaItem) (tea.Model, tea.Cmd) {
	m.phase = PhaseDownloading
	m.completed, m.total, m.label = 0, len(items), ""
	return m, m.downloadCmd(items)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
