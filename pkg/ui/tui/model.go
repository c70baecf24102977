package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"igfetch/pkg/models"
	"igfetch/pkg/selection"
)

// Phase is the stage the picker is in.
type Phase int

const (
	PhaseFetching Phase = iota
	PhaseSelecting
	PhaseDownloading
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseFetching:
		return "fetching"
	case PhaseSelecting:
		return "selecting"
	case PhaseDownloading:
		return "downloading"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// FetchFunc runs the preview batch. It is called once, off the render loop.
type FetchFunc func(ctx context.Context, hooks models.Hooks) models.BatchResult

// DownloadFunc saves the chosen items.
type DownloadFunc func(ctx context.Context, items []models.MediaItem, hooks models.Hooks) (models.DownloadSummary, error)

// Options configures a picker model.
type Options struct {
	Fetch    FetchFunc
	Download DownloadFunc
	// Send delivers messages from the batch goroutines back to the program.
	Send func(tea.Msg)
}

// row is one line of the checklist. Error rows are not selectable.
type row struct {
	url   string
	item  *models.MediaItem
	error string
}

// Model is the picker state.
type Model struct {
	spinner  spinner.Model
	progress progress.Model

	ctx    context.Context
	cancel context.CancelFunc

	fetch    FetchFunc
	download DownloadFunc
	send     func(tea.Msg)

	phase     Phase
	manifest  *selection.Manifest
	rows      []row
	cursor    int
	completed int
	total     int
	label     string

	summary     models.DownloadSummary
	downloadErr error
	downloaded  bool

	logMessages    []string
	maxLogMessages int
	notice         string

	width  int
	height int
}

// NewModel creates a picker that starts in the fetching phase.
func NewModel(ctx context.Context, opts Options) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(neonCyan)

	p := progress.New(progress.WithDefaultGradient())
	p.Width = 40

	ctx, cancel := context.WithCancel(ctx)
	return &Model{
		spinner:        s,
		progress:       p,
		ctx:            ctx,
		cancel:         cancel,
		fetch:          opts.Fetch,
		download:       opts.Download,
		send:           opts.Send,
		phase:          PhaseFetching,
		maxLogMessages: 8,
	}
}

// Init starts the spinner and the preview batch.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchCmd())
}

// Phase reports the current stage.
func (m *Model) Phase() Phase {
	return m.phase
}

// Manifest returns the selection state, nil until the preview batch finishes.
func (m *Model) Manifest() *selection.Manifest {
	return m.manifest
}

// Result is what the picker leaves behind when it exits.
type Result struct {
	Manifest   *selection.Manifest
	Summary    models.DownloadSummary
	Downloaded bool
	Err        error
}

// Result reports the selection and the download outcome, if any.
func (m *Model) Result() Result {
	return Result{
		Manifest:   m.manifest,
		Summary:    m.summary,
		Downloaded: m.downloaded,
		Err:        m.downloadErr,
	}
}

// hooks forwards core events to the program as messages.
func (m *Model) hooks() models.Hooks {
	return models.Hooks{
		OnProgress: func(completed, total int, label string) {
			m.emit(ProgressMsg{Completed: completed, Total: total, Label: label})
		},
		OnLog: func(line string) {
			m.emit(LogMsg{Line: line})
		},
	}
}

func (m *Model) emit(msg tea.Msg) {
	if m.send != nil {
		m.send(msg)
	}
}

// fetchCmd runs the preview batch as a command.
func (m *Model) fetchCmd() tea.Cmd {
	if m.fetch == nil {
		return nil
	}
	ctx, hooks, fetch := m.ctx, m.hooks(), m.fetch
	return func() tea.Msg {
		return BatchDoneMsg{Result: fetch(ctx, hooks)}
	}
}

// downloadCmd saves the given items as a command.
func (m *Model) downloadCmd(items []models.MediaItem) tea.Cmd {
	if m.download == nil {
		return nil
	}
	ctx, hooks, download := m.ctx, m.hooks(), m.download
	return func() tea.Msg {
		summary, err := download(ctx, items, hooks)
		return DownloadDoneMsg{Summary: summary, Err: err}
	}
}

// setResult builds the checklist from a finished batch.
func (m *Model) setResult(result models.BatchResult) {
	m.manifest = selection.New(result)
	m.rows = m.rows[:0]
	for _, url := range result.Order {
		if msg, failed := result.Errors[url]; failed {
			m.rows = append(m.rows, row{url: url, error: msg})
			continue
		}
		for i := range result.Media[url] {
			item := result.Media[url][i]
			m.rows = append(m.rows, row{url: url, item: &item})
		}
	}
	m.cursor = m.firstSelectable()
	m.phase = PhaseSelecting
}

func (m *Model) firstSelectable() int {
	for i, r := range m.rows {
		if r.item != nil {
			return i
		}
	}
	return 0
}

// moveCursor steps over error rows.
func (m *Model) moveCursor(delta int) {
	for i := m.cursor + delta; i >= 0 && i < len(m.rows); i += delta {
		if m.rows[i].item != nil {
			m.cursor = i
			return
		}
	}
}

func (m *Model) current() *models.MediaItem {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor].item
}

func (m *Model) addLogMessage(line string) {
	m.logMessages = append(m.logMessages, line)
	if len(m.logMessages) > m.maxLogMessages {
		m.logMessages = m.logMessages[len(m.logMessages)-m.maxLogMessages:]
	}
}

func (m *Model) percent() float64 {
	if m.total <= 0 {
		return 0
	}
	p := float64(m.completed) / float64(m.total)
	if p > 1 {
		p = 1
	}
	return p
}

func (m *Model) selectedCount() int {
	if m.manifest == nil {
		return 0
	}
	return len(m.manifest.SelectedItems())
}

func (m *Model) itemCount() int {
	if m.manifest == nil {
		return 0
	}
	return len(m.manifest.Items())
}

func pluralize(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
