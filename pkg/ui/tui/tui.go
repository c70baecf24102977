package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// TUI represents the terminal picker
type TUI struct {
	program *tea.Program
	model   *Model
}

// NewTUI creates a picker program. The fetch and download functions run on
// command goroutines and report back through program.Send.
func NewTUI(ctx context.Context, fetch FetchFunc, download DownloadFunc, opts ...tea.ProgramOption) *TUI {
	t := &TUI{}
	t.model = NewModel(ctx, Options{
		Fetch:    fetch,
		Download: download,
		Send:     t.Send,
	})
	if len(opts) == 0 {
		opts = []tea.ProgramOption{tea.WithAltScreen()}
	}
	t.program = tea.NewProgram(t.model, opts...)
	return t
}

// Run blocks until the user quits and returns what was selected and saved.
func (t *TUI) Run() (Result, error) {
	if _, err := t.program.Run(); err != nil {
		return Result{}, fmt.Errorf("picker: %w", err)
	}
	return t.model.Result(), nil
}

// Stop stops the TUI gracefully
func (t *TUI) Stop() {
	t.model.cancel()
	t.program.Quit()
}

// Send sends a message to the TUI
func (t *TUI) Send(msg tea.Msg) {
	if t.program != nil {
		t.program.Send(msg)
	}
}
