package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"igfetch/pkg/models"
)

const (
	ProgressBar   = "█"
	ProgressEmpty = "░"
	barWidth      = 24
)

// ProgressPrinter renders batch hooks on a terminal. On a TTY the progress
// line is redrawn in place, otherwise every update is its own line.
type ProgressPrinter struct {
	mu          sync.Mutex
	w           io.Writer
	interactive bool
	lineOpen    bool
	lines       []string
}

// NewProgressPrinter creates a printer writing to w
func NewProgressPrinter(w io.Writer, interactive bool) *ProgressPrinter {
	return &ProgressPrinter{w: w, interactive: interactive}
}

// Hooks returns hooks that feed this printer. Quiet mode yields no-op hooks.
func (p *ProgressPrinter) Hooks() models.Hooks {
	if IsQuietMode() {
		return models.Hooks{OnLog: p.record}
	}
	return models.Hooks{
		OnProgress: p.Progress,
		OnLog:      p.Log,
	}
}

// Lines returns every log line seen so far
func (p *ProgressPrinter) Lines() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.lines...)
}

// Progress draws the bar for completed out of total
func (p *ProgressPrinter) Progress(completed, total int, label string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	line := fmt.Sprintf("%s %d/%d %s", RenderBar(completed, total, barWidth), completed, total, label)
	if p.interactive {
		fmt.Fprintf(p.w, "\r\033[K%s", Cyan(line))
		p.lineOpen = true
		if completed >= total {
			fmt.Fprintln(p.w)
			p.lineOpen = false
		}
		return
	}
	fmt.Fprintln(p.w, line)
}

// Finish ends an open progress line, e.g. one left by a cancelled batch
func (p *ProgressPrinter) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.lineOpen {
		fmt.Fprintln(p.w)
		p.lineOpen = false
	}
}

// Log prints a log line above the progress bar
func (p *ProgressPrinter) Log(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.lines = append(p.lines, line)
	if p.lineOpen {
		fmt.Fprint(p.w, "\r\033[K")
	}
	fmt.Fprintln(p.w, colorLogLine(line))
	p.lineOpen = false
}

func (p *ProgressPrinter) record(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lines = append(p.lines, line)
}

// RenderBar draws a fixed width bar
func RenderBar(completed, total, width int) string {
	filled := width
	if total > 0 {
		filled = completed * width / total
	}
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat(ProgressBar, filled) + strings.Repeat(ProgressEmpty, width-filled) + "]"
}

func colorLogLine(line string) string {
	switch {
	case strings.HasPrefix(line, "Error"):
		return Red(line)
	case strings.HasPrefix(line, "Skipped"):
		return Dim(line)
	case strings.HasPrefix(line, "Saved"), strings.HasPrefix(line, "Found"):
		return Green(line)
	default:
		return line
	}
}
