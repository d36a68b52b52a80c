package ui

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// StyledRenderer draws a single in-place status line while indexing and a
// bordered summary at the end. Warnings are printed above the status line.
type StyledRenderer struct {
	mu      sync.Mutex
	out     io.Writer
	styles  Styles
	dir     string
	lineLen int
	warns   int
}

// NewStyledRenderer creates a renderer for interactive terminals.
func NewStyledRenderer(cfg Config) *StyledRenderer {
	return &StyledRenderer{
		out:    cfg.Output,
		styles: GetStyles(cfg.NoColor),
		dir:    cfg.CorpusDir,
	}
}

// Start implements Renderer.
func (r *StyledRenderer) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	header := r.styles.Header.Render("lexidx")
	if r.dir != "" {
		header += " " + r.styles.Label.Render(r.dir)
	}
	_, _ = fmt.Fprintln(r.out, header)
	return nil
}

// UpdateProgress implements Renderer.
func (r *StyledRenderer) UpdateProgress(event ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg := event.Message
	if msg == "" && event.CurrentFile != "" {
		msg = filepath.Base(event.CurrentFile)
	}

	line := r.styles.Stage.Render(fmt.Sprintf("%-9s", event.Stage.String()))
	if event.Current > 0 {
		line += " " + r.styles.Success.Render(fmt.Sprintf("%6d", event.Current))
	}
	if msg != "" {
		line += " " + r.styles.Label.Render(msg)
	}
	r.redraw(line)
}

// AddError implements Renderer.
func (r *StyledRenderer) AddError(event ErrorEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clearLine()
	style, tag := r.styles.Error, "error"
	if event.IsWarn {
		style, tag = r.styles.Warning, "skip"
		r.warns++
	}
	if event.File != "" {
		_, _ = fmt.Fprintf(r.out, "%s %s: %v\n", style.Render(tag), event.File, event.Err)
	} else {
		_, _ = fmt.Fprintf(r.out, "%s %v\n", style.Render(tag), event.Err)
	}
}

// Complete implements Renderer.
func (r *StyledRenderer) Complete(stats CompletionStats) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clearLine()

	rows := []string{
		r.styles.Success.Render("Indexed"),
		r.row("documents", fmt.Sprintf("%d", stats.Documents)),
		r.row("terms", fmt.Sprintf("%d", stats.Terms)),
	}
	if stats.Skipped > 0 {
		rows = append(rows, r.row("skipped", r.styles.Warning.Render(fmt.Sprintf("%d", stats.Skipped))))
	}
	rows = append(rows, r.row("time", stats.Duration.Round(time.Millisecond).String()))
	if stats.IndexPath != "" {
		rows = append(rows, r.row("saved", stats.IndexPath))
	}

	_, _ = fmt.Fprintln(r.out, r.styles.Panel.Render(strings.Join(rows, "\n")))
}

// Stop implements Renderer.
func (r *StyledRenderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearLine()
	return nil
}

func (r *StyledRenderer) row(label, value string) string {
	return r.styles.Label.Render(fmt.Sprintf("%-10s", label)) + value
}

// redraw replaces the current status line. Caller holds r.mu.
func (r *StyledRenderer) redraw(line string) {
	pad := ""
	if n := len(line); n < r.lineLen {
		pad = strings.Repeat(" ", r.lineLen-n)
	}
	_, _ = fmt.Fprintf(r.out, "\r%s%s", line, pad)
	r.lineLen = len(line)
}

// clearLine erases the status line. Caller holds r.mu.
func (r *StyledRenderer) clearLine() {
	if r.lineLen == 0 {
		return
	}
	_, _ = fmt.Fprintf(r.out, "\r%s\r", strings.Repeat(" ", r.lineLen))
	r.lineLen = 0
}
