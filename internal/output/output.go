// Package output provides consistent CLI output formatting for lexidx
// commands.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Writer provides formatted output for CLI.
type Writer struct {
	out      io.Writer
	useColor bool

	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	label   lipgloss.Style
}

// Option configures a Writer.
type Option func(*Writer)

// WithColor forces color on or off.
func WithColor(enabled bool) Option {
	return func(w *Writer) {
		w.useColor = enabled
	}
}

// New creates a Writer. Color is enabled when out is a terminal and
// NO_COLOR is unset.
func New(out io.Writer, opts ...Option) *Writer {
	w := &Writer{out: out, useColor: detectColor(out)}
	for _, opt := range opts {
		opt(w)
	}
	w.success = lipgloss.NewStyle()
	w.warning = lipgloss.NewStyle()
	w.failure = lipgloss.NewStyle()
	w.label = lipgloss.NewStyle()
	if w.useColor {
		w.success = w.success.Foreground(lipgloss.Color("154"))
		w.warning = w.warning.Foreground(lipgloss.Color("220"))
		w.failure = w.failure.Foreground(lipgloss.Color("196"))
		w.label = w.label.Foreground(lipgloss.Color("245"))
	}
	return w
}

func detectColor(out io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := out.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// Status prints a status message with an icon.
// Errors from writing are intentionally ignored for console output.
func (w *Writer) Status(icon, msg string) {
	if icon != "" {
		_, _ = fmt.Fprintf(w.out, "%s %s\n", icon, msg)
	} else {
		_, _ = fmt.Fprintf(w.out, "   %s\n", msg)
	}
}

// Statusf prints a formatted status message with an icon.
func (w *Writer) Statusf(icon, format string, args ...any) {
	w.Status(icon, fmt.Sprintf(format, args...))
}

// Println prints msg unadorned.
func (w *Writer) Println(msg string) {
	_, _ = fmt.Fprintln(w.out, msg)
}

// Printf prints a formatted line unadorned.
func (w *Writer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(w.out, format+"\n", args...)
}

// Success prints a success message with checkmark.
func (w *Writer) Success(msg string) {
	w.Status(w.success.Render("✅"), msg)
}

// Successf prints a formatted success message.
func (w *Writer) Successf(format string, args ...any) {
	w.Success(fmt.Sprintf(format, args...))
}

// Warning prints a warning message.
func (w *Writer) Warning(msg string) {
	w.Status(w.warning.Render("⚠️ "), msg)
}

// Warningf prints a formatted warning message.
func (w *Writer) Warningf(format string, args ...any) {
	w.Warning(fmt.Sprintf(format, args...))
}

// Error prints an error message.
func (w *Writer) Error(msg string) {
	w.Status(w.failure.Render("❌"), msg)
}

// Errorf prints a formatted error message.
func (w *Writer) Errorf(format string, args ...any) {
	w.Error(fmt.Sprintf(format, args...))
}

// Code prints a code block with indentation.
func (w *Writer) Code(content string) {
	_, _ = fmt.Fprintln(w.out)
	for _, line := range strings.Split(content, "\n") {
		_, _ = fmt.Fprintf(w.out, "  %s\n", line)
	}
	_, _ = fmt.Fprintln(w.out)
}

// Newline prints an empty line.
func (w *Writer) Newline() {
	_, _ = fmt.Fprintln(w.out)
}

// Table prints rows as left-aligned columns separated by two spaces. The
// first row is treated as the header.
func (w *Writer) Table(rows [][]string) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	for r, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			pad := ""
			if i < len(widths) && i < len(row)-1 {
				pad = strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
			}
			cells[i] = cell + pad
		}
		line := strings.Join(cells, "  ")
		if r == 0 {
			line = w.label.Render(line)
		}
		_, _ = fmt.Fprintln(w.out, line)
	}
}
