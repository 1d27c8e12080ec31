// Package output prints styled messages for the destructgen CLI.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)

	verboseMode bool
	out         io.Writer = os.Stdout
)

func SetVerbose(v bool) {
	verboseMode = v
}

// SetOutput redirects all messages, mainly for tests.
func SetOutput(w io.Writer) {
	out = w
}

func Success(msg string) {
	fmt.Fprintln(out, successStyle.Render("✅ "+msg))
}

func Error(msg string) {
	fmt.Fprintln(out, errorStyle.Render("❌ "+msg))
}

func Info(msg string) {
	fmt.Fprintln(out, infoStyle.Render("ℹ️  "+msg))
}

// Step prints an indented sub-item.
func Step(msg string) {
	fmt.Fprintln(out, stepStyle.Render("   "+msg))
}

// Verbose prints only when verbose mode is on.
func Verbose(msg string) {
	if verboseMode {
		fmt.Fprintln(out, stepStyle.Render("🔍 "+msg))
	}
}

// Table prints rows as left-aligned columns under a header row.
func Table(header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	render := func(cells []string, style *lipgloss.Style) string {
		parts := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			cell = lipgloss.NewStyle().Width(widths[i]).Render(cell)
			if style != nil {
				cell = style.Render(cell)
			}
			parts[i] = cell
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	fmt.Fprintln(out, render(header, &headerStyle))
	for _, row := range rows {
		fmt.Fprintln(out, render(row, nil))
	}
}
