// Package ui renders the inline notices (success, warning, danger) shown to
// the user after each operation.
//
// Notices go to stderr so that stdout stays clean for machine-readable
// output such as --json.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var out io.Writer = os.Stderr

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	dangerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func Success(format string, args ...interface{}) {
	fmt.Fprintln(out, successStyle.Render("✓")+" "+fmt.Sprintf(format, args...))
}

func Warning(format string, args ...interface{}) {
	fmt.Fprintln(out, warningStyle.Render("!")+" "+fmt.Sprintf(format, args...))
}

func Danger(format string, args ...interface{}) {
	fmt.Fprintln(out, dangerStyle.Render("✗")+" "+fmt.Sprintf(format, args...))
}

func Dim(format string, args ...interface{}) {
	fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf(format, args...)))
}
