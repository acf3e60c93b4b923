// Package output provides styled terminal output for the hatch CLI.
//
// Messages go to a single writer (stdout by default) so tests and the
// dry-run printer can capture them. Styling uses lipgloss, the same way
// every tool in the Firebird Suite renders its console output.
package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)

	mu          sync.Mutex
	out         io.Writer = os.Stdout
	verboseMode bool
)

// SetVerbose enables or disables verbose output for debugging.
// This should be called by the CLI when the --verbose flag is set.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verboseMode = v
}

// IsVerbose reports whether verbose output is enabled.
func IsVerbose() bool {
	mu.Lock()
	defer mu.Unlock()
	return verboseMode
}

// SetWriter redirects all output. Passing nil restores stdout.
// It returns the previous writer so callers can restore it.
func SetWriter(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := out
	if w == nil {
		w = os.Stdout
	}
	out = w
	return prev
}

// Writer returns the current output writer.
func Writer() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return out
}

func emit(s string) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(out, s)
}

// Success prints a success message with 🐣 emoji and green color.
//
// Example:
//
//	output.Success("Created project: myapp")
func Success(msg string) {
	emit(successStyle.Render("🐣 " + msg))
}

// Error prints an error message with ❌ emoji and red color.
func Error(msg string) {
	emit(errorStyle.Render("❌ " + msg))
}

// Warn prints a warning with ⚠️ emoji and yellow color.
// Use this for problems that did not stop the run.
func Warn(msg string) {
	emit(warnStyle.Render("⚠️  " + msg))
}

// Info prints an informational message with ℹ️ emoji and cyan color.
func Info(msg string) {
	emit(infoStyle.Render("ℹ️  " + msg))
}

// Header prints a step banner, e.g. "==> authentication".
func Header(msg string) {
	emit(headerStyle.Render("==> " + msg))
}

// Step prints an indented message in gray.
//
// Example:
//
//	output.Step("cd myapp")
func Step(msg string) {
	emit(stepStyle.Render("   " + msg))
}

// Verbose prints a debug message with 🔍 emoji only if verbose mode is enabled.
func Verbose(msg string) {
	if IsVerbose() {
		emit(stepStyle.Render("🔍 " + msg))
	}
}
