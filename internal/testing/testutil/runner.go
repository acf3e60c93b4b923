package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/simonhull/firebird-suite/hatch/internal/exec"
)

// Handler simulates one external command.
type Handler func(cmd exec.Command) (exec.Result, error)

type route struct {
	prefix  string
	handler Handler
}

// FakeRunner records every command and dispatches to handlers registered by
// command-line prefix. Unmatched commands succeed with empty output.
type FakeRunner struct {
	mu     sync.Mutex
	calls  []exec.Command
	routes []route
}

// NewFakeRunner creates a runner with no handlers.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{}
}

// On registers h for commands whose rendered line starts with prefix.
// Later registrations take precedence.
func (f *FakeRunner) On(prefix string, h Handler) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes = append([]route{{prefix: prefix, handler: h}}, f.routes...)
	return f
}

// Fail makes commands starting with prefix exit with code and output.
func (f *FakeRunner) Fail(prefix string, code int, output string) *FakeRunner {
	return f.On(prefix, func(cmd exec.Command) (exec.Result, error) {
		res := exec.Result{ExitCode: code, Output: output}
		return res, &exec.ExitError{Command: cmd.String(), Code: code, Output: output}
	})
}

// Reply makes commands starting with prefix succeed with output.
func (f *FakeRunner) Reply(prefix, output string) *FakeRunner {
	return f.On(prefix, func(exec.Command) (exec.Result, error) {
		return exec.Result{Output: output}, nil
	})
}

// Run implements exec.Runner.
func (f *FakeRunner) Run(ctx context.Context, cmd exec.Command) (exec.Result, error) {
	if err := ctx.Err(); err != nil {
		return exec.Result{ExitCode: -1}, err
	}

	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	routes := f.routes
	f.mu.Unlock()

	line := cmd.String()
	for _, r := range routes {
		if strings.HasPrefix(line, r.prefix) {
			return r.handler(cmd)
		}
	}
	return exec.Result{}, nil
}

// Calls returns the recorded commands in order.
func (f *FakeRunner) Calls() []exec.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]exec.Command(nil), f.calls...)
}

// Lines returns the recorded commands rendered as shell lines.
func (f *FakeRunner) Lines() []string {
	calls := f.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = c.String()
	}
	return lines
}

// Index returns the position of the first recorded command starting with
// prefix, or -1.
func (f *FakeRunner) Index(prefix string) int {
	for i, line := range f.Lines() {
		if strings.HasPrefix(line, prefix) {
			return i
		}
	}
	return -1
}
