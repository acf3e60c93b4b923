package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/mattn/go-isatty"
)

// Result is the outcome of a command that ran to completion.
type Result struct {
	ExitCode int
	Output   string // Combined stdout and stderr
}

// Runner executes commands. Recipes depend on this interface so tests can
// record invocations without spawning processes.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// Executor runs external commands synchronously.
type Executor struct {
	stdout  io.Writer
	stderr  io.Writer
	env     []string
	dir     string
	dryRun  bool
	verbose bool
	spinner bool

	// For mocking in tests
	commandFunc func(name string, args ...string) *exec.Cmd
	isTerminal  func() bool
}

// Options configures command execution
type Options struct {
	Stdout  io.Writer // Receives streamed output in verbose mode and dry-run lines
	Stderr  io.Writer // Receives the spinner
	Env     []string  // Additional environment variables for every command
	Dir     string    // Default working directory
	DryRun  bool      // Print commands instead of running them
	Verbose bool      // Stream command output while capturing it
	Spinner bool      // Allow spinners on interactive terminals
}

// NewExecutor creates an executor with sensible defaults
func NewExecutor(opts *Options) *Executor {
	if opts == nil {
		opts = &Options{Spinner: true}
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	e := &Executor{
		stdout:      opts.Stdout,
		stderr:      opts.Stderr,
		env:         opts.Env,
		dir:         opts.Dir,
		dryRun:      opts.DryRun,
		verbose:     opts.Verbose,
		spinner:     opts.Spinner,
		commandFunc: exec.Command,
	}
	e.isTerminal = func() bool { return writerIsTerminal(e.stderr) }
	return e
}

// Run executes cmd and waits for it. A non-zero exit yields *ExitError
// together with the populated Result.
func (e *Executor) Run(ctx context.Context, cmd Command) (Result, error) {
	if e.dryRun {
		fmt.Fprintf(e.stdout, "✓ [DRY RUN] run %s\n", cmd.String())
		return Result{}, nil
	}

	if cmd.Spinner != "" && e.spinner && !e.verbose && e.isTerminal() {
		return e.runWithSpinner(ctx, cmd)
	}
	return e.run(ctx, cmd, e.verbose)
}

func (e *Executor) run(ctx context.Context, c Command, stream bool) (Result, error) {
	cmd := e.commandFunc(c.Name, c.Args...)

	cmd.Dir = e.dir
	if c.Dir != "" {
		cmd.Dir = c.Dir
	}

	if env := append(append([]string(nil), e.env...), c.Env...); len(env) > 0 {
		base := cmd.Env
		if base == nil {
			base = os.Environ()
		}
		cmd.Env = append(base, env...)
	}

	var combined bytes.Buffer
	var sink io.Writer = &combined
	if stream {
		sink = io.MultiWriter(&combined, e.stdout)
	}
	cmd.Stdout = sink
	cmd.Stderr = sink

	if err := cmd.Start(); err != nil {
		if isCommandNotFound(err) {
			return Result{ExitCode: -1}, enhanceError(err, c.Name)
		}
		return Result{ExitCode: -1}, fmt.Errorf("failed to start %s: %w", c.Name, err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- cmd.Wait()
	}()

	select {
	case <-ctx.Done():
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		<-errCh
		return Result{ExitCode: -1, Output: combined.String()}, fmt.Errorf("%s cancelled: %w", c.Name, ctx.Err())
	case err := <-errCh:
		res := Result{Output: combined.String()}
		if err == nil {
			return res, nil
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, &ExitError{Command: c.String(), Code: res.ExitCode, Output: res.Output}
		}
		res.ExitCode = -1
		return res, fmt.Errorf("%s failed: %w", c.Name, err)
	}
}

// ErrNotFound is wrapped by the error returned when a binary is missing.
var ErrNotFound = errors.New("command not found")

// ExitError reports a command that ran but exited non-zero.
type ExitError struct {
	Command string
	Code    int
	Output  string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Command, e.Code)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\n" + out
	}
	return msg
}

// Tolerate swallows failures a best-effort caller can live with: a non-zero
// exit or a missing binary. Cancellation and other errors pass through.
func Tolerate(err error) error {
	var exitErr *ExitError
	if errors.As(err, &exitErr) || errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// isCommandNotFound checks if an error indicates a command was not found
func isCommandNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, exec.ErrNotFound) ||
		// Some systems return different errors
		strings.Contains(err.Error(), "executable file not found") ||
		strings.Contains(err.Error(), "command not found")
}

// enhanceError adds helpful message for missing commands
func enhanceError(err error, cmd string) error {
	return fmt.Errorf("%w: %w\n💡 Command '%s' not found. Please install it and try again", ErrNotFound, err, cmd)
}

func writerIsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
