package exec

import (
	"strings"
)

// Command describes one external command invocation.
// The zero value is not useful; build commands with NewCommand.
type Command struct {
	Name    string
	Args    []string
	Dir     string   // Working directory for this call only
	Env     []string // Extra KEY=value pairs layered over the inherited environment
	Spinner string   // Spinner message; empty disables the spinner
}

// NewCommand creates a command for name with the given arguments.
func NewCommand(name string, args ...string) Command {
	return Command{
		Name: name,
		Args: append([]string(nil), args...),
	}
}

// WithArgs returns a copy of the command with args appended.
func (c Command) WithArgs(args ...string) Command {
	c.Args = append(append([]string(nil), c.Args...), args...)
	return c
}

// In returns a copy of the command that runs in dir.
func (c Command) In(dir string) Command {
	c.Dir = dir
	return c
}

// WithEnv returns a copy of the command with extra environment variables.
func (c Command) WithEnv(env ...string) Command {
	c.Env = append(append([]string(nil), c.Env...), env...)
	return c
}

// WithSpinner returns a copy of the command that shows a spinner with message
// while it runs on an interactive terminal.
func (c Command) WithSpinner(message string) Command {
	c.Spinner = message
	return c
}

// String renders the command as a shell-safe line for display and logs.
func (c Command) String() string {
	return Join(append([]string{c.Name}, c.Args...))
}

// Join quotes each argument individually and joins them with spaces.
func Join(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = Quote(a)
	}
	return strings.Join(quoted, " ")
}

// Quote escapes s for a POSIX shell. Strings made only of safe characters
// are returned unchanged; anything else is single-quoted.
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	if isShellSafe(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func isShellSafe(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("_-.,:/@%+=", r):
		default:
			return false
		}
	}
	return true
}
