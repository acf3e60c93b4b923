// Package exec runs the external commands a recipe depends on: package
// managers, framework generators, and version control.
//
// The package has three parts:
//
// 1. Command - an immutable description of one invocation (argv, working
// directory, extra environment, optional spinner message), built fluently.
// 2. Runner - the interface recipes depend on. Executor is the real
// implementation; tests substitute a recording fake.
// 3. Quote/Join - POSIX shell escaping used to render command lines.
//
// # Basic Usage
//
//	executor := exec.NewExecutor(nil)
//	res, err := executor.Run(ctx, exec.NewCommand("git", "checkout", ref).In(cloneDir))
//
// Commands never go through a shell. Arguments are passed to the child as
// argv, so a branch name or path cannot inject shell syntax. Command.String
// renders a display line in which every argument is escaped individually.
//
// # Failure Policy
//
// A non-zero exit is returned as *ExitError carrying the exit code and the
// combined output. Callers treat it as fatal unless they explicitly opt in
// to best-effort handling with Tolerate.
package exec
