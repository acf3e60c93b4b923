package recipe

import (
	"context"
	"io"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/simonhull/firebird-suite/hatch/internal/exec"
	"github.com/simonhull/firebird-suite/hatch/internal/generator"
	"github.com/simonhull/firebird-suite/hatch/internal/source"
)

// Framework describes how to drive the project's web framework.
type Framework struct {
	Bin     string // Project-local CLI, e.g. "bin/rails"
	New     string // Global CLI that creates projects, e.g. "rails"
	Version string // Known version; empty means ask Bin
}

// Env is what a step sees while it runs.
type Env struct {
	Root      string
	AppName   string
	AppConst  string // Ruby module of the application, e.g. "AcmeStore"
	Runner    exec.Runner
	Paths     *source.Paths
	Source    *source.Source // Nil when only bundled templates are used
	Patch     generator.ExecuteOptions
	Conflicts *generator.Resolver // Decides on template files that already exist
	Framework Framework
	State     *State
	DryRun    bool
	Out       io.Writer
	Log       zerolog.Logger
}

// Path joins rel onto the project root.
func (e *Env) Path(rel ...string) string {
	return filepath.Join(append([]string{e.Root}, rel...)...)
}

// Command returns a command that runs in the project root.
func (e *Env) Command(name string, args ...string) exec.Command {
	return exec.NewCommand(name, args...).In(e.Root)
}

// Exec runs name with args in the project root.
func (e *Env) Exec(ctx context.Context, name string, args ...string) (exec.Result, error) {
	return e.Runner.Run(ctx, e.Command(name, args...))
}

// Resolver returns the run's conflict resolver, or one that overwrites.
func (e *Env) Resolver() *generator.Resolver {
	if e.Conflicts != nil {
		return e.Conflicts
	}
	return generator.NewResolverWith(generator.ForceStrategy{})
}

// Apply validates and executes file operations with the run's patch options.
func (e *Env) Apply(ctx context.Context, ops ...generator.Operation) error {
	return generator.Execute(ctx, ops, e.Patch)
}
