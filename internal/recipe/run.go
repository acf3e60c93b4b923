package recipe

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/simonhull/firebird-suite/hatch/internal/exec"
	"github.com/simonhull/firebird-suite/hatch/internal/generator"
	"github.com/simonhull/firebird-suite/hatch/internal/logging"
	"github.com/simonhull/firebird-suite/hatch/internal/output"
	"github.com/simonhull/firebird-suite/hatch/internal/source"
)

// Options configures Run.
type Options struct {
	Root     string // Project directory
	AppName  string // Defaults to the base name of Root
	AppConst string // Application module, e.g. "MyAPI"; defaults to AppName camelized
	Template string // Template source reference; empty means Bundled alone

	Fresh    bool // Ignore the state file and run every step
	DryRun   bool
	Lenient  bool // Unmatched patches warn instead of failing
	ShowDiff bool

	StateFile string // Relative to Root (default DefaultStateFile)
	Framework Framework
	Conflicts *generator.Resolver // Template files that differ; nil overwrites

	Runner   exec.Runner
	Resolver *source.Resolver // Defaults to a resolver using Runner
	Bundled  fs.FS            // Lowest-priority template files
	Writer   io.Writer        // Defaults to output.Writer()
	Log      *zerolog.Logger
}

// Run applies r to the project at opts.Root.
//
// A non-empty template source is resolved first and released when Run
// returns, whatever the outcome. Without one, Bundled supplies every template
// file; only when Bundled is also nil does the directory holding the
// executable serve as the source. Steps then run strictly in order; the first failure
// stops the run and is returned as a *StepError. Nothing is retried or
// rolled back.
func Run(ctx context.Context, r Recipe, opts Options) (err error) {
	if err := r.Validate(); err != nil {
		return err
	}
	if opts.Runner == nil {
		return fmt.Errorf("recipe %s: no command runner", r.Name)
	}

	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return fmt.Errorf("resolving project root: %w", err)
	}

	log := logging.Get("recipe")
	if opts.Log != nil {
		log = *opts.Log
	}
	out := opts.Writer
	if out == nil {
		out = output.Writer()
	}

	paths := source.NewPaths()
	if opts.Bundled != nil {
		paths.Append("(bundled)", opts.Bundled)
	}

	var src *source.Source
	templateDir := "(bundled)"
	if opts.Template != "" || opts.Bundled == nil {
		resolver := opts.Resolver
		if resolver == nil {
			resolver = source.NewResolver(opts.Runner).WithLogger(log)
		}
		if src, err = resolver.Resolve(ctx, opts.Template); err != nil {
			return err
		}
		defer func() {
			if cerr := src.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("removing template checkout: %w", cerr)
			}
		}()
		paths.Prepend(src.Dir)
		templateDir = src.Dir
	}

	stateFile := opts.StateFile
	if stateFile == "" {
		stateFile = DefaultStateFile
	}
	if !filepath.IsAbs(stateFile) {
		stateFile = filepath.Join(root, stateFile)
	}
	state, err := LoadState(stateFile, r.Name)
	if err != nil {
		return err
	}
	if opts.Fresh {
		state.Reset()
	}

	appName := opts.AppName
	if appName == "" {
		appName = filepath.Base(root)
	}
	appConst := opts.AppConst
	if appConst == "" {
		appConst = generator.Camelize(appName)
	}

	env := &Env{
		Root:     root,
		AppName:  appName,
		AppConst: appConst,
		Runner:   opts.Runner,
		Paths:    paths,
		Source:   src,
		Patch: generator.ExecuteOptions{
			DryRun:   opts.DryRun,
			Lenient:  opts.Lenient,
			ShowDiff: opts.ShowDiff,
			Writer:   out,
			Log:      &log,
		},
		Conflicts: opts.Conflicts,
		Framework: opts.Framework,
		State:     state,
		DryRun:    opts.DryRun,
		Out:       out,
		Log:       log,
	}

	log.Info().
		Str("recipe", r.Name).
		Str("root", root).
		Str("template", templateDir).
		Bool("dryRun", opts.DryRun).
		Msg("Applying recipe")

	total := len(r.Steps)
	for i, step := range r.Steps {
		if err := ctx.Err(); err != nil {
			return &StepError{Step: step.Name, Err: err}
		}

		label := fmt.Sprintf("[%d/%d] %s", i+1, total, describe(step))
		if state.Done(step.Name) {
			output.Step(label + " (already applied)")
			log.Debug().Str("step", step.Name).Msg("Skipping applied step")
			continue
		}
		output.Header(label)

		if step.Check != nil {
			if cerr := step.Check(ctx, env); cerr != nil {
				perr := &PreconditionError{Step: step.Name, Err: cerr}
				if !opts.DryRun {
					return &StepError{Step: step.Name, Err: perr}
				}
				output.Warn(perr.Error())
			}
		}

		log.Debug().Str("step", step.Name).Msg("Running step")
		if err := step.Run(ctx, env); err != nil {
			log.Error().Err(err).Str("step", step.Name).Msg("Step failed")
			return &StepError{Step: step.Name, Err: err}
		}

		state.Mark(step.Name)
		if !opts.DryRun {
			if err := state.Save(); err != nil {
				return &StepError{Step: step.Name, Err: err}
			}
		}
	}

	return nil
}

func describe(s Step) string {
	if s.Description != "" {
		return s.Description
	}
	return s.Name
}

// Status pairs each step of r with whether state records it as applied.
type Status struct {
	Step    Step
	Applied bool
}

// Statuses reports the applied state of every step in order.
func Statuses(r Recipe, state *State) []Status {
	out := make([]Status, len(r.Steps))
	for i, s := range r.Steps {
		out[i] = Status{Step: s, Applied: state != nil && state.Done(s.Name)}
	}
	return out
}
